package validation

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	apperrors "medadmit/pkg/errors"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)

// Submission is a decoded public form. Normalize trims, sanitizes and applies
// defaults; Validate must be called after Normalize; Record builds the row to
// persist.
type Submission[T any] interface {
	Normalize()
	Validate() error
	Record() *T
}

func nameRules() []ozzo.Rule {
	return []ozzo.Rule{ozzo.Required, ozzo.RuneLength(2, 100)}
}

func emailRules() []ozzo.Rule {
	return []ozzo.Rule{ozzo.Required, ozzo.RuneLength(0, 255), is.EmailFormat}
}

func phoneRules() []ozzo.Rule {
	return []ozzo.Rule{
		ozzo.Required,
		ozzo.Match(phonePattern).Error("must contain only digits, spaces, +, - or parentheses"),
		ozzo.By(phoneDigits),
	}
}

func oneOf(values []string) ozzo.Rule {
	allowed := make([]interface{}, len(values))
	for i, v := range values {
		allowed[i] = v
	}
	return ozzo.In(allowed...).Error("must be one of: " + strings.Join(values, ", "))
}

func phoneDigits(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return ozzo.NewError("validation_phone_digits", "must contain between 10 and 15 digits")
	}
	return nil
}

// canonical returns the allowed spelling matching v case-insensitively, or v unchanged.
func canonical(allowed []string, v string) string {
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return a
		}
	}
	return v
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// fieldErrors converts ozzo's per-field map into a sorted VALIDATION_ERROR.
func fieldErrors(err error) error {
	if err == nil {
		return nil
	}
	var errs ozzo.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make([]apperrors.FieldError, 0, len(errs))
	for field, ferr := range errs {
		if ferr == nil {
			continue
		}
		fields = append(fields, apperrors.FieldError{Field: field, Message: ferr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return apperrors.Validation(fields)
}
