package validation

import (
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"medadmit/internal/domain"
)

var (
	_ Submission[domain.Lead]          = (*LeadInput)(nil)
	_ Submission[domain.Contact]       = (*ContactInput)(nil)
	_ Submission[domain.Newsletter]    = (*NewsletterInput)(nil)
	_ Submission[domain.BamsAdmission] = (*BamsAdmissionInput)(nil)
	_ Submission[domain.Blog]          = (*BlogInput)(nil)
)

// LeadInput is the body of POST /api/leads
type LeadInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Exam           string `json:"exam"`
	PreferredState string `json:"preferredState"`
	Message        string `json:"message"`
	Source         string `json:"source"`
}

func (in *LeadInput) Normalize() {
	in.Name = SanitizeText(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Exam = canonical(domain.Exams, strings.TrimSpace(in.Exam))
	in.PreferredState = SanitizeText(in.PreferredState)
	in.Message = SanitizeText(in.Message)
	in.Source = strings.ToLower(SanitizeText(in.Source))
	if in.Source == "" {
		in.Source = domain.DefaultLeadSource
	}
}

func (in *LeadInput) Validate() error {
	return fieldErrors(ozzo.ValidateStruct(in,
		ozzo.Field(&in.Name, nameRules()...),
		ozzo.Field(&in.Email, emailRules()...),
		ozzo.Field(&in.Phone, phoneRules()...),
		ozzo.Field(&in.Exam, ozzo.Required, oneOf(domain.Exams)),
		ozzo.Field(&in.PreferredState, ozzo.RuneLength(0, 100)),
		ozzo.Field(&in.Message, ozzo.RuneLength(0, 2000)),
		ozzo.Field(&in.Source, ozzo.RuneLength(0, 50)),
	))
}

func (in *LeadInput) Record() *domain.Lead {
	return &domain.Lead{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Exam:           in.Exam,
		PreferredState: domain.StringPtr(in.PreferredState),
		Message:        domain.StringPtr(in.Message),
		Source:         in.Source,
	}
}

// ContactInput is the body of POST /api/contacts
type ContactInput struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Exam           string `json:"exam"`
	PreferredState string `json:"preferredState"`
	Message        string `json:"message"`
}

func (in *ContactInput) Normalize() {
	in.FullName = SanitizeText(in.FullName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Exam = canonical(domain.Exams, strings.TrimSpace(in.Exam))
	in.PreferredState = SanitizeText(in.PreferredState)
	in.Message = SanitizeText(in.Message)
}

func (in *ContactInput) Validate() error {
	return fieldErrors(ozzo.ValidateStruct(in,
		ozzo.Field(&in.FullName, nameRules()...),
		ozzo.Field(&in.Email, emailRules()...),
		ozzo.Field(&in.Phone, phoneRules()...),
		ozzo.Field(&in.Exam, ozzo.Required, oneOf(domain.Exams)),
		ozzo.Field(&in.PreferredState, ozzo.RuneLength(0, 100)),
		ozzo.Field(&in.Message, ozzo.RuneLength(0, 2000)),
	))
}

func (in *ContactInput) Record() *domain.Contact {
	return &domain.Contact{
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
		Exam:           in.Exam,
		PreferredState: domain.StringPtr(in.PreferredState),
		Message:        domain.StringPtr(in.Message),
	}
}

// NewsletterInput is the body of POST /api/newsletter
type NewsletterInput struct {
	Email string `json:"email"`
}

func (in *NewsletterInput) Normalize() {
	in.Email = normalizeEmail(in.Email)
}

func (in *NewsletterInput) Validate() error {
	return fieldErrors(ozzo.ValidateStruct(in,
		ozzo.Field(&in.Email, emailRules()...),
	))
}

func (in *NewsletterInput) Record() *domain.Newsletter {
	return &domain.Newsletter{Email: in.Email}
}

// BamsAdmissionInput is the body of POST /api/bams-admissions
type BamsAdmissionInput struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Category       string `json:"category"`
	DomicileState  string `json:"domicileState"`
	CounselingType string `json:"counselingType"`
	Message        string `json:"message"`
}

func (in *BamsAdmissionInput) Normalize() {
	in.FullName = SanitizeText(in.FullName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		in.Category = domain.DefaultBamsCategory
	}
	in.DomicileState = strings.ToLower(SanitizeText(in.DomicileState))
	if in.DomicileState == "" {
		in.DomicileState = domain.DefaultBamsDomicileState
	}
	in.CounselingType = strings.ToLower(strings.TrimSpace(in.CounselingType))
	if in.CounselingType == "" {
		in.CounselingType = domain.DefaultBamsCounselingType
	}
	in.Message = SanitizeText(in.Message)
}

func (in *BamsAdmissionInput) Validate() error {
	return fieldErrors(ozzo.ValidateStruct(in,
		ozzo.Field(&in.FullName, nameRules()...),
		ozzo.Field(&in.Email, emailRules()...),
		ozzo.Field(&in.Phone, phoneRules()...),
		ozzo.Field(&in.Category, ozzo.Required, oneOf(domain.BamsCategories)),
		ozzo.Field(&in.DomicileState, ozzo.Required, ozzo.RuneLength(2, 100)),
		ozzo.Field(&in.CounselingType, ozzo.Required, oneOf(domain.CounselingTypes)),
		ozzo.Field(&in.Message, ozzo.RuneLength(0, 2000)),
	))
}

func (in *BamsAdmissionInput) Record() *domain.BamsAdmission {
	return &domain.BamsAdmission{
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
		Category:       in.Category,
		DomicileState:  in.DomicileState,
		CounselingType: in.CounselingType,
		Message:        domain.StringPtr(in.Message),
	}
}
