package content

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
)

// MaxSlugLength bounds slugs to the blogs.slug column size.
const MaxSlugLength = 200

// Slugify turns a title or a loosely typed slug into a URL-safe slug.
func Slugify(value string) (string, error) {
	normalized, err := slug.Normalize(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("slug: %w", err)
	}
	if len(normalized) > MaxSlugLength {
		normalized = strings.Trim(normalized[:MaxSlugLength], "-")
	}
	return normalized, nil
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return value != "" && slug.IsValid(value)
}
