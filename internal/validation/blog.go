package validation

import (
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"medadmit/internal/content"
	"medadmit/internal/domain"
)

// BlogInput is the admin payload for creating or replacing a blog post
type BlogInput struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	FeaturedImage string `json:"featuredImage"`
	Tags          string `json:"tags"`
	Status        string `json:"status"`
}

// Normalize derives the slug from the title when none is given. Content is
// Markdown and kept verbatim; it is rendered with raw HTML suppressed.
func (in *BlogInput) Normalize() {
	in.Title = SanitizeText(in.Title)
	in.Excerpt = SanitizeText(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	in.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	in.Tags = normalizeTags(SanitizeText(in.Tags))
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = domain.BlogStatusDraft
	}

	source := strings.TrimSpace(in.Slug)
	if source == "" {
		source = in.Title
	}
	if slug, err := content.Slugify(source); err == nil {
		in.Slug = slug
	} else {
		in.Slug = ""
	}
}

func (in *BlogInput) Validate() error {
	return fieldErrors(ozzo.ValidateStruct(in,
		ozzo.Field(&in.Title, ozzo.Required, ozzo.RuneLength(3, 200)),
		ozzo.Field(&in.Slug,
			ozzo.Required.Error("could not be derived from the title"),
			ozzo.RuneLength(1, content.MaxSlugLength),
			ozzo.By(func(value interface{}) error {
				if s, _ := value.(string); s != "" && !content.IsValidSlug(s) {
					return ozzo.NewError("validation_slug", "must contain only lowercase letters, digits and hyphens")
				}
				return nil
			}),
		),
		ozzo.Field(&in.Excerpt, ozzo.Required, ozzo.RuneLength(10, 500)),
		ozzo.Field(&in.Content, ozzo.Required, ozzo.RuneLength(1, 100000)),
		ozzo.Field(&in.FeaturedImage, ozzo.RuneLength(0, 500), is.URL),
		ozzo.Field(&in.Tags, ozzo.RuneLength(0, 500)),
		ozzo.Field(&in.Status, ozzo.Required, oneOf(domain.BlogStatuses)),
	))
}

func (in *BlogInput) Record() *domain.Blog {
	return &domain.Blog{
		Title:         in.Title,
		Slug:          in.Slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		FeaturedImage: domain.StringPtr(in.FeaturedImage),
		Tags:          domain.StringPtr(in.Tags),
		Status:        in.Status,
	}
}

// Apply copies the editable fields onto an existing post, leaving id and
// createdAt untouched.
func (in *BlogInput) Apply(b *domain.Blog) {
	rec := in.Record()
	b.Title = rec.Title
	b.Slug = rec.Slug
	b.Excerpt = rec.Excerpt
	b.Content = rec.Content
	b.FeaturedImage = rec.FeaturedImage
	b.Tags = rec.Tags
	b.Status = rec.Status
}

func normalizeTags(s string) string {
	var tags []string
	seen := map[string]bool{}
	for _, tag := range strings.Split(s, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return strings.Join(tags, ",")
}
