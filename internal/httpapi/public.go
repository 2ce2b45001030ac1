package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"medadmit/internal/domain"
	"medadmit/internal/services"
	"medadmit/internal/validation"
)

func newLeadInput() validation.Submission[domain.Lead] {
	return &validation.LeadInput{}
}

func newContactInput() validation.Submission[domain.Contact] {
	return &validation.ContactInput{}
}

func newNewsletterInput() validation.Submission[domain.Newsletter] {
	return &validation.NewsletterInput{}
}

func newBamsAdmissionInput() validation.Submission[domain.BamsAdmission] {
	return &validation.BamsAdmissionInput{}
}

func leadResponse(l *domain.Lead) envelope {
	return envelope{"success": true, "lead": l}
}

func contactResponse(c *domain.Contact) envelope {
	return envelope{"success": true, "contact": c}
}

func newsletterResponse(n *domain.Newsletter) envelope {
	return envelope{"success": true, "newsletter": n}
}

func bamsAdmissionResponse(b *domain.BamsAdmission) envelope {
	return envelope{
		"success": true,
		"message": "Thank you! Our BAMS admission counsellor will contact you shortly.",
		"id":      b.ID,
	}
}

// submit builds the handler shared by every public form: decode, validate,
// persist, answer 201 with the form's payload.
func submit[T domain.Record](s *Server, svc *services.FormService[T], newInput func() validation.Submission[T], respond func(*T) envelope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := newInput()
		if err := decodeJSON(w, r, in); err != nil {
			s.writeError(w, r, err)
			return
		}

		rec, err := svc.Submit(r.Context(), in)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, respond(rec))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result := s.Health.Check(r.Context())
	status := http.StatusOK
	if !result.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, result)
}

func (s *Server) handleListBlogs(w http.ResponseWriter, r *http.Request) {
	tag := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag")))
	blogs, err := s.Blogs.ListPublished(r.Context(), tag)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "blogs": blogs})
}

func (s *Server) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	post, err := s.Blogs.GetPublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "blog": post})
}
