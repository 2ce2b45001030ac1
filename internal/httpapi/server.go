// Package httpapi exposes the public form endpoints, the blog read API and the
// admin area over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"medadmit/internal/config"
	"medadmit/internal/logging"
	"medadmit/internal/metrics"
	"medadmit/internal/ratelimit"
	"medadmit/internal/services"
)

const (
	maxBodyBytes = 1 << 20
	cookieName   = "medadmit_admin"
)

// Deps are the services the router dispatches to. Limiter is optional; when
// nil /api is not rate limited.
type Deps struct {
	Config  *config.Config
	Forms   *services.Forms
	Auth    *services.AuthService
	Admin   *services.AdminService
	Blogs   *services.BlogService
	Health  *services.HealthService
	Limiter *ratelimit.SlidingWindow
}

// Server holds the HTTP handlers
type Server struct {
	Deps
	production bool
	log        *logrus.Entry
}

// NewServer creates the HTTP layer over deps
func NewServer(deps Deps) *Server {
	return &Server{
		Deps:       deps,
		production: deps.Config.App.IsProduction(),
		log:        logging.For("http"),
	}
}

// Handler builds the router with the full middleware chain:
// security headers -> CORS -> request id -> logging -> metrics -> routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.Config.RateLimit.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogging)
	r.Use(middleware.Recoverer)
	r.Use(metrics.PrometheusMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{"success": false, "message": "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{"success": false, "message": "Method not allowed"})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/health", s.handleHealth)

		r.Post("/leads", submit(s, s.Forms.Leads, newLeadInput, leadResponse))
		r.Post("/contacts", submit(s, s.Forms.Contacts, newContactInput, contactResponse))
		r.Post("/newsletter", submit(s, s.Forms.Newsletters, newNewsletterInput, newsletterResponse))
		r.Post("/bams-admissions", submit(s, s.Forms.BamsAdmissions, newBamsAdmissionInput, bamsAdmissionResponse))

		r.Get("/blogs", s.handleListBlogs)
		r.Get("/blogs/{slug}", s.handleGetBlog)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(noStore)

		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Get("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin(redirectToLogin))
			r.Get("/", s.handleDashboard)
			r.Get("/data", s.handleData)
			r.Get("/blog-manager", s.handleBlogManager)
			r.Get("/audit", s.handleAudit)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin(unauthorizedJSON))
			r.Delete("/delete", s.handleDelete)
			r.Post("/export", s.handleExport)
			r.Get("/blogs", s.handleAdminListBlogs)
			r.Post("/blogs", s.handleAdminCreateBlog)
			r.Get("/blogs/{id}", s.handleAdminGetBlog)
			r.Put("/blogs/{id}", s.handleAdminUpdateBlog)
		})
	})

	return securityHeaders(s.cors(r), s.production)
}
