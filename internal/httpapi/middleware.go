package httpapi

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"

	"medadmit/internal/metrics"
	"medadmit/internal/session"
	"medadmit/internal/services"
)

type contextKey string

const sessionKey contextKey = "session"

// securityHeaders adds security headers to responses
func securityHeaders(next http.Handler, production bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		// HSTS (only in production with HTTPS)
		if production && r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// cors applies CORS_ORIGIN to every route
func (s *Server) cors(next http.Handler) http.Handler {
	cfg := s.Config.CORS
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods(cfg.AllowedMethods),
		handlers.AllowedHeaders(cfg.AllowedHeaders),
		handlers.ExposedHeaders([]string{"Content-Type", "Content-Disposition", "X-Request-ID", "Retry-After"}),
		handlers.MaxAge(cfg.MaxAge),
	}
	if !containsWildcard(cfg.AllowedOrigins) {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)(next)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// requestLogging logs all incoming requests and their responses
func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging for health checks and scrapes to reduce noise
		if r.URL.Path == "/api/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		entry := s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          clientIP(r),
			"request_id":  middleware.GetReqID(r.Context()),
		})
		switch {
		case ww.Status() >= 500:
			entry.Error("Request failed")
		case ww.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	})
}

// rateLimit enforces the per-IP sliding window when a limiter is configured
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.Limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := s.Limiter.Allow(clientIP(r))
		if !ok {
			metrics.RecordRateLimited()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeJSON(w, http.StatusTooManyRequests, envelope{
				"success": false,
				"message": "Too many requests, please try again later.",
			})
			return
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.Limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(s.Limiter.Remaining(clientIP(r))))
		next.ServeHTTP(w, r)
	})
}

// noStore keeps admin pages and exports out of caches
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// denyFunc answers a request without a valid admin session.
type denyFunc func(w http.ResponseWriter, r *http.Request)

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func unauthorizedJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, envelope{"success": false, "message": "Authentication required"})
}

// requireAdmin resolves the session cookie and stores the session in the
// request context, or calls deny.
func (s *Server) requireAdmin(deny denyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := s.currentSession(r)
			if err != nil {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
		})
	}
}

func (s *Server) currentSession(r *http.Request) (*session.Session, error) {
	token := ""
	if c, err := r.Cookie(cookieName); err == nil {
		token = c.Value
	}
	sess, err := s.Auth.Authenticate(r.Context(), token)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// sessionFrom returns the session stored by requireAdmin
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func requestMeta(r *http.Request) services.RequestMeta {
	return services.RequestMeta{IP: clientIP(r), UserAgent: r.UserAgent()}
}
