package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"medadmit/internal/admin"
	"medadmit/internal/services"
	"medadmit/internal/validation"
	apperrors "medadmit/pkg/errors"
)

const displayTime = "2006-01-02 15:04"

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) writeHTML(w http.ResponseWriter, html string, err error) {
	if err != nil {
		s.log.WithError(err).Error("Failed to render admin page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// pageError answers a failed admin page with a plain text status.
func (s *Server) pageError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := http.StatusText(status)
	if appErr, ok := apperrors.As(err); ok && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	http.Error(w, message, status)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.currentSession(r); err == nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	html, err := admin.RenderLogin(admin.LoginView{
		Page:   admin.Page{Title: "Login"},
		Failed: r.URL.Query().Get("error") != "",
	})
	s.writeHTML(w, html, err)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin/login?error=1", http.StatusSeeOther)
		return
	}

	token, expires, err := s.Auth.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"), requestMeta(r))
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			http.Redirect(w, r, "/admin/login?error=1", http.StatusSeeOther)
			return
		}
		s.pageError(w, err)
		return
	}

	s.setSessionCookie(w, token, expires)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil {
		if err := s.Auth.Logout(r.Context(), c.Value, requestMeta(r)); err != nil {
			s.log.WithError(err).Warn("Failed to destroy session")
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func page(r *http.Request, title string) admin.Page {
	p := admin.Page{Title: title}
	if sess := sessionFrom(r.Context()); sess != nil {
		p.User = sess.Username
	}
	return p
}

func tableViews(snapshots []services.TableSnapshot) []admin.TableView {
	views := make([]admin.TableView, len(snapshots))
	for i, snap := range snapshots {
		rows := make([]admin.Row, len(snap.Records))
		for j, rec := range snap.Records {
			rows[j] = admin.Row{ID: rec.GetID(), Cells: rec.Values()}
		}
		views[i] = admin.TableView{
			Name:    snap.Name,
			Columns: snap.Columns,
			Total:   snap.Total,
			Rows:    rows,
		}
	}
	return views
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.Admin.Dashboard(r.Context())
	if err != nil {
		s.pageError(w, err)
		return
	}
	html, err := admin.RenderDashboard(admin.DashboardView{
		Page:        page(r, "Dashboard"),
		RecentLimit: s.Config.Dashboard.RecentLimit,
		Tables:      tableViews(snapshots),
	})
	s.writeHTML(w, html, err)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("table")
	snapshots, err := s.Admin.Data(r.Context(), selected)
	if err != nil {
		s.pageError(w, err)
		return
	}
	html, err := admin.RenderData(admin.DataView{
		Page:       page(r, "All data"),
		Selected:   selected,
		TableNames: s.Admin.TableNames(),
		Tables:     tableViews(snapshots),
	})
	s.writeHTML(w, html, err)
}

func (s *Server) handleBlogManager(w http.ResponseWriter, r *http.Request) {
	blogs, err := s.Blogs.List(r.Context())
	if err != nil {
		s.pageError(w, err)
		return
	}
	posts := make([]admin.BlogRow, len(blogs))
	for i, b := range blogs {
		tags := ""
		if b.Tags != nil {
			tags = *b.Tags
		}
		posts[i] = admin.BlogRow{
			ID:        b.ID,
			Title:     b.Title,
			Slug:      b.Slug,
			Status:    b.Status,
			Tags:      tags,
			UpdatedAt: b.UpdatedAt.Format(displayTime),
		}
	}
	html, err := admin.RenderBlogManager(admin.BlogManagerView{Page: page(r, "Blog"), Posts: posts})
	s.writeHTML(w, html, err)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Admin.AuditTrail(r.Context())
	if err != nil {
		s.pageError(w, err)
		return
	}
	rows := make([]admin.AuditRow, len(entries))
	for i, e := range entries {
		rows[i] = admin.AuditRow{
			CreatedAt:    e.CreatedAt.Format(displayTime),
			Action:       e.Action,
			Actor:        e.Actor,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			IPAddress:    e.IPAddress,
		}
	}
	html, err := admin.RenderAudit(admin.AuditView{Page: page(r, "Audit"), Entries: rows})
	s.writeHTML(w, html, err)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	actor := sessionFrom(r.Context()).Username
	if err := s.Admin.Delete(r.Context(), q.Get("table"), q.Get("id"), actor, requestMeta(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Record deleted"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeBadRequest, "Invalid request body", err))
		return
	}

	actor := sessionFrom(r.Context()).Username
	file, err := s.Admin.Export(r.Context(), r.Form.Get("table"), r.Form.Get("format"), actor, requestMeta(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}

func (s *Server) handleAdminListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := s.Blogs.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "blogs": blogs})
}

func (s *Server) handleAdminGetBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := s.Blogs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "blog": blog})
}

func (s *Server) handleAdminCreateBlog(w http.ResponseWriter, r *http.Request) {
	var in validation.BlogInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	blog, err := s.Blogs.Create(r.Context(), &in, sessionFrom(r.Context()).Username, requestMeta(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "blog": blog})
}

func (s *Server) handleAdminUpdateBlog(w http.ResponseWriter, r *http.Request) {
	var in validation.BlogInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	blog, err := s.Blogs.Update(r.Context(), chi.URLParam(r, "id"), &in, sessionFrom(r.Context()).Username, requestMeta(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "blog": blog})
}

