package httpapi

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medadmit/internal/domain"
)

func TestAdminRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/admin", "/admin/data", "/admin/blog-manager", "/admin/audit"} {
		rec := env.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"), path)
	}

	rec := env.do(httptestRequest(http.MethodDelete, "/admin/delete?table=leads&id=x"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	assert.Equal(t, http.StatusUnauthorized, env.do(httptestRequest(http.MethodPost, "/admin/export?table=leads")).Code)
	assert.Equal(t, http.StatusUnauthorized, env.get("/admin/blogs").Code)

	forged := &http.Cookie{Name: cookieName, Value: "forged"}
	assert.Equal(t, http.StatusSeeOther, env.get("/admin", forged).Code)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/admin/login")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	cookie := env.login(t)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
	assert.Equal(t, "/", cookie.Path)

	rec = env.get("/admin", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dashboard")
	assert.Contains(t, rec.Body.String(), adminUser)

	// Already signed in.
	rec = env.get("/admin/login", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
}

func TestLoginFailure(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/admin/login", url.Values{"username": {adminUser}, "password": {"wrong"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?error=1", rec.Header().Get("Location"))
	assert.Nil(t, sessionCookie(rec))
	assert.Zero(t, env.sessions.Len())

	rec = env.get("/admin/login?error=1")
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
}

func TestSecureCookieInProduction(t *testing.T) {
	env := newTestEnv(t, withEnv("production"))
	assert.True(t, env.login(t).Secure)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	rec := env.get("/admin/logout", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
	assert.Zero(t, env.sessions.Len())

	assert.Equal(t, http.StatusSeeOther, env.get("/admin", cookie).Code)
}

func TestDashboardEscapesSubmittedMarkup(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	rec := env.postJSON("/api/contacts", `{"fullName":"<script>alert(1)</script>Asha","email":"asha@example.com","phone":"9876543210","exam":"NEET-UG","message":"<img src=x onerror=alert(2)>hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A row that bypassed the public endpoint must still render inert.
	raw := &domain.Lead{Name: "<script>alert(3)</script>", Email: "x@example.com", Phone: "9876543210", Exam: "NEET-UG"}
	require.NoError(t, env.stores.Leads.Create(context.Background(), raw))

	for _, path := range []string{"/admin", "/admin/data"} {
		html := env.get(path, cookie).Body.String()
		assert.NotContains(t, html, "<script>alert", path)
		assert.NotContains(t, html, "<img src=x", path)
		assert.Contains(t, html, "&lt;script&gt;alert(3)&lt;/script&gt;", path)
	}
}

func TestDeleteRecord(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		rec := env.postJSON("/api/newsletter", `{"email":"`+email+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decode(t, rec)["newsletter"].(map[string]any)["id"].(string))
	}

	del := func(query string) *httptestRecorder {
		req := httptestRequest(http.MethodDelete, "/admin/delete?"+query)
		req.AddCookie(cookie)
		return env.do(req)
	}

	rec := del("table=newsletters&id=" + ids[1])
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Record deleted", decode(t, rec)["message"])

	rows, err := env.stores.Newsletters.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, ids[1], row.ID)
	}

	rec = del("table=newsletters&id=" + ids[1])
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Record not found", decode(t, rec)["message"])

	assert.Equal(t, http.StatusBadRequest, del("table=users&id="+ids[0]).Code)
	assert.Equal(t, http.StatusBadRequest, del("table=newsletters").Code)
	assert.Equal(t, int64(2), count(t, env.stores.Newsletters.Count))
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		require.Equal(t, http.StatusCreated, env.postJSON("/api/leads", `{"name":"Student","email":"`+email+`","phone":"9876543210","exam":"NEET-UG"}`).Code)
	}

	rec := env.postForm("/admin/export?table=leads", url.Values{"format": {"csv"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="leads-`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.csv"`), disposition)

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, int(count(t, env.stores.Leads.Count))+1)
	assert.Equal(t, domain.Lead{}.Columns(), records[0])
}

func TestExportRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	assert.Equal(t, http.StatusBadRequest, env.postForm("/admin/export?table=users", nil, cookie).Code)
	assert.Equal(t, http.StatusBadRequest, env.postForm("/admin/export?table=leads", url.Values{"format": {"pdf"}}, cookie).Code)

	rec := env.postForm("/admin/export?table=leads", url.Values{"format": {"xlsx"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
}

func TestExportRejectsUnreadableForm(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	form := url.Values{"format": {"csv"}, "padding": {strings.Repeat("a", maxBodyBytes)}}
	rec := env.postForm("/admin/export?table=leads", form, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["message"])

	req := httptestRequest(http.MethodPost, "/admin/export?table=leads")
	req.Body = ioNopCloser("format=%zz")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["message"])
}

func TestDataUnknownTable(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	assert.Equal(t, http.StatusBadRequest, env.get("/admin/data?table=users", cookie).Code)
	assert.Equal(t, http.StatusOK, env.get("/admin/data?table=leads", cookie).Code)
}

func TestAdminBlogCRUD(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	body := `{"title":"AIAPGET Guide","excerpt":"Everything about the AIAPGET counselling.","content":"Intro","status":"draft"}`
	rec := env.postJSON("/admin/blogs", body, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["blog"].(map[string]any)["id"].(string)

	assert.Equal(t, http.StatusConflict, env.postJSON("/admin/blogs", body, cookie).Code)

	rec = env.postJSON("/admin/blogs", `{"title":"x"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["errors"])

	req := httptestRequest(http.MethodPut, "/admin/blogs/"+id)
	req.Body = ioNopCloser(`{"title":"AIAPGET Guide 2025","slug":"aiapget-guide","excerpt":"Everything about the AIAPGET counselling.","content":"Updated","status":"published"}`)
	req.AddCookie(cookie)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.get("/admin/blogs/"+id, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	blog := decode(t, rec)["blog"].(map[string]any)
	assert.Equal(t, "AIAPGET Guide 2025", blog["title"])
	assert.Equal(t, "published", blog["status"])

	assert.Equal(t, http.StatusNotFound, env.get("/admin/blogs/missing", cookie).Code)

	rec = env.get("/admin/blog-manager", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AIAPGET Guide 2025")

	rec = env.get("/admin/audit", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.AuditActionBlogUpdate)
	assert.Contains(t, rec.Body.String(), domain.AuditActionLogin)
}

func TestAuditRecordsSocketPeerUnlessProxyTrusted(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []envOption
		want string
	}{
		{"direct", nil, "192.0.2.1"},
		{"behind proxy", []envOption{withTrustProxy()}, "203.0.113.9"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, tc.opts...)

			req := httptestRequest(http.MethodPost, "/admin/login")
			req.Body = ioNopCloser(url.Values{"username": {adminUser}, "password": {"wrong"}}.Encode())
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("X-Forwarded-For", "203.0.113.9")
			require.Equal(t, http.StatusSeeOther, env.do(req).Code)

			entries, err := env.stores.Audit.List(context.Background(), 10)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, domain.AuditActionLoginFailed, entries[0].Action)
			assert.Equal(t, tc.want, entries[0].IPAddress)
		})
	}
}
