// Package admin renders the server-side admin pages. Render functions are pure:
// they take plain view models and return the HTML document. Every field is
// escaped by html/template.
package admin

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

const cellPreviewLength = 120

var tableTitles = map[string]string{
	"leads":           "Leads",
	"contacts":        "Contacts",
	"newsletters":     "Newsletter Subscribers",
	"bams_admissions": "BAMS Admissions",
	"blogs":           "Blog Posts",
}

var funcs = template.FuncMap{
	"tableTitle": TableTitle,
	"preview": func(s string) string {
		if utf8.RuneCountInString(s) <= cellPreviewLength {
			return s
		}
		return string([]rune(s)[:cellPreviewLength]) + "…"
	},
}

var pages = map[string]*template.Template{}

func init() {
	for _, page := range []string{"login.html", "dashboard.html", "data.html", "blog_manager.html", "audit.html"} {
		pages[page] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html", "templates/"+page))
	}
}

// TableTitle returns the display name of an admin table
func TableTitle(name string) string {
	if title, ok := tableTitles[name]; ok {
		return title
	}
	return strings.ReplaceAll(name, "_", " ")
}

func render(page string, data any) (string, error) {
	tpl, ok := pages[page]
	if !ok {
		return "", fmt.Errorf("admin: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("admin: render %s: %w", page, err)
	}
	return buf.String(), nil
}

// RenderLogin renders the login form
func RenderLogin(v LoginView) (string, error) {
	return render("login.html", v)
}

// RenderDashboard renders counts and recent rows of every table
func RenderDashboard(v DashboardView) (string, error) {
	return render("dashboard.html", v)
}

// RenderData renders full tables
func RenderData(v DataView) (string, error) {
	return render("data.html", v)
}

// RenderBlogManager renders the blog list and editor
func RenderBlogManager(v BlogManagerView) (string, error) {
	return render("blog_manager.html", v)
}

// RenderAudit renders the audit trail
func RenderAudit(v AuditView) (string, error) {
	return render("audit.html", v)
}
