package admin

// Page is embedded in every authenticated view.
type Page struct {
	Title string
	User  string
}

// LoginView is the login form state
type LoginView struct {
	Page
	Failed bool
}

// Row is one record as display strings. ID drives the delete button.
type Row struct {
	ID    string
	Cells []string
}

// TableView is one table with the rows to show
type TableView struct {
	Name    string
	Columns []string
	Total   int64
	Rows    []Row
}

// DashboardView shows counts and the most recent rows of each table
type DashboardView struct {
	Page
	RecentLimit int
	Tables      []TableView
}

// DataView shows complete tables. Selected is empty when all are shown.
type DataView struct {
	Page
	Selected   string
	TableNames []string
	Tables     []TableView
}

// BlogRow is one post in the blog manager list
type BlogRow struct {
	ID        string
	Title     string
	Slug      string
	Status    string
	Tags      string
	UpdatedAt string
}

// BlogManagerView lists every post, drafts included
type BlogManagerView struct {
	Page
	Posts []BlogRow
}

// AuditRow is one audit entry
type AuditRow struct {
	CreatedAt    string
	Action       string
	Actor        string
	ResourceType string
	ResourceID   string
	IPAddress    string
}

// AuditView lists recent audit entries
type AuditView struct {
	Page
	Entries []AuditRow
}
