package httpx

import "github.com/financehub/financehub-web/internal/domain/shell"

// CurrentPage constants identify the content template rendered into the layout.
const (
	PageDashboard     = "dashboard"
	PageExpenses      = "expenses"
	PageCalendar      = "calendar"
	PageBudgetTracker = "budgettracker"
	PageFriends       = "friends"
	PageAnalytics     = "analytics"
	PageProfile       = "profile"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Cookie and form names shared by the auth handlers and middleware.
const (
	SessionCookieName = "session_id"
	CSRFCookieName    = "csrf_token"
	CSRFHeaderName    = "X-Csrf-Token"
	CSRFFormField     = "csrf_token"
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageDashboard:     "dashboard-content",
	PageExpenses:      "expenses-content",
	PageCalendar:      "calendar-content",
	PageBudgetTracker: "budgettracker-content",
	PageFriends:       "friends-content",
	PageAnalytics:     "analytics-content",
	PageProfile:       "profile-content",
}

// destination binds a content page to the route it is served on.
type destination struct {
	Page     string
	PageName string // display page name, source of the route via shell.PageURL
}

//nolint:gochecknoglobals // static read-only route table
var destinations = []destination{
	{Page: PageDashboard, PageName: shell.PageDashboard},
	{Page: PageExpenses, PageName: shell.PageExpenses},
	{Page: PageCalendar, PageName: shell.PageCalendar},
	{Page: PageBudgetTracker, PageName: shell.PageBudgetTracker},
	{Page: PageFriends, PageName: shell.PageFriends},
	{Page: PageAnalytics, PageName: shell.PageAnalytics},
	{Page: PageProfile, PageName: shell.PageProfile},
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to dashboard-content.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
