// Package shell holds the pure derivation logic behind the application chrome:
// the navigation model, active-route resolution and the session panel.
package shell

import (
	"errors"
	"fmt"
	"strings"
)

// Icon is an optional reference to a named icon asset.
// The zero value means "no icon".
type Icon struct {
	name string
}

// NoIcon is the absent icon.
var NoIcon = Icon{} //nolint:gochecknoglobals // zero value alias used for readability

// IconOf returns an icon handle for the given asset name.
// Blank names yield NoIcon.
func IconOf(name string) Icon {
	return Icon{name: strings.TrimSpace(name)}
}

// Present reports whether the icon refers to an asset.
func (i Icon) Present() bool { return i.name != "" }

// Name returns the asset name, or "" when absent.
func (i Icon) Name() string { return i.name }

// NavigationItem describes one sidebar destination.
type NavigationItem struct {
	Title      string
	TargetPath string
	Icon       Icon
}

// Menu is an ordered, validated list of navigation items.
// Order is display order.
type Menu struct {
	items []NavigationItem
}

var (
	ErrEmptyTitle      = errors.New("navigation item title is required")
	ErrEmptyTargetPath = errors.New("navigation item target path is required")
	ErrDuplicateTitle  = errors.New("duplicate navigation item title")
	ErrDuplicatePath   = errors.New("duplicate navigation item target path")
)

// NewMenu validates items and returns an immutable menu.
// Titles and target paths must be non-empty and unique.
func NewMenu(items ...NavigationItem) (Menu, error) {
	titles := make(map[string]struct{}, len(items))
	paths := make(map[string]struct{}, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.Title) == "" {
			return Menu{}, fmt.Errorf("item %d: %w", i, ErrEmptyTitle)
		}
		if strings.TrimSpace(it.TargetPath) == "" {
			return Menu{}, fmt.Errorf("item %q: %w", it.Title, ErrEmptyTargetPath)
		}
		if _, ok := titles[it.Title]; ok {
			return Menu{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, it.Title)
		}
		if _, ok := paths[it.TargetPath]; ok {
			return Menu{}, fmt.Errorf("%w: %q", ErrDuplicatePath, it.TargetPath)
		}
		titles[it.Title] = struct{}{}
		paths[it.TargetPath] = struct{}{}
	}
	return Menu{items: append([]NavigationItem(nil), items...)}, nil
}

// MustMenu is NewMenu for package-level definitions; it panics on invalid input.
func MustMenu(items ...NavigationItem) Menu {
	m, err := NewMenu(items...)
	if err != nil {
		panic(err) //nolint:forbidigo // static menu definitions are validated at startup
	}
	return m
}

// Items returns a copy of the menu items in display order.
func (m Menu) Items() []NavigationItem {
	return append([]NavigationItem(nil), m.items...)
}

// Len returns the number of items.
func (m Menu) Len() int { return len(m.items) }

// Lookup returns the item whose target path equals path exactly.
func (m Menu) Lookup(path string) (NavigationItem, bool) {
	for _, it := range m.items {
		if IsActive(path, it) {
			return it, true
		}
	}
	return NavigationItem{}, false
}

// PageURL maps a page name to its route, e.g. "BudgetTracker" -> "/budgettracker"
// and "Budget Tracker" -> "/budget-tracker".
func PageURL(pageName string) string {
	return "/" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(pageName)), " ", "-")
}

// Page names of the FinanceHub destinations.
const (
	PageDashboard     = "Dashboard"
	PageExpenses      = "Expenses"
	PageCalendar      = "Calendar"
	PageBudgetTracker = "BudgetTracker"
	PageFriends       = "Friends"
	PageAnalytics     = "Analytics"
	PageProfile       = "Profile"
)

// DefaultMenu returns the FinanceHub sidebar.
// Profile intentionally carries no icon.
func DefaultMenu() Menu {
	return MustMenu(
		NavigationItem{Title: "Dashboard", TargetPath: PageURL(PageDashboard), Icon: IconOf("layout-dashboard")},
		NavigationItem{Title: "Expenses", TargetPath: PageURL(PageExpenses), Icon: IconOf("wallet")},
		NavigationItem{Title: "Dates", TargetPath: PageURL(PageCalendar), Icon: IconOf("calendar")},
		NavigationItem{Title: "Budget Tracker", TargetPath: PageURL(PageBudgetTracker), Icon: IconOf("target")},
		NavigationItem{Title: "Friends", TargetPath: PageURL(PageFriends), Icon: IconOf("user")},
		NavigationItem{Title: "Analytics", TargetPath: PageURL(PageAnalytics), Icon: IconOf("trending-up")},
		NavigationItem{Title: "Profile", TargetPath: PageURL(PageProfile)},
	)
}
