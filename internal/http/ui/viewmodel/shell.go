// Package viewmodel composes the view tree rendered by the layout template:
// header, navigation, session panel and the page content slot.
package viewmodel

import (
	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/domain/shell"
)

// CSS classes applied to navigation links. Exactly one is set per link.
const (
	NavClassActive   = "nav-link-active"
	NavClassInactive = "nav-link-inactive"
)

// Brand copy shown in the sidebar header.
const (
	BrandName    = "FinanceHub"
	BrandTagline = "Track. Save. Grow."
)

// LogoutAction is the form action of the panel's logout button.
const LogoutAction = "/auth/logout"

// Header is the sidebar brand block plus the page heading.
type Header struct {
	Brand     string
	Tagline   string
	BrandIcon shell.Icon
	PageTitle string
}

// NavLink is one rendered navigation entry.
type NavLink struct {
	Key    string // stable key, the item title
	Title  string
	Href   string
	Icon   shell.Icon
	Active bool
	Class  string
}

// Panel is the session footer of the sidebar.
type Panel struct {
	shell.SessionPanel
	LogoutAction string
	CSRFToken    string
}

// Shell is the complete chrome around a page's content.
type Shell struct {
	Title           string // document <title>
	PageTitle       string // header <h1>
	CurrentPage     string // content template key
	CurrentPath     string
	CSRFToken       string
	IsAuthenticated bool
	Header          Header
	Nav             []NavLink
	Panel           Panel
}

// ShellProvider is implemented by page data that carries a Shell.
type ShellProvider interface {
	ShellData() *Shell
}

// ShellData lets *Shell satisfy ShellProvider.
func (s *Shell) ShellData() *Shell { return s }

// Page pairs the shell with page-specific content data.
type Page struct {
	Shell
	Content any
}

// ShellData returns the embedded shell.
func (p *Page) ShellData() *Shell { return &p.Shell }

// BuildHeader returns the brand header for a page heading.
func BuildHeader(pageTitle string) Header {
	return Header{
		Brand:     BrandName,
		Tagline:   BrandTagline,
		BrandIcon: shell.IconOf("wallet"),
		PageTitle: pageTitle,
	}
}

// BuildNav renders one link per menu item, in menu order, marking the item
// whose target path equals currentPath.
func BuildNav(menu shell.Menu, currentPath string) []NavLink {
	items := menu.Items()
	links := make([]NavLink, 0, len(items))
	for _, it := range items {
		active := shell.IsActive(currentPath, it)
		class := NavClassInactive
		if active {
			class = NavClassActive
		}
		links = append(links, NavLink{
			Key:    it.Title,
			Title:  it.Title,
			Href:   it.TargetPath,
			Icon:   it.Icon,
			Active: active,
			Class:  class,
		})
	}
	return links
}

// BuildPanel derives the session footer for user, which may be nil.
func BuildPanel(user *domainauth.CurrentUser, csrfToken string) Panel {
	return Panel{
		SessionPanel: shell.NewSessionPanel(user),
		LogoutAction: LogoutAction,
		CSRFToken:    csrfToken,
	}
}

// ShellInput gathers the per-request snapshot a shell is built from.
type ShellInput struct {
	Menu            shell.Menu
	CurrentPath     string
	CurrentPage     string
	PageTitle       string
	User            *domainauth.CurrentUser
	CSRFToken       string
	IsAuthenticated bool
}

// BuildShell composes header, navigation and panel for one render.
// The page title defaults to the active menu item's title.
func BuildShell(in ShellInput) Shell {
	pageTitle := in.PageTitle
	if pageTitle == "" {
		pageTitle = in.Menu.ActiveTitle(in.CurrentPath)
	}
	title := BrandName
	if pageTitle != "" {
		title = pageTitle + " · " + BrandName
	}
	return Shell{
		Title:           title,
		PageTitle:       pageTitle,
		CurrentPage:     in.CurrentPage,
		CurrentPath:     in.CurrentPath,
		CSRFToken:       in.CSRFToken,
		IsAuthenticated: in.IsAuthenticated,
		Header:          BuildHeader(pageTitle),
		Nav:             BuildNav(in.Menu, in.CurrentPath),
		Panel:           BuildPanel(in.User, in.CSRFToken),
	}
}

// SignedOut is the data for the standalone signed-out page.
type SignedOut struct {
	Title       string
	Header      Header
	RedirectURI string
}

// BuildSignedOut returns the signed-out page for a post-login destination.
func BuildSignedOut(redirectURI string) SignedOut {
	return SignedOut{
		Title:       "Signed out · " + BrandName,
		Header:      BuildHeader("Signed out"),
		RedirectURI: redirectURI,
	}
}

// ErrorPage is the data for the standalone error layout.
type ErrorPage struct {
	Title           string
	Header          Header
	Code            int
	Message         string
	IsAuthenticated bool
	ShowLogin       bool
	RedirectURI     string
}

// BuildErrorPage returns an error page; anonymous visitors get a sign-in link
// that returns them to redirectURI.
func BuildErrorPage(code int, message string, authenticated bool, redirectURI string) ErrorPage {
	return ErrorPage{
		Title:           message + " · " + BrandName,
		Header:          BuildHeader(message),
		Code:            code,
		Message:         message,
		IsAuthenticated: authenticated,
		ShowLogin:       !authenticated,
		RedirectURI:     redirectURI,
	}
}
