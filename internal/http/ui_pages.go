package httpx

import (
	"net/http"

	"github.com/financehub/financehub-web/internal/domain/shell"
)

// Index sends the bare root to the dashboard.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, shell.PageURL(shell.PageDashboard), http.StatusFound)
}

// destinationHandler renders the placeholder content page for d.
func (h *UIHandlers) destinationHandler(d destination) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Page(w, r, PageSpec{Meta: PageMeta{CurrentPage: d.Page}})
	}
}
