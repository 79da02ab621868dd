package httpx

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dietiestates/estates-web/internal/domain/search"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/present"
	"github.com/dietiestates/estates-web/internal/service"
)

// SearchHandlers expose the per-client search engine.
type SearchHandlers struct {
	Presenter *present.Presenter
	Logger    *slog.Logger
}

type searchResponse struct {
	service.SearchSnapshot
	Cards   []present.Card   `json:"cards"`
	Markers []present.Marker `json:"markers"`
}

type hoverRequest struct {
	ID *int64 `json:"id"`
}

func (h *SearchHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *SearchHandlers) respond(w http.ResponseWriter, c *service.Client, status int) {
	snap := c.Search.Snapshot()
	WriteJSON(w, status, searchResponse{
		SearchSnapshot: snap,
		Cards:          h.Presenter.Cards(snap.Displayed, snap.Hovered),
		Markers:        h.Presenter.Markers(snap.Displayed, snap.Hovered),
	})
}

// respondFetch writes the engine state after a fetch. A failed fetch still
// returns the state, which carries the message shown to the user.
func (h *SearchHandlers) respondFetch(w http.ResponseWriter, r *http.Request, c *service.Client, err error) {
	if err == nil {
		h.respond(w, c, http.StatusOK)
		return
	}
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger().WarnContext(r.Context(), "search fetch failed", "error", err)
	}
	h.respond(w, c, status)
}

// Search navigates to the context described by the query string.
// GET /api/search?location=&type=&page=&size=.
func (h *SearchHandlers) Search(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	sc := search.ParseContext(r.URL.Query(), c.Search.Paging())
	h.respondFetch(w, r, c, c.Search.Navigate(r.Context(), sc))
}

// State returns the engine state without fetching.
// GET /api/search/state.
func (h *SearchHandlers) State(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	h.respond(w, c, http.StatusOK)
}

// Page moves to another page of the current search.
// POST /api/search/page/{page}.
func (h *SearchHandlers) Page(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || page < 0 {
		WriteAppError(w, r, h.logger(), apperrors.ValidationField("page", "Page must be a non-negative integer."))
		return
	}
	h.respondFetch(w, r, c, c.Search.Paginate(r.Context(), page))
}

// EditFilters changes filter fields without applying them.
// PATCH /api/search/filters with a {"field": "value"} object.
func (h *SearchHandlers) EditFilters(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var edits map[search.Field]string
	if !DecodeJSON(w, r, &edits) {
		return
	}
	if err := c.Search.EditFilters(edits); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	h.respond(w, c, http.StatusOK)
}

// OpenFilters shows the filter panel.
// POST /api/search/filters/open.
func (h *SearchHandlers) OpenFilters(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*service.SearchEngine).OpenFilters)
}

// ApplyFilters filters the loaded page.
// POST /api/search/filters/apply.
func (h *SearchHandlers) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*service.SearchEngine).ApplyFilters)
}

// ResetFilters restores the default filters.
// POST /api/search/filters/reset.
func (h *SearchHandlers) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*service.SearchEngine).ResetFilters)
}

func (h *SearchHandlers) mutate(w http.ResponseWriter, r *http.Request, op func(*service.SearchEngine)) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	op(c.Search)
	h.respond(w, c, http.StatusOK)
}

// ToggleService adds or removes a service from the filter selection.
// POST /api/search/services/{name}/toggle.
func (h *SearchHandlers) ToggleService(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	if err := c.Search.ToggleService(r.PathValue("name")); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	h.respond(w, c, http.StatusOK)
}

// Hover highlights a listing; a null id clears the highlight.
// PUT /api/search/hover.
func (h *SearchHandlers) Hover(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var req hoverRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	c.Search.Hover(req.ID)
	h.respond(w, c, http.StatusOK)
}
