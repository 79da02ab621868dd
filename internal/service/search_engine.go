package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/domain/search"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/observability/metrics"
	"github.com/dietiestates/estates-web/internal/observability/statsd"
	"github.com/dietiestates/estates-web/internal/ports"
)

// LoadStatus is the lifecycle shared by the search engine and the boards.
type LoadStatus string

const (
	StatusIdle    LoadStatus = "idle"
	StatusLoading LoadStatus = "loading"
	StatusLoaded  LoadStatus = "loaded"
	StatusError   LoadStatus = "error"
)

// SearchLoadFailed is shown when a page of results cannot be fetched.
const SearchLoadFailed = "Could not load properties. Please try again later."

// SearchEngineOptions groups dependencies for SearchEngine.
type SearchEngineOptions struct {
	Searcher ports.PropertySearcher
	Paging   search.Paging
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// SearchEngine reconciles the URL-driven search context, the fetched result
// page and the locally edited filters of one client.
//
// The original set changes only when a fetch for the latest navigation
// completes. The displayed set is always recomputed from the original set.
type SearchEngine struct {
	searcher ports.PropertySearcher
	paging   search.Paging
	logger   *slog.Logger
	metrics  statsd.Sink

	mu        sync.Mutex
	seq       uint64
	status    LoadStatus
	current   search.Context
	prompt    bool
	page      listing.ResultPage
	original  []listing.Property
	displayed []listing.Property
	filters   search.FilterState
	panelOpen bool
	hovered   *int64
	errMsg    string
}

// NewSearchEngine returns an Idle engine.
func NewSearchEngine(opts SearchEngineOptions) *SearchEngine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Discard
	}
	paging := opts.Paging
	if paging.DefaultSize < 1 {
		paging = search.DefaultPaging
	}
	return &SearchEngine{
		searcher: opts.Searcher,
		paging:   paging,
		logger:   logger.With("component", "search_engine"),
		metrics:  sink,
		status:   StatusIdle,
		filters:  search.DefaultFilters(),
	}
}

// Paging returns the page-size bounds used to parse URLs.
func (e *SearchEngine) Paging() search.Paging { return e.paging }

// Navigate handles a URL change: it resets local state, seeds the filters
// from the URL and fetches the requested page. A response that arrives after
// a newer Navigate was issued is dropped.
func (e *SearchEngine) Navigate(ctx context.Context, sc search.Context) error {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.current = sc
	e.filters = search.SeededFilters(sc)
	e.panelOpen = false
	e.hovered = nil
	e.errMsg = ""

	if !sc.HasLocation() {
		e.status = StatusLoaded
		e.prompt = true
		e.page = listing.ResultPage{Items: []listing.Property{}}
		e.original = []listing.Property{}
		e.displayed = []listing.Property{}
		e.mu.Unlock()
		return nil
	}
	e.status = StatusLoading
	e.prompt = false
	e.mu.Unlock()

	start := time.Now()
	page, err := e.searcher.Search(ctx, ports.SearchQuery{
		Location: sc.Location,
		Page:     sc.Page,
		Size:     sc.Size,
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.seq {
		metrics.SearchSuperseded(e.metrics)
		e.logger.Debug("dropping superseded search response", "seq", seq, "latest", e.seq)
		return nil
	}
	metrics.SearchFetch(e.metrics, time.Since(start), err)

	if err != nil {
		e.status = StatusError
		e.errMsg = SearchLoadFailed
		e.page = listing.ResultPage{}
		e.original = nil
		e.displayed = nil
		e.logger.Warn("search failed", "location", sc.Location, "page", sc.Page, "error", err)
		return err
	}

	items := page.Items
	if items == nil {
		items = []listing.Property{}
	}
	e.status = StatusLoaded
	e.page = page
	e.page.Items = nil
	e.original = items
	e.displayed = search.Apply(items, e.filters)
	return nil
}

// Paginate navigates to another page of the current context.
func (e *SearchEngine) Paginate(ctx context.Context, page int) error {
	e.mu.Lock()
	next := e.current.WithPage(page)
	e.mu.Unlock()
	return e.Navigate(ctx, next)
}

// EditFilter changes one filter field. The displayed set is left untouched
// until ApplyFilters.
func (e *SearchEngine) EditFilter(field search.Field, raw string) error {
	return e.EditFilters(map[search.Field]string{field: raw})
}

// EditFilters changes several filter fields at once. Either every edit is
// kept or, when a field is unknown, none is.
func (e *SearchEngine) EditFilters(edits map[search.Field]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.filters
	for _, field := range slices.Sorted(maps.Keys(edits)) {
		var ok bool
		if next, ok = next.With(field, edits[field]); !ok {
			return apperrors.ValidationField(string(field), "Unknown filter.")
		}
	}
	e.filters = next
	return nil
}

// ToggleService adds or removes a catalog service from the filter selection.
func (e *SearchEngine) ToggleService(name string) error {
	entry, ok := listing.LookupService(name)
	if !ok {
		return apperrors.ValidationField("service", "Unknown service.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = e.filters.ToggleService(entry.Name)
	return nil
}

// OpenFilters shows the filter panel.
func (e *SearchEngine) OpenFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panelOpen = true
}

// ApplyFilters recomputes the displayed set from the original set and closes the panel.
func (e *SearchEngine) ApplyFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.displayed = search.Apply(e.original, e.filters)
	e.panelOpen = false
}

// ResetFilters restores default filters and shows the whole original set.
func (e *SearchEngine) ResetFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = search.DefaultFilters()
	e.displayed = slices.Clone(e.original)
	e.panelOpen = false
}

// Hover marks the listing highlighted on the map; nil clears it.
func (e *SearchEngine) Hover(id *int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == nil {
		e.hovered = nil
		return
	}
	v := *id
	e.hovered = &v
}

// SearchSnapshot is a consistent copy of the engine state.
type SearchSnapshot struct {
	Status        LoadStatus             `json:"status"`
	Context       search.Context         `json:"context"`
	Prompt        bool                   `json:"prompt"`
	TotalPages    int                    `json:"totalPages"`
	TotalElements int                    `json:"totalElements"`
	CurrentPage   int                    `json:"currentPage"`
	OriginalCount int                    `json:"originalCount"`
	Displayed     []listing.Property     `json:"-"`
	Filters       search.FilterState     `json:"filters"`
	PanelOpen     bool                   `json:"filtersOpen"`
	Hovered       *int64                 `json:"hoveredId"`
	Error         string                 `json:"error,omitempty"`
	Services      []listing.CatalogEntry `json:"availableServices"`
}

// Snapshot returns a copy of the current state.
func (e *SearchEngine) Snapshot() SearchSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := SearchSnapshot{
		Status:        e.status,
		Context:       e.current,
		Prompt:        e.prompt,
		TotalPages:    e.page.TotalPages,
		TotalElements: e.page.TotalElements,
		CurrentPage:   e.page.CurrentPage,
		OriginalCount: len(e.original),
		Displayed:     slices.Clone(e.displayed),
		Filters:       e.filters,
		PanelOpen:     e.panelOpen,
		Error:         e.errMsg,
		Services:      slices.Clone(listing.Catalog),
	}
	snap.Filters.Services = slices.Clone(e.filters.Services)
	if e.hovered != nil {
		v := *e.hovered
		snap.Hovered = &v
	}
	return snap
}
