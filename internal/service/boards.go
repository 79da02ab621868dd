package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/observability/metrics"
	"github.com/dietiestates/estates-web/internal/observability/statsd"
	"github.com/dietiestates/estates-web/internal/ports"
)

// Board names used in logs and metrics.
const (
	BoardOffers   = "offers"
	BoardBookings = "bookings"
)

// StatusFilterAll selects every row of a board.
const StatusFilterAll = "All"

// BoardRow tells a Board how to read and patch a row of type T.
type BoardRow[T any] struct {
	ID         func(T) int64
	Status     func(T) listing.ReviewStatus
	WithStatus func(T, listing.ReviewStatus) T
}

// BoardBackend is the remote side of a Board.
type BoardBackend[T any] struct {
	List      func(ctx context.Context, token string) ([]T, error)
	SetStatus func(ctx context.Context, token string, id int64, status listing.ReviewStatus) error
	Delete    func(ctx context.Context, token string, id int64) error
}

// BoardOptions groups dependencies for NewBoard.
type BoardOptions[T any] struct {
	Name    string
	Row     BoardRow[T]
	Backend BoardBackend[T]
	Session *Session
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// Board is the client-side copy of an agent's offers or visit requests.
//
// Decide and Remove patch the local rows before calling the backend and undo
// the patch when the call fails. Anything that completes after the session
// identity changed is discarded, and an identity change resets the board.
type Board[T any] struct {
	name    string
	row     BoardRow[T]
	backend BoardBackend[T]
	session *Session
	logger  *slog.Logger
	metrics statsd.Sink

	mu     sync.Mutex
	status LoadStatus
	items  []T
	errMsg string
	// gen moves on every load and reset; a rollback only applies to the generation it patched.
	gen uint64

	unsubscribe func()
}

// NewBoard constructs an Idle board bound to session.
func NewBoard[T any](opts BoardOptions[T]) *Board[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Discard
	}
	b := &Board[T]{
		name:    opts.Name,
		row:     opts.Row,
		backend: opts.Backend,
		session: opts.Session,
		logger:  logger.With("component", "board", "board", opts.Name),
		metrics: sink,
		status:  StatusIdle,
	}
	b.unsubscribe = opts.Session.Subscribe(func(domainauth.Identity, bool) { b.reset() })
	return b
}

// NewOfferBoard wires a Board over ports.OfferClient.
func NewOfferBoard(session *Session, offers ports.OfferClient, logger *slog.Logger, sink statsd.Sink) *Board[listing.Offer] {
	return NewBoard(BoardOptions[listing.Offer]{
		Name: BoardOffers,
		Row: BoardRow[listing.Offer]{
			ID:     func(o listing.Offer) int64 { return o.ID },
			Status: func(o listing.Offer) listing.ReviewStatus { return o.Status },
			WithStatus: func(o listing.Offer, s listing.ReviewStatus) listing.Offer {
				o.Status = s
				return o
			},
		},
		Backend: BoardBackend[listing.Offer]{
			List:      offers.ListForAgent,
			SetStatus: offers.SetStatus,
			Delete:    offers.Delete,
		},
		Session: session,
		Logger:  logger,
		Metrics: sink,
	})
}

// NewBookingBoard wires a Board over ports.VisitClient.
func NewBookingBoard(session *Session, visits ports.VisitClient, logger *slog.Logger, sink statsd.Sink) *Board[listing.Visit] {
	return NewBoard(BoardOptions[listing.Visit]{
		Name: BoardBookings,
		Row: BoardRow[listing.Visit]{
			ID:     func(v listing.Visit) int64 { return v.ID },
			Status: func(v listing.Visit) listing.ReviewStatus { return v.Status },
			WithStatus: func(v listing.Visit, s listing.ReviewStatus) listing.Visit {
				v.Status = s
				return v
			},
		},
		Backend: BoardBackend[listing.Visit]{
			List:      visits.ListForAgent,
			SetStatus: visits.SetStatus,
			Delete:    visits.Delete,
		},
		Session: session,
		Logger:  logger,
		Metrics: sink,
	})
}

// Close detaches the board from its session.
func (b *Board[T]) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// Load fetches the rows for the current identity.
func (b *Board[T]) Load(ctx context.Context) error {
	token, epoch, ok := b.session.Credentials()
	if !ok {
		return apperrors.Authentication("login required")
	}

	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.status = StatusLoading
	b.errMsg = ""
	b.mu.Unlock()

	rows, err := b.backend.List(ctx, token)

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen || epoch != b.session.Epoch() {
		metrics.BoardLoad(b.metrics, b.name, true, err)
		b.logger.Debug("discarding stale board load")
		return nil
	}
	metrics.BoardLoad(b.metrics, b.name, false, err)
	if err != nil {
		b.status = StatusError
		b.errMsg = "Failed to load " + b.name + ". Please try again later."
		b.items = nil
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	b.status = StatusLoaded
	b.items = rows
	return nil
}

// StatusCounts counts rows per review status.
type StatusCounts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// BoardView is a filtered copy of a board.
type BoardView[T any] struct {
	Status LoadStatus   `json:"status"`
	Filter string       `json:"filter"`
	Items  []T          `json:"items"`
	Counts StatusCounts `json:"counts"`
	Error  string       `json:"error,omitempty"`
}

// View returns the rows matching filter ("All", "Pending", "Accepted" or "Rejected").
// Counts always cover every row.
func (b *Board[T]) View(filter string) (BoardView[T], error) {
	want, all := listing.ReviewStatus(""), true
	if filter != "" && filter != StatusFilterAll {
		s, ok := listing.ParseReviewStatus(filter)
		if !ok {
			return BoardView[T]{}, apperrors.ValidationField("status", "Unknown status filter.")
		}
		want, all = s, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	view := BoardView[T]{Status: b.status, Filter: StatusFilterAll, Items: []T{}, Error: b.errMsg}
	if !all {
		view.Filter = string(want)
	}
	for _, it := range b.items {
		st := b.row.Status(it)
		view.Counts.All++
		switch st {
		case listing.StatusPending:
			view.Counts.Pending++
		case listing.StatusAccepted:
			view.Counts.Accepted++
		case listing.StatusRejected:
			view.Counts.Rejected++
		}
		if all || st == want {
			view.Items = append(view.Items, it)
		}
	}
	return view, nil
}

// Decide accepts or rejects a pending row.
func (b *Board[T]) Decide(ctx context.Context, id int64, decision listing.ReviewStatus) error {
	if decision != listing.StatusAccepted && decision != listing.StatusRejected {
		return apperrors.ValidationField("status", "Decision must be Accepted or Rejected.")
	}
	token, epoch, ok := b.session.Credentials()
	if !ok {
		return apperrors.Authentication("login required")
	}

	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return apperrors.NotFoundf("%s %d not found", b.name, id)
	}
	prev := b.items[idx]
	if b.row.Status(prev) != listing.StatusPending {
		b.mu.Unlock()
		return apperrors.Conflict("only pending requests can be decided")
	}
	b.items[idx] = b.row.WithStatus(prev, decision)
	gen := b.gen
	b.mu.Unlock()

	err := b.backend.SetStatus(ctx, token, id, decision)
	if err == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen == b.gen && epoch == b.session.Epoch() {
		if i := b.indexOf(id); i >= 0 && b.row.Status(b.items[i]) == decision {
			b.items[i] = prev
			metrics.BoardRollback(b.metrics, b.name, "decide")
		}
	}
	b.logger.Warn("decision failed", "id", id, "decision", decision, "error", err)
	return err
}

// Remove deletes a row.
func (b *Board[T]) Remove(ctx context.Context, id int64) error {
	token, epoch, ok := b.session.Credentials()
	if !ok {
		return apperrors.Authentication("login required")
	}

	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return apperrors.NotFoundf("%s %d not found", b.name, id)
	}
	removed := b.items[idx]
	b.items = slices.Delete(slices.Clone(b.items), idx, idx+1)
	gen := b.gen
	b.mu.Unlock()

	err := b.backend.Delete(ctx, token, id)
	if err == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen == b.gen && epoch == b.session.Epoch() && b.indexOf(id) < 0 {
		at := min(idx, len(b.items))
		b.items = slices.Insert(b.items, at, removed)
		metrics.BoardRollback(b.metrics, b.name, "remove")
	}
	b.logger.Warn("remove failed", "id", id, "error", err)
	return err
}

// Snapshot returns the raw status and rows.
func (b *Board[T]) Snapshot() (LoadStatus, []T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status, slices.Clone(b.items)
}

func (b *Board[T]) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.status = StatusIdle
	b.items = nil
	b.errMsg = ""
}

// indexOf must be called with b.mu held.
func (b *Board[T]) indexOf(id int64) int {
	return slices.IndexFunc(b.items, func(it T) bool { return b.row.ID(it) == id })
}
