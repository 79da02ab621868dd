package service

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/domain/profile"
	"github.com/dietiestates/estates-web/internal/domain/search"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/observability/statsd"
	"github.com/dietiestates/estates-web/internal/ports"
)

// Client is the state owned by one browser client.
type Client struct {
	Session  *Session
	Search   *SearchEngine
	Offers   *Board[listing.Offer]
	Bookings *Board[listing.Visit]
	Profile  *ProfileSelection

	idMu sync.Mutex
	id   string
}

// ID returns the id the browser currently presents for this client.
func (c *Client) ID() string {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	return c.id
}

func (c *Client) setID(id string) {
	c.idMu.Lock()
	c.id = id
	c.idMu.Unlock()
}

func (c *Client) close() {
	c.Offers.Close()
	c.Bookings.Close()
	c.Profile.close()
}

// ProfileSelection is the capability picked in the profile menu.
type ProfileSelection struct {
	table   *domainauth.PermissionTable
	session *Session

	mu          sync.Mutex
	active      domainauth.Capability
	unsubscribe func()
}

func newProfileSelection(table *domainauth.PermissionTable, session *Session) *ProfileSelection {
	p := &ProfileSelection{table: table, session: session, active: domainauth.CapViewDetails}
	p.unsubscribe = session.Subscribe(func(domainauth.Identity, bool) {
		p.mu.Lock()
		p.active = domainauth.CapViewDetails
		p.mu.Unlock()
	})
	return p
}

// Select makes c the active capability. The identity's role must hold it and
// it must have a view; logout is executed, never rendered.
func (p *ProfileSelection) Select(c domainauth.Capability) (profile.ViewDescriptor, error) {
	id, ok := p.session.Current()
	if !ok {
		return profile.ViewDescriptor{}, apperrors.Authentication("login required")
	}
	if !p.table.Allows(id.Role, c) {
		return profile.ViewDescriptor{}, apperrors.Authorization("capability not available for this role")
	}
	if !profile.HasView(c) {
		return profile.ViewDescriptor{}, apperrors.ValidationField("capability", "This menu entry has no view.")
	}

	p.mu.Lock()
	p.active = c
	p.mu.Unlock()
	return profile.ViewFor(c), nil
}

// Active returns the view of the selected capability.
func (p *ProfileSelection) Active() profile.ViewDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return profile.ViewFor(p.active)
}

func (p *ProfileSelection) close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
}

// ClientDeps are the shared collaborators every Client is built from.
type ClientDeps struct {
	Store       ports.TokenStore
	Gateway     ports.AuthGateway
	Decoder     ports.TokenDecoder
	Searcher    ports.PropertySearcher
	Offers      ports.OfferClient
	Visits      ports.VisitClient
	Permissions *domainauth.PermissionTable
	Paging      search.Paging
	Logger      *slog.Logger
	Metrics     statsd.Sink
	Now         func() time.Time
}

// RegistryConfig bounds the registry.
type RegistryConfig struct {
	Capacity int
	IdleTTL  time.Duration
	Now      func() time.Time
}

// DefaultRegistryConfig returns sensible defaults.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{Capacity: 10000, IdleTTL: 2 * time.Hour, Now: time.Now}
}

// Registry keeps the Clients of active browsers in an LRU with an idle TTL.
// Concurrent first requests for the same client share one construction.
type Registry struct {
	deps ClientDeps
	cap  int
	ttl  time.Duration
	now  func() time.Time

	mu     sync.Mutex
	ll     *list.List // front = most recently used
	items  map[string]*list.Element
	group  singleflight.Group
	evicts atomic.Uint64
}

type registryEntry struct {
	id       string
	client   *Client
	lastSeen time.Time
}

// NewRegistry creates a Registry.
func NewRegistry(deps ClientDeps, cfg RegistryConfig) *Registry {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultRegistryConfig().Capacity
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = statsd.Discard
	}
	if deps.Permissions == nil {
		deps.Permissions = domainauth.DefaultPermissions()
	}
	return &Registry{
		deps:  deps,
		cap:   capacity,
		ttl:   cfg.IdleTTL,
		now:   now,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get returns the Client for id, creating it and recovering its session on first use.
func (r *Registry) Get(ctx context.Context, id string) *Client {
	if c, ok := r.lookup(id); ok {
		return c
	}

	v, _, _ := r.group.Do(id, func() (any, error) {
		if c, ok := r.lookup(id); ok {
			return c, nil
		}
		c := r.build(id)
		// Recovery must not be cut short by the request that happened to trigger it.
		c.Session.RecoverSession(context.WithoutCancel(ctx))
		r.put(id, c)
		return c, nil
	})
	return v.(*Client)
}

// Peek returns an existing Client without creating one.
func (r *Registry) Peek(id string) (*Client, bool) {
	return r.lookup(id)
}

// Remove drops a Client.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.items[id]; ok {
		r.removeElement(el)
		return true
	}
	return false
}

// Rotate moves c to a freshly generated id and returns it. The old id stops
// resolving to c and the persisted token follows the client, so an id known
// before an identity change grants nothing afterwards.
func (r *Registry) Rotate(ctx context.Context, c *Client) string {
	newID := uuid.NewString()

	r.mu.Lock()
	oldID := c.ID()
	if el, ok := r.items[oldID]; ok && el.Value.(*registryEntry).client == c {
		ent := el.Value.(*registryEntry)
		delete(r.items, oldID)
		ent.id = newID
		ent.lastSeen = r.now()
		r.items[newID] = el
		r.ll.MoveToFront(el)
	}
	c.setID(newID)
	r.mu.Unlock()

	c.Session.moveTo(ctx, newID)
	return newID
}

// Len returns the number of live clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ll.Len()
}

// Evictions returns how many clients were evicted for capacity or idleness.
func (r *Registry) Evictions() uint64 { return r.evicts.Load() }

func (r *Registry) build(id string) *Client {
	d := r.deps
	logger := d.Logger.With("client_id", id)
	session := NewSession(SessionOptions{
		ClientID: id,
		Store:    d.Store,
		Gateway:  d.Gateway,
		Decoder:  d.Decoder,
		Logger:   logger,
		Metrics:  d.Metrics,
		Now:      d.Now,
	})
	return &Client{
		id:      id,
		Session: session,
		Search: NewSearchEngine(SearchEngineOptions{
			Searcher: d.Searcher,
			Paging:   d.Paging,
			Logger:   logger,
			Metrics:  d.Metrics,
		}),
		Offers:   NewOfferBoard(session, d.Offers, logger, d.Metrics),
		Bookings: NewBookingBoard(session, d.Visits, logger, d.Metrics),
		Profile:  newProfileSelection(d.Permissions, session),
	}
}

func (r *Registry) lookup(id string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.items[id]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*registryEntry)
	now := r.now()
	if r.ttl > 0 && now.Sub(ent.lastSeen) > r.ttl {
		r.removeElement(el)
		r.evicts.Add(1)
		return nil, false
	}
	ent.lastSeen = now
	r.ll.MoveToFront(el)
	return ent.client, true
}

func (r *Registry) put(id string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.items[id]; ok {
		r.removeElement(el)
	}
	r.items[id] = r.ll.PushFront(&registryEntry{id: id, client: c, lastSeen: r.now()})
	for r.ll.Len() > r.cap {
		r.removeElement(r.ll.Back())
		r.evicts.Add(1)
	}
}

// removeElement must be called with r.mu held.
func (r *Registry) removeElement(el *list.Element) {
	r.ll.Remove(el)
	ent := el.Value.(*registryEntry)
	delete(r.items, ent.id)
	ent.client.close()
}
