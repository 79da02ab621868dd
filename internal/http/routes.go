package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/guard"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	"github.com/dietiestates/estates-web/internal/ports"
	"github.com/dietiestates/estates-web/internal/present"
	"github.com/dietiestates/estates-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Registry    *service.Registry
	Market      *service.Marketplace
	Presenter   *present.Presenter
	Permissions *domainauth.PermissionTable
	// Optional: federated login; nil disables /auth/federated/*.
	Federated ports.FederatedProvider
	Cookies   CookieConfig
	// DisableCSRF turns off the double-submit check (tests and trusted proxies only).
	DisableCSRF bool
	Logger      *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	permissions := services.Permissions
	if permissions == nil {
		permissions = domainauth.DefaultPermissions()
	}
	presenter := services.Presenter
	if presenter == nil {
		presenter = present.New(present.Options{})
	}
	g := guard.New(permissions)

	app := http.NewServeMux()
	registerAuthRoutes(app, &AuthHandlers{
		Federated:   services.Federated,
		Registry:    services.Registry,
		Permissions: permissions,
		Cookies:     services.Cookies,
		Logger:      logger,
	})
	registerProfileRoutes(app, &ProfileHandlers{
		Guard:       g,
		Routes:      g.DefaultRoutes(),
		Permissions: permissions,
		Registry:    services.Registry,
		Cookies:     services.Cookies,
		Logger:      logger,
	})
	registerSearchRoutes(app, &SearchHandlers{Presenter: presenter, Logger: logger})
	registerPropertyRoutes(app, &PropertyHandlers{Market: services.Market, Presenter: presenter, Logger: logger})
	registerManageRoutes(app, &ManageHandlers{Market: services.Market, Presenter: presenter, Logger: logger}, permissions, logger)

	var chain http.Handler = app
	if !services.DisableCSRF {
		chain = CSRFProtection(CSRFConfig{Cookies: services.Cookies})(chain)
	}
	chain = Logging(logger)(chain)
	chain = ClientContext(services.Registry, services.Cookies)(chain)

	root := http.NewServeMux()
	health := healthHandler(services.Registry)
	root.Handle("GET /healthz", health)
	root.Handle("HEAD /healthz", health)
	root.Handle("/", chain)
	return Recover(logger)(root)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Me)
	mux.HandleFunc("GET /auth/federated/login", h.FederatedLogin)
	mux.HandleFunc("GET /auth/federated/callback", h.FederatedCallback)
}

func registerProfileRoutes(mux *http.ServeMux, h *ProfileHandlers) {
	mux.HandleFunc("GET /api/guard", h.CanEnter)
	mux.HandleFunc("GET /api/menu", h.Menu)
	mux.HandleFunc("POST /api/profile/select", h.Select)
	mux.HandleFunc("GET /api/profile/view", h.View)
}

func registerSearchRoutes(mux *http.ServeMux, h *SearchHandlers) {
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("GET /api/search/state", h.State)
	mux.HandleFunc("POST /api/search/page/{page}", h.Page)
	mux.HandleFunc("PATCH /api/search/filters", h.EditFilters)
	mux.HandleFunc("POST /api/search/filters/open", h.OpenFilters)
	mux.HandleFunc("POST /api/search/filters/apply", h.ApplyFilters)
	mux.HandleFunc("POST /api/search/filters/reset", h.ResetFilters)
	mux.HandleFunc("POST /api/search/services/{name}/toggle", h.ToggleService)
	mux.HandleFunc("PUT /api/search/hover", h.Hover)
}

func registerPropertyRoutes(mux *http.ServeMux, h *PropertyHandlers) {
	mux.HandleFunc("GET /api/properties/{id}", h.Get)
	mux.HandleFunc("GET /api/properties/{id}/booked-dates", h.BookedDates)
	mux.HandleFunc("POST /api/properties/{id}/visits", h.BookVisit)
	mux.HandleFunc("POST /api/properties/{id}/offers", h.MakeOffer)
}

func registerManageRoutes(mux *http.ServeMux, h *ManageHandlers, table *domainauth.PermissionTable, logger *slog.Logger) {
	need := func(c domainauth.Capability, fn http.HandlerFunc) http.Handler {
		return RequireCapability(table, c, logger)(fn)
	}

	offers := &BoardHandlers[listing.Offer]{
		Board:  func(c *service.Client) *service.Board[listing.Offer] { return c.Offers },
		Logger: logger,
	}
	bookings := &BoardHandlers[listing.Visit]{
		Board:  func(c *service.Client) *service.Board[listing.Visit] { return c.Bookings },
		Logger: logger,
	}
	registerBoardRoutes(mux, "/api/manage/offers", offers, func(fn http.HandlerFunc) http.Handler {
		return need(domainauth.CapOffersView, fn)
	})
	registerBoardRoutes(mux, "/api/manage/bookings", bookings, func(fn http.HandlerFunc) http.Handler {
		return need(domainauth.CapBookingsView, fn)
	})

	mux.Handle("GET /api/manage/dashboard", need(domainauth.CapViewDashboard, h.Dashboard))
	mux.Handle("GET /api/manage/dashboard.csv", need(domainauth.CapViewDashboard, h.DashboardCSV))
	mux.Handle("POST /api/manage/properties", need(domainauth.CapAddProperty, h.AddProperty))
	// The capability depends on {role}; the marketplace checks it.
	mux.Handle("POST /api/manage/users/{role}", RequireLogin(logger)(http.HandlerFunc(h.CreateUser)))
	mux.Handle("GET /api/account/password", need(domainauth.CapChangePassword, h.PasswordStatus))
	mux.Handle("POST /api/account/password", need(domainauth.CapChangePassword, h.ChangePassword))
}

func registerBoardRoutes[T any](mux *http.ServeMux, base string, h *BoardHandlers[T], guarded func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET "+base, guarded(h.List))
	mux.Handle("POST "+base+"/{id}/{decision}", guarded(h.Decide))
	mux.Handle("DELETE "+base+"/{id}", guarded(h.Remove))
}
