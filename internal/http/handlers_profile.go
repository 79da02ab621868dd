package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/guard"
	"github.com/dietiestates/estates-web/internal/domain/profile"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/service"
)

// ProfileHandlers serve the route guard, the profile menu and the active panel.
type ProfileHandlers struct {
	Guard       *guard.Guard
	Routes      *guard.Routes
	Permissions *domainauth.PermissionTable
	Registry    *service.Registry
	Cookies     CookieConfig
	Logger      *slog.Logger
}

type selectRequest struct {
	Capability domainauth.Capability `json:"capability"`
}

type menuResponse struct {
	Items  []domainauth.MenuItem  `json:"items"`
	Active profile.ViewDescriptor `json:"active"`
}

func (h *ProfileHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// CanEnter answers whether the client router may show path.
// GET /api/guard?path=/profile/offers.
func (h *ProfileHandlers) CanEnter(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteAppError(w, r, h.logger(), apperrors.ValidationField("path", "path is required"))
		return
	}
	var identity *domainauth.Identity
	if id, in := c.Session.Current(); in {
		identity = &id
	}
	WriteJSON(w, http.StatusOK, h.Guard.CanEnter(h.Routes.Lookup(path), identity))
}

// Menu lists the profile menu of the current role. Anonymous clients get an empty menu.
// GET /api/menu.
func (h *ProfileHandlers) Menu(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	resp := menuResponse{Items: []domainauth.MenuItem{}, Active: c.Profile.Active()}
	if id, in := c.Session.Current(); in {
		resp.Items = h.Permissions.Menu(id.Role)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Select makes a menu entry the active panel. Selecting logout logs the
// client out instead.
// POST /api/profile/select.
func (h *ProfileHandlers) Select(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var req selectRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Capability == domainauth.CapLogout {
		if _, in := c.Session.Current(); !in {
			WriteAppError(w, r, h.logger(), apperrors.Authentication("login required"))
			return
		}
		c.Session.Logout(r.Context())
		rotateClient(w, r, h.Registry, h.Cookies, c)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": guard.HomePath})
		return
	}
	view, err := c.Profile.Select(req.Capability)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// View returns the active panel.
// GET /api/profile/view.
func (h *ProfileHandlers) View(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, c.Profile.Active())
}
