package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/ports"
	"github.com/dietiestates/estates-web/internal/service"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginCookie     = "post_login_redirect"
	oauthCookieLifetime = 10 * time.Minute
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	// Federated is nil when federated login is disabled.
	Federated   ports.FederatedProvider
	Registry    *service.Registry
	Permissions *domainauth.PermissionTable
	Cookies     CookieConfig
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type identityResponse struct {
	Authenticated bool                  `json:"authenticated"`
	User          *domainauth.Identity  `json:"user,omitempty"`
	Menu          []domainauth.MenuItem `json:"menu"`
	Federated     bool                  `json:"federatedLogin"`
}

func (h *AuthHandlers) identity(id domainauth.Identity, ok bool) identityResponse {
	resp := identityResponse{Menu: []domainauth.MenuItem{}, Federated: h.Federated != nil}
	if ok {
		resp.Authenticated = true
		resp.User = &id
		resp.Menu = h.Permissions.Menu(id.Role)
	}
	return resp
}

// Login authenticates with email and password.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var creds domainauth.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}
	id, err := c.Session.Login(r.Context(), creds)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	rotateClient(w, r, h.Registry, h.Cookies, c)
	WriteJSON(w, http.StatusOK, h.identity(id, true))
}

// Register creates an account without logging in.
// POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var reg domainauth.Registration
	if !DecodeJSON(w, r, &reg) {
		return
	}
	res, err := c.Session.Register(r.Context(), reg)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

// Logout forgets the identity of the client.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	c.Session.Logout(r.Context())
	rotateClient(w, r, h.Registry, h.Cookies, c)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": "/"})
}

// Me returns the current identity and its menu.
// GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	id, in := c.Session.Current()
	WriteJSON(w, http.StatusOK, h.identity(id, in))
}

// FederatedLogin starts the identity provider redirect flow.
// GET /auth/federated/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) FederatedLogin(w http.ResponseWriter, r *http.Request) {
	if h.Federated == nil {
		WriteAppError(w, r, h.logger(), apperrors.NotFound("federated login is not enabled"))
		return
	}
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	authURL, state, nonce, err := h.Federated.Begin(r.Context(), ports.BeginInput{RedirectURL: redirectURI})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin federated login failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: errors.New("could not start login")})
		return
	}

	h.setTempCookie(w, r, oauthStateCookie, state)
	h.setTempCookie(w, r, oauthNonceCookie, nonce)
	h.setTempCookie(w, r, postLoginCookie, redirectURI)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// FederatedCallback completes the redirect flow and logs the client in.
// GET /auth/federated/callback?code=<code>&state=<state>.
func (h *AuthHandlers) FederatedCallback(w http.ResponseWriter, r *http.Request) {
	if h.Federated == nil {
		WriteAppError(w, r, h.logger(), apperrors.NotFound("federated login is not enabled"))
		return
	}
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_params", Err: errors.New("code and state are required")})
		return
	}
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_state", Err: errors.New("invalid or missing state parameter")})
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_nonce", Err: errors.New("missing nonce parameter")})
		return
	}

	profile, err := h.Federated.Exchange(r.Context(), ports.ExchangeInput{Code: code, State: state, Nonce: nonceCookie.Value})
	if err != nil {
		h.logger().WarnContext(r.Context(), "federated exchange failed", "error", err)
		WriteAppError(w, r, h.logger(), apperrors.Wrap(err, apperrors.ErrCodeAuthentication, "federated login failed"))
		return
	}
	if _, err := c.Session.LoginWithFederatedProvider(r.Context(), profile); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	rotateClient(w, r, h.Registry, h.Cookies, c)

	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)
	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusFound)
}

func (h *AuthHandlers) setTempCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.Cookies.Domain,
		HttpOnly: true,
		Secure:   h.Cookies.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthCookieLifetime.Seconds()),
	})
}

// clearCookie mirrors the attributes used when setting cookies so browsers drop them.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.Cookies.Domain,
		HttpOnly: true,
		Secure:   h.Cookies.secure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// postLoginRedirect returns the stored destination and clears its cookie.
func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if c, err := r.Cookie(postLoginCookie); err == nil {
		redirectURI = safeRedirectPath(c.Value)
		h.clearCookie(w, r, postLoginCookie)
	}
	return redirectURI
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") ||
		strings.Contains(candidate, "\\") {
		return "/"
	}
	return candidate
}
