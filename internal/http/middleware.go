package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/service"
)

// ClientCookieName identifies the browser client.
const ClientCookieName = "estates_client"

const clientCookieMaxAge = 30 * 24 * time.Hour

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			}
			if c, ok := GetClientFromContext(r.Context()); ok {
				attrs = append(attrs, slog.String("client_id", c.ID()))
			}
			logger.Info("http", attrs...)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CookieConfig holds the attributes of cookies issued by the BFF.
type CookieConfig struct {
	Domain string
	Secure bool
}

func (c CookieConfig) secure(r *http.Request) bool {
	return c.Secure || r.TLS != nil || isForwardedHTTPS(r)
}

// ClientContext resolves the browser client from its cookie, issuing a new
// client id when the cookie is missing or malformed, and stores the
// Client in the request context.
func ClientContext(registry *service.Registry, cookies CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := clientIDFromRequest(r)
			if id == "" {
				id = uuid.NewString()
				setClientCookie(w, r, cookies, id)
			}
			client := registry.Get(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(SetClientInContext(r.Context(), client)))
		})
	}
}

func setClientCookie(w http.ResponseWriter, r *http.Request, cookies CookieConfig, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    id,
		Path:     "/",
		Domain:   cookies.Domain,
		HttpOnly: true,
		Secure:   cookies.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(clientCookieMaxAge.Seconds()),
	})
}

// rotateClient gives c a new id after login or logout and sends it to the
// browser. The id the browser held before stops resolving to c.
func rotateClient(w http.ResponseWriter, r *http.Request, registry *service.Registry, cookies CookieConfig, c *service.Client) {
	if registry == nil {
		return
	}
	setClientCookie(w, r, cookies, registry.Rotate(r.Context(), c))
}

func clientIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(ClientCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// RequireLogin rejects requests without an authenticated identity.
func RequireLogin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := GetClientFromContext(r.Context())
			if !ok {
				WriteAppError(w, r, logger, apperrors.Internal("client context missing"))
				return
			}
			if _, ok := c.Session.Current(); !ok {
				WriteAppError(w, r, logger, apperrors.Authentication("authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability rejects requests whose identity's role does not hold cap.
// Unauthenticated requests get 401, others 403.
func RequireCapability(table *domainauth.PermissionTable, c domainauth.Capability, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, ok := GetClientFromContext(r.Context())
			if !ok {
				WriteAppError(w, r, logger, apperrors.Internal("client context missing"))
				return
			}
			id, ok := client.Session.Current()
			if !ok {
				WriteAppError(w, r, logger, apperrors.Authentication("authentication required"))
				return
			}
			if !table.Allows(id.Role, c) {
				WriteAppError(w, r, logger, apperrors.Authorization("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// isForwardedHTTPS checks if the request was forwarded over HTTPS.
// Handles comma-separated values in X-Forwarded-Proto header.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
