package httpx

import (
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/service"
)

// clientOrFail returns the request's client, writing a 500 when the
// ClientContext middleware did not run.
func clientOrFail(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*service.Client, bool) {
	c, ok := GetClientFromContext(r.Context())
	if !ok {
		WriteAppError(w, r, logger, apperrors.Internal("client context missing"))
		return nil, false
	}
	return c, true
}

// pathInt64 parses a positive integer path value, writing a 400 on failure.
func pathInt64(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (int64, bool) {
	raw := r.PathValue(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		WriteAppError(w, r, logger, apperrors.ValidationField(name, "Must be a positive integer."))
		return 0, false
	}
	return v, true
}
