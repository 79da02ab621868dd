package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/present"
	"github.com/dietiestates/estates-web/internal/service"
)

// BoardHandlers serve one review board (offers or bookings) of the client.
type BoardHandlers[T any] struct {
	Board  func(*service.Client) *service.Board[T]
	Logger *slog.Logger
}

func (h *BoardHandlers[T]) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// List loads the board when it was never loaded or ?refresh=true, then
// returns the rows matching ?status=.
// GET /api/manage/{board}.
func (h *BoardHandlers[T]) List(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	board := h.Board(c)
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	if st, _ := board.Snapshot(); refresh || st == service.StatusIdle {
		if err := board.Load(r.Context()); err != nil && !isBackendFailure(err) {
			WriteAppError(w, r, h.logger(), err)
			return
		}
	}
	view, err := board.View(r.URL.Query().Get("status"))
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// Decide accepts or rejects a pending row.
// POST /api/manage/{board}/{id}/{decision} with decision accept or reject.
func (h *BoardHandlers[T]) Decide(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, h.logger(), "id")
	if !ok {
		return
	}
	decision, ok := parseDecision(r.PathValue("decision"))
	if !ok {
		WriteAppError(w, r, h.logger(), apperrors.ValidationField("decision", "Decision must be accept or reject."))
		return
	}
	board := h.Board(c)
	if err := board.Decide(r.Context(), id, decision); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	h.writeView(w, r, board)
}

// Remove deletes a row.
// DELETE /api/manage/{board}/{id}.
func (h *BoardHandlers[T]) Remove(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, h.logger(), "id")
	if !ok {
		return
	}
	board := h.Board(c)
	if err := board.Remove(r.Context(), id); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	h.writeView(w, r, board)
}

func (h *BoardHandlers[T]) writeView(w http.ResponseWriter, r *http.Request, board *service.Board[T]) {
	view, err := board.View(r.URL.Query().Get("status"))
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// parseDecision accepts the verbs and the status names.
func parseDecision(raw string) (listing.ReviewStatus, bool) {
	switch strings.ToLower(raw) {
	case "accept":
		return listing.StatusAccepted, true
	case "reject":
		return listing.StatusRejected, true
	}
	st, ok := listing.ParseReviewStatus(raw)
	if !ok || st == listing.StatusPending {
		return "", false
	}
	return st, true
}

// isBackendFailure reports errors a board already turned into its error state.
func isBackendFailure(err error) bool {
	return apperrors.IsNetwork(err) || StatusFor(err) >= http.StatusInternalServerError
}

// ManageHandlers serve the dashboard and the management forms.
type ManageHandlers struct {
	Market    *service.Marketplace
	Presenter *present.Presenter
	Logger    *slog.Logger
}

type dashboardResponse struct {
	service.DashboardSnapshot
	Rows []present.StatRow `json:"rows"`
}

type passwordStatusResponse struct {
	HasPassword bool `json:"hasPassword"`
}

func (h *ManageHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *ManageHandlers) dashboard(w http.ResponseWriter, r *http.Request) (service.DashboardSnapshot, bool) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return service.DashboardSnapshot{}, false
	}
	snap, err := service.LoadDashboard(r.Context(), c, h.Market.Users())
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return service.DashboardSnapshot{}, false
	}
	return snap, true
}

// Dashboard returns the agent statistics and board counts.
// GET /api/manage/dashboard.
func (h *ManageHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.dashboard(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, dashboardResponse{DashboardSnapshot: snap, Rows: present.DashboardRows(snap)})
}

// DashboardCSV downloads the dashboard as a metric/value report.
// GET /api/manage/dashboard.csv.
func (h *ManageHandlers) DashboardCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.dashboard(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := present.WriteStatsCSV(&buf, present.DashboardRows(snap)); err != nil {
		WriteAppError(w, r, h.logger(), apperrors.Wrap(err, apperrors.ErrCodeInternal, "export failed"))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+present.StatsFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().DebugContext(r.Context(), "write csv response", "error", err)
	}
}

// AddProperty publishes a listing.
// POST /api/manage/properties.
func (h *ManageHandlers) AddProperty(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var form service.PropertyForm
	if !DecodeJSON(w, r, &form) {
		return
	}
	created, err := h.Market.AddProperty(r.Context(), c.Session, form)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, h.Presenter.Detail(created))
}

// CreateUser creates an agent or a manager.
// POST /api/manage/users/{role} with role agent or manager.
func (h *ManageHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var capability domainauth.Capability
	switch domainauth.ParseRole(r.PathValue("role")) {
	case domainauth.RoleAgent:
		capability = domainauth.CapCreateAgent
	case domainauth.RoleManager:
		capability = domainauth.CapCreateManager
	default:
		WriteAppError(w, r, h.logger(), apperrors.ValidationField("roleName", "Only agents and managers can be created."))
		return
	}
	var form service.UserForm
	if !DecodeJSON(w, r, &form) {
		return
	}
	created, err := h.Market.CreateUser(r.Context(), c.Session, capability, form)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// PasswordStatus tells the form whether the current password is required.
// GET /api/account/password.
func (h *ManageHandlers) PasswordStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	has, err := h.Market.PasswordStatus(r.Context(), c.Session)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusOK, passwordStatusResponse{HasPassword: has})
}

// ChangePassword sets or replaces the account password.
// POST /api/account/password.
func (h *ManageHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	var form service.PasswordForm
	if !DecodeJSON(w, r, &form) {
		return
	}
	if err := h.Market.ChangePassword(r.Context(), c.Session, form); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
