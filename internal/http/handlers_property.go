package httpx

import (
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/present"
	"github.com/dietiestates/estates-web/internal/service"
)

// DateLayout is the wire format of visit days.
const DateLayout = time.DateOnly

// PropertyHandlers serve the detail page and its visit and offer forms.
type PropertyHandlers struct {
	Market    *service.Marketplace
	Presenter *present.Presenter
	Logger    *slog.Logger
}

type visitRequest struct {
	VisitDate string `json:"visitDate"`
}

type offerRequest struct {
	OfferPrice float64 `json:"offerPrice"`
}

type offerResponse struct {
	Status string `json:"status"`
	Amount string `json:"amount"`
}

func (h *PropertyHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Get returns the detail projection of a listing.
// GET /api/properties/{id}.
func (h *PropertyHandlers) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, h.logger(), "id")
	if !ok {
		return
	}
	p, err := h.Market.Property(r.Context(), c.Session, id)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusOK, h.Presenter.Detail(p))
}

// BookedDates lists the days that cannot be booked.
// GET /api/properties/{id}/booked-dates.
func (h *PropertyHandlers) BookedDates(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, h.logger(), "id")
	if !ok {
		return
	}
	dates, err := h.Market.BookedDates(r.Context(), c.Session, id)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(DateLayout))
	}
	WriteJSON(w, http.StatusOK, map[string][]string{"bookedDates": out})
}

// BookVisit requests a visit.
// POST /api/properties/{id}/visits with {"visitDate":"2006-01-02"}.
func (h *PropertyHandlers) BookVisit(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, h.logger(), "id")
	if !ok {
		return
	}
	var req visitRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	at, err := parseVisitDate(req.VisitDate)
	if err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	if err := h.Market.BookVisit(r.Context(), c.Session, id, at); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "booked", "visitDate": at.Format(DateLayout)})
}

// MakeOffer submits an offer below the listing price.
// POST /api/properties/{id}/offers with {"offerPrice":123000}.
func (h *PropertyHandlers) MakeOffer(w http.ResponseWriter, r *http.Request) {
	c, ok := clientOrFail(w, r, h.logger())
	if !ok {
		return
	}
	id, ok := pathInt64(w, r, h.logger(), "id")
	if !ok {
		return
	}
	var req offerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.Market.MakeOffer(r.Context(), c.Session, id, req.OfferPrice); err != nil {
		WriteAppError(w, r, h.logger(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, offerResponse{Status: "submitted", Amount: h.Presenter.Prices().Amount(req.OfferPrice)})
}

// parseVisitDate accepts a calendar day or an RFC 3339 timestamp.
func parseVisitDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.ValidationField("visitDate", "Please select a date for the visit.")
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.ValidationField("visitDate", "Invalid date.")
}
