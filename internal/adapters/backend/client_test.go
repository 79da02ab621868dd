package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dietiestates/estates-web/internal/domain/auth"
	"github.com/dietiestates/estates-web/internal/domain/listing"
	apperrors "github.com/dietiestates/estates-web/internal/errors"
	"github.com/dietiestates/estates-web/internal/ports"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL: srv.URL + "/api/",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"ok", "http://localhost:8080/api", false},
		{"empty", "  ", true},
		{"relative", "/api", true},
		{"bad scheme", "ftp://host/api", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(Config{BaseURL: tt.base})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/properties/search", r.URL.Path)
		assert.Equal(t, "Naples", r.URL.Query().Get("location"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"items":         []map[string]any{{"id": 1, "price": 120000, "saleType": "Sale"}},
			"totalPages":    3,
			"totalElements": 21,
			"currentPage":   1,
		})
	})

	page, err := c.Search(context.Background(), ports.SearchQuery{Location: "Naples", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Items[0].ID)
	assert.InDelta(t, 120000, *page.Items[0].Price, 0.01)
	assert.Equal(t, listing.SaleTypeSale, page.Items[0].SaleType)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 21, page.TotalElements)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestSearch_SpringPageAndEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("location") == "Nowhere" {
			writeJSON(w, http.StatusOK, map[string]any{"totalPages": 0, "totalElements": 0})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"content":       []map[string]any{{"id": 5}, {"id": 6}},
			"totalPages":    1,
			"totalElements": 2,
			"number":        0,
		})
	})

	page, err := c.Search(context.Background(), ports.SearchQuery{Location: "Rome", Size: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	empty, err := c.Search(context.Background(), ports.SearchQuery{Location: "Nowhere", Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestGet_SendsBearerToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/properties/7", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 7})
	})

	p, err := c.Get(context.Background(), "tok", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		switch body["email"] {
		case "ok@x.it":
			writeJSON(w, http.StatusOK, map[string]string{"accessToken": "jwt"})
		case "legacy@x.it":
			writeJSON(w, http.StatusOK, map[string]string{"token": "legacy-jwt"})
		case "empty@x.it":
			writeJSON(w, http.StatusOK, map[string]string{})
		case "bad@x.it":
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Bad credentials"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		}
	})
	ctx := context.Background()

	tok, err := c.Login(ctx, domainauth.Credentials{Email: " ok@x.it ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)

	tok, err = c.Login(ctx, domainauth.Credentials{Email: "legacy@x.it", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "legacy-jwt", tok)

	for _, email := range []string{"empty@x.it", "bad@x.it", "who@x.it"} {
		_, err = c.Login(ctx, domainauth.Credentials{Email: email, Password: "pw"})
		assert.True(t, apperrors.IsAuthentication(err), "%s: %v", email, err)
	}
}

func TestRegister_ErrorTranslation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["username"] {
		case "dup":
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already in use"})
		case "bad":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"errors": map[string]string{"email": "must be a well-formed email address"},
			})
		default:
			writeJSON(w, http.StatusCreated, map[string]string{})
		}
	})
	ctx := context.Background()

	res, err := c.Register(ctx, domainauth.Registration{Username: "new", Email: "n@x.it", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "registered", res.Status)

	_, err = c.Register(ctx, domainauth.Registration{Username: "dup"})
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "Email already in use", err.Error())

	_, err = c.Register(ctx, domainauth.Registration{Username: "bad"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "email", apperrors.GetField(err))
}

func TestTranslateStatus(t *testing.T) {
	tests := []struct {
		status int
		want   apperrors.ErrorCode
	}{
		{http.StatusUnauthorized, apperrors.ErrCodeAuthentication},
		{http.StatusForbidden, apperrors.ErrCodeAuthorization},
		{http.StatusNotFound, apperrors.ErrCodeNotFound},
		{http.StatusConflict, apperrors.ErrCodeConflict},
		{http.StatusBadRequest, apperrors.ErrCodeValidation},
		{http.StatusInternalServerError, apperrors.ErrCodeNetwork},
		{http.StatusBadGateway, apperrors.ErrCodeNetwork},
	}
	for _, tt := range tests {
		err := translateStatus("op", tt.status, "", nil)
		assert.Equal(t, tt.want, apperrors.GetCode(err), "status %d", tt.status)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.Search(context.Background(), ports.SearchQuery{Location: "Rome", Size: 10})
	assert.True(t, apperrors.IsNetwork(err), "%v", err)
}

func TestCanceledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, ports.SearchQuery{Location: "Rome", Size: 10})
	assert.True(t, apperrors.IsCanceled(err), "%v", err)
}

func TestMalformedResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "{not json")
	})
	_, err := c.Get(context.Background(), "", 1)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestVisits(t *testing.T) {
	when := time.Date(2025, 5, 10, 15, 0, 0, 0, time.UTC)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /api/visits/book":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.InDelta(t, 3, body["propertyId"], 0)
			assert.Equal(t, "2025-05-10T15:00:00Z", body["visitDate"])
			w.WriteHeader(http.StatusCreated)
		case "GET /api/visits/property/3/booked-dates":
			writeJSON(w, http.StatusOK, []string{"2025-05-11T10:00:00", "2025-05-12", "garbage"})
		case "PATCH /api/visits/9/status":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Accepted", body["status"])
			w.WriteHeader(http.StatusNoContent)
		case "DELETE /api/visits/9":
			w.WriteHeader(http.StatusNoContent)
		case "GET /api/visits/agent":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 9, "status": "Pending"}})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()
	v := c.Visits()

	require.NoError(t, v.Book(ctx, "tok", 3, when))

	dates, err := v.BookedDates(ctx, "tok", 3)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2025, 5, 11, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
	}, dates)

	require.NoError(t, v.SetStatus(ctx, "tok", 9, listing.StatusAccepted))
	require.NoError(t, v.Delete(ctx, "tok", 9))

	list, err := v.ListForAgent(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, listing.StatusPending, list[0].Status)
}

func TestOffersAndUsers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /api/offers":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.InDelta(t, 95000, body["offerPrice"], 0.01)
			w.WriteHeader(http.StatusCreated)
		case "GET /api/offers/agent":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "offerPrice": 95000, "status": "Pending"}})
		case "PATCH /api/offers/1/status", "DELETE /api/offers/1":
			w.WriteHeader(http.StatusNoContent)
		case "GET /api/user/anna@x.it/has-password":
			writeJSON(w, http.StatusOK, map[string]bool{"hasPassword": true})
		case "PATCH /api/user/change-password":
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Current password is wrong"})
		case "POST /api/management/users":
			var body ports.NewUser
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "AGENT", body.RoleName)
			w.WriteHeader(http.StatusCreated)
		case "GET /api/agent/dashboard":
			writeJSON(w, http.StatusOK, listing.AgentStats{Views: 10, Visits: 2, Offers: 1, ActiveListings: 4})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	require.NoError(t, c.Offers().Make(ctx, "tok", 1, 95000))
	offers, err := c.Offers().ListForAgent(ctx, "tok")
	require.NoError(t, err)
	assert.InDelta(t, 95000, offers[0].OfferPrice, 0.01)
	require.NoError(t, c.Offers().SetStatus(ctx, "tok", 1, listing.StatusRejected))
	require.NoError(t, c.Offers().Delete(ctx, "tok", 1))

	has, err := c.Users().HasPassword(ctx, "tok", "anna@x.it")
	require.NoError(t, err)
	assert.True(t, has)

	err = c.Users().ChangePassword(ctx, "tok", ports.PasswordChange{Email: "anna@x.it", NewPassword: "newpassword"})
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, c.Users().Create(ctx, "tok", ports.NewUser{Username: "a", RoleName: "AGENT"}))

	stats, err := c.Users().AgentStats(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.ActiveListings)
}
