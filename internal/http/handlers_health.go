package httpx

import (
	"net/http"
)

type healthResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
}

// healthHandler returns 200 OK with the number of live clients for
// readiness/liveness checks. HEAD requests get headers only.
func healthHandler(clients interface{ Len() int }) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		n := 0
		if clients != nil {
			n = clients.Len()
		}
		WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Clients: n})
	}
}
