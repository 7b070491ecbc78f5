// Package api exposes the retrieval service over HTTP:
// GET /rag/retrieve and GET /health, both JSON, both open to any
// origin. Intended for internal/demo deployments; tighten CORS before
// exposing publicly.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/velvetcrest/salon-rag/internal/retrieval"
)

// Retriever is the service surface the handlers depend on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (*retrieval.RetrieveResponse, error)
	Health(ctx context.Context) (*retrieval.HealthResponse, error)
}

// NewMux builds the HTTP routing table for the retrieval API.
func NewMux(svc Retriever) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/rag/retrieve", handleRetrieve(svc))
	mux.HandleFunc("/health", handleHealth(svc))
	return mux
}

func handleRetrieve(svc Retriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")

		k := retrieval.DefaultK
		if raw := r.URL.Query().Get("k"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "k must be an integer")
				return
			}
			k = parsed
		}

		resp, err := svc.Retrieve(r.Context(), q, k)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleHealth(svc Retriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := svc.Health(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
