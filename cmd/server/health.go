package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// pinger is satisfied by *database.Client
type pinger interface {
	HealthCheck(ctx context.Context) error
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Error   string `json:"error,omitempty"`
}

func writeHealth(w http.ResponseWriter, code int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to write health response")
	}
}

// healthzHandler is the liveness probe
func healthzHandler(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, healthResponse{Status: "healthy", Service: service})
	}
}

// readyzHandler is the readiness probe; it fails while the database is unreachable
func readyzHandler(service string, db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			writeHealth(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Service: service, Error: err.Error()})
			return
		}
		writeHealth(w, http.StatusOK, healthResponse{Status: "ready", Service: service})
	}
}

// newHealthMux serves the HTTP probes
func newHealthMux(service string, db pinger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthzHandler(service))
	mux.HandleFunc("GET /readyz", readyzHandler(service, db))
	return mux
}
