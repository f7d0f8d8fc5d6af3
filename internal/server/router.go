package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nullsec-systems/hotzone/internal/handlers"
	"github.com/nullsec-systems/hotzone/internal/middleware"
)

// NewRouter constructs a ServeMux with the query API routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/healthz", h.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	// Kills API routes
	mux.HandleFunc("/api/v1/kills/recent", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.RecentKills(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/kills/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.GetKill(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Hotspots and stats
	mux.HandleFunc("/api/v1/hotspots", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.Hotspots(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.Stats(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Demand API routes
	mux.HandleFunc("/api/v1/demand/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/top") {
			h.TopDestroyed(w, r)
		} else {
			h.ItemDemand(w, r)
		}
	})

	// Admin
	mux.HandleFunc("/api/v1/admin/universe/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.RefreshUniverse(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	return middleware.RequestID(mux)
}
