// Package api exposes the small HTTP surface alongside the websocket
// upgrade endpoint: a health check and CORS handling for browser
// clients.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hanamikoji/config"
)

type healthResponse struct {
	Status      string   `json:"status"`
	Environment string   `json:"environment"`
	Timestamp   string   `json:"timestamp"`
	CorsOrigins []string `json:"corsOrigins"`
}

// HealthHandler reports liveness, the running environment, the
// current time, and the configured CORS origins, wrapped with
// otelhttp so it shows up in traces like every other route.
func HealthHandler(cfg *config.Config) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(healthResponse{
			Status:      "ok",
			Environment: cfg.Environment,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			CorsOrigins: cfg.CORSOrigins,
		})
	})
	return otelhttp.NewHandler(h, "health")
}

// CORS wraps a handler with permissive or allow-listed CORS headers
// depending on cfg.CORSOrigins.
func CORS(cfg *config.Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigin(cfg.CORSOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func allowedOrigin(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
