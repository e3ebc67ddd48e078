package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the configured origins to call the API with credentials. The
// session token header and the redirect/replay/back-off headers are exposed
// to browser clients.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", SessionTokenHeader, IdempotencyKeyHeader, requestIDHeader},
		ExposedHeaders:   []string{SessionTokenHeader, requestIDHeader, "Location", "Retry-After", "Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	return cors.Handler(opts)
}
