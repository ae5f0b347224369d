package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// withRateLimit caps each client IP to the configured number of requests
// per window. Excess requests are rejected with 429 and never queued.
// A non-positive quota disables the limiter.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	if h.server.RateLimitRequests <= 0 {
		return next
	}

	limiter := httprate.Limit(
		h.server.RateLimitRequests,
		h.server.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			message := fmt.Sprintf("too many requests, retry in %s", h.server.RateLimitWindow)
			writeErrorMessage(w, r, message, http.StatusTooManyRequests)
		}),
	)
	return limiter(next)
}

func (h *Handler) withCORS(next http.Handler) http.Handler {
	origins := h.server.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}
