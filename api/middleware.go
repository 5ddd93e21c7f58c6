package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/marcusziade/satvid-go/internal/errors"
	"github.com/marcusziade/satvid-go/internal/logger"
)

// Middleware defines an HTTP middleware function
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middleware into a single middleware
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// WithLogger adds request logging to the middleware chain
func WithLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer that captures the status code
			crw := &captureResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			// Add request ID to context
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = generateRequestID()
			}
			ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)

			next.ServeHTTP(crw, r.WithContext(ctx))

			duration := time.Since(start)
			log.Info("%s %s [%s] %d %v",
				r.Method, r.URL.Path, requestID, crw.statusCode, duration)
		})
	}
}

// WithRecover converts panics into logged generic 500 responses so an
// unexpected failure never leaks internals or kills the request loop.
func WithRecover(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic handling %s %s: %v", r.Method, r.URL.Path, rec)
					writeError(w, "Internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WithCORS adds CORS headers to the middleware chain
func WithCORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Check if the origin is allowed
			allowed := len(allowedOrigins) == 0 // If no origins specified, allow all
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					allowed = true
					break
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
				w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours
			}

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithAuth validates the bearer token against the shared secret. The three
// failure modes get distinct messages so the frontend can tell a missing
// header from a stale token.
func WithAuth(token string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeAuthError(w, errors.Auth("Missing Authorization header"))
				return
			}

			if !strings.HasPrefix(auth, "Bearer ") {
				writeAuthError(w, errors.Auth("Invalid Authorization header format"))
				return
			}

			received := strings.TrimPrefix(auth, "Bearer ")
			if received != token {
				writeAuthError(w, errors.Auth("Invalid authorization token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError writes a 401 taxonomy error as JSON.
func writeAuthError(w http.ResponseWriter, serr *errors.ServerError) {
	writeError(w, serr.Message, serr.StatusCode)
}

// Helper functions and types

// captureResponseWriter captures the status code of the response
type captureResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code
func (crw *captureResponseWriter) WriteHeader(code int) {
	crw.statusCode = code
	crw.ResponseWriter.WriteHeader(code)
}

// generateRequestID generates a random request ID
func generateRequestID() string {
	// Simple implementation: use current timestamp
	return time.Now().Format("20060102.150405.000000")
}

// Context keys
type contextKey string

const (
	contextKeyRequestID contextKey = "requestID"
)
