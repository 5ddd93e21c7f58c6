package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcusziade/satvid-go/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestWithAuthMessages(t *testing.T) {
	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Missing Authorization header"}`,
		},
		{
			name:       "Not a bearer token",
			header:     "Basic abc123",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid Authorization header format"}`,
		},
		{
			name:       "Wrong secret",
			header:     "Bearer nope",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid authorization token"}`,
		},
		{
			name:       "Correct secret",
			header:     "Bearer secret",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
	}

	handler := WithAuth("secret")(okHandler())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/process-image", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if body := rec.Body.String(); body != tc.wantBody && body != tc.wantBody+"\n" {
				t.Errorf("Expected body %q, got %q", tc.wantBody, body)
			}
		})
	}
}

func TestWithCORSPreflight(t *testing.T) {
	handler := WithCORS(nil)(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/process-image", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected origin echoed, got %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Preflight must not reach the handler")
	}
}

func TestWithRecover(t *testing.T) {
	log := logger.NewWithWriter(logger.Error, io.Discard)
	handler := WithRecover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 after panic, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"error":"Internal server error"}`+"\n" {
		t.Errorf("Expected generic JSON error, got %q", body)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(mw("outer"), mw("inner"))(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("Unexpected middleware order: %v", order)
	}
}
