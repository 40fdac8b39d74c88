package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sockethub/middleware"
)

func TestRequestIDDefaultConfiguration(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(middleware.RequestID())

	var capturedID string
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetRequestID(r.Context())
		assert.True(t, ok, "Request ID should be present in context")
		capturedID = id
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, capturedID, 36, "Default ID should be UUID v4 format")
	assert.Equal(t, capturedID, w.Header().Get("X-Request-ID"))
}

func TestRequestIDCustomGeneratorAndHeader(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:  func() string { return "custom-123" },
		HeaderName: "X-Trace-ID",
	}))
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetRequestID(r.Context())
		assert.Equal(t, "custom-123", id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "custom-123", w.Header().Get("X-Trace-ID"))
	assert.Empty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDUseExisting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		useExisting bool
		incoming    string
		want        string
	}{
		{name: "kept", useExisting: true, incoming: "from-client", want: "from-client"},
		{name: "empty header generates", useExisting: true, incoming: "", want: "generated"},
		{name: "ignored", useExisting: false, incoming: "from-client", want: "generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
				Generator:   func() string { return "generated" },
				UseExisting: tt.useExisting,
			})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	t.Parallel()

	id, ok := middleware.GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
	assert.Empty(t, id)
}
