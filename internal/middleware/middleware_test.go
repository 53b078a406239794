package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gourl/sqids/internal/metrics"
	"github.com/gourl/sqids/pkg/logger"
)

func tagging(tag string, order *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, tag)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	chain := New(tagging("first", &order), tagging("second", &order)).
		Append(tagging("third", &order))

	handler := chain.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "third", "handler"}, order)
}

func TestChain_AppendDoesNotModifyOriginal(t *testing.T) {
	var order []string
	base := New(tagging("base", &order))
	_ = base.Append(tagging("extra", &order))

	base.Then(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"base"}, order)
}

func TestChain_NilHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	New().Then(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRequestID(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	ctx := context.WithValue(context.Background(), RequestIDKey, "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when missing", incoming: "", keep: false},
		{name: "kept when valid", incoming: "req-123_abc", keep: true},
		{name: "replaced when unsafe", incoming: "bad id<script>", keep: false},
		{name: "replaced when too long", incoming: strings.Repeat("a", requestIDMaxLength+1), keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderXRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(HeaderXRequestID))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
				assert.Len(t, seen, 36)
			}
		})
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)
	assert.Equal(t, http.StatusOK, rw.statusCode)

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusNotFound, rw.statusCode)
}

func TestMetrics_RecordsRequest(t *testing.T) {
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/decode/{id}", "200")
	before := testutil.ToFloat64(counter)

	handler := Metrics()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/decode/86Rf07", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/health":                  "/health",
		"/ready":                   "/ready",
		"/metrics":                 "/metrics",
		"/api/v1/encode":           "/api/v1/encode",
		"/api/v1/decode/86Rf07":    "/api/v1/decode/{id}",
		"/api/v1/decode/":          "/other",
		"/api/v1/resources":        "/api/v1/resources",
		"/api/v1/resources/Uk":     "/api/v1/resources/{token}",
		"/api/v1/resources/Uk/sub": "/other",
		"/favicon.ico":             "/other",
	}

	for path, want := range tests {
		assert.Equal(t, want, normalizePath(path), path)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "debug")

	handler := New(RequestID(), Logging(log)).Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/encode", nil)
	req.Header.Set(HeaderXRequestID, "trace-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"request_id":"trace-1"`)
	assert.Contains(t, out, `"level":"DEBUG"`)
}

func TestLogging_ServerErrorAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "error")

	handler := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"msg":"request failed"`)
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "info")

	handler := Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"panic":"boom"`)
}
