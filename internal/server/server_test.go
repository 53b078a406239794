package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gourl/sqids/internal/config"
	"github.com/gourl/sqids/internal/repository"
	"github.com/gourl/sqids/internal/services"
	"github.com/gourl/sqids/pkg/logger"
	"github.com/gourl/sqids/pkg/sqids"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", LogLevel: "error"},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

func testServices(t *testing.T) Services {
	t.Helper()
	codec, err := sqids.New(sqids.Options{})
	require.NoError(t, err)

	codecSvc := services.NewCodecService(codec, nil)
	return Services{
		Codec:     codecSvc,
		Resources: services.NewResourceService(repository.NewMemoryResourceRepository(), codecSvc, nil),
	}
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv := New(testConfig(), logger.Nop(), testServices(t))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	require.Eventually(t, srv.IsRunning, time.Second, 10*time.Millisecond)
	require.NotEmpty(t, srv.Addr())

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-errCh)

	assert.False(t, srv.IsRunning())
	assert.False(t, srv.HealthHandler().IsReady())
	http.DefaultClient.CloseIdleConnections()
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = -1

	srv := New(cfg, logger.Nop(), Services{})
	assert.Error(t, srv.Start())
	assert.False(t, srv.IsRunning())
}

func TestServer_Routes(t *testing.T) {
	h := New(testConfig(), logger.Nop(), testServices(t)).Handler()

	rec := serve(h, http.MethodPost, "/api/v1/encode", `{"numbers":[1,2,3]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"86Rf07"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = serve(h, http.MethodGet, "/api/v1/decode/86Rf07", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"numbers":[1,2,3]}`, rec.Body.String())

	rec = serve(h, http.MethodPost, "/api/v1/resources", `{"name":"first"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Uk", created.Token)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/resources/Uk", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodDelete, "/api/v1/resources/Uk", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/v1/resources/Uk", "").Code)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodGet, "/api/v1/encode", "").Code)

	rec = serve(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sqids_encode_total")
}

func TestServer_ReadyChecks(t *testing.T) {
	srv := New(testConfig(), logger.Nop(), testServices(t))
	h := srv.Handler()

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/ready", "").Code)

	srv.HealthHandler().AddCheck("database", func(context.Context) error {
		return errors.New("unreachable")
	})
	rec := serve(h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"fail"`)
}

func TestServer_UnconfiguredServices(t *testing.T) {
	h := New(testConfig(), logger.Nop(), Services{}).Handler()

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodPost, "/api/v1/encode", `{}`).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/api/v1/decode/x", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/api/v1/resources/x", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health", "").Code)
}
