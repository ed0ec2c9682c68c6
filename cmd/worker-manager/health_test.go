// cmd/worker-manager/health_test.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-recommender/internal/common/logger"
)

type fakeReadiness bool

func (f fakeReadiness) Ready() bool {
	return bool(f)
}

func get(t *testing.T, mux *http.ServeMux, path string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	body := map[string]string{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := get(t, newHealthMux(fakeReadiness(false), nil), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	brokerDown := func(context.Context) error { return errors.New("connection refused") }
	brokerUp := func(context.Context) error { return nil }

	tests := []struct {
		name    string
		loaded  bool
		broker  healthCheck
		code    int
		catalog string
	}{
		{name: "ready", loaded: true, broker: brokerUp, code: http.StatusOK, catalog: "loaded"},
		{name: "catalog not loaded", loaded: false, broker: brokerUp, code: http.StatusServiceUnavailable, catalog: "not_loaded"},
		{name: "broker down", loaded: true, broker: brokerDown, code: http.StatusServiceUnavailable, catalog: "loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, newHealthMux(fakeReadiness(tt.loaded), tt.broker), "/ready")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.catalog, body["catalog"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec, _ := get(t, newHealthMux(fakeReadiness(true), nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryWithBackoff(func() error {
		calls++
		return errors.New("down")
	}, 2, time.Millisecond, log, "dead op")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "dead op failed after 2 attempts")
}

type fakeBackend struct {
	pingErrs []error
	pings    int
	closed   bool
}

func (f *fakeBackend) Ping(context.Context) error {
	f.pings++
	if f.pings <= len(f.pingErrs) {
		return f.pingErrs[f.pings-1]
	}
	return nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestConnectWithRetry(t *testing.T) {
	log := logger.NewTestLogger(t)
	down := errors.New("connection refused")

	t.Run("opens once and retries ping", func(t *testing.T) {
		backend := &fakeBackend{pingErrs: []error{down, down}}
		opens := 0
		client, err := connectWithRetry(context.Background(), func() (*fakeBackend, error) {
			opens++
			return backend, nil
		}, 5, time.Millisecond, log, "fake connection")

		require.NoError(t, err)
		assert.Same(t, backend, client)
		assert.Equal(t, 1, opens)
		assert.Equal(t, 3, backend.pings)
		assert.False(t, backend.closed)
	})

	t.Run("closes a client that never answers", func(t *testing.T) {
		backend := &fakeBackend{pingErrs: []error{down, down, down}}
		opens := 0
		client, err := connectWithRetry(context.Background(), func() (*fakeBackend, error) {
			opens++
			return backend, nil
		}, 3, time.Millisecond, log, "fake connection")

		require.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, 1, opens)
		assert.Equal(t, 3, backend.pings)
		assert.True(t, backend.closed)
	})

	t.Run("open failure is not retried", func(t *testing.T) {
		opens := 0
		_, err := connectWithRetry(context.Background(), func() (*fakeBackend, error) {
			opens++
			return nil, errors.New("bad dsn")
		}, 3, time.Millisecond, log, "fake connection")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad dsn")
		assert.Equal(t, 1, opens)
	})
}
