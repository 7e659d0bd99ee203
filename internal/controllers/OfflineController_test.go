package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"ponydiary/internal/offline"
	"ponydiary/internal/structures"
	"ponydiary/internal/testutil"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offlineFixture struct {
	controller *OfflineController
	worker     *offline.Worker
	hits       *atomic.Int32
	origin     *httptest.Server
}

func newOfflineFixture(t *testing.T, deferActivation bool) *offlineFixture {
	t.Helper()
	hits := &atomic.Int32{}
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "origin:"+r.URL.Path)
	}))
	t.Cleanup(origin.Close)

	conf := &structures.Config{
		Offline: structures.OfflineConfig{
			Enabled:         true,
			Version:         "pony-diary-v3",
			Origin:          origin.URL,
			Manifest:        []string{"/", "/app.js"},
			FallbackPath:    "/",
			CacheSize:       1,
			FetchTimeout:    time.Second,
			DeferActivation: deferActivation,
		},
	}
	worker, err := offline.NewWorker(conf, offline.NewCacheStorage(conf.Offline.CacheSize, &testutil.MockCompressor{}),
		offline.NewNetwork(conf), nil, &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)

	return &offlineFixture{
		controller: NewOfflineController(worker, &testutil.MockLogger{}),
		worker:     worker,
		hits:       hits,
		origin:     origin,
	}
}

func TestOfflineProxy_ServesCachedShell(t *testing.T) {
	f := newOfflineFixture(t, false)
	require.NoError(t, f.worker.Start(t.Context()))
	f.hits.Store(0)

	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	rr := httptest.NewRecorder()
	f.controller.Proxy(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "origin:/app.js", rr.Body.String())
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestOfflineProxy_OriginDownServesNotice(t *testing.T) {
	f := newOfflineFixture(t, false)
	require.NoError(t, f.worker.Start(t.Context()))
	f.origin.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/2024/entries", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	f.controller.Proxy(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "Offline")

	req = httptest.NewRequest(http.MethodGet, "/journal", nil)
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	rr = httptest.NewRecorder()
	f.controller.Proxy(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "origin:/", rr.Body.String())
}

func TestOfflineProxy_UninstalledPostReachesOrigin(t *testing.T) {
	f := newOfflineFixture(t, false)

	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader("x"))
	rr := httptest.NewRecorder()
	f.controller.Proxy(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "origin:/form", rr.Body.String())
	assert.Equal(t, int32(1), f.hits.Load())
}

func TestOfflineMessage_SkipWaiting(t *testing.T) {
	f := newOfflineFixture(t, true)
	require.NoError(t, f.worker.Start(t.Context()))
	assert.Equal(t, offline.StateInstalled, f.worker.Status().State)

	req := httptest.NewRequest(http.MethodPost, "/offline/message", strings.NewReader(`{"type":"SKIP_WAITING"}`))
	rr := httptest.NewRecorder()
	f.controller.Message(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var st offline.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, offline.StateActivated, st.State)
	assert.Equal(t, "pony-diary-v3", st.ActiveGeneration)
	assert.Equal(t, 2, st.Entries)
}

func TestOfflineMessage_Errors(t *testing.T) {
	f := newOfflineFixture(t, true)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", "nope", http.StatusBadRequest},
		{"unknown type", `{"type":"CLAIM"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/offline/message", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			f.controller.Message(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestOfflineStatus(t *testing.T) {
	f := newOfflineFixture(t, false)
	require.NoError(t, f.worker.Start(t.Context()))

	req := httptest.NewRequest(http.MethodGet, "/offline/status", nil)
	rr := httptest.NewRecorder()
	f.controller.Status(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var st offline.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.True(t, st.Enabled)
	assert.Equal(t, offline.StateActivated, st.State)
	assert.Equal(t, []string{"pony-diary-v3"}, st.Generations)
}
