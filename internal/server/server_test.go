package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/termfolio/internal/telemetry"
)

func newTestServer(rec telemetry.Recorder) *Server {
	return New(Options{Recorder: rec, Salt: "test", Mode: gin.TestMode})
}

func get(t *testing.T, s *Server, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestResume(t *testing.T) {
	w := get(t, newTestServer(nil), "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.True(t, strings.HasPrefix(w.Body.String(), "RHEA VANCE"))
}

func TestContentJSON(t *testing.T) {
	w := get(t, newTestServer(nil), "/api/content")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
		Experience []struct {
			ID string `json:"id"`
		} `json:"experience"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Rhea Vance", doc.Profile.Name)
	assert.Equal(t, "exp-1", doc.Experience[0].ID)
}

func TestFieldSettings(t *testing.T) {
	s := newTestServer(nil)

	tests := []struct {
		query string
		code  int
		nodes int
	}{
		{"", http.StatusOK, 200},
		{"?width=375", http.StatusOK, 100},
		{"?width=767", http.StatusOK, 100},
		{"?width=768", http.StatusOK, 200},
		{"?width=abc", http.StatusBadRequest, 0},
		{"?width=0", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		w := get(t, s, "/api/field"+tt.query)
		require.Equal(t, tt.code, w.Code, tt.query)
		if tt.code != http.StatusOK {
			continue
		}
		var body struct {
			Settings struct {
				NodeCount int `json:"node_count"`
			} `json:"settings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.nodes, body.Settings.NodeCount, tt.query)
	}
}

func TestFieldSVG(t *testing.T) {
	s := newTestServer(nil)
	w := get(t, s, "/field.svg?width=800&frames=3&seed=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `width="800" height="450"`)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/field.svg?frames=100000").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/field.svg?seed=x").Code)
}

func TestEdgesSVG(t *testing.T) {
	s := newTestServer(nil)
	assert.Equal(t, http.StatusOK, get(t, s, "/edges.svg?frames=10").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/edges.svg").Code)
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestServer(nil), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestVisitorTracking(t *testing.T) {
	rec := &telemetry.Memory{}
	s := newTestServer(rec)

	get(t, s, "/")
	get(t, s, "/api/content", "DNT", "1")
	get(t, s, "/healthz")
	get(t, s, "/static/app.css")

	assert.Eventually(t, func() bool { return rec.Count(telemetry.Visit) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "/", events[0].Path)
	assert.Len(t, events[0].HashedIP, 16)
	assert.NotContains(t, events[0].HashedIP, ".")
}

func TestStats(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(nil), "/api/stats").Code)

	store, err := telemetry.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Record(context.Background(), telemetry.Event{Kind: telemetry.BootStarted}))

	w := get(t, newTestServer(store), "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Counts map[string]int64 `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Counts["boot_started"])
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := newTestServer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
