package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellStartsInStartingState(t *testing.T) {
	c := NewCell()
	st := c.Get()
	assert.Equal(t, StateStarting, st.State)
	assert.Empty(t, st.Detail)
}

func TestCellSetReplacesWholeValue(t *testing.T) {
	c := NewCell()
	c.Set(StateSessionError, "feed fetch failed")

	st := c.Get()
	assert.Equal(t, StateSessionError, st.State)
	assert.Equal(t, "session-error: feed fetch failed", st.String())
	assert.False(t, st.ChangedAt.IsZero())
}

func TestCellConcurrentReadsDuringWrites(t *testing.T) {
	c := NewCell()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Set(StateRunning, "")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			st := c.Get()
			assert.NotEmpty(t, st.State)
		}
	}()
	wg.Wait()
}

func serve(t *testing.T, cell *Cell, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(cell)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHome(t *testing.T) {
	cell := NewCell()
	cell.Set(StateConnected, "")

	rec := serve(t, cell, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insta Pilot")
	assert.Contains(t, rec.Body.String(), "connected")
}

func TestHandleStatus(t *testing.T) {
	cell := NewCell()
	cell.Set(StateSessionError, "login rejected")

	rec := serve(t, cell, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "session-error: login rejected", body["bot_status"])
	assert.Equal(t, "insta-pilot", body["service"])
	assert.Contains(t, body, "timestamp")
}

func TestHandleHealth(t *testing.T) {
	rec := serve(t, NewCell(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandlePing(t *testing.T) {
	rec := serve(t, NewCell(), "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
