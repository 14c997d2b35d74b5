package controllers

import (
	"aprd/internal/models"
	"aprd/internal/structures"
	"aprd/internal/testutil"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusController(t *testing.T, statuses ...models.PublishedStatus) (*StatusController, string) {
	t.Helper()
	logDir := t.TempDir()
	conf := &structures.Config{Paths: structures.PathsConfig{LogDir: logDir}}
	return NewStatusController(&testutil.MockLogger{}, &stubSource{statuses: statuses}, conf), logDir
}

func TestGetInterfaces_Redacted(t *testing.T) {
	sc, _ := newStatusController(t, liveStatus("wlan0", models.StateIdle), liveStatus("wlan1", models.StateRotating))

	rr := httptest.NewRecorder()
	sc.GetInterfaces(rr, httptest.NewRequest(http.MethodGet, "/interfaces", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []models.PublishedStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	for _, st := range got {
		assert.Empty(t, st.Password)
		assert.Empty(t, st.WifiURI)
		assert.Equal(t, "ssb-abc123", st.SSID)
	}
}

func TestGetInterface(t *testing.T) {
	sc, _ := newStatusController(t, liveStatus("wlan0", models.StateIdle))

	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		sc.GetInterface(rr, httptest.NewRequest(http.MethodGet, "/interface?if=wlan0", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.PublishedStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "wlan0", got.Interface)
		assert.Empty(t, got.Password)
	})

	t.Run("unknown", func(t *testing.T) {
		rr := httptest.NewRecorder()
		sc.GetInterface(rr, httptest.NewRequest(http.MethodGet, "/interface?if=wlan9", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		rr := httptest.NewRecorder()
		sc.GetInterface(rr, httptest.NewRequest(http.MethodGet, "/interface", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetHistory(t *testing.T) {
	sc, logDir := newStatusController(t)
	lines := `{"timestamp":"2026-01-01T00:00:00Z","interface":"wlan0","reason":"startup","sequence":1,"client_count":null}
{"timestamp":"2026-01-01T00:05:00Z","interface":"wlan0","reason":"time_elapsed","sequence":2,"client_count":0}
`
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "rotations.jsonl"), []byte(lines), 0o600))

	rr := httptest.NewRecorder()
	sc.GetHistory(rr, httptest.NewRequest(http.MethodGet, "/history?n=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got []models.RotationHistoryEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, models.ReasonTimeElapsed, got[0].Reason)
	assert.Equal(t, uint64(2), got[0].Sequence)
}

func TestGetHistory_BadLimit(t *testing.T) {
	sc, _ := newStatusController(t)

	rr := httptest.NewRecorder()
	sc.GetHistory(rr, httptest.NewRequest(http.MethodGet, "/history?n=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetHistory_Empty(t *testing.T) {
	sc, _ := newStatusController(t)

	rr := httptest.NewRecorder()
	sc.GetHistory(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
