package controllers

import (
	"aprd/internal/models"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	statuses []models.PublishedStatus
}

func (s *stubSource) Statuses() []models.PublishedStatus { return s.statuses }

func liveStatus(name string, state models.State) models.PublishedStatus {
	return models.PublishedStatus{
		Interface: name,
		Enabled:   true,
		State:     state,
		SSID:      "ssb-abc123",
		Password:  "SuperSecretPass1",
		WifiURI:   "WIFI:T:WPA;S:ssb-abc123;P:SuperSecretPass1;;",
		Sequence:  3,
	}
}

func TestHealth_ReturnsOK(t *testing.T) {
	hc := NewHealthController(&stubSource{statuses: []models.PublishedStatus{liveStatus("wlan0", models.StateIdle)}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Len(t, resp["interfaces"], 1)
}

func TestHealth_DegradedInterface(t *testing.T) {
	hc := NewHealthController(&stubSource{statuses: []models.PublishedStatus{
		liveStatus("wlan0", models.StateIdle),
		liveStatus("wlan1", models.StateDegraded),
	}})

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}

func TestHealth_NeverLeaksSecrets(t *testing.T) {
	hc := NewHealthController(&stubSource{statuses: []models.PublishedStatus{liveStatus("wlan0", models.StateIdle)}})

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotContains(t, rr.Body.String(), "SuperSecretPass1")
	assert.Contains(t, rr.Body.String(), "ssb-abc123")
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(&stubSource{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "0h0m0s"},
		{"one minute", 60 * time.Second, "0h1m0s"},
		{"one hour", time.Hour, "1h0m0s"},
		{"mixed", time.Hour + time.Minute + time.Second, "1h1m1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}
