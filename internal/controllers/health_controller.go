package controllers

import (
	"aprd/internal/models"
	"fmt"
	"net/http"
	"time"
)

type HealthController struct {
	source    StatusSource
	startTime time.Time
}

type healthResponse struct {
	Status        string                   `json:"status"`
	Uptime        string                   `json:"uptime"`
	UptimeSeconds float64                  `json:"uptime_seconds"`
	Interfaces    []models.PublishedStatus `json:"interfaces"`
}

// Health reports "degraded" while any interface is failing to apply, and
// never includes passphrases.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	statuses := redactAll(hc.source.Statuses())
	status := "ok"
	for _, st := range statuses {
		if st.State == models.StateDegraded {
			status = "degraded"
			break
		}
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        status,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Interfaces:    statuses,
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(source StatusSource) *HealthController {
	return &HealthController{
		source:    source,
		startTime: time.Now(),
	}
}
