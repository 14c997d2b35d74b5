package controllers

import (
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/rotation"
	"aprd/internal/structures"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

const defaultHistoryLimit = 20

// StatusSource is satisfied by the rotation scheduler.
type StatusSource interface {
	Statuses() []models.PublishedStatus
}

// StatusController serves read-only, redacted views of the daemon state.
// Secrets never leave the process through this listener.
type StatusController struct {
	logger providers.Logger
	source StatusSource
	logDir string
}

func NewStatusController(logger providers.Logger, source StatusSource, conf *structures.Config) *StatusController {
	return &StatusController{
		logger: logger,
		source: source,
		logDir: conf.Paths.LogDir,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func redactAll(statuses []models.PublishedStatus) []models.PublishedStatus {
	out := make([]models.PublishedStatus, len(statuses))
	for i, st := range statuses {
		out[i] = st.Redacted()
	}
	return out
}

func (sc *StatusController) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, redactAll(sc.source.Statuses()))
}

func (sc *StatusController) GetInterface(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("if")
	if name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	for _, st := range sc.source.Statuses() {
		if st.Interface == name {
			writeJSON(w, http.StatusOK, st.Redacted())
			return
		}
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

func (sc *StatusController) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		limit = n
	}
	entries, err := rotation.ReadHistory(sc.logDir, limit)
	if err != nil {
		sc.logger.Errorf(providers.TypeHTTP, "Reading history failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
