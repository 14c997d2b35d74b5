package rotation

import (
	"aprd/internal/fsutil"
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/rotation/interfaces"
	"aprd/internal/structures"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	aggregateStatusFile = "status.json"
	historyFile         = "rotations.jsonl"
)

// StatusStore owns every file the daemon publishes for other processes.
type StatusStore struct {
	runDir     string
	logDir     string
	statusMode os.FileMode
	dualMode   bool
	retention  int
	archive    bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger

	aggregateMu sync.Mutex
	aggregate   map[string]models.PublishedStatus

	historyMu    sync.Mutex
	historyCount int
}

func NewStatusStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (*StatusStore, error) {
	if err := os.MkdirAll(conf.Paths.RunDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run dir: %w", err)
	}
	if err := os.MkdirAll(conf.Paths.LogDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	return &StatusStore{
		runDir:       conf.Paths.RunDir,
		logDir:       conf.Paths.LogDir,
		statusMode:   os.FileMode(conf.Paths.StatusMode),
		dualMode:     conf.DualApMode,
		retention:    conf.History.Retention,
		archive:      conf.History.Archive,
		compressor:   compressor,
		logger:       logger,
		aggregate:    make(map[string]models.PublishedStatus),
		historyCount: -1,
	}, nil
}

func (s *StatusStore) StatusPath(iface string) string {
	return StatusPath(s.runDir, iface)
}

func (s *StatusStore) AggregatePath() string {
	return filepath.Join(s.runDir, aggregateStatusFile)
}

func (s *StatusStore) HistoryPath() string {
	return HistoryPath(s.logDir)
}

// Publish replaces the interface status file. Readers never observe a
// partially written document.
func (s *StatusStore) Publish(status models.PublishedStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status for %s: %w", status.Interface, err)
	}
	if err = fsutil.WriteFileAtomic(s.StatusPath(status.Interface), append(data, '\n'), s.statusMode); err != nil {
		return err
	}
	if !s.dualMode {
		return nil
	}
	return s.publishAggregate(status)
}

// The aggregate file is the one artifact written by every interface worker.
func (s *StatusStore) publishAggregate(status models.PublishedStatus) error {
	s.aggregateMu.Lock()
	defer s.aggregateMu.Unlock()

	s.aggregate[status.Interface] = status
	doc := models.AggregateStatus{
		DualApMode: s.dualMode,
		UpdatedAt:  status.UpdatedAt,
		Interfaces: make(map[string]models.PublishedStatus, len(s.aggregate)),
	}
	for name, st := range s.aggregate {
		doc.Interfaces[name] = st
		if st.UpdatedAt.After(doc.UpdatedAt) {
			doc.UpdatedAt = st.UpdatedAt
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding aggregate status: %w", err)
	}
	return fsutil.WriteFileAtomic(s.AggregatePath(), append(data, '\n'), s.statusMode)
}

func StatusPath(runDir, iface string) string {
	return filepath.Join(runDir, "status-"+iface+".json")
}

// ReadStatus loads a published status file.
func ReadStatus(runDir, iface string) (models.PublishedStatus, error) {
	var status models.PublishedStatus
	data, err := os.ReadFile(StatusPath(runDir, iface))
	if err != nil {
		return status, err
	}
	if err = json.Unmarshal(data, &status); err != nil {
		return status, fmt.Errorf("decoding status for %s: %w", iface, err)
	}
	return status, nil
}

// ReadAllStatuses loads every status-<iface>.json in runDir, ordered by
// interface name.
func ReadAllStatuses(runDir string) ([]models.PublishedStatus, error) {
	matches, err := filepath.Glob(filepath.Join(runDir, "status-*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	statuses := make([]models.PublishedStatus, 0, len(matches))
	for _, path := range matches {
		iface := filepath.Base(path)
		iface = iface[len("status-") : len(iface)-len(".json")]
		status, err := ReadStatus(runDir, iface)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

const (
	archivePrefix = "rotations-"
	archiveSuffix = ".jsonl.zst"
)

func archiveName(now time.Time) string {
	return fmt.Sprintf("%s%d%s", archivePrefix, now.Unix(), archiveSuffix)
}
