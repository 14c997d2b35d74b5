package rotation

import (
	"aprd/internal/fsutil"
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/rotation/interfaces"
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const historyMode = 0o600

func HistoryPath(logDir string) string {
	return filepath.Join(logDir, historyFile)
}

// AppendHistory adds one line to the history file. Entries already written
// are never rewritten; compaction only moves the oldest lines out.
func (s *StatusStore) AppendHistory(entry models.RotationHistoryEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding history entry: %w", err)
	}
	line = append(line, '\n')

	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	path := s.HistoryPath()
	if s.historyCount < 0 {
		if s.historyCount, err = countLines(path); err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, historyMode)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	if _, err = file.Write(line); err != nil {
		file.Close()
		return fmt.Errorf("appending history: %w", err)
	}
	if err = file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("syncing history: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("closing history: %w", err)
	}
	s.historyCount++

	// Compact once the file holds twice the retention so a full file is not
	// rewritten on every rotation.
	if s.retention > 0 && s.historyCount >= 2*s.retention {
		if err := s.compact(entry.Timestamp); err != nil {
			s.logger.Warnf(providers.TypeStore, "History compaction failed: %v", err)
		}
	}
	return nil
}

func (s *StatusStore) compact(now time.Time) error {
	path := s.HistoryPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := splitLines(data)
	if len(lines) <= s.retention {
		s.historyCount = len(lines)
		return nil
	}
	cut := len(lines) - s.retention
	older := bytes.Join(lines[:cut], nil)
	newer := bytes.Join(lines[cut:], nil)

	if s.archive {
		compressed, err := s.compressor.Compress(older)
		if err != nil {
			return fmt.Errorf("compressing archive: %w", err)
		}
		archivePath := filepath.Join(s.logDir, archiveName(now))
		if err = fsutil.WriteFileAtomic(archivePath, compressed, historyMode); err != nil {
			return err
		}
		s.logger.Infof(providers.TypeStore, "Archived %d history entries to %s", cut, archivePath)
	}

	if err = fsutil.WriteFileAtomic(path, newer, historyMode); err != nil {
		return err
	}
	s.historyCount = len(lines) - cut
	return nil
}

// ReadHistory returns at most limit entries, newest last. A limit <= 0
// returns everything in the live file.
func ReadHistory(logDir string, limit int) ([]models.RotationHistoryEntry, error) {
	data, err := fsutil.ReadFileIfExists(HistoryPath(logDir))
	if err != nil {
		return nil, err
	}
	return decodeLines(splitLines(data), limit)
}

// ReadArchivedHistory returns the entries of every compacted archive in
// logDir followed by the live file, newest last, trimmed to limit.
func ReadArchivedHistory(logDir string, compressor interfaces.CompressorInterface, limit int) ([]models.RotationHistoryEntry, error) {
	paths, err := filepath.Glob(filepath.Join(logDir, archivePrefix+"*"+archiveSuffix))
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool {
		return archiveTime(paths[i]) < archiveTime(paths[j])
	})

	var lines [][]byte
	for _, path := range paths {
		compressed, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data, err := compressor.Decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		lines = append(lines, splitLines(data)...)
	}

	live, err := fsutil.ReadFileIfExists(HistoryPath(logDir))
	if err != nil {
		return nil, err
	}
	lines = append(lines, splitLines(live)...)
	return decodeLines(lines, limit)
}

func archiveTime(path string) int64 {
	name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), archivePrefix), archiveSuffix)
	unix, _ := strconv.ParseInt(name, 10, 64)
	return unix
}

func decodeLines(lines [][]byte, limit int) ([]models.RotationHistoryEntry, error) {
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	entries := make([]models.RotationHistoryEntry, 0, len(lines))
	for _, line := range lines {
		var entry models.RotationHistoryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("decoding history line: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// splitLines keeps the trailing newline on each non-empty line.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append(append([]byte{}, line...), '\n'))
	}
	return lines
}

func countLines(path string) (int, error) {
	data, err := fsutil.ReadFileIfExists(path)
	if err != nil {
		return 0, err
	}
	return len(splitLines(data)), nil
}
