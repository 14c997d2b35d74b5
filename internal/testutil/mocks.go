package testutil

import (
	"aprd/internal/models"
	"aprd/internal/providers"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any formatted message at level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(fmt.Sprintf(e.Format, e.Args...), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu             sync.Mutex
	Rotations      map[string]int // key: "iface:reason"
	ApplyFailures  map[string]int
	ApplyDurations int
	Clients        map[string]int
	States         map[string]string
	Triggers       map[string]int // key: "iface:accepted|rate_limited"
	CacheHits      int
	CacheMisses    int
	Requests       int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Rotations:     make(map[string]int),
		ApplyFailures: make(map[string]int),
		Clients:       make(map[string]int),
		States:        make(map[string]string),
		Triggers:      make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncRotations(iface, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rotations[iface+":"+reason]++
}
func (m *MockMetrics) IncApplyFailures(iface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyFailures[iface]++
}
func (m *MockMetrics) ObserveApplyDuration(iface string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyDurations++
}
func (m *MockMetrics) SetClientCount(iface string, count int, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !known {
		count = -1
	}
	m.Clients[iface] = count
}
func (m *MockMetrics) SetState(iface, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States[iface] = state
}
func (m *MockMetrics) IncManualTriggers(iface string, accepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := "accepted"
	if !accepted {
		result = "rate_limited"
	}
	m.Triggers[iface+":"+result]++
}

func (m *MockMetrics) State(iface string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.States[iface]
}

// MockCache implements providers.CacheProviderInterface without expiry.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	TTLs map[string]int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte), TTLs: make(map[string]int)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}
func (m *MockCache) Set(key string, value []byte, ttlSec int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttlSec <= 0 {
		return
	}
	m.Data[key] = value
	m.TTLs[key] = ttlSec
}
func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	delete(m.TTLs, key)
}

// MockCompressor passes data through unchanged.
type MockCompressor struct {
	CompressCalls int
	Err           error
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	m.CompressCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]byte{}, val...), nil
}
func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]byte{}, val...), nil
}

// MockCredentialService returns predictable credentials: <prefix>00001,
// <prefix>00002, ... unless Queue holds explicit values.
type MockCredentialService struct {
	mu    sync.Mutex
	Calls int
	Queue []models.Credential
	Err   error
}

func (m *MockCredentialService) Generate(prefix string) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return models.Credential{}, m.Err
	}
	if len(m.Queue) > 0 {
		cred := m.Queue[0]
		m.Queue = m.Queue[1:]
		return cred, nil
	}
	return models.Credential{
		SSID:     fmt.Sprintf("%s%05d", prefix, m.Calls),
		Password: fmt.Sprintf("Password%08d", m.Calls),
	}, nil
}

// MockClientMonitor returns the configured count per interface.
type MockClientMonitor struct {
	mu      sync.Mutex
	Counts  map[string]int
	Unknown map[string]bool
	Missing map[string]bool
	Calls   int
}

func NewMockClientMonitor() *MockClientMonitor {
	return &MockClientMonitor{
		Counts:  make(map[string]int),
		Unknown: make(map[string]bool),
		Missing: make(map[string]bool),
	}
}

func (m *MockClientMonitor) Count(ctx context.Context, iface string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Unknown[iface] {
		return 0, false
	}
	return m.Counts[iface], true
}

func (m *MockClientMonitor) Available(iface string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.Missing[iface]
}

func (m *MockClientMonitor) Set(iface string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counts[iface] = count
	delete(m.Unknown, iface)
}

func (m *MockClientMonitor) SetUnknown(iface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unknown[iface] = true
}

type ApplyCall struct {
	Interface  string
	Credential models.Credential
}

// MockWriter records applies; Fail makes the next applies for an interface
// fail until cleared.
type MockWriter struct {
	mu    sync.Mutex
	Calls []ApplyCall
	Fail  map[string]error
	Block chan struct{}
}

func NewMockWriter() *MockWriter {
	return &MockWriter{Fail: make(map[string]error)}
}

func (m *MockWriter) Apply(ctx context.Context, ic models.InterfaceConfig, cred models.Credential) error {
	m.mu.Lock()
	block := m.Block
	m.Calls = append(m.Calls, ApplyCall{Interface: ic.Name, Credential: cred})
	err := m.Fail[ic.Name]
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (m *MockWriter) SetFailure(iface string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.Fail, iface)
		return
	}
	m.Fail[iface] = err
}

func (m *MockWriter) CallsFor(iface string) []ApplyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ApplyCall
	for _, c := range m.Calls {
		if c.Interface == iface {
			out = append(out, c)
		}
	}
	return out
}

// MockStatusStore keeps everything in memory.
type MockStatusStore struct {
	mu        sync.Mutex
	Published []models.PublishedStatus
	History   []models.RotationHistoryEntry
	Err       error
}

func (m *MockStatusStore) Publish(status models.PublishedStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, status)
	return nil
}

func (m *MockStatusStore) AppendHistory(entry models.RotationHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.History = append(m.History, entry)
	return nil
}

// Latest returns the most recent status published for iface.
func (m *MockStatusStore) Latest(iface string) (models.PublishedStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Published) - 1; i >= 0; i-- {
		if m.Published[i].Interface == iface {
			return m.Published[i], true
		}
	}
	return models.PublishedStatus{}, false
}

func (m *MockStatusStore) HistoryFor(iface string) []models.RotationHistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RotationHistoryEntry
	for _, e := range m.History {
		if e.Interface == iface {
			out = append(out, e)
		}
	}
	return out
}

// MockTrigger hands out queued triggers once each.
type MockTrigger struct {
	mu         sync.Mutex
	pending    map[string]int
	wake       map[string]chan struct{}
	Registered []string
}

func (m *MockTrigger) Register(iface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registered = append(m.Registered, iface)
	m.wakeLocked(iface)
}

func (m *MockTrigger) Pending(iface string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[iface]
}

func NewMockTrigger() *MockTrigger {
	return &MockTrigger{pending: make(map[string]int), wake: make(map[string]chan struct{})}
}

func (m *MockTrigger) Fire(iface string) {
	m.mu.Lock()
	m.pending[iface]++
	ch := m.wakeLocked(iface)
	m.mu.Unlock()
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (m *MockTrigger) Consume(iface string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending[iface] == 0 {
		return false
	}
	m.pending[iface]--
	return true
}

func (m *MockTrigger) Wake(iface string) <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wakeLocked(iface)
}

func (m *MockTrigger) wakeLocked(iface string) chan struct{} {
	ch, ok := m.wake[iface]
	if !ok {
		ch = make(chan struct{}, 1)
		m.wake[iface] = ch
	}
	return ch
}

// MockServiceManager implements apconfig.ServiceManager.
type MockServiceManager struct {
	mu         sync.Mutex
	Restarts   []string
	Active     map[string]bool
	RestartErr map[string]error
}

var ErrMockRestart = errors.New("restart failed")

func NewMockServiceManager() *MockServiceManager {
	return &MockServiceManager{Active: make(map[string]bool), RestartErr: make(map[string]error)}
}

func (m *MockServiceManager) Restart(ctx context.Context, unit string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restarts = append(m.Restarts, unit)
	if err := m.RestartErr[unit]; err != nil {
		return err
	}
	if _, set := m.Active[unit]; !set {
		m.Active[unit] = true
	}
	return nil
}

func (m *MockServiceManager) IsActive(ctx context.Context, unit string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Active[unit], nil
}

func (m *MockServiceManager) RestartCount(unit string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.Restarts {
		if u == unit {
			n++
		}
	}
	return n
}
