package providers

import (
	"sync"
	"time"
)

type providerTestLogger struct {
	mu    sync.Mutex
	infos int
	warns int
}

func (m *providerTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *providerTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns++
}
func (m *providerTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *providerTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos++
}
func (m *providerTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *providerTestLogger) Close()                                        {}

type providerTestMetrics struct {
	noopMetrics
	hits, misses int
	requests     map[string]int
}

func (m *providerTestMetrics) IncCacheHits()   { m.hits++ }
func (m *providerTestMetrics) IncCacheMisses() { m.misses++ }
func (m *providerTestMetrics) IncRequestsTotal(endpoint string, status int) {
	if m.requests == nil {
		m.requests = make(map[string]int)
	}
	m.requests[endpoint+":"+httpStatusBucket(status)]++
}
func (m *providerTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
