package services

import (
	"aprd/internal/providers"
	"aprd/internal/structures"
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"os/exec"
	"strings"
	"time"
)

// StationQuery returns the raw station listing for an interface.
type StationQuery func(ctx context.Context, iface string) ([]byte, error)

type ClientMonitorInterface interface {
	// Count returns the associated station count, or ok=false when unknown.
	Count(ctx context.Context, iface string) (count int, ok bool)
	Available(iface string) bool
}

type ClientMonitor struct {
	query      StationQuery
	lookup     func(name string) error
	timeout    time.Duration
	cache      providers.CacheProviderInterface
	ttlSec     int
	backoffSec int
	logger     providers.Logger
}

func NewClientMonitor(conf *structures.Config, logger providers.Logger, cache providers.CacheProviderInterface) ClientMonitorInterface {
	return &ClientMonitor{
		query:      IwStationDump,
		lookup:     lookupInterface,
		timeout:    conf.ClientQueryTimeout(),
		cache:      cache,
		ttlSec:     conf.Cache.TTLSec,
		backoffSec: conf.Cache.FailureBackoffSec,
		logger:     logger,
	}
}

func NewClientMonitorWithQuery(query StationQuery, timeout time.Duration, cache providers.CacheProviderInterface, ttlSec, backoffSec int, logger providers.Logger) *ClientMonitor {
	return &ClientMonitor{
		query:      query,
		lookup:     lookupInterface,
		timeout:    timeout,
		cache:      cache,
		ttlSec:     ttlSec,
		backoffSec: backoffSec,
		logger:     logger,
	}
}

func (cm *ClientMonitor) Count(ctx context.Context, iface string) (int, bool) {
	key := "stations:" + iface
	if cached, ok := cm.cache.Get(key); ok {
		return decodeCount(cached)
	}

	queryCtx, cancel := context.WithTimeout(ctx, cm.timeout)
	defer cancel()

	out, err := cm.query(queryCtx, iface)
	if err != nil {
		cm.logger.Debugf(providers.TypeMonitor, "Station query for %s failed: %s", iface, err)
		cm.cache.Set(key, encodeCount(0, false), cm.backoffSec)
		return 0, false
	}

	count := CountStations(out)
	cm.cache.Set(key, encodeCount(count, true), cm.ttlSec)
	return count, true
}

func (cm *ClientMonitor) Available(iface string) bool {
	return cm.lookup(iface) == nil
}

// CountStations counts "Station <mac> (on <iface>)" records in iw output.
func CountStations(out []byte) int {
	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if strings.HasPrefix(strings.TrimSpace(scanner.Text()), "Station ") {
			count++
		}
	}
	return count
}

func IwStationDump(ctx context.Context, iface string) ([]byte, error) {
	return exec.CommandContext(ctx, "iw", "dev", iface, "station", "dump").Output()
}

func lookupInterface(name string) error {
	_, err := net.InterfaceByName(name)
	return err
}

func encodeCount(count int, known bool) []byte {
	buf := make([]byte, 5)
	if known {
		buf[0] = 1
	}
	binary.BigEndian.PutUint32(buf[1:], uint32(count))
	return buf
}

func decodeCount(buf []byte) (int, bool) {
	if len(buf) != 5 || buf[0] != 1 {
		return 0, false
	}
	return int(binary.BigEndian.Uint32(buf[1:])), true
}
