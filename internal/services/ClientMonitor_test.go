package services

import (
	"aprd/internal/testutil"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const stationDump = `Station aa:bb:cc:dd:ee:01 (on wlan0)
	inactive time:	1200 ms
	rx bytes:	12345
Station aa:bb:cc:dd:ee:02 (on wlan0)
	inactive time:	300 ms
Station aa:bb:cc:dd:ee:03 (on wlan0)
	signal:  	-55 dBm
`

func TestCountStations(t *testing.T) {
	assert.Equal(t, 3, CountStations([]byte(stationDump)))
	assert.Equal(t, 0, CountStations(nil))
	assert.Equal(t, 0, CountStations([]byte("command failed: No such device (-19)\n")))
}

func TestClientMonitor_Count(t *testing.T) {
	calls := 0
	query := func(ctx context.Context, iface string) ([]byte, error) {
		calls++
		assert.Equal(t, "wlan0", iface)
		return []byte(stationDump), nil
	}
	cache := testutil.NewMockCache()
	cm := NewClientMonitorWithQuery(query, time.Second, cache, 1, 10, &testutil.MockLogger{})

	count, ok := cm.Count(context.Background(), "wlan0")
	assert.True(t, ok)
	assert.Equal(t, 3, count)

	count, ok = cm.Count(context.Background(), "wlan0")
	assert.True(t, ok)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, calls, "second call served from cache")
	assert.Equal(t, 1, cache.TTLs["stations:wlan0"])
}

func TestClientMonitor_FailureIsUnknownAndBacksOff(t *testing.T) {
	calls := 0
	query := func(ctx context.Context, iface string) ([]byte, error) {
		calls++
		return nil, errors.New("iw: command not found")
	}
	cache := testutil.NewMockCache()
	cm := NewClientMonitorWithQuery(query, time.Second, cache, 1, 10, &testutil.MockLogger{})

	count, ok := cm.Count(context.Background(), "wlan0")
	assert.False(t, ok)
	assert.Equal(t, 0, count)

	_, ok = cm.Count(context.Background(), "wlan0")
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 10, cache.TTLs["stations:wlan0"])
}

func TestClientMonitor_Timeout(t *testing.T) {
	query := func(ctx context.Context, iface string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	cm := NewClientMonitorWithQuery(query, 20*time.Millisecond, testutil.NewMockCache(), 1, 0, &testutil.MockLogger{})

	start := time.Now()
	_, ok := cm.Count(context.Background(), "wlan0")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClientMonitor_Available(t *testing.T) {
	cm := NewClientMonitorWithQuery(nil, time.Second, testutil.NewMockCache(), 1, 1, &testutil.MockLogger{})
	cm.lookup = func(name string) error {
		if name == "wlan0" {
			return nil
		}
		return errors.New("no such network interface")
	}

	assert.True(t, cm.Available("wlan0"))
	assert.False(t, cm.Available("wlan1"))
}

func TestCountCodec(t *testing.T) {
	count, ok := decodeCount(encodeCount(7, true))
	assert.True(t, ok)
	assert.Equal(t, 7, count)

	_, ok = decodeCount(encodeCount(0, false))
	assert.False(t, ok)

	_, ok = decodeCount([]byte{1})
	assert.False(t, ok)
}
