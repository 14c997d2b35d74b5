package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_WifiURI(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		want string
	}{
		{"plain", Credential{SSID: "ssb-abc123", Password: "Secret12"}, "WIFI:T:WPA;S:ssb-abc123;P:Secret12;;"},
		{"escaped", Credential{SSID: `a;b,c`, Password: `p:q"r\s`}, `WIFI:T:WPA;S:a\;b\,c;P:p\:q\"r\\s;;`},
		{"zero", Credential{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.WifiURI())
		})
	}
}

func TestCredential_Equal(t *testing.T) {
	a := Credential{SSID: "x", Password: "y", GeneratedAt: time.Unix(1, 0)}
	b := Credential{SSID: "x", Password: "y", GeneratedAt: time.Unix(2, 0)}
	assert.True(t, a.Equal(b))
	b.Password = "z"
	assert.False(t, a.Equal(b))
	assert.True(t, Credential{}.IsZero())
}

func TestHashSSID(t *testing.T) {
	h := HashSSID("ssb-abc123")
	assert.Len(t, h, ssidHashLength)
	assert.Equal(t, h, HashSSID("ssb-abc123"))
	assert.NotEqual(t, h, HashSSID("ssb-abc124"))
	assert.NotContains(t, h, "abc123")
	assert.Empty(t, HashSSID(""))
}

func TestRotationState_SecondsUntilNext(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Zero(t, RotationState{}.SecondsUntilNext(now), "no credential yet")

	rs := RotationState{Sequence: 1, CreatedAt: now, NextDueAt: now.Add(300 * time.Second)}
	assert.Equal(t, 300, rs.SecondsUntilNext(now))
	assert.Equal(t, 100, rs.SecondsUntilNext(now.Add(200*time.Second)))
	assert.Zero(t, rs.SecondsUntilNext(now.Add(400*time.Second)))
	assert.Equal(t, 90*time.Second, rs.Age(now.Add(90*time.Second)))
}

func TestPublishedStatus_Redacted(t *testing.T) {
	ps := PublishedStatus{Interface: "wlan0", SSID: "ssb-x", Password: "secret", WifiURI: "WIFI:..."}
	r := ps.Redacted()
	assert.Empty(t, r.Password)
	assert.Empty(t, r.WifiURI)
	assert.Equal(t, "ssb-x", r.SSID)
	assert.Equal(t, "secret", ps.Password, "original untouched")
}

func TestPublishedStatus_JSONKeys(t *testing.T) {
	count := 2
	ps := PublishedStatus{Interface: "wlan0", State: StateIdle, ClientCount: &count, LastRotationReason: ReasonStartup}
	data, err := json.Marshal(ps)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"ssid", "password", "wifi_uri", "time_remaining", "client_count", "state", "health", "last_rotation_reason"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "idle", raw["state"])

	ps.ClientCount = nil
	data, err = json.Marshal(ps)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"client_count":null`)
}

func TestInterfaces_Names(t *testing.T) {
	is := Interfaces{{Name: "wlan0"}, {Name: "wlan1"}}
	assert.Equal(t, []string{"wlan0", "wlan1"}, is.Names())
	assert.Equal(t, 5*time.Minute, InterfaceConfig{RotationIntervalSec: 300}.RotationInterval())
}
