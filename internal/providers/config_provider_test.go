package providers

import (
	"aprd/internal/structures"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) *structures.CliFlags {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return &structures.CliFlags{ConfigPath: path}
}

func TestNewConfigProvider_Defaults(t *testing.T) {
	flags := writeConfig(t, "config.json", `{}`)

	conf, err := NewConfigProvider(flags)
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, flags.ConfigPath, conf.Path)
	assert.Equal(t, 300, conf.RotationIntervalSec)
	assert.Equal(t, 5, conf.ClientThreshold)
	assert.Equal(t, 120, conf.MinTimeAfterClientsSec)
	assert.False(t, conf.DualApMode)
	assert.Equal(t, "eth0", conf.WanInterface)
	assert.Equal(t, "ssb-", conf.SsidPrefix)
	assert.Equal(t, 30, conf.ManualRotationCooldownSec)
	assert.Equal(t, "AR", conf.CountryCode)
	assert.Equal(t, "/var/run/ssb-ap", conf.Paths.RunDir)
	assert.Equal(t, uint32(0o640), conf.Paths.StatusMode)
	assert.Equal(t, 100, conf.History.Retention)
	assert.False(t, conf.Metrics.Enabled)
	require.Contains(t, conf.Interfaces, "wlan0")
	assert.True(t, conf.Interfaces["wlan0"].Enabled)
	assert.Equal(t, 6, conf.Interfaces["wlan0"].Channel)
	assert.False(t, conf.Interfaces["wlan1"].Enabled)
}

func TestNewConfigProvider_JSONWithComments(t *testing.T) {
	flags := writeConfig(t, "config.json", `{
  // rotate every ten minutes
  "rotation_interval_sec": 600,
  "dual_ap_mode": true,
  "interfaces": {
    "wlan1": {"enabled": true, "client_threshold": 8},
  },
}`)

	conf, err := NewConfigProvider(flags)
	require.NoError(t, err)
	assert.Equal(t, 600, conf.RotationIntervalSec)
	assert.True(t, conf.DualApMode)
	assert.True(t, conf.Interfaces["wlan1"].Enabled)
	assert.Equal(t, "192.168.5.1", conf.Interfaces["wlan1"].ApIP, "unset keys keep their defaults")
	require.NotNil(t, conf.Interfaces["wlan1"].ClientThreshold)
	assert.Equal(t, 8, *conf.Interfaces["wlan1"].ClientThreshold)
}

func TestNewConfigProvider_YAML(t *testing.T) {
	flags := writeConfig(t, "config.yaml", "client_threshold: 3\nsecurity_mode: wpa3\n")

	conf, err := NewConfigProvider(flags)
	require.NoError(t, err)
	assert.Equal(t, 3, conf.ClientThreshold)
	assert.Equal(t, structures.SecurityWPA3, conf.SecurityMode)
}

func TestNewConfigProvider_UnknownFieldsIgnored(t *testing.T) {
	flags := writeConfig(t, "config.json", `{"display_brightness": 80}`)

	_, err := NewConfigProvider(flags)
	assert.NoError(t, err)
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	t.Setenv("APRD_ROTATION_INTERVAL", "900")
	t.Setenv("APRD_LOG_LEVEL", "debug")
	flags := writeConfig(t, "config.json", `{"rotation_interval_sec": 600}`)

	conf, err := NewConfigProvider(flags)
	require.NoError(t, err)
	assert.Equal(t, 900, conf.RotationIntervalSec)
	assert.Equal(t, "debug", conf.Logger.Level)
}

func TestNewConfigProvider_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"malformed json", "config.json", `{"rotation_interval_sec": }`},
		{"unsupported extension", "config.toml", `rotation_interval_sec = 1`},
		{"no enabled interface", "config.json", `{"interfaces": {"wlan0": {"enabled": false}}}`},
		{"bad security mode", "config.json", `{"security_mode": "wep"}`},
		{"zero threshold", "config.json", `{"client_threshold": 0}`},
		{"negative interval", "config.json", `{"rotation_interval_sec": -1}`},
		{"prefix too long", "config.json", `{"ssid_prefix": "a-very-long-kiosk-network-name-"}`},
		{"bad channel", "config.json", `{"interfaces": {"wlan0": {"channel": 0}}}`},
		{"bad lease", "config.json", `{"interfaces": {"wlan0": {"dhcp_lease_time": "forever"}}}`},
		{"bad ip", "config.json", `{"interfaces": {"wlan0": {"ap_ip": "not-an-ip"}}}`},
		{"wan is ap", "config.json", `{"wan_interface": "wlan0"}`},
		{"bad override", "config.json", `{"interfaces": {"wlan0": {"client_threshold": 0}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfigProvider(writeConfig(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func intPtr(v int) *int { return &v }

func TestResolveInterfaces(t *testing.T) {
	conf := &structures.Config{
		RotationIntervalSec:    300,
		ClientThreshold:        5,
		MinTimeAfterClientsSec: 120,
		SsidPrefix:             "ssb-",
		CountryCode:            "AR",
		SecurityMode:           structures.SecurityWPA2,
		Interfaces: map[string]structures.InterfaceBlock{
			"wlan1": {Enabled: true, Channel: 11, SsidPrefix: "lobby-", RotationIntervalSec: intPtr(600), ClientThreshold: intPtr(2)},
			"wlan0": {Enabled: true, Channel: 6},
			"wlan2": {Enabled: false, Channel: 1},
		},
	}

	t.Run("single mode manages the first enabled interface", func(t *testing.T) {
		conf.DualApMode = false
		ifaces := ResolveInterfaces(conf, &providerTestLogger{})
		require.Len(t, ifaces, 1)
		assert.Equal(t, "wlan0", ifaces[0].Name)
		assert.Equal(t, 300, ifaces[0].RotationIntervalSec)
		assert.Equal(t, "ssb-", ifaces[0].SsidPrefix)
	})

	t.Run("dual mode merges overrides", func(t *testing.T) {
		conf.DualApMode = true
		ifaces := ResolveInterfaces(conf, &providerTestLogger{})
		require.Len(t, ifaces, 2)
		assert.Equal(t, []string{"wlan0", "wlan1"}, ifaces.Names())

		wlan1 := ifaces[1]
		assert.True(t, wlan1.DualMode)
		assert.Equal(t, 600, wlan1.RotationIntervalSec)
		assert.Equal(t, 2, wlan1.ClientThreshold)
		assert.Equal(t, 120, wlan1.MinTimeAfterClientsSec)
		assert.Equal(t, "lobby-", wlan1.SsidPrefix)
		assert.Equal(t, 11, wlan1.Channel)
	})
}

func TestConfigValidator_PrefixLength(t *testing.T) {
	flags := writeConfig(t, "config.json", fmt.Sprintf(`{"ssid_prefix": %q, "ssid_length": 6}`, "abcdefghijklmnopqrstuvwxyz"))

	_, err := NewConfigProvider(flags)
	assert.NoError(t, err, "26 + 6 bytes fits in an SSID")

	flags = writeConfig(t, "config.json", fmt.Sprintf(`{"ssid_prefix": %q, "ssid_length": 7}`, "abcdefghijklmnopqrstuvwxyz"))
	_, err = NewConfigProvider(flags)
	assert.Error(t, err)
}
