package providers

import (
	"aprd/internal/structures"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

const AppName = "APRotationDaemon"

const DefaultConfigPath = "/etc/ssb-ap/config.json"

func setDefaults(v *viper.Viper) {
	v.SetDefault("rotation_interval_sec", 300)
	v.SetDefault("client_threshold", 5)
	v.SetDefault("min_time_after_clients_sec", 120)
	v.SetDefault("dual_ap_mode", false)
	v.SetDefault("wan_interface", "eth0")
	v.SetDefault("ssid_prefix", "ssb-")
	v.SetDefault("ssid_length", 6)
	v.SetDefault("password_length", 16)
	v.SetDefault("country_code", "AR")
	v.SetDefault("security_mode", structures.SecurityWPA2)
	v.SetDefault("manual_rotation_cooldown_sec", 30)
	v.SetDefault("tick_interval_sec", 1)
	v.SetDefault("apply_timeout_sec", 15)
	v.SetDefault("client_query_timeout_sec", 5)

	v.SetDefault("interfaces.wlan0.enabled", true)
	v.SetDefault("interfaces.wlan0.ap_ip", "192.168.4.1")
	v.SetDefault("interfaces.wlan0.ap_netmask", "255.255.255.0")
	v.SetDefault("interfaces.wlan0.dhcp_range_start", "192.168.4.10")
	v.SetDefault("interfaces.wlan0.dhcp_range_end", "192.168.4.100")
	v.SetDefault("interfaces.wlan0.dhcp_lease_time", "4h")
	v.SetDefault("interfaces.wlan0.channel", 6)
	v.SetDefault("interfaces.wlan1.enabled", false)
	v.SetDefault("interfaces.wlan1.ap_ip", "192.168.5.1")
	v.SetDefault("interfaces.wlan1.ap_netmask", "255.255.255.0")
	v.SetDefault("interfaces.wlan1.dhcp_range_start", "192.168.5.10")
	v.SetDefault("interfaces.wlan1.dhcp_range_end", "192.168.5.100")
	v.SetDefault("interfaces.wlan1.dhcp_lease_time", "4h")
	v.SetDefault("interfaces.wlan1.channel", 11)

	v.SetDefault("paths.run_dir", "/var/run/ssb-ap")
	v.SetDefault("paths.log_dir", "/var/log/ssb-ap")
	v.SetDefault("paths.hostapd_dir", "/etc/hostapd")
	v.SetDefault("paths.dnsmasq_dir", "/etc/dnsmasq.d")
	v.SetDefault("paths.template_dir", "/opt/ssb-wifi-kiosk/ap")
	v.SetDefault("paths.status_mode", 0o640)

	v.SetDefault("history.retention", 100)
	v.SetDefault("history.archive", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0o640)
	v.SetDefault("logger.dir", "/var/log/ssb-ap")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 1)
	v.SetDefault("cache.ttl_sec", 1)
	v.SetDefault("cache.failure_backoff_sec", 10)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.host", "127.0.0.1")
	v.SetDefault("metrics.port", 9478)

	v.SetDefault("relay.enabled", false)
	v.SetDefault("relay.socket_path", "/var/run/ssb-ap/relay.sock")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	v.BindEnv("logger.level", "APRD_LOG_LEVEL")
	v.BindEnv("rotation_interval_sec", "APRD_ROTATION_INTERVAL")
	v.BindEnv("dual_ap_mode", "APRD_DUAL_AP_MODE")

	raw, err := os.ReadFile(flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", flags.ConfigPath, err)
	}

	switch ext := strings.ToLower(filepath.Ext(flags.ConfigPath)); ext {
	case ".json", ".jsonc":
		v.SetConfigType("json")
		raw = jsonc.ToJSON(raw)
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err = v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", flags.ConfigPath, err)
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
