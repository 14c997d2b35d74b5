package structures

import "time"

const (
	SecurityWPA2       = "wpa2"
	SecurityWPA3       = "wpa3"
	SecurityTransition = "wpa2-wpa3"
)

type InterfaceBlock struct {
	Enabled                bool   `mapstructure:"enabled" json:"enabled"`
	ApIP                   string `mapstructure:"ap_ip" json:"ap_ip" validate:"required|ip"`
	ApNetmask              string `mapstructure:"ap_netmask" json:"ap_netmask" validate:"required|ip"`
	DhcpRangeStart         string `mapstructure:"dhcp_range_start" json:"dhcp_range_start" validate:"required|ip"`
	DhcpRangeEnd           string `mapstructure:"dhcp_range_end" json:"dhcp_range_end" validate:"required|ip"`
	DhcpLeaseTime          string `mapstructure:"dhcp_lease_time" json:"dhcp_lease_time" validate:"required"`
	Channel                int    `mapstructure:"channel" json:"channel" validate:"required|int|min:1|max:196"`
	SsidPrefix             string `mapstructure:"ssid_prefix" json:"ssid_prefix"`
	RotationIntervalSec    *int   `mapstructure:"rotation_interval_sec" json:"rotation_interval_sec,omitempty"`
	ClientThreshold        *int   `mapstructure:"client_threshold" json:"client_threshold,omitempty"`
	MinTimeAfterClientsSec *int   `mapstructure:"min_time_after_clients_sec" json:"min_time_after_clients_sec,omitempty"`
}

type PathsConfig struct {
	RunDir      string `mapstructure:"run_dir" validate:"required|unixPath"`
	LogDir      string `mapstructure:"log_dir" validate:"required|unixPath"`
	HostapdDir  string `mapstructure:"hostapd_dir" validate:"required|unixPath"`
	DnsmasqDir  string `mapstructure:"dnsmasq_dir" validate:"required|unixPath"`
	TemplateDir string `mapstructure:"template_dir"`
	StatusMode  uint32 `mapstructure:"status_mode" validate:"required|uint"`
}

type HistoryConfig struct {
	Retention int  `mapstructure:"retention" validate:"int|min:1"`
	Archive   bool `mapstructure:"archive"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `mapstructure:"mode" validate:"required|uint"`
	Dir   string `mapstructure:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	Size              int  `mapstructure:"size"`
	TTLSec            int  `mapstructure:"ttl_sec"`
	FailureBackoffSec int  `mapstructure:"failure_backoff_sec"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"int|min:1|max:65535"`
}

type RelayConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SocketPath string `mapstructure:"socket_path"`
}

type Config struct {
	AppName string
	Debug   bool
	Path    string

	RotationIntervalSec       int    `mapstructure:"rotation_interval_sec" validate:"int|min:0"`
	ClientThreshold           int    `mapstructure:"client_threshold" validate:"required|int|min:1"`
	MinTimeAfterClientsSec    int    `mapstructure:"min_time_after_clients_sec" validate:"int|min:0"`
	DualApMode                bool   `mapstructure:"dual_ap_mode"`
	WanInterface              string `mapstructure:"wan_interface" validate:"required"`
	SsidPrefix                string `mapstructure:"ssid_prefix"`
	SsidLength                int    `mapstructure:"ssid_length" validate:"required|int|min:4|max:16"`
	PasswordLength            int    `mapstructure:"password_length" validate:"required|int|min:8|max:63"`
	CountryCode               string `mapstructure:"country_code" validate:"required|minLen:2|maxLen:2"`
	SecurityMode              string `mapstructure:"security_mode" validate:"required|in:wpa2,wpa3,wpa2-wpa3"`
	ManualRotationCooldownSec int    `mapstructure:"manual_rotation_cooldown_sec" validate:"int|min:0"`
	TickIntervalSec           int    `mapstructure:"tick_interval_sec" validate:"required|int|min:1|max:60"`
	ApplyTimeoutSec           int    `mapstructure:"apply_timeout_sec" validate:"required|int|min:1|max:120"`
	ClientQueryTimeoutSec     int    `mapstructure:"client_query_timeout_sec" validate:"required|int|min:1|max:30"`

	Interfaces map[string]InterfaceBlock `mapstructure:"interfaces"`
	Paths      PathsConfig               `mapstructure:"paths"`
	History    HistoryConfig             `mapstructure:"history"`
	Logger     LoggerConfig              `mapstructure:"logger"`
	Cache      CacheConfig               `mapstructure:"cache"`
	Metrics    MetricsConfig             `mapstructure:"metrics"`
	Relay      RelayConfig               `mapstructure:"relay"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalSec) * time.Second
}

func (c *Config) ApplyTimeout() time.Duration {
	return time.Duration(c.ApplyTimeoutSec) * time.Second
}

func (c *Config) ClientQueryTimeout() time.Duration {
	return time.Duration(c.ClientQueryTimeoutSec) * time.Second
}

func (c *Config) ManualCooldown() time.Duration {
	return time.Duration(c.ManualRotationCooldownSec) * time.Second
}
