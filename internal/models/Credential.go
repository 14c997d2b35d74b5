package models

import (
	"strings"
	"time"
)

// MaxSSIDLength is the 802.11 SSID limit in bytes.
const MaxSSIDLength = 32

type Credential struct {
	SSID        string    `json:"ssid"`
	Password    string    `json:"password"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (c Credential) IsZero() bool {
	return c.SSID == "" && c.Password == ""
}

func (c Credential) Equal(other Credential) bool {
	return c.SSID == other.SSID && c.Password == other.Password
}

var wifiEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	`"`, `\"`,
	`:`, `\:`,
)

// WifiURI returns the payload scanned by phones from a WiFi QR code.
func (c Credential) WifiURI() string {
	if c.IsZero() {
		return ""
	}
	return "WIFI:T:WPA;S:" + wifiEscaper.Replace(c.SSID) + ";P:" + wifiEscaper.Replace(c.Password) + ";;"
}
