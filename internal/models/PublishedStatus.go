package models

import "time"

type Health struct {
	LastApplyAt         *time.Time `json:"last_apply_at"`
	LastError           string     `json:"last_error,omitempty"`
	LastErrorAt         *time.Time `json:"last_error_at,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
}

// PublishedStatus is the artifact read by the display server and the status
// indicator. It carries the passphrase, so the file holding it is
// permission-restricted.
type PublishedStatus struct {
	Interface          string    `json:"interface"`
	Enabled            bool      `json:"enabled"`
	State              State     `json:"state"`
	SSID               string    `json:"ssid"`
	Password           string    `json:"password"`
	WifiURI            string    `json:"wifi_uri"`
	Sequence           uint64    `json:"sequence"`
	CreatedAt          time.Time `json:"created_at"`
	ExpiresAt          time.Time `json:"expires_at"`
	SecondsUntilNext   int       `json:"time_remaining"`
	ClientCount        *int      `json:"client_count"`
	LastRotationReason Reason    `json:"last_rotation_reason"`
	Health             Health    `json:"health"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Redacted returns a copy without secret material.
func (ps PublishedStatus) Redacted() PublishedStatus {
	ps.Password = ""
	ps.WifiURI = ""
	return ps
}

type AggregateStatus struct {
	DualApMode bool                       `json:"dual_ap_mode"`
	UpdatedAt  time.Time                  `json:"updated_at"`
	Interfaces map[string]PublishedStatus `json:"interfaces"`
}
