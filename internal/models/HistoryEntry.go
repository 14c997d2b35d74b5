package models

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"
)

const ssidHashLength = 16

type RotationHistoryEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Interface     string    `json:"interface"`
	Reason        Reason    `json:"reason"`
	Sequence      uint64    `json:"sequence"`
	PriorSSIDHash string    `json:"prior_ssid_hash,omitempty"`
	ClientCount   *int      `json:"client_count"`
}

// HashSSID returns a short BLAKE3 digest so history can correlate rotations
// without storing retired network names in clear.
func HashSSID(ssid string) string {
	if ssid == "" {
		return ""
	}
	sum := blake3.Sum256([]byte("aprd-ssid:" + ssid))
	return hex.EncodeToString(sum[:])[:ssidHashLength]
}
