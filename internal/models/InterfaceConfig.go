package models

import "time"

// InterfaceConfig is the resolved, per-interface view of the configuration.
// Global values are already merged with the interface block overrides.
type InterfaceConfig struct {
	Name                   string
	Enabled                bool
	DualMode               bool
	RotationIntervalSec    int
	ClientThreshold        int
	MinTimeAfterClientsSec int
	SsidPrefix             string
	Channel                int
	CountryCode            string
	SecurityMode           string
	ApIP                   string
	ApNetmask              string
	DhcpRangeStart         string
	DhcpRangeEnd           string
	DhcpLeaseTime          string
}

func (ic InterfaceConfig) RotationInterval() time.Duration {
	return time.Duration(ic.RotationIntervalSec) * time.Second
}

func (ic InterfaceConfig) MinTimeAfterClients() time.Duration {
	return time.Duration(ic.MinTimeAfterClientsSec) * time.Second
}

type Interfaces []InterfaceConfig

func (is Interfaces) Names() []string {
	names := make([]string, len(is))
	for i, ic := range is {
		names[i] = ic.Name
	}
	return names
}
