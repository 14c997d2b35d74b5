package models

import "time"

type State string

const (
	StateIdle     State = "idle"
	StateRotating State = "rotating"
	StateDegraded State = "degraded"
	StateDisabled State = "disabled"
)

type Reason string

const (
	ReasonStartup         Reason = "startup"
	ReasonTimeElapsed     Reason = "time_elapsed"
	ReasonClientThreshold Reason = "client_threshold"
	ReasonManualTrigger   Reason = "manual_trigger"
)

// RotationState is the record of the last successfully applied credential
// for one interface. Only a successful rotation replaces it.
type RotationState struct {
	Credential   Credential
	CreatedAt    time.Time
	NextDueAt    time.Time
	ClientCount  int
	ClientsKnown bool
	Sequence     uint64
	LastReason   Reason
}

func (rs RotationState) Established() bool {
	return rs.Sequence > 0
}

func (rs RotationState) Age(now time.Time) time.Duration {
	return now.Sub(rs.CreatedAt)
}

func (rs RotationState) SecondsUntilNext(now time.Time) int {
	if !rs.Established() {
		return 0
	}
	remaining := rs.NextDueAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds())
}
