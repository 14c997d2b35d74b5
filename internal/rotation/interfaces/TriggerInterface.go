package interfaces

type TriggerInterface interface {
	// Register declares iface as managed before any trigger source serves.
	Register(iface string)
	// Consume reports an accepted manual trigger at most once per event.
	Consume(iface string) bool
	// Wake fires when a trigger may be pending so the worker need not wait
	// for its next tick.
	Wake(iface string) <-chan struct{}
}
