package rotation

import (
	"aprd/internal/apconfig"
	"aprd/internal/clock"
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/rotation/interfaces"
	"aprd/internal/services"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// maxRedraws bounds how often a generated credential identical to the live
// one is discarded. With a sane alphabet a single redraw is already
// astronomically unlikely.
const maxRedraws = 8

// Rotator drives the rotation state machine of a single interface. Tick is
// only ever called from that interface's worker goroutine; the mutex guards
// the fields read by Snapshot from other goroutines.
type Rotator struct {
	iface     models.InterfaceConfig
	generator services.CredentialServiceInterface
	monitor   services.ClientMonitorInterface
	writer    apconfig.WriterInterface
	store     interfaces.StatusStoreInterface
	triggers  interfaces.TriggerInterface
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger
	clock     clock.Clock

	mu             sync.Mutex
	state          models.State
	current        models.RotationState
	pending        models.Reason
	health         models.Health
	observed       int
	observedKnown  bool
	thresholdSince time.Time
}

func NewRotator(
	ic models.InterfaceConfig,
	generator services.CredentialServiceInterface,
	monitor services.ClientMonitorInterface,
	writer apconfig.WriterInterface,
	store interfaces.StatusStoreInterface,
	triggers interfaces.TriggerInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
	clk clock.Clock,
) *Rotator {
	return &Rotator{
		iface:     ic,
		generator: generator,
		monitor:   monitor,
		writer:    writer,
		store:     store,
		triggers:  triggers,
		metrics:   metrics,
		logger:    logger,
		clock:     clk,
		state:     models.StateRotating,
		pending:   models.ReasonStartup,
	}
}

func (r *Rotator) Name() string {
	return r.iface.Name
}

// Tick evaluates the rotation conditions once and runs at most one rotation.
// The returned error is fatal for the daemon; apply failures are absorbed
// into the DEGRADED state.
func (r *Rotator) Tick(ctx context.Context) error {
	count, known := r.monitor.Count(ctx, r.iface.Name)
	r.metrics.SetClientCount(r.iface.Name, count, known)

	now := r.clock.Now()
	r.mu.Lock()
	r.observe(now, count, known)
	reason, due := r.evaluate(now)
	r.mu.Unlock()

	if !due {
		r.publish(now)
		return nil
	}
	return r.rotate(ctx, reason, count, known)
}

func (r *Rotator) observe(now time.Time, count int, known bool) {
	r.observed, r.observedKnown = count, known
	if !known || count < r.iface.ClientThreshold {
		r.thresholdSince = time.Time{}
		return
	}
	if r.thresholdSince.IsZero() {
		r.thresholdSince = now
	}
}

// evaluate must be called with r.mu held. Until the startup rotation has
// succeeded, triggers stay queued so they neither relabel it nor spend the
// cooldown.
func (r *Rotator) evaluate(now time.Time) (models.Reason, bool) {
	if r.pending == models.ReasonStartup {
		return r.pending, true
	}
	if r.triggers.Consume(r.iface.Name) {
		return models.ReasonManualTrigger, true
	}
	if r.pending != "" {
		return r.pending, true
	}
	age := r.current.Age(now)
	if r.iface.RotationIntervalSec > 0 && age >= r.iface.RotationInterval() {
		return models.ReasonTimeElapsed, true
	}
	minAfter := r.iface.MinTimeAfterClients()
	if !r.thresholdSince.IsZero() && age >= minAfter && now.Sub(r.thresholdSince) >= minAfter {
		return models.ReasonClientThreshold, true
	}
	return "", false
}

func (r *Rotator) rotate(ctx context.Context, reason models.Reason, count int, known bool) error {
	name := r.iface.Name
	r.setState(models.StateRotating)
	r.mu.Lock()
	established := r.current.Established()
	r.mu.Unlock()
	// The status file appears with the first applied credential.
	if established {
		r.publish(r.clock.Now())
	}
	r.logger.Infof(providers.TypeRotation, "Rotating %s (reason: %s)", name, reason)

	cred, err := r.draw()
	if err != nil {
		return fmt.Errorf("generating credential for %s: %w", name, err)
	}

	// Shutdown must not abort a half-applied config; the writer bounds the
	// transaction with its own timeout.
	applyCtx := context.WithoutCancel(ctx)
	if err = r.writer.Apply(applyCtx, r.iface, cred); err != nil {
		r.fail(reason, err)
		return nil
	}

	now := r.clock.Now()
	r.mu.Lock()
	prior := r.current
	r.current = models.RotationState{
		Credential:   cred,
		CreatedAt:    now,
		NextDueAt:    now.Add(r.iface.RotationInterval()),
		ClientCount:  count,
		ClientsKnown: known,
		Sequence:     prior.Sequence + 1,
		LastReason:   reason,
	}
	r.pending = ""
	r.state = models.StateIdle
	r.thresholdSince = time.Time{}
	applied := now
	r.health.LastApplyAt = &applied
	r.health.LastError = ""
	r.health.LastErrorAt = nil
	r.health.ConsecutiveFailures = 0
	seq := r.current.Sequence
	r.mu.Unlock()

	r.metrics.IncRotations(name, string(reason))
	r.metrics.SetState(name, string(models.StateIdle))
	r.logger.Infof(providers.TypeRotation, "Rotated %s to %s (sequence %d)", name, cred.SSID, seq)
	r.publish(now)

	entry := models.RotationHistoryEntry{
		Timestamp:     now,
		Interface:     name,
		Reason:        reason,
		Sequence:      seq,
		PriorSSIDHash: models.HashSSID(prior.Credential.SSID),
	}
	if known {
		c := count
		entry.ClientCount = &c
	}
	if err = r.store.AppendHistory(entry); err != nil {
		r.logger.Errorf(providers.TypeStore, "Failed to append history for %s: %v", name, err)
	}
	return nil
}

// draw never returns the credential that is currently live.
func (r *Rotator) draw() (models.Credential, error) {
	r.mu.Lock()
	live := r.current.Credential
	r.mu.Unlock()

	for i := 0; i < maxRedraws; i++ {
		cred, err := r.generator.Generate(r.iface.SsidPrefix)
		if err != nil {
			return models.Credential{}, err
		}
		if !cred.Equal(live) {
			return cred, nil
		}
	}
	return models.Credential{}, fmt.Errorf("%w: %d consecutive draws repeated the live credential", services.ErrRandomness, maxRedraws)
}

func (r *Rotator) fail(reason models.Reason, err error) {
	now := r.clock.Now()
	r.mu.Lock()
	r.pending = reason
	r.state = models.StateDegraded
	failedAt := now
	r.health.LastError = err.Error()
	r.health.LastErrorAt = &failedAt
	r.health.ConsecutiveFailures++
	failures := r.health.ConsecutiveFailures
	r.mu.Unlock()

	r.metrics.SetState(r.iface.Name, string(models.StateDegraded))
	if errors.Is(err, apconfig.ErrApplyTimeout) {
		r.logger.Errorf(providers.TypeRotation, "Apply timed out on %s (failure %d): %v", r.iface.Name, failures, err)
	} else {
		r.logger.Errorf(providers.TypeRotation, "Apply failed on %s (failure %d): %v", r.iface.Name, failures, err)
	}
	r.publish(now)
}

func (r *Rotator) setState(state models.State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
	r.metrics.SetState(r.iface.Name, string(state))
}

func (r *Rotator) publish(now time.Time) {
	status := r.status(now)
	if err := r.store.Publish(status); err != nil {
		r.logger.Errorf(providers.TypeStore, "Failed to publish status for %s: %v", r.iface.Name, err)
	}
}

// Snapshot returns the status as it would be published now.
func (r *Rotator) Snapshot() models.PublishedStatus {
	return r.status(r.clock.Now())
}

// State returns the last applied rotation state.
func (r *Rotator) State() (models.State, models.RotationState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.current
}

func (r *Rotator) status(now time.Time) models.PublishedStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := models.PublishedStatus{
		Interface:          r.iface.Name,
		Enabled:            true,
		State:              r.state,
		SSID:               r.current.Credential.SSID,
		Password:           r.current.Credential.Password,
		WifiURI:            r.current.Credential.WifiURI(),
		Sequence:           r.current.Sequence,
		CreatedAt:          r.current.CreatedAt,
		ExpiresAt:          r.current.NextDueAt,
		SecondsUntilNext:   r.current.SecondsUntilNext(now),
		LastRotationReason: r.current.LastReason,
		Health:             r.health,
		UpdatedAt:          now,
	}
	if r.observedKnown {
		c := r.observed
		status.ClientCount = &c
	}
	return status
}

// DisabledStatus is published for configured interfaces the daemon does not
// manage.
func DisabledStatus(name string, now time.Time, cause string) models.PublishedStatus {
	status := models.PublishedStatus{
		Interface: name,
		State:     models.StateDisabled,
		UpdatedAt: now,
	}
	if cause != "" {
		status.Health.LastError = cause
		status.Health.LastErrorAt = &now
	}
	return status
}
