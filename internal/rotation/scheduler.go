package rotation

import (
	"aprd/internal/apconfig"
	"aprd/internal/clock"
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/rotation/interfaces"
	"aprd/internal/services"
	"aprd/internal/structures"
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNoUsableInterface = errors.New("no usable AP interface")

type Scheduler struct {
	config     *structures.Config
	interfaces models.Interfaces
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	clock      clock.Clock
	generator  services.CredentialServiceInterface
	monitor    services.ClientMonitorInterface
	writer     apconfig.WriterInterface
	store      interfaces.StatusStoreInterface
	triggers   interfaces.TriggerInterface

	rotators []*Rotator
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	errCh    chan error
	stopOnce sync.Once
}

func NewScheduler(
	config *structures.Config,
	ifaces models.Interfaces,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	clk clock.Clock,
	generator services.CredentialServiceInterface,
	monitor services.ClientMonitorInterface,
	writer apconfig.WriterInterface,
	store interfaces.StatusStoreInterface,
	triggers interfaces.TriggerInterface,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:     config,
		interfaces: ifaces,
		logger:     logger,
		metrics:    metrics,
		clock:      clk,
		generator:  generator,
		monitor:    monitor,
		writer:     writer,
		store:      store,
		triggers:   triggers,
		errCh:      make(chan error, 1),
	}
}

// Init builds one rotator per usable interface and registers it with the
// trigger sources. Configured interfaces that are not managed get a disabled
// status so readers do not show stale data.
func (s *Scheduler) Init() error {
	managed := make(map[string]bool, len(s.interfaces))
	for _, ic := range s.interfaces {
		managed[ic.Name] = true
	}

	names := make([]string, 0, len(s.config.Interfaces))
	for name := range s.config.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !managed[name] {
			s.disable(name, "")
		}
	}

	s.rotators = s.rotators[:0]
	for _, ic := range s.interfaces {
		if !s.monitor.Available(ic.Name) {
			s.logger.Warnf(providers.TypeApp, "Interface %s is not present, leaving it disabled", ic.Name)
			s.disable(ic.Name, "interface not present")
			continue
		}
		s.triggers.Register(ic.Name)
		s.rotators = append(s.rotators, NewRotator(ic, s.generator, s.monitor, s.writer, s.store, s.triggers, s.metrics, s.logger, s.clock))
	}
	if len(s.rotators) == 0 {
		return ErrNoUsableInterface
	}
	return nil
}

func (s *Scheduler) disable(name, cause string) {
	s.metrics.SetState(name, string(models.StateDisabled))
	if err := s.store.Publish(DisabledStatus(name, s.clock.Now(), cause)); err != nil {
		s.logger.Errorf(providers.TypeStore, "Failed to publish disabled status for %s: %v", name, err)
	}
}

// Start launches one worker per rotator. The first tick runs immediately and
// performs the startup rotation.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, r := range s.rotators {
		s.wg.Add(1)
		go s.run(ctx, r)
	}
	s.logger.Infof(providers.TypeApp, "Scheduler started for %d interface(s)", len(s.rotators))
}

func (s *Scheduler) run(ctx context.Context, r *Rotator) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.TickInterval())
	defer ticker.Stop()
	wake := s.triggers.Wake(r.Name())

	for ctx.Err() == nil {
		if err := r.Tick(ctx); err != nil {
			s.logger.Errorf(providers.TypeRotation, "Worker for %s stopped: %v", r.Name(), err)
			select {
			case s.errCh <- err:
			default:
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-wake:
		}
	}
}

// Stop cancels the workers and waits for any in-flight rotation to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		s.logger.Infof(providers.TypeApp, "Scheduler stopped")
	})
}

// Err delivers the first fatal worker error.
func (s *Scheduler) Err() <-chan error {
	return s.errCh
}

func (s *Scheduler) Statuses() []models.PublishedStatus {
	statuses := make([]models.PublishedStatus, 0, len(s.rotators))
	for _, r := range s.rotators {
		statuses = append(statuses, r.Snapshot())
	}
	return statuses
}
