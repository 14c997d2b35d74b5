package trigger

import (
	"aprd/internal/clock"
	"aprd/internal/providers"
	"aprd/internal/structures"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

const triggerPrefix = "trigger-rotate-"

var ErrUnknownInterface = errors.New("unknown interface")

// Listener collects manual rotation requests from the trigger files and the
// button relay, and applies the per-interface cooldown.
type Listener struct {
	runDir   string
	cooldown rate.Limit
	clock    clock.Clock
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	wake     map[string]chan struct{}
	pressed  map[string]bool
	warned   map[string]bool
}

func NewListener(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, clk clock.Clock) *Listener {
	return &Listener{
		runDir:   conf.Paths.RunDir,
		cooldown: rate.Every(conf.ManualCooldown()),
		clock:    clk,
		logger:   logger,
		metrics:  metrics,
		limiters: make(map[string]*rate.Limiter),
		wake:     make(map[string]chan struct{}),
		pressed:  make(map[string]bool),
		warned:   make(map[string]bool),
	}
}

func TriggerPath(runDir, iface string) string {
	return filepath.Join(runDir, triggerPrefix+iface)
}

// RequestFile creates the trigger file for iface, the way external tools do.
func RequestFile(runDir, iface string) error {
	file, err := os.OpenFile(TriggerPath(runDir, iface), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return file.Close()
}

// Register marks iface as managed so relayed presses are accepted, and
// discards a trigger file left behind by a previous run.
func (l *Listener) Register(iface string) {
	l.mu.Lock()
	l.wakeLocked(iface)
	l.mu.Unlock()

	err := os.Remove(TriggerPath(l.runDir, iface))
	switch {
	case err == nil:
		l.logger.Infof(providers.TypeTrigger, "Discarded stale trigger file for %s", iface)
	case !os.IsNotExist(err):
		l.logger.Warnf(providers.TypeTrigger, "Cannot remove stale trigger file for %s: %v", iface, err)
	}
}

// Wake returns the wake channel of iface, registering it if needed.
func (l *Listener) Wake(iface string) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wakeLocked(iface)
}

func (l *Listener) wakeLocked(iface string) chan struct{} {
	ch, ok := l.wake[iface]
	if !ok {
		ch = make(chan struct{}, 1)
		l.wake[iface] = ch
	}
	return ch
}

func (l *Listener) notify(iface string) {
	l.mu.Lock()
	ch, ok := l.wake[iface]
	l.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Press records a relayed button press for iface.
func (l *Listener) Press(iface string) error {
	l.mu.Lock()
	if _, ok := l.wake[iface]; !ok {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownInterface, iface)
	}
	l.pressed[iface] = true
	l.mu.Unlock()

	l.logger.Debugf(providers.TypeTrigger, "Button press relayed for %s", iface)
	l.notify(iface)
	return nil
}

// Consume returns true at most once per trigger event. A trigger inside the
// cooldown window is consumed and dropped.
func (l *Listener) Consume(iface string) bool {
	fromFile := l.consumeFile(iface)

	l.mu.Lock()
	fromRelay := l.pressed[iface]
	delete(l.pressed, iface)
	l.mu.Unlock()

	if !fromFile && !fromRelay {
		return false
	}

	accepted := l.allow(iface)
	l.metrics.IncManualTriggers(iface, accepted)
	if !accepted {
		l.logger.Warnf(providers.TypeTrigger, "Manual rotation of %s ignored: cooldown active", iface)
		return false
	}
	l.logger.Infof(providers.TypeTrigger, "Manual rotation of %s requested", iface)
	return true
}

// consumeFile removes the trigger file; only the caller whose remove
// succeeds sees the trigger.
func (l *Listener) consumeFile(iface string) bool {
	err := os.Remove(TriggerPath(l.runDir, iface))
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.warned, iface)
		return true
	}
	if !os.IsNotExist(err) && !l.warned[iface] {
		l.warned[iface] = true
		l.logger.Warnf(providers.TypeTrigger, "Cannot consume trigger file for %s: %v", iface, err)
	}
	return false
}

func (l *Listener) allow(iface string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[iface]
	if !ok {
		limiter = rate.NewLimiter(l.cooldown, 1)
		l.limiters[iface] = limiter
	}
	l.mu.Unlock()
	return limiter.AllowN(l.clock.Now(), 1)
}

// Watch wakes workers as soon as a trigger file appears. Without it the
// files are still picked up on the next tick.
func (l *Listener) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err = watcher.Add(l.runDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", l.runDir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				name := filepath.Base(event.Name)
				if iface, found := strings.CutPrefix(name, triggerPrefix); found {
					l.notify(iface)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warnf(providers.TypeTrigger, "Trigger watcher error: %v", err)
			}
		}
	}()
	return nil
}
