package apconfig

import (
	"aprd/internal/fsutil"
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/structures"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultPollInterval = 250 * time.Millisecond

var ErrApplyTimeout = errors.New("service did not become active before the apply timeout")

type WriterInterface interface {
	Apply(ctx context.Context, ic models.InterfaceConfig, cred models.Credential) error
}

type Writer struct {
	renderer     *Renderer
	manager      ServiceManager
	hostapdDir   string
	dnsmasqDir   string
	timeout      time.Duration
	pollInterval time.Duration
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
}

func NewWriter(conf *structures.Config, manager ServiceManager, logger providers.Logger, metrics providers.MetricsProviderInterface) WriterInterface {
	return &Writer{
		renderer:     NewRenderer(conf.Paths.TemplateDir),
		manager:      manager,
		hostapdDir:   conf.Paths.HostapdDir,
		dnsmasqDir:   conf.Paths.DnsmasqDir,
		timeout:      conf.ApplyTimeout(),
		pollInterval: defaultPollInterval,
		logger:       logger,
		metrics:      metrics,
	}
}

func (w *Writer) HostapdPath(iface string) string {
	return filepath.Join(w.hostapdDir, "hostapd-"+iface+".conf")
}

func (w *Writer) DnsmasqPath(iface string) string {
	return filepath.Join(w.dnsmasqDir, "ssb-ap-"+iface+".conf")
}

// Apply installs cred for one interface and returns nil only once the
// service manager reports the AP daemon active. Units of other interfaces
// are never touched.
func (w *Writer) Apply(ctx context.Context, ic models.InterfaceConfig, cred models.Credential) (err error) {
	start := time.Now()
	defer func() {
		w.metrics.ObserveApplyDuration(ic.Name, time.Since(start))
		if err != nil {
			w.metrics.IncApplyFailures(ic.Name)
		}
	}()

	hostapdConf, err := w.renderer.Hostapd(ic, cred)
	if err != nil {
		return err
	}

	hostapdPath := w.HostapdPath(ic.Name)
	previous, err := fsutil.ReadFileIfExists(hostapdPath)
	if err != nil {
		return fmt.Errorf("reading current hostapd config: %w", err)
	}
	if err = fsutil.WriteFileAtomic(hostapdPath, hostapdConf, 0o600); err != nil {
		return fmt.Errorf("writing hostapd config: %w", err)
	}
	restores := []restore{{path: hostapdPath, data: previous, perm: 0o600}}

	units := []string{HostapdUnit(ic.Name, ic.DualMode)}

	dnsmasqPath := w.DnsmasqPath(ic.Name)
	dnsmasqConf := w.renderer.Dnsmasq(ic)
	current, err := fsutil.ReadFileIfExists(dnsmasqPath)
	if err != nil {
		w.rollback(ic.Name, restores)
		return fmt.Errorf("reading current dnsmasq config: %w", err)
	}
	if !bytes.Equal(current, dnsmasqConf) {
		if err = fsutil.WriteFileAtomic(dnsmasqPath, dnsmasqConf, 0o644); err != nil {
			w.rollback(ic.Name, restores)
			return fmt.Errorf("writing dnsmasq config: %w", err)
		}
		// A dnsmasq file that was never applied must not survive a failure,
		// or the retry would see no change and skip the restart.
		restores = append(restores, restore{path: dnsmasqPath, data: current, perm: 0o644, removeIfNew: true})
		units = append(units, DnsmasqUnit(ic.Name, ic.DualMode))
	}

	applyCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	for _, unit := range units {
		w.logger.Debugf(providers.TypeRotation, "Restarting %s for %s", unit, ic.Name)
		if err = w.manager.Restart(applyCtx, unit); err != nil {
			w.rollback(ic.Name, restores)
			return err
		}
	}
	for _, unit := range units {
		if err = w.waitActive(applyCtx, unit); err != nil {
			w.rollback(ic.Name, restores)
			return err
		}
	}
	return nil
}

func (w *Writer) waitActive(ctx context.Context, unit string) error {
	for {
		active, err := w.manager.IsActive(ctx, unit)
		if err == nil && active {
			return nil
		}
		if err != nil {
			w.logger.Debugf(providers.TypeRotation, "Checking %s: %s", unit, err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrApplyTimeout, unit)
		case <-time.After(w.pollInterval):
		}
	}
}

// restore is the content a config file had before Apply rewrote it.
type restore struct {
	path        string
	data        []byte
	perm        os.FileMode
	removeIfNew bool
}

// rollback puts back the last applied configs so that a later restart by
// the init system serves the credential of record. A hostapd file with no
// predecessor is left in place; the unit cannot start without one.
func (w *Writer) rollback(iface string, restores []restore) {
	for _, r := range restores {
		var err error
		switch {
		case r.data != nil:
			err = fsutil.WriteFileAtomic(r.path, r.data, r.perm)
		case r.removeIfNew:
			if err = os.Remove(r.path); os.IsNotExist(err) {
				err = nil
			}
		}
		if err != nil {
			w.logger.Errorf(providers.TypeRotation, "Restoring %s for %s failed: %s", r.path, iface, err)
		}
	}
}
