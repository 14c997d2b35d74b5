package apconfig

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ServiceManager is the narrow control surface of the init system.
type ServiceManager interface {
	Restart(ctx context.Context, unit string) error
	IsActive(ctx context.Context, unit string) (bool, error)
}

type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

type SystemctlManager struct {
	run CommandRunner
}

func NewSystemctlManager() ServiceManager {
	return &SystemctlManager{run: execWithTimeout}
}

func NewSystemctlManagerWithRunner(run CommandRunner) *SystemctlManager {
	return &SystemctlManager{run: run}
}

func (s *SystemctlManager) Restart(ctx context.Context, unit string) error {
	out, err := s.run(ctx, "systemctl", "restart", unit)
	if err != nil {
		return fmt.Errorf("systemctl restart %s: %w: %s", unit, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// IsActive treats a non-zero exit with a state on stdout as "not active"
// rather than an error; systemctl is-active exits 3 for inactive units.
func (s *SystemctlManager) IsActive(ctx context.Context, unit string) (bool, error) {
	out, err := s.run(ctx, "systemctl", "is-active", unit)
	state := strings.TrimSpace(string(out))
	if state == "active" {
		return true, nil
	}
	if err != nil && state == "" {
		return false, fmt.Errorf("systemctl is-active %s: %w", unit, err)
	}
	return false, nil
}

func execWithTimeout(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

func HostapdUnit(iface string, dualMode bool) string {
	if dualMode {
		return "hostapd@" + iface
	}
	return "hostapd"
}

func DnsmasqUnit(iface string, dualMode bool) string {
	if dualMode {
		return "dnsmasq@" + iface
	}
	return "dnsmasq"
}
