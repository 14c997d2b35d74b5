package providers

import (
	"aprd/internal/models"
	"aprd/internal/structures"
	"fmt"
	"regexp"
	"sort"

	"github.com/gookit/validate"
)

var (
	ifaceNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,15}$`)
	ssidPrefixPattern = regexp.MustCompile(`^[\x21-\x7e]*$`)
	leaseTimePattern  = regexp.MustCompile(`^([0-9]+[smhdw]?|infinite)$`)
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	if err := cv.validatePrefix("ssid_prefix", cv.conf.SsidPrefix); err != nil {
		return err
	}

	enabled := 0
	for name, block := range cv.conf.Interfaces {
		if !block.Enabled {
			continue
		}
		enabled++
		if !ifaceNamePattern.MatchString(name) {
			return fmt.Errorf("invalid config: interface name %q", name)
		}
		iv := validate.Struct(&block)
		if !iv.Validate() {
			return fmt.Errorf("invalid config: interfaces.%s: %s", name, iv.Errors.One())
		}
		if !leaseTimePattern.MatchString(block.DhcpLeaseTime) {
			return fmt.Errorf("invalid config: interfaces.%s.dhcp_lease_time %q", name, block.DhcpLeaseTime)
		}
		if block.SsidPrefix != "" {
			if err := cv.validatePrefix("interfaces."+name+".ssid_prefix", block.SsidPrefix); err != nil {
				return err
			}
		}
		if block.RotationIntervalSec != nil && *block.RotationIntervalSec < 0 {
			return fmt.Errorf("invalid config: interfaces.%s.rotation_interval_sec must be non-negative", name)
		}
		if block.MinTimeAfterClientsSec != nil && *block.MinTimeAfterClientsSec < 0 {
			return fmt.Errorf("invalid config: interfaces.%s.min_time_after_clients_sec must be non-negative", name)
		}
		if block.ClientThreshold != nil && *block.ClientThreshold < 1 {
			return fmt.Errorf("invalid config: interfaces.%s.client_threshold must be at least 1", name)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("invalid config: no enabled interfaces")
	}
	if cv.conf.WanInterface != "" {
		if block, ok := cv.conf.Interfaces[cv.conf.WanInterface]; ok && block.Enabled {
			return fmt.Errorf("invalid config: wan_interface %q is also an AP interface", cv.conf.WanInterface)
		}
	}
	return nil
}

func (cv *CnfValidator) validatePrefix(field, prefix string) error {
	if !ssidPrefixPattern.MatchString(prefix) {
		return fmt.Errorf("invalid config: %s must be printable ASCII without spaces", field)
	}
	if len(prefix)+cv.conf.SsidLength > models.MaxSSIDLength {
		return fmt.Errorf("invalid config: %s plus ssid_length exceeds %d bytes", field, models.MaxSSIDLength)
	}
	return nil
}

// ResolveInterfaces merges global rotation settings into each managed
// interface block. In single AP mode only the first enabled interface (by
// name) is managed.
func ResolveInterfaces(conf *structures.Config, logger Logger) models.Interfaces {
	names := make([]string, 0, len(conf.Interfaces))
	for name := range conf.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	var out models.Interfaces
	for _, name := range names {
		block := conf.Interfaces[name]
		if !block.Enabled {
			logger.Infof(TypeApp, "Skipping %s (disabled in config)", name)
			continue
		}
		if !conf.DualApMode && len(out) > 0 {
			logger.Infof(TypeApp, "Skipping %s (dual_ap_mode disabled)", name)
			continue
		}
		out = append(out, resolveInterface(conf, name, block))
	}
	return out
}

func resolveInterface(conf *structures.Config, name string, block structures.InterfaceBlock) models.InterfaceConfig {
	ic := models.InterfaceConfig{
		Name:                   name,
		Enabled:                block.Enabled,
		DualMode:               conf.DualApMode,
		RotationIntervalSec:    conf.RotationIntervalSec,
		ClientThreshold:        conf.ClientThreshold,
		MinTimeAfterClientsSec: conf.MinTimeAfterClientsSec,
		SsidPrefix:             conf.SsidPrefix,
		Channel:                block.Channel,
		CountryCode:            conf.CountryCode,
		SecurityMode:           conf.SecurityMode,
		ApIP:                   block.ApIP,
		ApNetmask:              block.ApNetmask,
		DhcpRangeStart:         block.DhcpRangeStart,
		DhcpRangeEnd:           block.DhcpRangeEnd,
		DhcpLeaseTime:          block.DhcpLeaseTime,
	}
	if block.SsidPrefix != "" {
		ic.SsidPrefix = block.SsidPrefix
	}
	if block.RotationIntervalSec != nil {
		ic.RotationIntervalSec = *block.RotationIntervalSec
	}
	if block.ClientThreshold != nil {
		ic.ClientThreshold = *block.ClientThreshold
	}
	if block.MinTimeAfterClientsSec != nil {
		ic.MinTimeAfterClientsSec = *block.MinTimeAfterClientsSec
	}
	return ic
}
