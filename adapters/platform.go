// File: adapters/platform.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Adapter selection for the running OS.

package adapters

import (
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

// PlatformConfig parameterizes the platform adapter chain.
type PlatformConfig struct {
	// SysRoot and ProcRoot locate sysfs and procfs for the Linux adapter.
	SysRoot  string
	ProcRoot string
	Logger   *zap.Logger
}

// DefaultPlatformConfig returns the live filesystem roots.
func DefaultPlatformConfig() PlatformConfig {
	return PlatformConfig{SysRoot: "/sys", ProcRoot: "/proc"}
}

// NewPlatform returns the adapter chain for the running OS, ending in the
// CPUID fallback.
func NewPlatform(cfg PlatformConfig) *Chain {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	log := cfg.Logger.Named("adapters")
	return NewChain(log, append(nativeAdapters(cfg, log), NewCPUID(log))...)
}

// ByName returns a single named variant, or nil when the variant does not
// exist on this OS. "auto" returns the platform chain.
func ByName(name string, cfg PlatformConfig) api.RawQuery {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	switch name {
	case "", "auto":
		return NewPlatform(cfg)
	case CPUIDName:
		return NewCPUID(cfg.Logger)
	case SysfsName:
		return NewSysfs(cfg.SysRoot, cfg.ProcRoot, cfg.Logger)
	}
	for _, a := range nativeAdapters(cfg, cfg.Logger) {
		if a.Name() == name {
			return a
		}
	}
	return nil
}
