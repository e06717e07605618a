// File: facade/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"github.com/momentics/hwtopo/api"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Config holds engine parameters, immutable once the engine is created.
type Config struct {
	// Adapter overrides adapter selection. When nil, AdapterName selects a
	// variant ("auto" is the platform chain).
	Adapter     api.RawQuery
	AdapterName string

	SysRoot  string // sysfs mount for the Linux adapter
	ProcRoot string // procfs mount for the Linux adapter

	Logger *zap.Logger

	// Registerer, when set, receives the engine counters and a topology
	// collector.
	Registerer prometheus.Registerer

	// Controller applies affinity and priority to the calling thread.
	// Defaults to the affinity package.
	Controller api.ThreadController
}

// DefaultConfig returns the live-system configuration.
func DefaultConfig() *Config {
	return &Config{
		AdapterName: "auto",
		SysRoot:     "/sys",
		ProcRoot:    "/proc",
	}
}
