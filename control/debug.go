// File: control/debug.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Debug probe registry for runtime inspection of the engine.

package control

import (
	"maps"
	"sync"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/features"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook, replacing any previous one.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// DumpState returns output of all probes. Probes run outside the lock.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	probes := maps.Clone(dp.probes)
	dp.mu.RUnlock()

	out := make(map[string]any, len(probes))
	for k, fn := range probes {
		out[k] = fn()
	}
	return out
}

// RegisterTopologyProbes adds probes describing the snapshot of src and the
// detected feature set.
func RegisterTopologyProbes(dp *DebugProbes, src SnapshotSource) {
	dp.RegisterProbe("topology.summary", func() any {
		snap, err := src.Snapshot()
		if err != nil {
			return map[string]any{"error": err.Error(), "code": int(api.CodeOf(err))}
		}
		return map[string]any{
			"vendor":             snap.Vendor.Description(),
			"model":              snap.ModelName,
			"adapter":            snap.Adapter,
			"sockets":            len(snap.Sockets),
			"physical_cores":     snap.TotalPhysicalCores,
			"logical_processors": snap.TotalLogicalProcessors,
			"hybrid":             snap.IsHybrid(),
			"caches":             len(snap.Caches()),
		}
	})
	dp.RegisterProbe("topology.features", func() any {
		return features.Detect().String()
	})
}
