// File: facade/queries.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Read-only queries answered from the snapshot.

package facade

import (
	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/features"
	"k8s.io/utils/cpuset"
)

// CPUInfo summarizes the processor.
type CPUInfo struct {
	Vendor                 api.Vendor `json:"vendor" yaml:"vendor"`
	VendorName             string     `json:"vendor_name" yaml:"vendor_name"`
	ModelName              string     `json:"model_name" yaml:"model_name"`
	Adapter                string     `json:"adapter" yaml:"adapter"`
	Sockets                int        `json:"sockets" yaml:"sockets"`
	TotalPhysicalCores     int        `json:"total_physical_cores" yaml:"total_physical_cores"`
	TotalLogicalProcessors int        `json:"total_logical_processors" yaml:"total_logical_processors"`
	TotalPerformanceCores  int        `json:"total_performance_cores" yaml:"total_performance_cores"`
	TotalEfficiencyCores   int        `json:"total_efficiency_cores" yaml:"total_efficiency_cores"`
	Hybrid                 bool       `json:"hybrid" yaml:"hybrid"`
	Features               []string   `json:"features" yaml:"features"`
}

// CPUInfo returns the processor summary.
func (e *Engine) CPUInfo() (*CPUInfo, error) {
	s, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return &CPUInfo{
		Vendor:                 s.Vendor,
		VendorName:             s.VendorName,
		ModelName:              s.ModelName,
		Adapter:                s.Adapter,
		Sockets:                len(s.Sockets),
		TotalPhysicalCores:     s.TotalPhysicalCores,
		TotalLogicalProcessors: s.TotalLogicalProcessors,
		TotalPerformanceCores:  s.TotalPerformanceCores,
		TotalEfficiencyCores:   s.TotalEfficiencyCores,
		Hybrid:                 s.IsHybrid(),
		Features:               e.Features().Names(),
	}, nil
}

// IsHybrid reports whether the processor has both performance and
// efficiency cores.
func (e *Engine) IsHybrid() (bool, error) {
	s, err := e.Snapshot()
	if err != nil {
		return false, err
	}
	return s.IsHybrid(), nil
}

// Socket returns socket id.
func (e *Engine) Socket(id int) (*api.Socket, error) {
	s, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.Socket(id)
}

// Core returns core id of socket.
func (e *Engine) Core(socket, core int) (*api.Core, error) {
	s, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.Core(socket, core)
}

func (e *Engine) coreCache(socket, core int, name string, pick func(*api.Core) *api.Cache) (*api.Cache, error) {
	c, err := e.Core(socket, core)
	if err != nil {
		return nil, err
	}
	cache := pick(c)
	if cache == nil {
		return nil, api.Errorf(api.ErrCodeInvalidIndex, "core has no %s cache", name).
			WithContext("socket", socket).
			WithContext("core", core)
	}
	return cache, nil
}

// L1InstructionCache returns the L1 instruction cache of a core.
func (e *Engine) L1InstructionCache(socket, core int) (*api.Cache, error) {
	return e.coreCache(socket, core, "L1 instruction", func(c *api.Core) *api.Cache { return c.L1I })
}

// L1DataCache returns the L1 data cache of a core.
func (e *Engine) L1DataCache(socket, core int) (*api.Cache, error) {
	return e.coreCache(socket, core, "L1 data", func(c *api.Core) *api.Cache { return c.L1D })
}

// L2Cache returns the L2 cache of a core.
func (e *Engine) L2Cache(socket, core int) (*api.Cache, error) {
	return e.coreCache(socket, core, "L2", func(c *api.Core) *api.Cache { return c.L2 })
}

// L3Cache returns the first L3 cache of a socket.
func (e *Engine) L3Cache(socket int) (*api.Cache, error) {
	s, err := e.Socket(socket)
	if err != nil {
		return nil, err
	}
	if !s.HasL3() {
		return nil, api.NewError(api.ErrCodeInvalidIndex, "socket has no L3 cache").
			WithContext("socket", socket)
	}
	return s.L3, nil
}

// LogicalProcessors returns every logical processor id, ascending.
func (e *Engine) LogicalProcessors() ([]int, error) {
	s, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.LogicalProcessors(), nil
}

// CoresOfType returns the logical processors of every core of type t.
func (e *Engine) CoresOfType(t api.CoreType) (cpuset.CPUSet, error) {
	s, err := e.Snapshot()
	if err != nil {
		return cpuset.New(), err
	}
	return cpuset.New(s.LogicalProcessorsOfType(t)...), nil
}

// Features returns the instruction-set features of the running processor.
// It does not need a snapshot.
func (e *Engine) Features() features.FeatureSet {
	return features.Detect()
}
