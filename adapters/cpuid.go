// File: adapters/cpuid.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback adapter built on CPUID counters. It knows core and thread
// counts and cache sizes but not socket boundaries or core types, so it
// reports a single socket of Unknown cores.

package adapters

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

// CPUIDName identifies the CPUID adapter.
const CPUIDName = "cpuid"

// CPUIDInfo carries the counters the adapter needs. Cache sizes of zero or
// less are treated as unknown.
type CPUIDInfo struct {
	PhysicalCores  int
	ThreadsPerCore int
	LogicalCores   int
	L1I, L1D       int
	L2, L3         int
	CacheLine      int
	Identity       Identity
}

// CPUID enumerates processors from CPUID counters.
type CPUID struct {
	Probe  func() CPUIDInfo
	Logger *zap.Logger
}

// NewCPUID returns the adapter reading the live processor.
func NewCPUID(logger *zap.Logger) *CPUID {
	return &CPUID{Probe: ProbeCPUID, Logger: logger}
}

func (c *CPUID) Name() string { return CPUIDName }

// ProbeCPUID reads the counters from klauspost/cpuid. Logical count falls
// back to the Go runtime when CPUID does not expose it.
func ProbeCPUID() CPUIDInfo {
	info := CPUIDInfo{
		PhysicalCores:  cpuid.CPU.PhysicalCores,
		ThreadsPerCore: cpuid.CPU.ThreadsPerCore,
		LogicalCores:   cpuid.CPU.LogicalCores,
		L1I:            cpuid.CPU.Cache.L1I,
		L1D:            cpuid.CPU.Cache.L1D,
		L2:             cpuid.CPU.Cache.L2,
		L3:             cpuid.CPU.Cache.L3,
		CacheLine:      cpuid.CPU.CacheLine,
		Identity:       CPUIDIdentity(),
	}
	if info.LogicalCores <= 0 {
		info.LogicalCores = runtime.NumCPU()
	}
	return info
}

// Enumerate lays out PhysicalCores cores with ThreadsPerCore consecutive
// logical processors each.
func (c *CPUID) Enumerate() (*api.RawTopology, error) {
	if c.Probe == nil {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "cpuid probe not available")
	}
	info := c.Probe()
	threads := max(info.ThreadsPerCore, 1)
	cores := info.PhysicalCores
	if cores <= 0 {
		cores = info.LogicalCores / threads
	}
	if cores <= 0 {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "cpuid reports no cores")
	}
	if info.LogicalCores > 0 && cores*threads > info.LogicalCores {
		threads = max(info.LogicalCores/cores, 1)
	}

	line := uint32(max(info.CacheLine, 0))
	var coreCaches []api.RawCache
	if info.L1I > 0 {
		coreCaches = append(coreCaches, api.RawCache{Level: 1, Type: api.CacheInstruction, SizeBytes: uint64(info.L1I), LineSizeBytes: line})
	}
	if info.L1D > 0 {
		coreCaches = append(coreCaches, api.RawCache{Level: 1, Type: api.CacheData, SizeBytes: uint64(info.L1D), LineSizeBytes: line})
	}
	if info.L2 > 0 {
		coreCaches = append(coreCaches, api.RawCache{Level: 2, Type: api.CacheUnified, SizeBytes: uint64(info.L2), LineSizeBytes: line})
	}
	if info.L3 > 0 {
		coreCaches = append(coreCaches, api.RawCache{Scope: api.ScopeSocket, Level: 3, Type: api.CacheUnified, SizeBytes: uint64(info.L3), LineSizeBytes: line})
	}

	raw := &api.RawTopology{
		Vendor:     info.Identity.Vendor,
		VendorName: info.Identity.VendorName,
		ModelName:  info.Identity.ModelName,
		Records:    make([]api.RawRecord, 0, cores*threads),
	}
	for core := 0; core < cores; core++ {
		for t := 0; t < threads; t++ {
			raw.Records = append(raw.Records, api.RawRecord{
				LogicalProcessor: core*threads + t,
				Core:             core,
				Caches:           coreCaches,
			})
		}
	}
	if c.Logger != nil {
		c.Logger.Debug("cpuid topology", zap.Int("cores", cores), zap.Int("threads_per_core", threads))
	}
	return raw, nil
}
