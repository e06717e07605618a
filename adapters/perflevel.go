// File: adapters/perflevel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// macOS adapter. The sysctl reads live in sysctl_darwin.go; the record
// synthesis here is portable.

package adapters

import (
	"fmt"

	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

// PerflevelName identifies the macOS adapter.
const PerflevelName = "perflevel"

// PerfLevel is one hw.perflevelN group. perflevel0 is the fastest.
type PerfLevel struct {
	PhysicalCPU int
	LogicalCPU  int
	L1ICache    uint64
	L1DCache    uint64
	L2Cache     uint64
	// CPUsPerL2 is the number of logical CPUs sharing one L2 instance.
	CPUsPerL2 int
}

// SysctlInfo is the subset of hw.* sysctls the adapter needs.
type SysctlInfo struct {
	Packages    int
	PhysicalCPU int
	LogicalCPU  int
	// Levels is empty on machines without hw.nperflevels (Intel Macs); the
	// flat hw.* counters below are used instead.
	Levels    []PerfLevel
	L1ICache  uint64
	L1DCache  uint64
	L2Cache   uint64
	L3Cache   uint64
	CacheLine uint32
	Identity  Identity
}

// Perflevel enumerates processors from sysctl data.
type Perflevel struct {
	Read   func() (*SysctlInfo, error)
	Logger *zap.Logger
}

func (p *Perflevel) Name() string { return PerflevelName }

// Enumerate reads the sysctls and synthesizes raw records.
func (p *Perflevel) Enumerate() (*api.RawTopology, error) {
	if p.Read == nil {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "sysctl reader not available")
	}
	info, err := p.Read()
	if err != nil {
		return nil, api.Wrap(err, api.ErrCodeAdapterUnavailable, "sysctl hw.* unreadable")
	}
	recs, err := synthesizePerflevel(info)
	if err != nil {
		return nil, err
	}
	if p.Logger != nil {
		p.Logger.Debug("synthesized perflevel topology",
			zap.Int("levels", len(info.Levels)), zap.Int("records", len(recs)))
	}
	return &api.RawTopology{
		Vendor:     info.Identity.Vendor,
		VendorName: info.Identity.VendorName,
		ModelName:  info.Identity.ModelName,
		Records:    recs,
	}, nil
}

// synthesizePerflevel lays out cores level by level, perflevel0 first, with
// logical processor ids assigned in the same order. On multi-level machines
// perflevel0 cores are Performance and the others Efficiency.
func synthesizePerflevel(info *SysctlInfo) ([]api.RawRecord, error) {
	levels := info.Levels
	if len(levels) == 0 {
		levels = []PerfLevel{{
			PhysicalCPU: info.PhysicalCPU,
			LogicalCPU:  info.LogicalCPU,
			L1ICache:    info.L1ICache,
			L1DCache:    info.L1DCache,
			L2Cache:     info.L2Cache,
		}}
	}
	total := 0
	for _, l := range levels {
		total += l.PhysicalCPU
	}
	if total <= 0 {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "sysctl reports no physical cpus")
	}
	packages := max(info.Packages, 1)
	perPackage := (total + packages - 1) / packages

	var recs []api.RawRecord
	lp, coreIdx := 0, 0
	for li, l := range levels {
		typ := api.CoreUnknown
		if len(levels) > 1 {
			typ = api.CoreEfficiency
			if li == 0 {
				typ = api.CorePerformance
			}
		}
		threads := 1
		if l.PhysicalCPU > 0 && l.LogicalCPU > l.PhysicalCPU {
			threads = l.LogicalCPU / l.PhysicalCPU
		}
		coresPerL2 := 1
		if l.CPUsPerL2 > 0 {
			coresPerL2 = max(l.CPUsPerL2/threads, 1)
		}
		for c := 0; c < l.PhysicalCPU; c++ {
			socket := coreIdx / perPackage
			var caches []api.RawCache
			if l.L1ICache > 0 {
				caches = append(caches, api.RawCache{Level: 1, Type: api.CacheInstruction, SizeBytes: l.L1ICache, LineSizeBytes: info.CacheLine})
			}
			if l.L1DCache > 0 {
				caches = append(caches, api.RawCache{Level: 1, Type: api.CacheData, SizeBytes: l.L1DCache, LineSizeBytes: info.CacheLine})
			}
			if l.L2Cache > 0 {
				caches = append(caches, api.RawCache{
					Key:           fmt.Sprintf("L2/perflevel%d/cluster%d", li, c/coresPerL2),
					Level:         2,
					Type:          api.CacheUnified,
					SizeBytes:     l.L2Cache,
					LineSizeBytes: info.CacheLine,
				})
			}
			if info.L3Cache > 0 {
				caches = append(caches, api.RawCache{Scope: api.ScopeSocket, Level: 3, Type: api.CacheUnified, SizeBytes: info.L3Cache, LineSizeBytes: info.CacheLine})
			}
			for t := 0; t < threads; t++ {
				recs = append(recs, api.RawRecord{
					LogicalProcessor: lp,
					Socket:           socket,
					Core:             coreIdx,
					Type:             typ,
					Caches:           caches,
				})
				lp++
			}
			coreIdx++
		}
	}
	return recs, nil
}
