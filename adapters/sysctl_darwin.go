//go:build darwin
// +build darwin

// File: adapters/sysctl_darwin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// hw.* sysctl reads for the perflevel adapter.

package adapters

import (
	"fmt"
	"strings"

	"github.com/momentics/hwtopo/api"
	"github.com/shoenig/go-m1cpu"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// NewPerflevel returns the macOS adapter backed by live sysctls.
func NewPerflevel(logger *zap.Logger) *Perflevel {
	return &Perflevel{Read: readSysctlInfo, Logger: logger}
}

func sysctlNum(name string) uint64 {
	if v, err := unix.SysctlUint64(name); err == nil {
		return v
	}
	if v, err := unix.SysctlUint32(name); err == nil {
		return uint64(v)
	}
	return 0
}

func readSysctlInfo() (*SysctlInfo, error) {
	info := &SysctlInfo{
		Packages:    int(sysctlNum("hw.packages")),
		PhysicalCPU: int(sysctlNum("hw.physicalcpu")),
		LogicalCPU:  int(sysctlNum("hw.logicalcpu")),
		L1ICache:    sysctlNum("hw.l1icachesize"),
		L1DCache:    sysctlNum("hw.l1dcachesize"),
		L2Cache:     sysctlNum("hw.l2cachesize"),
		L3Cache:     sysctlNum("hw.l3cachesize"),
		CacheLine:   uint32(sysctlNum("hw.cachelinesize")),
	}
	if info.PhysicalCPU == 0 {
		return nil, fmt.Errorf("hw.physicalcpu unavailable")
	}

	nlevels := int(sysctlNum("hw.nperflevels"))
	for i := 0; i < nlevels; i++ {
		prefix := fmt.Sprintf("hw.perflevel%d.", i)
		l := PerfLevel{
			PhysicalCPU: int(sysctlNum(prefix + "physicalcpu")),
			LogicalCPU:  int(sysctlNum(prefix + "logicalcpu")),
			L1ICache:    sysctlNum(prefix + "l1icachesize"),
			L1DCache:    sysctlNum(prefix + "l1dcachesize"),
			L2Cache:     sysctlNum(prefix + "l2cachesize"),
			CPUsPerL2:   int(sysctlNum(prefix + "cpusperl2")),
		}
		if l.PhysicalCPU == 0 {
			continue
		}
		info.Levels = append(info.Levels, l)
	}

	if m1cpu.IsAppleSilicon() {
		info.Identity = Identity{Vendor: api.VendorApple, VendorName: "Apple", ModelName: m1cpu.ModelName()}
		// Older kernels lack hw.perflevel*; IOKit still knows the split.
		if len(info.Levels) == 0 && m1cpu.PCoreCount() > 0 {
			pl1i, pl1d, pl2 := m1cpu.PCoreCache()
			el1i, el1d, el2 := m1cpu.ECoreCache()
			p, e := m1cpu.PCoreCount(), m1cpu.ECoreCount()
			info.Levels = []PerfLevel{{PhysicalCPU: p, LogicalCPU: p, L1ICache: uint64(pl1i), L1DCache: uint64(pl1d), L2Cache: uint64(pl2), CPUsPerL2: p}}
			if e > 0 {
				info.Levels = append(info.Levels, PerfLevel{PhysicalCPU: e, LogicalCPU: e, L1ICache: uint64(el1i), L1DCache: uint64(el1d), L2Cache: uint64(el2), CPUsPerL2: e})
			}
		}
	} else {
		info.Identity = CPUIDIdentity()
		if info.Identity.ModelName == "" {
			if brand, err := unix.Sysctl("machdep.cpu.brand_string"); err == nil {
				info.Identity.ModelName = strings.TrimSpace(brand)
			}
		}
	}
	return info, nil
}
