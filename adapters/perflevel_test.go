// File: adapters/perflevel_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"errors"
	"testing"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// m1Pro mirrors the sysctl output of an 8P+2E Apple M1 Pro.
func m1Pro() *SysctlInfo {
	return &SysctlInfo{
		Packages:    1,
		PhysicalCPU: 10,
		LogicalCPU:  10,
		CacheLine:   128,
		Levels: []PerfLevel{
			{PhysicalCPU: 8, LogicalCPU: 8, L1ICache: 192 << 10, L1DCache: 128 << 10, L2Cache: 12 << 20, CPUsPerL2: 4},
			{PhysicalCPU: 2, LogicalCPU: 2, L1ICache: 128 << 10, L1DCache: 64 << 10, L2Cache: 4 << 20, CPUsPerL2: 2},
		},
		Identity: Identity{Vendor: api.VendorApple, VendorName: "Apple", ModelName: "Apple M1 Pro"},
	}
}

func TestPerflevelAppleSilicon(t *testing.T) {
	a := &Perflevel{Read: func() (*SysctlInfo, error) { return m1Pro(), nil }}
	raw, err := a.Enumerate()
	require.NoError(t, err)
	assert.Equal(t, api.VendorApple, raw.Vendor)
	assert.Equal(t, "Apple M1 Pro", raw.ModelName)

	snap, err := topology.Build(raw, a.Name())
	require.NoError(t, err)
	assert.Equal(t, 10, snap.TotalPhysicalCores)
	assert.Equal(t, 10, snap.TotalLogicalProcessors)
	assert.Equal(t, 8, snap.TotalPerformanceCores)
	assert.Equal(t, 2, snap.TotalEfficiencyCores)
	assert.False(t, snap.Sockets[0].HasL3())

	cores := snap.Sockets[0].Cores
	// two P clusters of four cores, one E cluster of two
	assert.Same(t, cores[0].L2, cores[3].L2)
	assert.NotSame(t, cores[3].L2, cores[4].L2)
	assert.Same(t, cores[4].L2, cores[7].L2)
	assert.Same(t, cores[8].L2, cores[9].L2)
	assert.Equal(t, uint64(4<<20), cores[9].L2.SizeBytes)
	assert.Equal(t, uint32(128), cores[0].L1D.LineSizeBytes)
	assert.Equal(t, api.CorePerformance, cores[0].Type)
	assert.Equal(t, api.CoreEfficiency, cores[9].Type)
	assert.Len(t, snap.Caches(), 10*2+3)
}

func TestPerflevelIntelMac(t *testing.T) {
	info := &SysctlInfo{
		Packages: 1, PhysicalCPU: 4, LogicalCPU: 8,
		L1ICache: 32 << 10, L1DCache: 32 << 10, L2Cache: 256 << 10, L3Cache: 8 << 20,
		CacheLine: 64,
		Identity:  Identity{Vendor: api.VendorIntel, VendorName: "GenuineIntel"},
	}
	a := &Perflevel{Read: func() (*SysctlInfo, error) { return info, nil }}
	raw, err := a.Enumerate()
	require.NoError(t, err)
	snap, err := topology.Build(raw, a.Name())
	require.NoError(t, err)
	assert.Equal(t, 4, snap.TotalPhysicalCores)
	assert.Equal(t, 8, snap.TotalLogicalProcessors)
	assert.False(t, snap.IsHybrid())
	assert.Equal(t, api.CoreUnknown, snap.Sockets[0].Cores[0].Type)
	// no cpusperl2: one L2 per core
	assert.NotSame(t, snap.Sockets[0].Cores[0].L2, snap.Sockets[0].Cores[1].L2)
	require.True(t, snap.Sockets[0].HasL3())
	assert.Equal(t, []int{0, 1}, snap.Sockets[0].Cores[0].LogicalProcessors)
}

func TestPerflevelErrors(t *testing.T) {
	a := &Perflevel{Read: func() (*SysctlInfo, error) { return nil, errors.New("sysctl: ENOENT") }}
	_, err := a.Enumerate()
	assert.ErrorIs(t, err, api.ErrAdapterUnavailable)

	a.Read = func() (*SysctlInfo, error) { return &SysctlInfo{}, nil }
	_, err = a.Enumerate()
	assert.ErrorIs(t, err, api.ErrAdapterUnavailable)

	_, err = (&Perflevel{}).Enumerate()
	assert.ErrorIs(t, err, api.ErrAdapterUnavailable)
}
