// File: adapters/cpuid_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"testing"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUIDLayout(t *testing.T) {
	a := &CPUID{Probe: func() CPUIDInfo {
		return CPUIDInfo{
			PhysicalCores: 6, ThreadsPerCore: 2, LogicalCores: 12,
			L1I: 32 << 10, L1D: 32 << 10, L2: 512 << 10, L3: 32 << 20, CacheLine: 64,
			Identity: Identity{Vendor: api.VendorAMD, VendorName: "AuthenticAMD", ModelName: "Ryzen 5"},
		}
	}}
	raw, err := a.Enumerate()
	require.NoError(t, err)
	snap, err := topology.Build(raw, a.Name())
	require.NoError(t, err)

	assert.Equal(t, "cpuid", snap.Adapter)
	require.Len(t, snap.Sockets, 1)
	assert.Equal(t, 6, snap.TotalPhysicalCores)
	assert.Equal(t, 12, snap.TotalLogicalProcessors)
	assert.Zero(t, snap.TotalPerformanceCores+snap.TotalEfficiencyCores)
	assert.Equal(t, []int{2, 3}, snap.Sockets[0].Cores[1].LogicalProcessors)
	assert.Equal(t, uint64(512<<10), snap.Sockets[0].Cores[5].L2.SizeBytes)
	assert.Equal(t, uint64(32<<20), snap.Sockets[0].L3.SizeBytes)
}

func TestCPUIDUnknownCaches(t *testing.T) {
	a := &CPUID{Probe: func() CPUIDInfo {
		return CPUIDInfo{LogicalCores: 4, L1I: -1, L1D: -1, L2: -1, L3: -1, CacheLine: -1}
	}}
	raw, err := a.Enumerate()
	require.NoError(t, err)
	snap, err := topology.Build(raw, a.Name())
	require.NoError(t, err)
	assert.Equal(t, 4, snap.TotalPhysicalCores)
	assert.Empty(t, snap.Caches())
}

func TestCPUIDThreadsClampedToLogical(t *testing.T) {
	a := &CPUID{Probe: func() CPUIDInfo {
		return CPUIDInfo{PhysicalCores: 4, ThreadsPerCore: 2, LogicalCores: 4}
	}}
	raw, err := a.Enumerate()
	require.NoError(t, err)
	assert.Len(t, raw.Records, 4)
}

func TestCPUIDUnavailable(t *testing.T) {
	a := &CPUID{Probe: func() CPUIDInfo { return CPUIDInfo{} }}
	_, err := a.Enumerate()
	assert.ErrorIs(t, err, api.ErrAdapterUnavailable)
}

func TestProbeCPUIDLive(t *testing.T) {
	info := ProbeCPUID()
	assert.Positive(t, info.LogicalCores)
}
