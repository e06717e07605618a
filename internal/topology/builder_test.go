// File: internal/topology/builder_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package topology

import (
	"math/rand"
	"testing"

	"github.com/momentics/hwtopo/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l1i() api.RawCache {
	return api.RawCache{Level: 1, Type: api.CacheInstruction, SizeBytes: 32 << 10, LineSizeBytes: 64}
}

func l1d() api.RawCache {
	return api.RawCache{Level: 1, Type: api.CacheData, SizeBytes: 48 << 10, LineSizeBytes: 64}
}

func l2() api.RawCache {
	return api.RawCache{Level: 2, Type: api.CacheUnified, SizeBytes: 1 << 20, LineSizeBytes: 64}
}

func l3() api.RawCache {
	return api.RawCache{Scope: api.ScopeSocket, Level: 3, Type: api.CacheUnified, SizeBytes: 32 << 20, LineSizeBytes: 64}
}

// twoSocketSMT has 2 sockets x 2 cores x 2 threads with raw ids that are
// neither dense nor ordered.
func twoSocketSMT() *api.RawTopology {
	raw := &api.RawTopology{Vendor: api.VendorAMD, VendorName: "AuthenticAMD", ModelName: "EPYC"}
	lp := 0
	for _, sock := range []int{7, 3} {
		for _, core := range []int{12, 4} {
			for t := 0; t < 2; t++ {
				raw.Records = append(raw.Records, api.RawRecord{
					LogicalProcessor: lp,
					Socket:           sock,
					Core:             core,
					Caches:           []api.RawCache{l1i(), l1d(), l2(), l3()},
				})
				lp++
			}
		}
	}
	return raw
}

func TestBuildAggregatesAndRenumbering(t *testing.T) {
	snap, err := Build(twoSocketSMT(), "test")
	require.NoError(t, err)

	assert.Equal(t, "test", snap.Adapter)
	assert.Equal(t, api.VendorAMD, snap.Vendor)
	require.Len(t, snap.Sockets, 2)
	assert.Equal(t, 4, snap.TotalPhysicalCores)
	assert.Equal(t, 8, snap.TotalLogicalProcessors)
	assert.Zero(t, snap.TotalPerformanceCores)
	assert.Zero(t, snap.TotalEfficiencyCores)
	assert.False(t, snap.IsHybrid())

	// ascending raw socket id: 3 then 7
	assert.Equal(t, 3, snap.Sockets[0].PhysicalID)
	assert.Equal(t, 7, snap.Sockets[1].PhysicalID)
	for sid, s := range snap.Sockets {
		assert.Equal(t, sid, s.ID)
		require.Len(t, s.Cores, 2)
		assert.Equal(t, 4, s.Cores[0].PhysicalID)
		assert.Equal(t, 12, s.Cores[1].PhysicalID)
		for cid, c := range s.Cores {
			assert.Equal(t, cid, c.ID)
			assert.Equal(t, sid, c.SocketID)
			assert.Len(t, c.LogicalProcessors, 2)
			assert.IsIncreasing(t, c.LogicalProcessors)
			assert.Equal(t, api.CoreUnknown, c.Type)
		}
		require.True(t, s.HasL3())
		assert.Len(t, s.L3Slices, 1)
	}
	// socket 3 owns lps 4..7, core 4 of it owns 6,7
	assert.Equal(t, []int{6, 7}, snap.Sockets[0].Cores[0].LogicalProcessors)
}

func TestBuildSumsMatchModel(t *testing.T) {
	snap, err := Build(twoSocketSMT(), "test")
	require.NoError(t, err)

	cores, lps := 0, 0
	for _, s := range snap.Sockets {
		cores += len(s.Cores)
		for _, c := range s.Cores {
			lps += len(c.LogicalProcessors)
		}
	}
	assert.Equal(t, snap.TotalPhysicalCores, cores)
	assert.Equal(t, snap.TotalLogicalProcessors, lps)
}

func TestBuildSharesCacheInstances(t *testing.T) {
	snap, err := Build(twoSocketSMT(), "test")
	require.NoError(t, err)

	// per core: L1I, L1D, L2; per socket: L3
	caches := snap.Caches()
	assert.Len(t, caches, 4*3+2)
	seen := map[*api.Cache]bool{}
	for _, c := range caches {
		assert.False(t, seen[c], "cache listed twice")
		seen[c] = true
	}

	s0 := snap.Sockets[0]
	assert.NotSame(t, s0.Cores[0].L2, s0.Cores[1].L2)
	assert.NotSame(t, s0.L3, snap.Sockets[1].L3)
	assert.Equal(t, uint64(48<<10), s0.Cores[0].L1D.SizeBytes)
	assert.Equal(t, api.CacheL1, s0.Cores[0].L1I.Level)
	assert.Equal(t, api.CacheInstruction, s0.Cores[0].L1I.Type)
}

func TestSealIgnoredAfterBuild(t *testing.T) {
	snap, err := Build(twoSocketSMT(), "test")
	require.NoError(t, err)
	before := snap.Caches()
	core, ok := snap.CoreOf(0)
	require.True(t, ok)

	snap.Seal(nil)

	assert.Equal(t, before, snap.Caches())
	again, ok := snap.CoreOf(0)
	require.True(t, ok)
	assert.Same(t, core, again)
}

func TestBuildAdapterKeyedSharedL2(t *testing.T) {
	shared := api.RawCache{Key: "L2/cluster0", Level: 2, Type: api.CacheUnified, SizeBytes: 4 << 20, LineSizeBytes: 128}
	raw := &api.RawTopology{}
	for i := 0; i < 4; i++ {
		raw.Records = append(raw.Records, api.RawRecord{
			LogicalProcessor: i, Core: i, Type: api.CoreEfficiency,
			Caches: []api.RawCache{shared},
		})
	}
	snap, err := Build(raw, "test")
	require.NoError(t, err)
	first := snap.Sockets[0].Cores[0].L2
	for _, c := range snap.Sockets[0].Cores {
		assert.Same(t, first, c.L2)
	}
	assert.Len(t, snap.Caches(), 1)
	assert.Equal(t, 4, snap.TotalEfficiencyCores)
}

func TestBuildUnifiedL1FillsBothSlots(t *testing.T) {
	raw := &api.RawTopology{Records: []api.RawRecord{{
		Caches: []api.RawCache{{Level: 1, Type: api.CacheUnified, SizeBytes: 64 << 10, LineSizeBytes: 64}},
	}}}
	snap, err := Build(raw, "test")
	require.NoError(t, err)
	c := snap.Sockets[0].Cores[0]
	require.True(t, c.HasL1I())
	assert.Same(t, c.L1I, c.L1D)
	assert.False(t, c.HasL2())
	assert.False(t, snap.Sockets[0].HasL3())
}

func TestBuildSplitL3(t *testing.T) {
	raw := &api.RawTopology{}
	for i := 0; i < 4; i++ {
		key := "L3/0-1"
		if i >= 2 {
			key = "L3/2-3"
		}
		raw.Records = append(raw.Records, api.RawRecord{
			LogicalProcessor: i, Core: i,
			Caches: []api.RawCache{{Key: key, Scope: api.ScopeSocket, Level: 3, Type: api.CacheUnified, SizeBytes: 16 << 20, LineSizeBytes: 64}},
		})
	}
	snap, err := Build(raw, "test")
	require.NoError(t, err)
	s := snap.Sockets[0]
	require.Len(t, s.L3Slices, 2)
	assert.Same(t, s.L3, s.L3Slices[0])
	assert.NotSame(t, s.L3Slices[0], s.L3Slices[1])
}

func TestBuildHybrid(t *testing.T) {
	raw := &api.RawTopology{}
	for i := 0; i < 8; i++ {
		typ := api.CorePerformance
		if i >= 4 {
			typ = api.CoreEfficiency
		}
		raw.Records = append(raw.Records, api.RawRecord{LogicalProcessor: i, Core: i, Type: typ})
	}
	snap, err := Build(raw, "test")
	require.NoError(t, err)
	assert.True(t, snap.IsHybrid())
	assert.Equal(t, 4, snap.TotalPerformanceCores)
	assert.Equal(t, 4, snap.TotalEfficiencyCores)
	assert.Equal(t, []int{4, 5, 6, 7}, snap.LogicalProcessorsOfType(api.CoreEfficiency))
}

func TestBuildTypeHintFromOneSibling(t *testing.T) {
	raw := &api.RawTopology{Records: []api.RawRecord{
		{LogicalProcessor: 0, Type: api.CoreUnknown},
		{LogicalProcessor: 1, Type: api.CorePerformance},
	}}
	snap, err := Build(raw, "test")
	require.NoError(t, err)
	assert.Equal(t, api.CorePerformance, snap.Sockets[0].Cores[0].Type)
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  *api.RawTopology
		code api.ErrorCode
	}{
		{"nil", nil, api.ErrCodeNoProcessorsDetected},
		{"empty", &api.RawTopology{}, api.ErrCodeNoProcessorsDetected},
		{"negative lp", &api.RawTopology{Records: []api.RawRecord{{LogicalProcessor: -1}}}, api.ErrCodeTopologyInconsistent},
		{"negative socket", &api.RawTopology{Records: []api.RawRecord{{Socket: -2}}}, api.ErrCodeTopologyInconsistent},
		{"lp under two cores", &api.RawTopology{Records: []api.RawRecord{
			{LogicalProcessor: 0, Core: 0},
			{LogicalProcessor: 0, Core: 1},
		}}, api.ErrCodeTopologyInconsistent},
		{"conflicting hints", &api.RawTopology{Records: []api.RawRecord{
			{LogicalProcessor: 0, Type: api.CorePerformance},
			{LogicalProcessor: 1, Type: api.CoreEfficiency},
		}}, api.ErrCodeTopologyInconsistent},
		{"cache key reused with other size", &api.RawTopology{Records: []api.RawRecord{
			{LogicalProcessor: 0, Caches: []api.RawCache{{Key: "k", Level: 2, SizeBytes: 1}}},
			{LogicalProcessor: 1, Core: 1, Caches: []api.RawCache{{Key: "k", Level: 2, SizeBytes: 2}}},
		}}, api.ErrCodeTopologyInconsistent},
		{"L3 across sockets", &api.RawTopology{Records: []api.RawRecord{
			{LogicalProcessor: 0, Socket: 0, Caches: []api.RawCache{{Key: "l3", Level: 3}}},
			{LogicalProcessor: 1, Socket: 1, Caches: []api.RawCache{{Key: "l3", Level: 3}}},
		}}, api.ErrCodeTopologyInconsistent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := Build(tc.raw, "test")
			assert.Nil(t, snap)
			require.Error(t, err)
			assert.Equal(t, tc.code, api.CodeOf(err))
		})
	}
}

func TestBuildMergesDuplicateRecords(t *testing.T) {
	rec := api.RawRecord{LogicalProcessor: 3, Core: 1, Caches: []api.RawCache{l2()}}
	snap, err := Build(&api.RawTopology{Records: []api.RawRecord{rec, rec}}, "test")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalLogicalProcessors)
	assert.Equal(t, []int{3}, snap.LogicalProcessors())
}

func TestBuildIgnoresOtherLevels(t *testing.T) {
	raw := &api.RawTopology{Records: []api.RawRecord{{
		Caches: []api.RawCache{{Level: 4, Type: api.CacheUnified, SizeBytes: 128 << 20}, {Level: 0}},
	}}}
	snap, err := Build(raw, "test")
	require.NoError(t, err)
	assert.Empty(t, snap.Caches())
}

func TestBuildPermutationInvariant(t *testing.T) {
	want, err := Build(twoSocketSMT(), "test")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		raw := twoSocketSMT()
		rng.Shuffle(len(raw.Records), func(a, b int) {
			raw.Records[a], raw.Records[b] = raw.Records[b], raw.Records[a]
		})
		got, err := Build(raw, "test")
		require.NoError(t, err)
		require.Len(t, got.Sockets, len(want.Sockets))
		for s := range want.Sockets {
			for c := range want.Sockets[s].Cores {
				w, g := want.Sockets[s].Cores[c], got.Sockets[s].Cores[c]
				assert.Equal(t, w.PhysicalID, g.PhysicalID)
				assert.Equal(t, w.LogicalProcessors, g.LogicalProcessors)
				assert.Equal(t, *w.L2, *g.L2)
			}
		}
		assert.Equal(t, len(want.Caches()), len(got.Caches()))
	}
}

func TestSnapshotLookups(t *testing.T) {
	snap, err := Build(twoSocketSMT(), "test")
	require.NoError(t, err)

	_, err = snap.Socket(2)
	assert.ErrorIs(t, err, api.ErrInvalidIndex)
	_, err = snap.Core(0, 2)
	assert.ErrorIs(t, err, api.ErrInvalidIndex)
	_, err = snap.Core(-1, 0)
	assert.ErrorIs(t, err, api.ErrInvalidIndex)

	c, ok := snap.CoreOf(1)
	require.True(t, ok)
	assert.Equal(t, 12, c.PhysicalID)
	assert.True(t, snap.HasLogicalProcessor(7))
	assert.False(t, snap.HasLogicalProcessor(8))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, snap.LogicalProcessors())
}
