// File: fake/fixtures.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Canned raw topologies.

package fake

import (
	"fmt"

	"github.com/momentics/hwtopo/api"
)

func l1() []api.RawCache {
	return []api.RawCache{
		{Level: 1, Type: api.CacheInstruction, SizeBytes: 32 << 10, LineSizeBytes: 64},
		{Level: 1, Type: api.CacheData, SizeBytes: 48 << 10, LineSizeBytes: 64},
	}
}

// HybridDesktop is one socket with 4 Performance cores (lps 0-3, private
// 1.25 MiB L2) and 4 Efficiency cores (lps 4-7, one shared 2 MiB L2), all
// under a 12 MiB L3.
func HybridDesktop() *api.RawTopology {
	raw := &api.RawTopology{
		Vendor:     api.VendorIntel,
		VendorName: "GenuineIntel",
		ModelName:  "Synthetic Hybrid Desktop",
	}
	l3 := api.RawCache{Scope: api.ScopeSocket, Level: 3, Type: api.CacheUnified, SizeBytes: 12 << 20, LineSizeBytes: 64}
	for lp := 0; lp < 8; lp++ {
		rec := api.RawRecord{LogicalProcessor: lp, Core: lp, Caches: l1()}
		if lp < 4 {
			rec.Type = api.CorePerformance
			rec.Caches = append(rec.Caches, api.RawCache{Level: 2, Type: api.CacheUnified, SizeBytes: 1280 << 10, LineSizeBytes: 64})
		} else {
			rec.Type = api.CoreEfficiency
			rec.Caches = append(rec.Caches, api.RawCache{Key: "L2/ecluster", Level: 2, Type: api.CacheUnified, SizeBytes: 2 << 20, LineSizeBytes: 64})
		}
		rec.Caches = append(rec.Caches, l3)
		raw.Records = append(raw.Records, rec)
	}
	return raw
}

// UniformServer is sockets x cores x threads with per-core L1/L2 and a
// per-socket L3. Logical processors are numbered the way Linux numbers
// Intel servers: all first threads, then all second threads.
func UniformServer(sockets, cores, threads int) *api.RawTopology {
	raw := &api.RawTopology{
		Vendor:     api.VendorAMD,
		VendorName: "AuthenticAMD",
		ModelName:  fmt.Sprintf("Synthetic %dS Server", sockets),
	}
	total := sockets * cores
	for t := 0; t < threads; t++ {
		for s := 0; s < sockets; s++ {
			for c := 0; c < cores; c++ {
				caches := append(l1(),
					api.RawCache{Level: 2, Type: api.CacheUnified, SizeBytes: 1 << 20, LineSizeBytes: 64},
					api.RawCache{Scope: api.ScopeSocket, Level: 3, Type: api.CacheUnified, SizeBytes: 32 << 20, LineSizeBytes: 64},
				)
				raw.Records = append(raw.Records, api.RawRecord{
					LogicalProcessor: t*total + s*cores + c,
					Socket:           s,
					Core:             c,
					Caches:           caches,
				})
			}
		}
	}
	return raw
}

// AllUnknown is one socket of n single-threaded cores without type hints and
// without an L3.
func AllUnknown(n int) *api.RawTopology {
	raw := &api.RawTopology{Vendor: api.VendorARM, VendorName: "ARM", ModelName: "Synthetic Cluster"}
	for lp := 0; lp < n; lp++ {
		raw.Records = append(raw.Records, api.RawRecord{
			LogicalProcessor: lp,
			Core:             lp,
			Caches: append(l1(),
				api.RawCache{Key: "L2/cluster", Level: 2, Type: api.CacheUnified, SizeBytes: 1 << 20, LineSizeBytes: 64}),
		})
	}
	return raw
}
