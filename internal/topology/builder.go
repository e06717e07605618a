// File: internal/topology/builder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Converts raw adapter records into an immutable api.Snapshot. Build is pure:
// it either returns a fully consistent snapshot or an error, never a partial
// result.

package topology

import (
	"fmt"
	"slices"

	"github.com/momentics/hwtopo/api"
)

type coreKey struct {
	socket, core int
}

type coreAgg struct {
	key      coreKey
	typ      api.CoreType
	lps      map[int]struct{}
	l1i, l1d *api.Cache
	l2       *api.Cache
}

type cacheEntry struct {
	cache  *api.Cache
	raw    api.RawCache
	socket int
	minLP  int
}

type builder struct {
	owners  map[int]coreKey
	cores   map[coreKey]*coreAgg
	caches  map[string]*cacheEntry
	sockets map[int][]*cacheEntry // socket-level caches per raw socket id
}

// Build assembles a snapshot from raw. adapter names the variant that
// produced raw and is recorded on the snapshot.
func Build(raw *api.RawTopology, adapter string) (*api.Snapshot, error) {
	if raw == nil || len(raw.Records) == 0 {
		return nil, api.NewError(api.ErrCodeNoProcessorsDetected, "adapter reported no logical processors").
			WithContext("adapter", adapter)
	}
	if raw.Source != "" {
		adapter = raw.Source
	}
	b := &builder{
		owners:  make(map[int]coreKey),
		cores:   make(map[coreKey]*coreAgg),
		caches:  make(map[string]*cacheEntry),
		sockets: make(map[int][]*cacheEntry),
	}
	for i := range raw.Records {
		if err := b.add(&raw.Records[i]); err != nil {
			return nil, err.WithContext("adapter", adapter)
		}
	}
	snap := b.assemble()
	snap.Vendor = raw.Vendor
	snap.VendorName = raw.VendorName
	snap.ModelName = raw.ModelName
	snap.Adapter = adapter
	return snap, nil
}

func inconsistent(format string, args ...any) *api.Error {
	return api.Errorf(api.ErrCodeTopologyInconsistent, format, args...)
}

func (b *builder) add(r *api.RawRecord) *api.Error {
	if r.LogicalProcessor < 0 || r.Socket < 0 || r.Core < 0 {
		return inconsistent("negative id in record lp=%d socket=%d core=%d", r.LogicalProcessor, r.Socket, r.Core)
	}
	if r.Type < api.CoreUnknown || r.Type > api.CoreEfficiency {
		return inconsistent("invalid core type %d for lp %d", int(r.Type), r.LogicalProcessor)
	}
	key := coreKey{r.Socket, r.Core}
	if prev, ok := b.owners[r.LogicalProcessor]; ok && prev != key {
		return inconsistent("lp %d reported under socket %d core %d and socket %d core %d",
			r.LogicalProcessor, prev.socket, prev.core, key.socket, key.core)
	}
	b.owners[r.LogicalProcessor] = key

	agg := b.cores[key]
	if agg == nil {
		agg = &coreAgg{key: key, lps: make(map[int]struct{})}
		b.cores[key] = agg
	}
	agg.lps[r.LogicalProcessor] = struct{}{}

	if r.Type != api.CoreUnknown {
		switch agg.typ {
		case api.CoreUnknown:
			agg.typ = r.Type
		case r.Type:
		default:
			return inconsistent("conflicting core type hints for socket %d core %d", key.socket, key.core)
		}
	}

	for _, rc := range r.Caches {
		if err := b.addCache(agg, r.LogicalProcessor, rc); err != nil {
			return err
		}
	}
	return nil
}

func cacheKey(key coreKey, rc api.RawCache) string {
	if rc.Key != "" {
		return rc.Key
	}
	if rc.Scope == api.ScopeSocket {
		return fmt.Sprintf("socket/%d/L%d/%d", key.socket, rc.Level, rc.Type)
	}
	return fmt.Sprintf("core/%d/%d/L%d/%d", key.socket, key.core, rc.Level, rc.Type)
}

func sameAttrs(a, b api.RawCache) bool {
	return a.Level == b.Level && a.Type == b.Type &&
		a.SizeBytes == b.SizeBytes && a.LineSizeBytes == b.LineSizeBytes
}

func (b *builder) addCache(agg *coreAgg, lp int, rc api.RawCache) *api.Error {
	level := api.CacheLevelOf(rc.Level)
	if level == api.CacheLevelUnknown || level == api.CacheL4 {
		return nil
	}
	id := cacheKey(agg.key, rc)
	e, ok := b.caches[id]
	if ok {
		if !sameAttrs(e.raw, rc) {
			return inconsistent("cache %q reported with different attributes", id)
		}
		if lp < e.minLP {
			e.minLP = lp
		}
	} else {
		e = &cacheEntry{
			cache: &api.Cache{
				Level:         level,
				Type:          rc.Type,
				SizeBytes:     rc.SizeBytes,
				LineSizeBytes: rc.LineSizeBytes,
			},
			raw:    rc,
			socket: agg.key.socket,
			minLP:  lp,
		}
		b.caches[id] = e
	}

	switch level {
	case api.CacheL1:
		switch rc.Type {
		case api.CacheInstruction:
			return attach(&agg.l1i, e.cache, agg.key, "L1I")
		case api.CacheData:
			return attach(&agg.l1d, e.cache, agg.key, "L1D")
		case api.CacheUnified, api.CacheTypeUnknown:
			if err := attach(&agg.l1i, e.cache, agg.key, "L1I"); err != nil {
				return err
			}
			return attach(&agg.l1d, e.cache, agg.key, "L1D")
		}
	case api.CacheL2:
		if rc.Type == api.CacheTrace {
			return nil
		}
		return attach(&agg.l2, e.cache, agg.key, "L2")
	case api.CacheL3:
		if e.socket != agg.key.socket {
			return inconsistent("L3 cache %q spans sockets %d and %d", id, e.socket, agg.key.socket)
		}
		if !slices.Contains(b.sockets[e.socket], e) {
			b.sockets[e.socket] = append(b.sockets[e.socket], e)
		}
	}
	return nil
}

func attach(slot **api.Cache, c *api.Cache, key coreKey, name string) *api.Error {
	if *slot != nil && *slot != c {
		return inconsistent("socket %d core %d reports two %s caches", key.socket, key.core, name)
	}
	*slot = c
	return nil
}

func (b *builder) assemble() *api.Snapshot {
	bySocket := make(map[int][]*coreAgg)
	for _, agg := range b.cores {
		bySocket[agg.key.socket] = append(bySocket[agg.key.socket], agg)
	}
	rawSockets := make([]int, 0, len(bySocket))
	for s := range bySocket {
		rawSockets = append(rawSockets, s)
	}
	slices.Sort(rawSockets)

	snap := &api.Snapshot{Sockets: make([]api.Socket, 0, len(rawSockets))}
	for sid, rs := range rawSockets {
		aggs := bySocket[rs]
		slices.SortFunc(aggs, func(x, y *coreAgg) int { return x.key.core - y.key.core })

		sock := api.Socket{ID: sid, PhysicalID: rs, Cores: make([]api.Core, 0, len(aggs))}
		for cid, agg := range aggs {
			lps := make([]int, 0, len(agg.lps))
			for lp := range agg.lps {
				lps = append(lps, lp)
			}
			slices.Sort(lps)
			sock.Cores = append(sock.Cores, api.Core{
				ID:                cid,
				SocketID:          sid,
				PhysicalID:        agg.key.core,
				Type:              agg.typ,
				LogicalProcessors: lps,
				L1I:               agg.l1i,
				L1D:               agg.l1d,
				L2:                agg.l2,
			})
			snap.TotalPhysicalCores++
			snap.TotalLogicalProcessors += len(lps)
			switch agg.typ {
			case api.CorePerformance:
				snap.TotalPerformanceCores++
			case api.CoreEfficiency:
				snap.TotalEfficiencyCores++
			}
		}

		l3s := b.sockets[rs]
		slices.SortFunc(l3s, func(x, y *cacheEntry) int { return x.minLP - y.minLP })
		for _, e := range l3s {
			sock.L3Slices = append(sock.L3Slices, e.cache)
		}
		if len(sock.L3Slices) > 0 {
			sock.L3 = sock.L3Slices[0]
		}
		snap.Sockets = append(snap.Sockets, sock)
	}
	snap.Seal(b.attachedCaches())
	return snap
}

// attachedCaches returns each cache instance reachable from the model once,
// ordered by level, type and lowest sharing logical processor.
func (b *builder) attachedCaches() []*api.Cache {
	reachable := make(map[*api.Cache]bool)
	for _, agg := range b.cores {
		for _, c := range []*api.Cache{agg.l1i, agg.l1d, agg.l2} {
			if c != nil {
				reachable[c] = true
			}
		}
	}
	for _, es := range b.sockets {
		for _, e := range es {
			reachable[e.cache] = true
		}
	}
	entries := make([]*cacheEntry, 0, len(reachable))
	for _, e := range b.caches {
		if reachable[e.cache] {
			entries = append(entries, e)
		}
	}
	slices.SortFunc(entries, func(x, y *cacheEntry) int {
		if x.cache.Level != y.cache.Level {
			return int(x.cache.Level) - int(y.cache.Level)
		}
		if x.cache.Type != y.cache.Type {
			return int(x.cache.Type) - int(y.cache.Type)
		}
		return x.minLP - y.minLP
	})
	out := make([]*api.Cache, len(entries))
	for i, e := range entries {
		out[i] = e.cache
	}
	return out
}
