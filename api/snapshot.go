// File: api/snapshot.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Immutable topology model. A Snapshot and everything it references is
// read-only once published; callers must not modify the returned values.

package api

import "slices"

// Cache describes one physical cache instance. An instance shared by several
// cores is a single *Cache referenced by each of them.
type Cache struct {
	Level         CacheLevel `json:"level" yaml:"level"`
	Type          CacheType  `json:"type" yaml:"type"`
	SizeBytes     uint64     `json:"size_bytes" yaml:"size_bytes"`
	LineSizeBytes uint32     `json:"line_size_bytes" yaml:"line_size_bytes"`
}

// Core is one physical core.
type Core struct {
	ID         int      `json:"id" yaml:"id"`
	SocketID   int      `json:"socket_id" yaml:"socket_id"`
	PhysicalID int      `json:"physical_id" yaml:"physical_id"`
	Type       CoreType `json:"type" yaml:"type"`
	// LogicalProcessors holds OS logical processor ids, ascending.
	LogicalProcessors []int  `json:"logical_processors" yaml:"logical_processors"`
	L1I               *Cache `json:"l1i,omitempty" yaml:"l1i,omitempty"`
	L1D               *Cache `json:"l1d,omitempty" yaml:"l1d,omitempty"`
	L2                *Cache `json:"l2,omitempty" yaml:"l2,omitempty"`
}

func (c *Core) HasL1I() bool { return c.L1I != nil }
func (c *Core) HasL1D() bool { return c.L1D != nil }
func (c *Core) HasL2() bool  { return c.L2 != nil }

// Socket is one physical processor package.
type Socket struct {
	ID         int    `json:"id" yaml:"id"`
	PhysicalID int    `json:"physical_id" yaml:"physical_id"`
	Cores      []Core `json:"cores" yaml:"cores"`
	// L3 is the first L3 instance of the socket; L3Slices lists all of them
	// for parts whose last-level cache is split into several domains.
	L3       *Cache   `json:"l3,omitempty" yaml:"l3,omitempty"`
	L3Slices []*Cache `json:"-" yaml:"-"`
}

func (s *Socket) HasL3() bool { return s.L3 != nil }

// Snapshot is the complete processor topology of the machine at build time.
type Snapshot struct {
	Vendor     Vendor   `json:"vendor" yaml:"vendor"`
	VendorName string   `json:"vendor_name" yaml:"vendor_name"`
	ModelName  string   `json:"model_name" yaml:"model_name"`
	Adapter    string   `json:"adapter" yaml:"adapter"`
	Sockets    []Socket `json:"sockets" yaml:"sockets"`

	TotalPhysicalCores     int `json:"total_physical_cores" yaml:"total_physical_cores"`
	TotalLogicalProcessors int `json:"total_logical_processors" yaml:"total_logical_processors"`
	TotalPerformanceCores  int `json:"total_performance_cores" yaml:"total_performance_cores"`
	TotalEfficiencyCores   int `json:"total_efficiency_cores" yaml:"total_efficiency_cores"`

	caches   []*Cache
	lpToCore map[int]CoreRef
}

// CoreRef locates a core by dense socket and core ids.
type CoreRef struct {
	Socket int
	Core   int
}

// IsHybrid reports whether the snapshot has both performance and
// efficiency cores.
func (s *Snapshot) IsHybrid() bool {
	return s.TotalPerformanceCores > 0 && s.TotalEfficiencyCores > 0
}

// Socket returns the socket with dense id, or InvalidIndex.
func (s *Snapshot) Socket(id int) (*Socket, error) {
	if id < 0 || id >= len(s.Sockets) {
		return nil, Errorf(ErrCodeInvalidIndex, "socket %d out of range", id).
			WithContext("sockets", len(s.Sockets))
	}
	return &s.Sockets[id], nil
}

// Core returns the core (socket, core), or InvalidIndex.
func (s *Snapshot) Core(socket, core int) (*Core, error) {
	sk, err := s.Socket(socket)
	if err != nil {
		return nil, err
	}
	if core < 0 || core >= len(sk.Cores) {
		return nil, Errorf(ErrCodeInvalidIndex, "core %d out of range in socket %d", core, socket).
			WithContext("cores", len(sk.Cores))
	}
	return &sk.Cores[core], nil
}

// CoreOf returns the core owning logical processor lp.
func (s *Snapshot) CoreOf(lp int) (*Core, bool) {
	ref, ok := s.lpToCore[lp]
	if !ok {
		return nil, false
	}
	return &s.Sockets[ref.Socket].Cores[ref.Core], true
}

// HasLogicalProcessor reports whether lp is an OS logical processor id
// present in the snapshot.
func (s *Snapshot) HasLogicalProcessor(lp int) bool {
	_, ok := s.lpToCore[lp]
	return ok
}

// LogicalProcessors returns every logical processor id, ascending.
func (s *Snapshot) LogicalProcessors() []int {
	out := make([]int, 0, s.TotalLogicalProcessors)
	for i := range s.Sockets {
		for j := range s.Sockets[i].Cores {
			out = append(out, s.Sockets[i].Cores[j].LogicalProcessors...)
		}
	}
	slices.Sort(out)
	return out
}

// LogicalProcessorsOfType returns the logical processors of every core with
// the given type, ascending.
func (s *Snapshot) LogicalProcessorsOfType(t CoreType) []int {
	var out []int
	for i := range s.Sockets {
		for j := range s.Sockets[i].Cores {
			c := &s.Sockets[i].Cores[j]
			if c.Type == t {
				out = append(out, c.LogicalProcessors...)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Caches returns every distinct cache instance once.
func (s *Snapshot) Caches() []*Cache {
	out := make([]*Cache, len(s.caches))
	copy(out, s.caches)
	return out
}

// Seal records the distinct cache set and the logical processor index. It is
// reserved for the topology builder and has no effect on a snapshot that is
// already sealed, so published snapshots stay immutable.
func (s *Snapshot) Seal(caches []*Cache) {
	if s.lpToCore != nil {
		return
	}
	s.caches = caches
	s.lpToCore = make(map[int]CoreRef, s.TotalLogicalProcessors)
	for i := range s.Sockets {
		for j := range s.Sockets[i].Cores {
			for _, lp := range s.Sockets[i].Cores[j].LogicalProcessors {
				s.lpToCore[lp] = CoreRef{Socket: i, Core: j}
			}
		}
	}
}
