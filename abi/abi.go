// File: abi/abi.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Flat, status-code surface over the engine for callers that want
// C-style calls: every function returns an api.ErrorCode and fills a
// caller-supplied struct. Package-level functions use facade.Default().

package abi

import (
	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/facade"
)

// CPUInfo is the flat processor summary.
type CPUInfo struct {
	Vendor                 api.Vendor
	VendorName             string
	ModelName              string
	Sockets                int
	TotalPhysicalCores     int
	TotalLogicalProcessors int
	TotalPerformanceCores  int
	TotalEfficiencyCores   int
	Features               uint32
}

// SocketInfo describes one socket; HasL3 reports whether L3 is meaningful.
type SocketInfo struct {
	ID        int
	CoreCount int
	HasL3     bool
	L3        CacheInfo
}

// CoreInfo describes one core. LogicalProcessorCount is the size of the list
// returned by GetCoreLogicalProcessors.
type CoreInfo struct {
	ID                    int
	SocketID              int
	Type                  api.CoreType
	LogicalProcessorCount int
	HasL1I                bool
	HasL1D                bool
	HasL2                 bool
	L1I                   CacheInfo
	L1D                   CacheInfo
	L2                    CacheInfo
}

// CacheInfo describes one cache instance.
type CacheInfo struct {
	Level         api.CacheLevel
	Type          api.CacheType
	SizeBytes     uint64
	LineSizeBytes uint32
}

func cacheInfo(c *api.Cache) CacheInfo {
	if c == nil {
		return CacheInfo{}
	}
	return CacheInfo{Level: c.Level, Type: c.Type, SizeBytes: c.SizeBytes, LineSizeBytes: c.LineSizeBytes}
}

// Surface binds the flat functions to an engine.
type Surface struct {
	E *facade.Engine
}

func (s Surface) GetCPUInfo(out *CPUInfo) api.ErrorCode {
	if out == nil {
		return api.ErrCodeInvalidParameter
	}
	snap, err := s.E.Snapshot()
	if err != nil {
		return api.CodeOf(err)
	}
	*out = CPUInfo{
		Vendor:                 snap.Vendor,
		VendorName:             snap.VendorName,
		ModelName:              snap.ModelName,
		Sockets:                len(snap.Sockets),
		TotalPhysicalCores:     snap.TotalPhysicalCores,
		TotalLogicalProcessors: snap.TotalLogicalProcessors,
		TotalPerformanceCores:  snap.TotalPerformanceCores,
		TotalEfficiencyCores:   snap.TotalEfficiencyCores,
		Features:               uint32(s.E.Features()),
	}
	return api.ErrCodeSuccess
}

func (s Surface) IsHybrid(out *bool) api.ErrorCode {
	if out == nil {
		return api.ErrCodeInvalidParameter
	}
	h, err := s.E.IsHybrid()
	if err != nil {
		return api.CodeOf(err)
	}
	*out = h
	return api.ErrCodeSuccess
}

func (s Surface) GetSocketInfo(socket int, out *SocketInfo) api.ErrorCode {
	if out == nil {
		return api.ErrCodeInvalidParameter
	}
	sock, err := s.E.Socket(socket)
	if err != nil {
		return api.CodeOf(err)
	}
	*out = SocketInfo{ID: sock.ID, CoreCount: len(sock.Cores), HasL3: sock.HasL3(), L3: cacheInfo(sock.L3)}
	return api.ErrCodeSuccess
}

func (s Surface) GetCoreInfo(socket, core int, out *CoreInfo) api.ErrorCode {
	if out == nil {
		return api.ErrCodeInvalidParameter
	}
	c, err := s.E.Core(socket, core)
	if err != nil {
		return api.CodeOf(err)
	}
	*out = CoreInfo{
		ID:                    c.ID,
		SocketID:              c.SocketID,
		Type:                  c.Type,
		LogicalProcessorCount: len(c.LogicalProcessors),
		HasL1I:                c.HasL1I(),
		HasL1D:                c.HasL1D(),
		HasL2:                 c.HasL2(),
		L1I:                   cacheInfo(c.L1I),
		L1D:                   cacheInfo(c.L1D),
		L2:                    cacheInfo(c.L2),
	}
	return api.ErrCodeSuccess
}

// GetCoreLogicalProcessors copies the core's logical processor ids into out
// and stores their number in n. A short out is InvalidParameter with n set
// to the required length.
func (s Surface) GetCoreLogicalProcessors(socket, core int, out []int, n *int) api.ErrorCode {
	if n == nil {
		return api.ErrCodeInvalidParameter
	}
	c, err := s.E.Core(socket, core)
	if err != nil {
		return api.CodeOf(err)
	}
	*n = len(c.LogicalProcessors)
	if len(out) < *n {
		return api.ErrCodeInvalidParameter
	}
	copy(out, c.LogicalProcessors)
	return api.ErrCodeSuccess
}

func (s Surface) fillCache(out *CacheInfo, get func() (*api.Cache, error)) api.ErrorCode {
	if out == nil {
		return api.ErrCodeInvalidParameter
	}
	c, err := get()
	if err != nil {
		return api.CodeOf(err)
	}
	*out = cacheInfo(c)
	return api.ErrCodeSuccess
}

func (s Surface) GetL1iCacheInfo(socket, core int, out *CacheInfo) api.ErrorCode {
	return s.fillCache(out, func() (*api.Cache, error) { return s.E.L1InstructionCache(socket, core) })
}

func (s Surface) GetL1dCacheInfo(socket, core int, out *CacheInfo) api.ErrorCode {
	return s.fillCache(out, func() (*api.Cache, error) { return s.E.L1DataCache(socket, core) })
}

func (s Surface) GetL2CacheInfo(socket, core int, out *CacheInfo) api.ErrorCode {
	return s.fillCache(out, func() (*api.Cache, error) { return s.E.L2Cache(socket, core) })
}

func (s Surface) GetL3CacheInfo(socket int, out *CacheInfo) api.ErrorCode {
	return s.fillCache(out, func() (*api.Cache, error) { return s.E.L3Cache(socket) })
}

// GetFeatures stores the feature bit set. It never needs a snapshot.
func (s Surface) GetFeatures(out *uint32) api.ErrorCode {
	if out == nil {
		return api.ErrCodeInvalidParameter
	}
	*out = uint32(s.E.Features())
	return api.ErrCodeSuccess
}

func (s Surface) PinThreadToCore(lp int) api.ErrorCode {
	return api.CodeOf(s.E.PinThreadToCore(lp))
}

func (s Surface) SetThreadPriority(p api.ThreadPriority) api.ErrorCode {
	return api.CodeOf(s.E.SetThreadPriority(p))
}

// ErrorCodeDescription is total: unknown codes get a fixed description.
func ErrorCodeDescription(code api.ErrorCode) string {
	return code.Description()
}

// CoreTypeDescription is total: unknown values describe as "Unknown".
func CoreTypeDescription(t api.CoreType) string {
	return t.Description()
}
