// File: adapters/glpi.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Parser for the SYSTEM_LOGICAL_PROCESSOR_INFORMATION_EX buffer returned by
// GetLogicalProcessorInformationEx(RelationAll). The parser is portable; the
// syscall lives in glpi_windows.go.

package adapters

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"slices"

	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
	"k8s.io/utils/cpuset"
)

// GLPIName identifies the Windows adapter.
const GLPIName = "glpi"

// LOGICAL_PROCESSOR_RELATIONSHIP values.
const (
	relationProcessorCore    = 0
	relationCache            = 2
	relationProcessorPackage = 3
	relationAll              = 0xffff
)

// Offsets inside one record, relative to its start.
const (
	offRelationship = 0
	offSize         = 4

	offProcEfficiency      = 9
	offProcGroupCount      = 30
	offProcGroupMask       = 32
	offCacheLevel          = 8
	offCacheLineSize       = 10
	offCacheSize           = 12
	offCacheType           = 16
	offCacheGroupCount     = 38
	offCacheGroupMask      = 40
	groupAffinityExtraSize = 8 // Group WORD + Reserved[3] WORD
)

// GLPI enumerates processors from a processor information buffer.
type GLPI struct {
	// Query returns the RelationAll buffer.
	Query func() ([]byte, error)
	// PtrSize is the KAFFINITY width of the buffer, in bytes.
	PtrSize  int
	Identify IdentityFunc
	Logger   *zap.Logger
}

func (g *GLPI) Name() string { return GLPIName }

// Enumerate queries and decodes the buffer.
func (g *GLPI) Enumerate() (*api.RawTopology, error) {
	if g.Query == nil {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "processor information query not available")
	}
	buf, err := g.Query()
	if err != nil {
		return nil, api.Wrap(err, api.ErrCodeAdapterUnavailable, "GetLogicalProcessorInformationEx failed")
	}
	info, err := parseGLPI(buf, g.PtrSize)
	if err != nil {
		return nil, err
	}
	if g.Logger != nil {
		g.Logger.Debug("decoded processor information", zap.String("relations", info.describe()))
	}
	recs, err := info.records()
	if err != nil {
		return nil, err
	}
	raw := &api.RawTopology{Records: recs}
	if g.Identify != nil {
		id := g.Identify()
		raw.Vendor, raw.VendorName, raw.ModelName = id.Vendor, id.VendorName, id.ModelName
	}
	return raw, nil
}

type glpiProcessor struct {
	efficiency uint8
	lps        []int
}

type glpiCache struct {
	level    int
	typ      api.CacheType
	lineSize uint32
	size     uint64
	lps      []int
}

type glpiInfo struct {
	cores    []glpiProcessor
	packages []glpiProcessor
	caches   []glpiCache
}

// parseGLPI decodes buf. ptrSize is the size of KAFFINITY on the producing
// system (8 on 64-bit Windows).
func parseGLPI(buf []byte, ptrSize int) (*glpiInfo, error) {
	if ptrSize != 4 && ptrSize != 8 {
		return nil, api.Errorf(api.ErrCodeInvalidParameter, "unsupported pointer size %d", ptrSize)
	}
	le := binary.LittleEndian
	info := &glpiInfo{}
	for off := 0; off < len(buf); {
		if len(buf)-off < 8 {
			return nil, glpiTruncated(off)
		}
		rel := le.Uint32(buf[off+offRelationship:])
		size := int(le.Uint32(buf[off+offSize:]))
		if size < 8 || off+size > len(buf) {
			return nil, glpiTruncated(off)
		}
		rec := buf[off : off+size]
		switch rel {
		case relationProcessorCore, relationProcessorPackage:
			p, err := parseProcessorRecord(rec, ptrSize)
			if err != nil {
				return nil, err
			}
			if rel == relationProcessorCore {
				info.cores = append(info.cores, p)
			} else {
				info.packages = append(info.packages, p)
			}
		case relationCache:
			c, err := parseCacheRecord(rec, ptrSize)
			if err != nil {
				return nil, err
			}
			info.caches = append(info.caches, c)
		}
		off += size
	}
	return info, nil
}

func glpiTruncated(off int) *api.Error {
	return api.NewError(api.ErrCodeAdapterUnavailable, "truncated processor information record").
		WithContext("offset", off)
}

func parseProcessorRecord(rec []byte, ptrSize int) (glpiProcessor, error) {
	if len(rec) < offProcGroupMask {
		return glpiProcessor{}, glpiTruncated(0)
	}
	p := glpiProcessor{efficiency: rec[offProcEfficiency]}
	count := int(binary.LittleEndian.Uint16(rec[offProcGroupCount:]))
	lps, err := groupMasks(rec, offProcGroupMask, count, ptrSize)
	if err != nil {
		return glpiProcessor{}, err
	}
	p.lps = lps
	return p, nil
}

func parseCacheRecord(rec []byte, ptrSize int) (glpiCache, error) {
	if len(rec) < offCacheGroupMask {
		return glpiCache{}, glpiTruncated(0)
	}
	le := binary.LittleEndian
	c := glpiCache{
		level:    int(rec[offCacheLevel]),
		lineSize: uint32(le.Uint16(rec[offCacheLineSize:])),
		size:     uint64(le.Uint32(rec[offCacheSize:])),
	}
	switch le.Uint32(rec[offCacheType:]) {
	case 0:
		c.typ = api.CacheUnified
	case 1:
		c.typ = api.CacheInstruction
	case 2:
		c.typ = api.CacheData
	case 3:
		c.typ = api.CacheTrace
	default:
		c.typ = api.CacheTypeUnknown
	}
	// GroupCount is zero on systems that predate multi-group cache records;
	// GroupMask is still present.
	count := int(le.Uint16(rec[offCacheGroupCount:]))
	if count == 0 {
		count = 1
	}
	lps, err := groupMasks(rec, offCacheGroupMask, count, ptrSize)
	if err != nil {
		return glpiCache{}, err
	}
	c.lps = lps
	return c, nil
}

// groupMasks expands count GROUP_AFFINITY entries at off into logical
// processor ids (group*64 + bit).
func groupMasks(rec []byte, off, count, ptrSize int) ([]int, error) {
	entry := ptrSize + groupAffinityExtraSize
	if off+count*entry > len(rec) {
		return nil, glpiTruncated(off)
	}
	le := binary.LittleEndian
	var lps []int
	for i := 0; i < count; i++ {
		e := rec[off+i*entry:]
		var mask uint64
		if ptrSize == 8 {
			mask = le.Uint64(e)
		} else {
			mask = uint64(le.Uint32(e))
		}
		group := int(le.Uint16(e[ptrSize:]))
		for mask != 0 {
			bit := bits.TrailingZeros64(mask)
			lps = append(lps, group*64+bit)
			mask &^= 1 << bit
		}
	}
	slices.Sort(lps)
	return lps, nil
}

// records converts the decoded relations into raw records.
func (g *glpiInfo) records() ([]api.RawRecord, error) {
	if len(g.cores) == 0 {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "no processor core relations")
	}

	pkgOf := make(map[int]int)
	for i, p := range g.packages {
		for _, lp := range p.lps {
			pkgOf[lp] = i
		}
	}

	minClass, maxClass := g.cores[0].efficiency, g.cores[0].efficiency
	for _, c := range g.cores[1:] {
		minClass = min(minClass, c.efficiency)
		maxClass = max(maxClass, c.efficiency)
	}

	cachesOf := make(map[int][]api.RawCache)
	for _, c := range g.caches {
		rc := api.RawCache{
			Key:           fmt.Sprintf("L%d/%s/%s", c.level, c.typ.Description(), cpuset.New(c.lps...).String()),
			Level:         c.level,
			Type:          c.typ,
			SizeBytes:     c.size,
			LineSizeBytes: c.lineSize,
		}
		if c.level >= 3 {
			rc.Scope = api.ScopeSocket
		}
		for _, lp := range c.lps {
			cachesOf[lp] = append(cachesOf[lp], rc)
		}
	}

	var out []api.RawRecord
	for coreID, c := range g.cores {
		typ := api.CoreUnknown
		if minClass != maxClass {
			typ = api.CoreEfficiency
			if c.efficiency == maxClass {
				typ = api.CorePerformance
			}
		}
		for _, lp := range c.lps {
			out = append(out, api.RawRecord{
				LogicalProcessor: lp,
				Socket:           pkgOf[lp],
				Core:             coreID,
				Type:             typ,
				Caches:           cachesOf[lp],
			})
		}
	}
	return out, nil
}

// describe summarizes a decoded buffer for debug logging.
func (g *glpiInfo) describe() string {
	return fmt.Sprintf("packages=%d cores=%d caches=%d", len(g.packages), len(g.cores), len(g.caches))
}
