// File: api/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Enumerations shared by the topology model, adapters and the controller.

package api

import "strings"

// Vendor identifies the processor manufacturer.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorIntel
	VendorAMD
	VendorARM
	VendorApple
	VendorOther
)

// Description returns a stable name for the vendor.
func (v Vendor) Description() string {
	switch v {
	case VendorIntel:
		return "Intel"
	case VendorAMD:
		return "AMD"
	case VendorARM:
		return "ARM"
	case VendorApple:
		return "Apple"
	case VendorOther:
		return "Other"
	default:
		return "Unknown"
	}
}

func (v Vendor) String() string { return v.Description() }

// CoreType classifies a physical core in a heterogeneous processor.
type CoreType int

const (
	CoreUnknown CoreType = iota
	CorePerformance
	CoreEfficiency
)

// Description returns a stable name for the core type.
func (t CoreType) Description() string {
	switch t {
	case CorePerformance:
		return "Performance"
	case CoreEfficiency:
		return "Efficiency"
	default:
		return "Unknown"
	}
}

func (t CoreType) String() string { return t.Description() }

// CacheLevel is the level of a cache in the hierarchy.
type CacheLevel int

const (
	CacheLevelUnknown CacheLevel = iota
	CacheL1
	CacheL2
	CacheL3
	CacheL4
)

// CacheLevelOf converts a numeric level (1..4) to a CacheLevel.
func CacheLevelOf(n int) CacheLevel {
	if n >= 1 && n <= 4 {
		return CacheLevel(n)
	}
	return CacheLevelUnknown
}

// Description returns a stable name for the cache level.
func (l CacheLevel) Description() string {
	switch l {
	case CacheL1:
		return "L1"
	case CacheL2:
		return "L2"
	case CacheL3:
		return "L3"
	case CacheL4:
		return "L4"
	default:
		return "Unknown"
	}
}

func (l CacheLevel) String() string { return l.Description() }

// CacheType describes what a cache holds.
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheUnified
	CacheInstruction
	CacheData
	CacheTrace
)

// Description returns a stable name for the cache type.
func (t CacheType) Description() string {
	switch t {
	case CacheUnified:
		return "Unified"
	case CacheInstruction:
		return "Instruction"
	case CacheData:
		return "Data"
	case CacheTrace:
		return "Trace"
	default:
		return "Unknown"
	}
}

func (t CacheType) String() string { return t.Description() }

// ThreadPriority is a platform-neutral scheduling priority for the calling
// thread. Levels are strictly ordered from Background to TimeCritical.
type ThreadPriority int

const (
	PriorityBackground ThreadPriority = iota
	PriorityLowest
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityHighest
	PriorityTimeCritical
)

// ThreadPriorities lists every valid priority in ascending order.
var ThreadPriorities = []ThreadPriority{
	PriorityBackground,
	PriorityLowest,
	PriorityBelowNormal,
	PriorityNormal,
	PriorityAboveNormal,
	PriorityHighest,
	PriorityTimeCritical,
}

// Valid reports whether p is one of the defined priorities.
func (p ThreadPriority) Valid() bool {
	return p >= PriorityBackground && p <= PriorityTimeCritical
}

// Description returns a stable name for the priority.
func (p ThreadPriority) Description() string {
	switch p {
	case PriorityBackground:
		return "Background"
	case PriorityLowest:
		return "Lowest"
	case PriorityBelowNormal:
		return "BelowNormal"
	case PriorityNormal:
		return "Normal"
	case PriorityAboveNormal:
		return "AboveNormal"
	case PriorityHighest:
		return "Highest"
	case PriorityTimeCritical:
		return "TimeCritical"
	default:
		return "Unknown"
	}
}

func (p ThreadPriority) String() string { return p.Description() }

// ParseThreadPriority resolves a priority by its description, case-insensitive.
func ParseThreadPriority(s string) (ThreadPriority, error) {
	for _, p := range ThreadPriorities {
		if strings.EqualFold(p.Description(), s) {
			return p, nil
		}
	}
	return 0, Errorf(ErrCodeInvalidParameter, "unknown thread priority %q", s)
}

// MarshalText renders enums by name in JSON and YAML output.
func (v Vendor) MarshalText() ([]byte, error)     { return []byte(v.Description()), nil }
func (t CoreType) MarshalText() ([]byte, error)   { return []byte(t.Description()), nil }
func (l CacheLevel) MarshalText() ([]byte, error) { return []byte(l.Description()), nil }
func (t CacheType) MarshalText() ([]byte, error)  { return []byte(t.Description()), nil }
