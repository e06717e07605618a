// File: api/raw.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw per-logical-processor records produced by platform adapters and
// consumed by the topology builder.

package api

// CacheScope tells the builder which owner a cache attaches to when the
// adapter does not supply an identity key.
type CacheScope int

const (
	ScopeCore CacheScope = iota
	ScopeSocket
)

// RawCache is one cache reported for a logical processor. Records that share
// a non-empty Key describe the same physical instance.
type RawCache struct {
	Key           string
	Scope         CacheScope
	Level         int
	Type          CacheType
	SizeBytes     uint64
	LineSizeBytes uint32
}

// RawRecord describes a single logical processor as the OS reports it.
// Socket and Core are raw OS ids; Type is a hint (CoreUnknown when absent).
type RawRecord struct {
	LogicalProcessor int
	Socket           int
	Core             int
	Type             CoreType
	Caches           []RawCache
}

// RawTopology is the complete output of one adapter enumeration.
type RawTopology struct {
	// Source names the variant that produced the records when it differs
	// from the adapter that was queried (composite adapters).
	Source     string
	Vendor     Vendor
	VendorName string
	ModelName  string
	Records    []RawRecord
}

// RawQuery enumerates the processors of the running machine.
type RawQuery interface {
	// Name identifies the adapter variant.
	Name() string
	// Enumerate returns raw records or an AdapterUnavailable error.
	Enumerate() (*RawTopology, error)
}

// VendorFromString maps a CPUID or /proc/cpuinfo vendor token to a Vendor.
func VendorFromString(s string) Vendor {
	switch s {
	case "":
		return VendorUnknown
	case "GenuineIntel", "Intel":
		return VendorIntel
	case "AuthenticAMD", "AMD":
		return VendorAMD
	case "ARM", "0x41":
		return VendorARM
	case "Apple", "0x61":
		return VendorApple
	default:
		return VendorOther
	}
}
