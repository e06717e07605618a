// File: adapters/identity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Vendor and model identification shared by the adapter variants.

package adapters

import (
	"bufio"
	"os"
	"strings"

	"github.com/klauspost/cpuid/v2"
	"github.com/momentics/hwtopo/api"
)

// Identity is the vendor and marketing name of the running processor.
type Identity struct {
	Vendor     api.Vendor
	VendorName string
	ModelName  string
}

// IdentityFunc reports the processor identity. Adapters take one so tests can
// supply a fixed identity.
type IdentityFunc func() Identity

// CPUIDIdentity reads vendor and brand through CPUID (x86) or the
// architecture registers exposed by the OS (arm64).
func CPUIDIdentity() Identity {
	id := Identity{
		VendorName: cpuid.CPU.VendorString,
		ModelName:  strings.TrimSpace(cpuid.CPU.BrandName),
	}
	switch cpuid.CPU.VendorID {
	case cpuid.Intel:
		id.Vendor = api.VendorIntel
	case cpuid.AMD:
		id.Vendor = api.VendorAMD
	case cpuid.ARM:
		id.Vendor = api.VendorARM
	case cpuid.Apple:
		id.Vendor = api.VendorApple
	case cpuid.VendorUnknown:
		id.Vendor = api.VendorFromString(id.VendorName)
	default:
		id.Vendor = api.VendorOther
	}
	if id.VendorName == "" && id.Vendor != api.VendorUnknown {
		id.VendorName = id.Vendor.Description()
	}
	return id
}

// readCPUInfoIdentity parses the first processor block of /proc/cpuinfo.
// x86 kernels report vendor_id and "model name"; arm64 kernels report
// "CPU implementer" and sometimes "Processor" or "Hardware".
func readCPUInfoIdentity(path string) Identity {
	file, err := os.Open(path)
	if err != nil {
		return Identity{}
	}
	defer file.Close()

	var id Identity
	var hardware string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "vendor_id":
			if id.VendorName == "" {
				id.VendorName = value
			}
		case "CPU implementer":
			if id.VendorName == "" {
				id.VendorName = value
			}
		case "model name", "Processor":
			if id.ModelName == "" {
				id.ModelName = value
			}
		case "Hardware":
			hardware = value
		}
	}
	if id.ModelName == "" {
		id.ModelName = hardware
	}
	id.Vendor = api.VendorFromString(id.VendorName)
	switch id.Vendor {
	case api.VendorARM, api.VendorApple:
		id.VendorName = id.Vendor.Description()
	}
	return id
}

// merge fills empty fields of id from fallback.
func (id Identity) merge(fallback Identity) Identity {
	if id.VendorName == "" {
		id.VendorName = fallback.VendorName
		id.Vendor = fallback.Vendor
	}
	if id.ModelName == "" {
		id.ModelName = fallback.ModelName
	}
	return id
}
