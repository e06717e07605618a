//go:build arm64
// +build arm64

// File: features/features_arm64.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package features

import (
	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

const (
	NEON FeatureSet = 1 << iota
	SVE
	AES
	SHA
	CRC32
)

// Known is the set of bits defined for arm64.
const Known = NEON | SVE | AES | SHA | CRC32

var featureNames = []featureName{
	{NEON, "NEON"}, {SVE, "SVE"}, {AES, "AES"}, {SHA, "SHA"}, {CRC32, "CRC32"},
}

// detect merges the OS-reported HWCAP bits with klauspost/cpuid; a bit is set
// when either source reports it.
func detect() FeatureSet {
	var s FeatureSet
	set := func(bit FeatureSet, ok ...bool) {
		for _, v := range ok {
			if v {
				s |= bit
				return
			}
		}
	}
	set(NEON, cpu.ARM64.HasASIMD, cpuid.CPU.Supports(cpuid.ASIMD))
	set(SVE, cpu.ARM64.HasSVE, cpuid.CPU.Supports(cpuid.SVE))
	set(AES, cpu.ARM64.HasAES, cpuid.CPU.Supports(cpuid.AESARM))
	set(SHA, cpu.ARM64.HasSHA1, cpu.ARM64.HasSHA2, cpuid.CPU.Supports(cpuid.SHA1), cpuid.CPU.Supports(cpuid.SHA2))
	set(CRC32, cpu.ARM64.HasCRC32, cpuid.CPU.Supports(cpuid.CRC32))
	return s
}
