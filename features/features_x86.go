//go:build amd64 || 386
// +build amd64 386

// File: features/features_x86.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package features

import "github.com/klauspost/cpuid/v2"

const (
	MMX FeatureSet = 1 << iota
	SSE
	SSE2
	SSE3
	SSSE3
	SSE4_1
	SSE4_2
	FMA3
	AVX
	AVX2
	AVX512F
	AVX512BW
	AVX512CD
	AVX512DQ
	AVX512VL
	AES
	SHA
	CRC32
)

// Known is the set of bits defined for x86.
const Known = MMX | SSE | SSE2 | SSE3 | SSSE3 | SSE4_1 | SSE4_2 | FMA3 | AVX | AVX2 |
	AVX512F | AVX512BW | AVX512CD | AVX512DQ | AVX512VL | AES | SHA | CRC32

var featureNames = []featureName{
	{MMX, "MMX"}, {SSE, "SSE"}, {SSE2, "SSE2"}, {SSE3, "SSE3"}, {SSSE3, "SSSE3"},
	{SSE4_1, "SSE4.1"}, {SSE4_2, "SSE4.2"}, {FMA3, "FMA3"}, {AVX, "AVX"}, {AVX2, "AVX2"},
	{AVX512F, "AVX512F"}, {AVX512BW, "AVX512BW"}, {AVX512CD, "AVX512CD"},
	{AVX512DQ, "AVX512DQ"}, {AVX512VL, "AVX512VL"}, {AES, "AES"}, {SHA, "SHA"}, {CRC32, "CRC32"},
}

var cpuidBits = []struct {
	id  cpuid.FeatureID
	bit FeatureSet
}{
	{cpuid.MMX, MMX},
	{cpuid.SSE, SSE},
	{cpuid.SSE2, SSE2},
	{cpuid.SSE3, SSE3},
	{cpuid.SSSE3, SSSE3},
	{cpuid.SSE4, SSE4_1},
	{cpuid.SSE42, SSE4_2},
	{cpuid.FMA3, FMA3},
	{cpuid.AVX, AVX},
	{cpuid.AVX2, AVX2},
	{cpuid.AVX512F, AVX512F},
	{cpuid.AVX512BW, AVX512BW},
	{cpuid.AVX512CD, AVX512CD},
	{cpuid.AVX512DQ, AVX512DQ},
	{cpuid.AVX512VL, AVX512VL},
	{cpuid.AESNI, AES},
	{cpuid.SHA, SHA},
	// CRC32 is part of SSE4.2
	{cpuid.SSE42, CRC32},
}

func detect() FeatureSet {
	var s FeatureSet
	for _, b := range cpuidBits {
		if cpuid.CPU.Supports(b.id) {
			s |= b.bit
		}
	}
	return s
}
