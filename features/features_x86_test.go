//go:build amd64
// +build amd64

// File: features/features_x86_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestX86Layout(t *testing.T) {
	assert.Equal(t, FeatureSet(0x00000001), MMX)
	assert.Equal(t, FeatureSet(0x00000400), AVX512F)
	assert.Equal(t, FeatureSet(0x00020000), CRC32)
	assert.Equal(t, FeatureSet(0x0003ffff), Known)
}

func TestX86Baseline(t *testing.T) {
	// SSE and SSE2 are part of the amd64 baseline.
	s := Detect()
	assert.True(t, s.Has(SSE|SSE2))
	assert.Equal(t, "SSE SSE2", (SSE | SSE2).String())
}
