//go:build arm64
// +build arm64

// File: features/features_arm64_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestARM64Layout(t *testing.T) {
	assert.Equal(t, FeatureSet(0x01), NEON)
	assert.Equal(t, FeatureSet(0x10), CRC32)
	assert.Equal(t, FeatureSet(0x1f), Known)
}

func TestARM64Baseline(t *testing.T) {
	// Advanced SIMD is mandatory on arm64.
	assert.True(t, Detect().Has(NEON))
}
