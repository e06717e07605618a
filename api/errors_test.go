// File: api/errors_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeValues(t *testing.T) {
	assert.Equal(t, 0, int(ErrCodeSuccess))
	assert.Equal(t, -1, int(ErrCodeNoProcessorsDetected))
	assert.Equal(t, -2, int(ErrCodeTopologyInconsistent))
	assert.Equal(t, -3, int(ErrCodeInvalidIndex))
	assert.Equal(t, -4, int(ErrCodeAdapterUnavailable))
	assert.Equal(t, -5, int(ErrCodeUnsupported))
	assert.Equal(t, -6, int(ErrCodePermissionDenied))
}

func TestDescriptionsAreTotalAndDistinct(t *testing.T) {
	seen := map[string]ErrorCode{}
	for _, c := range ErrorCodes {
		d := c.Description()
		require.NotEmpty(t, d)
		prev, dup := seen[d]
		require.False(t, dup, "codes %d and %d share %q", prev, c, d)
		seen[d] = c
	}
	assert.Equal(t, "Unknown error code", ErrorCode(12345).Description())
	assert.Equal(t, "Unknown", CoreType(42).Description())
	assert.Equal(t, "Unknown", Vendor(-1).Description())
	assert.Equal(t, "Unknown", CacheLevel(9).Description())
	assert.Equal(t, "Unknown", CacheType(9).Description())
	assert.Equal(t, "Unknown", ThreadPriority(99).Description())
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := Errorf(ErrCodeInvalidIndex, "socket %d out of range", 3)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.NotErrorIs(t, err, ErrTopologyInconsistent)

	wrapped := fmt.Errorf("query: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidIndex)
	assert.Equal(t, ErrCodeInvalidIndex, CodeOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("open /sys: no such file")
	err := Wrap(cause, ErrCodeAdapterUnavailable, "sysfs")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrAdapterUnavailable)
	assert.Contains(t, err.Error(), "no such file")
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeSuccess, CodeOf(nil))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, ErrCodePermissionDenied, CodeOf(ErrPermissionDenied))
}

func TestWithContext(t *testing.T) {
	err := NewError(ErrCodeInvalidParameter, "bad").WithContext("value", 7)
	assert.Equal(t, 7, err.Context["value"])
	assert.Contains(t, err.Error(), "value:7")
}

func TestParseThreadPriority(t *testing.T) {
	for _, p := range ThreadPriorities {
		got, err := ParseThreadPriority(p.Description())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	p, err := ParseThreadPriority("timecritical")
	require.NoError(t, err)
	assert.Equal(t, PriorityTimeCritical, p)

	_, err = ParseThreadPriority("realtime")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.False(t, ThreadPriority(7).Valid())
	assert.False(t, ThreadPriority(-1).Valid())
}

func TestVendorFromString(t *testing.T) {
	assert.Equal(t, VendorIntel, VendorFromString("GenuineIntel"))
	assert.Equal(t, VendorAMD, VendorFromString("AuthenticAMD"))
	assert.Equal(t, VendorARM, VendorFromString("0x41"))
	assert.Equal(t, VendorApple, VendorFromString("Apple"))
	assert.Equal(t, VendorOther, VendorFromString("CentaurHauls"))
	assert.Equal(t, VendorUnknown, VendorFromString(""))
}
