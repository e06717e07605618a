// File: adapters/chain_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"errors"
	"testing"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainFallsBack(t *testing.T) {
	broken := fake.NewFailingAdapter(api.NewError(api.ErrCodeAdapterUnavailable, "no sysfs"))
	broken.AdapterName = "sysfs"
	good := fake.NewAdapter(fake.AllUnknown(2))
	good.AdapterName = "cpuid"

	c := NewChain(nil, broken, good)
	assert.Equal(t, "sysfs,cpuid", c.Name())

	raw, err := c.Enumerate()
	require.NoError(t, err)
	assert.Equal(t, "cpuid", raw.Source)
	assert.Same(t, good, c.Selected())

	// the winner is used alone from now on
	_, err = c.Enumerate()
	require.NoError(t, err)
	assert.Equal(t, 1, broken.Calls())
	assert.Equal(t, 2, good.Calls())
}

func TestChainAllFail(t *testing.T) {
	a := fake.NewFailingAdapter(errors.New("first"))
	b := fake.NewFailingAdapter(errors.New("last cause"))
	c := NewChain(nil, a, b)
	_, err := c.Enumerate()
	assert.ErrorIs(t, err, api.ErrAdapterUnavailable)
	assert.ErrorContains(t, err, "last cause")
	assert.Nil(t, c.Selected())

	_, err = NewChain(nil).Enumerate()
	assert.ErrorIs(t, err, api.ErrAdapterUnavailable)
}

func TestByName(t *testing.T) {
	cfg := DefaultPlatformConfig()
	assert.Equal(t, CPUIDName, ByName("cpuid", cfg).Name())
	assert.Equal(t, SysfsName, ByName("sysfs", cfg).Name())
	assert.IsType(t, &Chain{}, ByName("auto", cfg))
	assert.Nil(t, ByName("nope", cfg))
}

func TestPlatformChainEndsWithCPUID(t *testing.T) {
	c := NewPlatform(DefaultPlatformConfig())
	assert.Regexp(t, `cpuid$`, c.Name())
}
