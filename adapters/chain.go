// File: adapters/chain.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ordered fallback across adapter variants.

package adapters

import (
	"strings"
	"sync"

	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

// Chain tries each adapter in order and returns the first successful
// enumeration. The first variant that succeeds is remembered and used alone
// on later calls.
type Chain struct {
	adapters []api.RawQuery
	logger   *zap.Logger

	mu       sync.Mutex
	selected api.RawQuery
}

// NewChain builds a chain over adapters. A nil logger disables logging.
func NewChain(logger *zap.Logger, adapters ...api.RawQuery) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{adapters: adapters, logger: logger}
}

// Name lists the variants in order, e.g. "sysfs,cpuid".
func (c *Chain) Name() string {
	names := make([]string, len(c.adapters))
	for i, a := range c.adapters {
		names[i] = a.Name()
	}
	return strings.Join(names, ",")
}

// Selected returns the variant that last succeeded, or nil.
func (c *Chain) Selected() api.RawQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Enumerate runs the variants. The returned topology's Source names the
// variant that produced it.
func (c *Chain) Enumerate() (*api.RawTopology, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected != nil {
		return c.run(c.selected)
	}
	var last error
	for _, a := range c.adapters {
		raw, err := c.run(a)
		if err != nil {
			c.logger.Debug("adapter unavailable, trying next", zap.String("adapter", a.Name()), zap.Error(err))
			last = err
			continue
		}
		c.selected = a
		c.logger.Info("selected topology adapter", zap.String("adapter", a.Name()))
		return raw, nil
	}
	if last == nil {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "no topology adapters configured")
	}
	return nil, api.Wrap(last, api.ErrCodeAdapterUnavailable, "all topology adapters failed").
		WithContext("adapters", c.Name())
}

func (c *Chain) run(a api.RawQuery) (*api.RawTopology, error) {
	raw, err := a.Enumerate()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "adapter returned no topology").
			WithContext("adapter", a.Name())
	}
	if raw.Source == "" {
		raw.Source = a.Name()
	}
	return raw, nil
}
