// File: fake/controller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Controller records affinity and priority requests instead of touching the
// calling thread.

package fake

import (
	"slices"
	"sync"

	"github.com/momentics/hwtopo/api"
)

// Controller implements api.ThreadController in memory.
type Controller struct {
	mu         sync.Mutex
	err        error
	affinities [][]int
	priorities []api.ThreadPriority
}

// NewController returns a controller that accepts every request.
func NewController() *Controller {
	return &Controller{}
}

// Fail makes later calls return err. nil restores success.
func (c *Controller) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *Controller) SetAffinity(lp int) error {
	return c.SetAffinitySet([]int{lp})
}

func (c *Controller) SetAffinitySet(lps []int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.affinities = append(c.affinities, slices.Clone(lps))
	return nil
}

func (c *Controller) SetPriority(p api.ThreadPriority) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.priorities = append(c.priorities, p)
	return nil
}

// Affinities returns every accepted affinity set in call order.
func (c *Controller) Affinities() [][]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.affinities)
}

// Priorities returns every accepted priority in call order.
func (c *Controller) Priorities() []api.ThreadPriority {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.priorities)
}

var _ api.ThreadController = (*Controller)(nil)
