// File: fake/adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FakeAdapter is an in-memory api.RawQuery for engine and integration tests.
// It counts calls and can block every enumeration on a gate channel.

package fake

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hwtopo/api"
)

// Adapter returns a fixed raw topology or error.
type Adapter struct {
	AdapterName string

	// Gate, when non-nil, blocks Enumerate until a value is received or the
	// channel is closed.
	Gate chan struct{}

	mu    sync.Mutex
	topo  *api.RawTopology
	err   error
	calls atomic.Int64
}

// NewAdapter returns an adapter yielding topo.
func NewAdapter(topo *api.RawTopology) *Adapter {
	return &Adapter{AdapterName: "fake", topo: topo}
}

// NewFailingAdapter returns an adapter yielding err.
func NewFailingAdapter(err error) *Adapter {
	return &Adapter{AdapterName: "fake", err: err}
}

func (a *Adapter) Name() string { return a.AdapterName }

// Enumerate implements api.RawQuery. The returned topology is a copy of the
// fixture header; records are shared and must not be modified.
func (a *Adapter) Enumerate() (*api.RawTopology, error) {
	a.calls.Add(1)
	if a.Gate != nil {
		<-a.Gate
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	if a.topo == nil {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "fake adapter has no topology")
	}
	cp := *a.topo
	return &cp, nil
}

// Calls returns how many times Enumerate was entered.
func (a *Adapter) Calls() int {
	return int(a.calls.Load())
}

// SetResult replaces the topology and error returned by later calls.
func (a *Adapter) SetResult(topo *api.RawTopology, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.topo, a.err = topo, err
}
