// File: facade/engine.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Engine is the entry point of hwtopo. It owns the adapter, builds the
// topology snapshot lazily on first use and answers every query from that
// snapshot. A successful build happens exactly once per engine no matter how
// many goroutines race on the first query; failed builds are not cached and
// the next query tries again.

package facade

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hwtopo/adapters"
	"github.com/momentics/hwtopo/affinity"
	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/control"
	"github.com/momentics/hwtopo/internal/topology"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const buildKey = "snapshot"

// Engine is safe for concurrent use.
type Engine struct {
	adapter api.RawQuery
	ctrl    api.ThreadController
	log     *zap.Logger
	metrics *control.EngineMetrics

	group  singleflight.Group
	snap   atomic.Pointer[api.Snapshot]
	builds atomic.Int64
	closed atomic.Bool
}

var _ control.SnapshotSource = (*Engine)(nil)

// New creates an engine. Nothing is enumerated until the first query.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("hwtopo")

	adapter := cfg.Adapter
	if adapter == nil {
		adapter = adapters.ByName(cfg.AdapterName, adapters.PlatformConfig{
			SysRoot:  cfg.SysRoot,
			ProcRoot: cfg.ProcRoot,
			Logger:   log,
		})
		if adapter == nil {
			return nil, api.Errorf(api.ErrCodeInvalidParameter, "unknown adapter %q", cfg.AdapterName)
		}
	}
	ctrl := cfg.Controller
	if ctrl == nil {
		ctrl = affinity.Controller{}
	}

	e := &Engine{adapter: adapter, ctrl: ctrl, log: log}
	if cfg.Registerer != nil {
		metrics, err := control.NewEngineMetrics(cfg.Registerer)
		if err != nil {
			return nil, err
		}
		if err := control.Register(cfg.Registerer, control.NewTopologyCollector(e)); err != nil {
			metrics.Unregister(cfg.Registerer)
			return nil, err
		}
		e.metrics = metrics
	}
	log.Debug("engine created", zap.String("adapter", adapter.Name()))
	return e, nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	// DefaultConfig always resolves to the platform chain.
	e, _ := New(DefaultConfig())
	return e
})

// Default returns the process-wide engine. Closing it is permanent.
func Default() *Engine {
	return defaultEngine()
}

// Close releases the snapshot. Every later query returns ErrEngineClosed.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.snap.Store(nil)
	e.log.Debug("engine closed")
	return nil
}

// AdapterName names the configured adapter.
func (e *Engine) AdapterName() string {
	return e.adapter.Name()
}

// Snapshot returns the topology snapshot, building it on first use.
func (e *Engine) Snapshot() (*api.Snapshot, error) {
	if e.closed.Load() {
		return nil, api.ErrEngineClosed
	}
	if s := e.snap.Load(); s != nil {
		return s, nil
	}
	v, err, _ := e.group.Do(buildKey, func() (any, error) {
		// a new flight may start right after the previous one installed
		if s := e.snap.Load(); s != nil {
			return s, nil
		}
		return e.build()
	})
	if err != nil {
		return nil, err
	}
	return v.(*api.Snapshot), nil
}

func (e *Engine) build() (*api.Snapshot, error) {
	start := time.Now()
	snap, err := e.enumerate()
	elapsed := time.Since(start)
	e.metrics.ObserveBuild(err, elapsed)
	if err != nil {
		e.log.Warn("topology build failed",
			zap.String("adapter", e.adapter.Name()),
			zap.Int("code", int(api.CodeOf(err))),
			zap.Error(err))
		return nil, err
	}
	if e.closed.Load() {
		return nil, api.ErrEngineClosed
	}
	e.snap.Store(snap)
	e.builds.Add(1)
	e.log.Info("topology built",
		zap.String("adapter", snap.Adapter),
		zap.String("vendor", snap.Vendor.Description()),
		zap.String("model", snap.ModelName),
		zap.Int("sockets", len(snap.Sockets)),
		zap.Int("physical_cores", snap.TotalPhysicalCores),
		zap.Int("logical_processors", snap.TotalLogicalProcessors),
		zap.Bool("hybrid", snap.IsHybrid()),
		zap.Duration("elapsed", elapsed))
	return snap, nil
}

func (e *Engine) enumerate() (*api.Snapshot, error) {
	raw, err := e.adapter.Enumerate()
	if err != nil {
		if api.CodeOf(err) == api.ErrCodeInternal {
			return nil, api.Wrap(err, api.ErrCodeAdapterUnavailable, "enumerate processors")
		}
		return nil, err
	}
	return topology.Build(raw, e.adapter.Name())
}

// BuildCount returns how many snapshots this engine has installed.
func (e *Engine) BuildCount() int {
	return int(e.builds.Load())
}
