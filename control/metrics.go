// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Engine counters: snapshot build attempts and outcomes, build latency and
// affinity/priority requests. All methods are safe on a nil receiver so the
// engine can record unconditionally.

package control

import (
	"strconv"
	"time"

	"github.com/momentics/hwtopo/api"
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics holds the engine's prometheus instruments.
type EngineMetrics struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	threadCalls   *prometheus.CounterVec
}

// NewEngineMetrics creates the instruments and registers them with reg. A nil
// reg leaves them unregistered. A registration clash is InvalidParameter and
// leaves reg as it was.
func NewEngineMetrics(reg prometheus.Registerer) (*EngineMetrics, error) {
	m := &EngineMetrics{
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hwtopo_snapshot_builds_total",
				Help: "Snapshot build attempts by outcome code",
			},
			[]string{"result"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hwtopo_snapshot_build_duration_seconds",
				Help:    "Time spent enumerating and building a snapshot",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		threadCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hwtopo_thread_control_total",
				Help: "Affinity and priority requests by operation and outcome code",
			},
			[]string{"op", "result"},
		),
	}
	if reg == nil {
		return m, nil
	}
	if err := Register(reg, m.collectors()...); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *EngineMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.builds, m.buildDuration, m.threadCalls}
}

// Unregister removes the instruments from reg.
func (m *EngineMetrics) Unregister(reg prometheus.Registerer) {
	if m == nil || reg == nil {
		return
	}
	for _, c := range m.collectors() {
		reg.Unregister(c)
	}
}

// Register registers every collector or none: on the first failure the ones
// already registered are removed again and the error is InvalidParameter.
func Register(reg prometheus.Registerer, cs ...prometheus.Collector) error {
	for i, c := range cs {
		if err := reg.Register(c); err != nil {
			for _, done := range cs[:i] {
				reg.Unregister(done)
			}
			return api.Wrap(err, api.ErrCodeInvalidParameter, "register metrics")
		}
	}
	return nil
}

// ObserveBuild records one build attempt.
func (m *EngineMetrics) ObserveBuild(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(resultLabel(err)).Inc()
	m.buildDuration.Observe(elapsed.Seconds())
}

// ObserveThreadCall records one affinity or priority request.
func (m *EngineMetrics) ObserveThreadCall(op string, err error) {
	if m == nil {
		return
	}
	m.threadCalls.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	return strconv.Itoa(int(api.CodeOf(err)))
}
