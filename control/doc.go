// File: control/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Metrics and debug introspection for the topology engine.
//
// Provides:
//   - TopologyCollector, a prometheus collector exporting snapshot gauges
//   - EngineMetrics, build and thread-control counters
//   - DebugProbes with topology and platform probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
