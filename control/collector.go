// File: control/collector.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TopologyCollector exports a snapshot as prometheus gauges. The snapshot is
// read on every scrape; since it is immutable once built, repeated scrapes
// report identical values.

package control

import (
	"strconv"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/features"
	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotSource supplies the snapshot to export.
type SnapshotSource interface {
	Snapshot() (*api.Snapshot, error)
}

// TopologyCollector implements prometheus.Collector.
type TopologyCollector struct {
	src      SnapshotSource
	features func() features.FeatureSet

	up                *prometheus.Desc
	info              *prometheus.Desc
	sockets           *prometheus.Desc
	physicalCores     *prometheus.Desc
	logicalProcessors *prometheus.Desc
	coresByType       *prometheus.Desc
	cacheBytes        *prometheus.Desc
	feature           *prometheus.Desc
}

var _ prometheus.Collector = (*TopologyCollector)(nil)

// NewTopologyCollector returns a collector over src using features.Detect.
func NewTopologyCollector(src SnapshotSource) *TopologyCollector {
	return &TopologyCollector{
		src:      src,
		features: features.Detect,
		up: prometheus.NewDesc("hwtopo_snapshot_up",
			"1 if a topology snapshot could be built", nil, nil),
		info: prometheus.NewDesc("hwtopo_cpu_info",
			"Processor identity", []string{"vendor", "vendor_name", "model", "adapter"}, nil),
		sockets: prometheus.NewDesc("hwtopo_sockets",
			"Number of sockets", nil, nil),
		physicalCores: prometheus.NewDesc("hwtopo_physical_cores",
			"Number of physical cores per socket", []string{"socket"}, nil),
		logicalProcessors: prometheus.NewDesc("hwtopo_logical_processors",
			"Number of logical processors per socket", []string{"socket"}, nil),
		coresByType: prometheus.NewDesc("hwtopo_cores_by_type",
			"Number of physical cores per core type", []string{"type"}, nil),
		cacheBytes: prometheus.NewDesc("hwtopo_cache_bytes",
			"Total bytes of distinct cache instances per level and type",
			[]string{"level", "type"}, nil),
		feature: prometheus.NewDesc("hwtopo_cpu_feature",
			"1 for every instruction-set feature the processor reports", []string{"feature"}, nil),
	}
}

func (c *TopologyCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.info
	ch <- c.sockets
	ch <- c.physicalCores
	ch <- c.logicalProcessors
	ch <- c.coresByType
	ch <- c.cacheBytes
	ch <- c.feature
}

func (c *TopologyCollector) Collect(ch chan<- prometheus.Metric) {
	for _, name := range c.features().Names() {
		ch <- prometheus.MustNewConstMetric(c.feature, prometheus.GaugeValue, 1, name)
	}

	snap, err := c.src.Snapshot()
	if err != nil {
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1,
		snap.Vendor.Description(), snap.VendorName, snap.ModelName, snap.Adapter)
	ch <- prometheus.MustNewConstMetric(c.sockets, prometheus.GaugeValue, float64(len(snap.Sockets)))

	for _, s := range snap.Sockets {
		id := strconv.Itoa(s.ID)
		lps := 0
		for _, core := range s.Cores {
			lps += len(core.LogicalProcessors)
		}
		ch <- prometheus.MustNewConstMetric(c.physicalCores, prometheus.GaugeValue, float64(len(s.Cores)), id)
		ch <- prometheus.MustNewConstMetric(c.logicalProcessors, prometheus.GaugeValue, float64(lps), id)
	}

	unknown := snap.TotalPhysicalCores - snap.TotalPerformanceCores - snap.TotalEfficiencyCores
	for t, n := range map[api.CoreType]int{
		api.CorePerformance: snap.TotalPerformanceCores,
		api.CoreEfficiency:  snap.TotalEfficiencyCores,
		api.CoreUnknown:     unknown,
	} {
		ch <- prometheus.MustNewConstMetric(c.coresByType, prometheus.GaugeValue, float64(n), t.Description())
	}

	type cacheKey struct {
		level api.CacheLevel
		typ   api.CacheType
	}
	sizes := make(map[cacheKey]uint64)
	for _, cache := range snap.Caches() {
		sizes[cacheKey{cache.Level, cache.Type}] += cache.SizeBytes
	}
	for k, size := range sizes {
		ch <- prometheus.MustNewConstMetric(c.cacheBytes, prometheus.GaugeValue, float64(size),
			k.level.Description(), k.typ.Description())
	}
}
