// File: adapters/sysfs.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux sysfs reader. Paths are rooted at configurable sys/proc roots so the
// parser runs against synthetic trees on any OS.

package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
	"k8s.io/utils/cpuset"
)

// SysfsName identifies the sysfs adapter.
const SysfsName = "sysfs"

var cpuDirPattern = regexp.MustCompile(`^cpu[0-9]+$`)

// Sysfs enumerates processors from /sys/devices/system/cpu.
type Sysfs struct {
	SysRoot  string
	ProcRoot string
	// Identify is consulted when /proc/cpuinfo does not name the processor.
	Identify IdentityFunc
	Logger   *zap.Logger
}

// NewSysfs returns a sysfs adapter rooted at sysRoot and procRoot.
func NewSysfs(sysRoot, procRoot string, logger *zap.Logger) *Sysfs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sysfs{SysRoot: sysRoot, ProcRoot: procRoot, Identify: CPUIDIdentity, Logger: logger}
}

func (s *Sysfs) Name() string { return SysfsName }

func (s *Sysfs) cpuBase() string {
	return filepath.Join(s.SysRoot, "devices/system/cpu")
}

// Enumerate walks every online CPU directory.
func (s *Sysfs) Enumerate() (*api.RawTopology, error) {
	log := s.logger()
	cpus, err := s.onlineCPUs()
	if err != nil {
		return nil, err
	}

	id := readCPUInfoIdentity(filepath.Join(s.ProcRoot, "cpuinfo"))
	if s.Identify != nil && (id.VendorName == "" || id.ModelName == "") {
		id = id.merge(s.Identify())
	}
	raw := &api.RawTopology{Vendor: id.Vendor, VendorName: id.VendorName, ModelName: id.ModelName}

	hints := s.coreTypeHints(cpus)
	for _, cpu := range cpus {
		dir := filepath.Join(s.cpuBase(), fmt.Sprintf("cpu%d", cpu))
		rec := api.RawRecord{LogicalProcessor: cpu, Type: hints[cpu]}

		pkg, err := readInt(filepath.Join(dir, "topology/physical_package_id"))
		if err != nil || pkg < 0 {
			log.Debug("physical_package_id unavailable, assuming socket 0", zap.Int("cpu", cpu))
			pkg = 0
		}
		core, err := readInt(filepath.Join(dir, "topology/core_id"))
		if err != nil || core < 0 {
			log.Debug("core_id unavailable, treating cpu as its own core", zap.Int("cpu", cpu))
			core = cpu
		}
		rec.Socket, rec.Core = pkg, core
		rec.Caches = s.readCaches(dir, cpu)
		raw.Records = append(raw.Records, rec)
	}
	return raw, nil
}

func (s *Sysfs) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// onlineCPUs returns the online CPU list, falling back to the cpuN
// directories when the online file is missing.
func (s *Sysfs) onlineCPUs() ([]int, error) {
	if text, err := readString(filepath.Join(s.cpuBase(), "online")); err == nil {
		set, perr := cpuset.Parse(text)
		if perr == nil && set.Size() > 0 {
			return set.List(), nil
		}
		s.logger().Warn("unparsable cpu online list", zap.String("value", text), zap.Error(perr))
	}
	entries, err := os.ReadDir(s.cpuBase())
	if err != nil {
		return nil, api.Wrap(err, api.ErrCodeAdapterUnavailable, "sysfs cpu directory unreadable")
	}
	var ids []int
	for _, e := range entries {
		if !cpuDirPattern.MatchString(e.Name()) {
			continue
		}
		n, err := strconv.Atoi(e.Name()[3:])
		if err == nil {
			ids = append(ids, n)
		}
	}
	if len(ids) == 0 {
		return nil, api.NewError(api.ErrCodeAdapterUnavailable, "no cpu entries in sysfs").
			WithContext("path", s.cpuBase())
	}
	return cpuset.New(ids...).List(), nil
}

func (s *Sysfs) readCaches(cpuDir string, cpu int) []api.RawCache {
	indexes, err := filepath.Glob(filepath.Join(cpuDir, "cache", "index[0-9]*"))
	if err != nil || len(indexes) == 0 {
		return nil
	}
	var out []api.RawCache
	for _, idx := range indexes {
		level, err := readInt(filepath.Join(idx, "level"))
		if err != nil {
			continue
		}
		typ := parseCacheType(readStringOr(filepath.Join(idx, "type"), ""))
		rc := api.RawCache{Level: level, Type: typ, Scope: api.ScopeCore}
		if level >= 3 {
			rc.Scope = api.ScopeSocket
		}
		if size, err := readString(filepath.Join(idx, "size")); err == nil {
			rc.SizeBytes, err = parseCacheSize(size)
			if err != nil {
				s.logger().Debug("bad cache size", zap.String("value", size), zap.Int("cpu", cpu))
			}
		}
		if line, err := readInt(filepath.Join(idx, "coherency_line_size")); err == nil && line > 0 {
			rc.LineSizeBytes = uint32(line)
		}
		if shared, err := readString(filepath.Join(idx, "shared_cpu_list")); err == nil {
			if set, perr := cpuset.Parse(shared); perr == nil {
				rc.Key = fmt.Sprintf("L%d/%s/%s", level, typ.Description(), set.String())
			}
		}
		out = append(out, rc)
	}
	return out
}

// coreTypeHints collects performance/efficiency hints in order of
// precedence: topology/core_type, the Intel hybrid PMU cpu lists, then
// ARM cpu_capacity.
func (s *Sysfs) coreTypeHints(cpus []int) map[int]api.CoreType {
	hints := make(map[int]api.CoreType, len(cpus))
	for _, cpu := range cpus {
		v, err := readString(filepath.Join(s.cpuBase(), fmt.Sprintf("cpu%d", cpu), "topology/core_type"))
		if err == nil {
			if t := parseCoreType(v); t != api.CoreUnknown {
				hints[cpu] = t
			}
		}
	}
	if len(hints) > 0 {
		return hints
	}

	pcores := s.readCPUList("devices/cpu_core/cpus")
	ecores := s.readCPUList("devices/cpu_atom/cpus")
	if pcores.Size() > 0 && ecores.Size() > 0 {
		for _, cpu := range pcores.List() {
			hints[cpu] = api.CorePerformance
		}
		for _, cpu := range ecores.List() {
			hints[cpu] = api.CoreEfficiency
		}
		return hints
	}

	caps := make(map[int]int, len(cpus))
	maxCap, minCap := -1, -1
	for _, cpu := range cpus {
		c, err := readInt(filepath.Join(s.cpuBase(), fmt.Sprintf("cpu%d", cpu), "cpu_capacity"))
		if err != nil {
			continue
		}
		caps[cpu] = c
		if maxCap < 0 || c > maxCap {
			maxCap = c
		}
		if minCap < 0 || c < minCap {
			minCap = c
		}
	}
	if maxCap == minCap {
		return hints
	}
	for cpu, c := range caps {
		if c == maxCap {
			hints[cpu] = api.CorePerformance
		} else {
			hints[cpu] = api.CoreEfficiency
		}
	}
	return hints
}

func (s *Sysfs) readCPUList(rel string) cpuset.CPUSet {
	text, err := readString(filepath.Join(s.SysRoot, rel))
	if err != nil {
		return cpuset.New()
	}
	set, err := cpuset.Parse(text)
	if err != nil {
		return cpuset.New()
	}
	return set
}

func parseCoreType(v string) api.CoreType {
	switch strings.ToLower(v) {
	case "intel_core", "core", "performance", "p", "0":
		return api.CorePerformance
	case "intel_atom", "atom", "efficiency", "e", "1":
		return api.CoreEfficiency
	default:
		return api.CoreUnknown
	}
}

func parseCacheType(v string) api.CacheType {
	switch v {
	case "Data":
		return api.CacheData
	case "Instruction":
		return api.CacheInstruction
	case "Unified":
		return api.CacheUnified
	case "Trace":
		return api.CacheTrace
	default:
		return api.CacheTypeUnknown
	}
}

// parseCacheSize converts sysfs sizes such as "48K" or "32M" to bytes. The
// kernel's K/M/G suffixes are binary multiples.
func parseCacheSize(v string) (uint64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("empty cache size")
	}
	switch v[len(v)-1] {
	case 'K', 'M', 'G':
		v += "iB"
	}
	return humanize.ParseBytes(v)
}

func readString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readStringOr(path, def string) string {
	v, err := readString(path)
	if err != nil {
		return def
	}
	return v
}

func readInt(path string) (int, error) {
	v, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}
