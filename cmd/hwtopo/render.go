// File: cmd/hwtopo/render.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/facade"
	"gopkg.in/yaml.v3"
)

// report is the document printed by the json and yaml formats.
type report struct {
	CPU      *facade.CPUInfo `json:"cpu" yaml:"cpu"`
	Topology *api.Snapshot   `json:"topology" yaml:"topology"`
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
	pStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	eStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func render(w io.Writer, format string, info *facade.CPUInfo, snap *api.Snapshot) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report{CPU: info, Topology: snap})
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report{CPU: info, Topology: snap}); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		_, err := io.WriteString(w, renderText(info, snap)+"\n")
		return err
	default:
		return api.Errorf(api.ErrCodeInvalidParameter, "unknown output format %q", format)
	}
}

func renderText(info *facade.CPUInfo, snap *api.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(info.ModelName))
	kv := func(k, v string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", k)), v)
	}
	kv("vendor", fmt.Sprintf("%s (%s)", info.Vendor.Description(), info.VendorName))
	kv("source", info.Adapter)
	kv("sockets", strconv.Itoa(info.Sockets))
	kv("physical cores", strconv.Itoa(info.TotalPhysicalCores))
	kv("logical cpus", strconv.Itoa(info.TotalLogicalProcessors))
	if info.Hybrid {
		kv("hybrid", fmt.Sprintf("%s P + %s E",
			pStyle.Render(strconv.Itoa(info.TotalPerformanceCores)),
			eStyle.Render(strconv.Itoa(info.TotalEfficiencyCores))))
	}
	if len(info.Features) > 0 {
		kv("features", strings.Join(info.Features, " "))
	}

	var blocks []string
	for i := range snap.Sockets {
		blocks = append(blocks, boxStyle.Render(renderSocket(&snap.Sockets[i])))
	}
	return b.String() + lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderSocket(s *api.Socket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", titleStyle.Render(fmt.Sprintf("socket %d", s.ID)))
	if s.HasL3() {
		fmt.Fprintf(&b, "  L3 %s", cacheSize(s.L3))
		if len(s.L3Slices) > 1 {
			fmt.Fprintf(&b, " x%d", len(s.L3Slices))
		}
	}
	for i := range s.Cores {
		c := &s.Cores[i]
		fmt.Fprintf(&b, "\ncore %-3d %s  cpus %-10s", c.ID, coreTag(c.Type), joinInts(c.LogicalProcessors))
		if c.HasL1I() {
			fmt.Fprintf(&b, "  L1i %-8s", cacheSize(c.L1I))
		}
		if c.HasL1D() {
			fmt.Fprintf(&b, "  L1d %-8s", cacheSize(c.L1D))
		}
		if c.HasL2() {
			fmt.Fprintf(&b, "  L2 %s", cacheSize(c.L2))
		}
	}
	return b.String()
}

func coreTag(t api.CoreType) string {
	switch t {
	case api.CorePerformance:
		return pStyle.Render("P")
	case api.CoreEfficiency:
		return eStyle.Render("E")
	default:
		return "-"
	}
}

func cacheSize(c *api.Cache) string {
	return humanize.IBytes(c.SizeBytes)
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}
