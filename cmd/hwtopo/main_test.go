// File: cmd/hwtopo/main_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/facade"
	"github.com/momentics/hwtopo/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func hybrid(t *testing.T) (*facade.CPUInfo, *api.Snapshot) {
	t.Helper()
	e, err := facade.New(&facade.Config{Adapter: fake.NewAdapter(fake.HybridDesktop()), Controller: fake.NewController()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	info, err := e.CPUInfo()
	require.NoError(t, err)
	snap, err := e.Snapshot()
	require.NoError(t, err)
	return info, snap
}

func TestLoadConfigEnvThenFlags(t *testing.T) {
	t.Setenv("HWTOPO_FORMAT", "yaml")
	t.Setenv("HWTOPO_ADAPTER", "cpuid")

	cfg, _, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "cpuid", cfg.Adapter)
	assert.Equal(t, "/sys", cfg.SysRoot)
	assert.Equal(t, -1, cfg.Pin)

	cfg, _, err = loadConfig([]string{"-o", "json", "--pin", "3", "--priority", "highest"})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "cpuid", cfg.Adapter)
	assert.Equal(t, 3, cfg.Pin)
	assert.Equal(t, "highest", cfg.Priority)

	_, _, err = loadConfig([]string{"--bogus"})
	assert.Error(t, err)
}

func TestRenderText(t *testing.T) {
	info, snap := hybrid(t)
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", info, snap))
	out := buf.String()
	assert.Contains(t, out, "Synthetic Hybrid Desktop")
	assert.Contains(t, out, "socket 0")
	assert.Contains(t, out, "12 MiB")
	assert.Contains(t, out, "1.3 MiB")
	assert.Contains(t, out, "core 7")
}

func TestRenderJSON(t *testing.T) {
	info, snap := hybrid(t)
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", info, snap))

	var doc struct {
		CPU struct {
			Vendor string `json:"vendor"`
			Hybrid bool   `json:"hybrid"`
		} `json:"cpu"`
		Topology struct {
			Sockets []struct {
				Cores []struct {
					Type string `json:"type"`
				} `json:"cores"`
			} `json:"sockets"`
		} `json:"topology"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Intel", doc.CPU.Vendor)
	assert.True(t, doc.CPU.Hybrid)
	require.Len(t, doc.Topology.Sockets, 1)
	assert.Equal(t, "Efficiency", doc.Topology.Sockets[0].Cores[7].Type)
}

func TestRenderYAML(t *testing.T) {
	info, snap := hybrid(t)
	var buf bytes.Buffer
	require.NoError(t, render(&buf, "yaml", info, snap))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	cpu, ok := doc["cpu"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 8, cpu["total_logical_processors"])
	assert.Equal(t, "Intel", cpu["vendor"])
}

func TestRenderUnknownFormat(t *testing.T) {
	info, snap := hybrid(t)
	err := render(&bytes.Buffer{}, "xml", info, snap)
	assert.ErrorIs(t, err, api.ErrInvalidParameter)
}

func TestRunCPUIDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"--adapter", "cpuid", "-o", "json", "--log-level", "error"}, &buf))
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "cpuid", doc["cpu"]["adapter"])
	assert.Positive(t, doc["cpu"]["total_logical_processors"])
}

func TestRunErrors(t *testing.T) {
	err := run([]string{"--adapter", "nope"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, api.ErrInvalidParameter)
	assert.Equal(t, 2+7, exitCode(err))

	err = run([]string{"--adapter", "cpuid", "--priority", "urgent"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, api.ErrInvalidParameter)

	err = run([]string{"--adapter", "cpuid", "--pin-type", "turbo"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, api.ErrInvalidParameter)
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"--help"}, &buf))
	assert.Contains(t, buf.String(), "--metrics-addr")
}
