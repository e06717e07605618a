// File: cmd/hwtopo/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
)

// envPrefix prefixes every environment variable, e.g. HWTOPO_FORMAT.
const envPrefix = "HWTOPO"

// Config is the resolved CLI configuration. Environment variables supply the
// defaults; flags override them.
type Config struct {
	Adapter     string `envconfig:"ADAPTER" default:"auto"`
	Format      string `envconfig:"FORMAT" default:"text"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`
	SysRoot     string `envconfig:"SYS_ROOT" default:"/sys"`
	ProcRoot    string `envconfig:"PROC_ROOT" default:"/proc"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	Pin      int    `ignored:"true"`
	PinType  string `ignored:"true"`
	Priority string `ignored:"true"`
	Debug    bool   `ignored:"true"`
	Help     bool   `ignored:"true"`
}

// loadConfig reads the environment, then parses args over it.
func loadConfig(args []string) (*Config, *pflag.FlagSet, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, nil, err
	}

	fs := pflag.NewFlagSet("hwtopo", pflag.ContinueOnError)
	fs.StringVar(&cfg.Adapter, "adapter", cfg.Adapter, "topology source: auto, sysfs, glpi, perflevel, cpuid")
	fs.StringVarP(&cfg.Format, "format", "o", cfg.Format, "output format: text, json, yaml")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json")
	fs.StringVar(&cfg.SysRoot, "sys-root", cfg.SysRoot, "sysfs mount point")
	fs.StringVar(&cfg.ProcRoot, "proc-root", cfg.ProcRoot, "procfs mount point")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve prometheus metrics on this address until interrupted")
	fs.IntVar(&cfg.Pin, "pin", -1, "pin the main thread to this logical processor")
	fs.StringVar(&cfg.PinType, "pin-type", "", "pin the main thread to every core of this type: performance, efficiency")
	fs.StringVar(&cfg.Priority, "priority", "", "set the main thread priority: background, lowest, belownormal, normal, abovenormal, highest, timecritical")
	fs.BoolVar(&cfg.Debug, "debug", false, "print debug probes")
	fs.BoolVarP(&cfg.Help, "help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return &cfg, fs, nil
}
