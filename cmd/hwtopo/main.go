// File: cmd/hwtopo/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// hwtopo prints the processor topology of the running machine: sockets,
// cores, logical processors, caches, core types and instruction-set
// features. It can also pin or reprioritize its own main thread and serve
// the topology as prometheus metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/control"
	"github.com/momentics/hwtopo/facade"
	"github.com/momentics/hwtopo/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps engine error codes to process exit statuses.
func exitCode(err error) int {
	code := api.CodeOf(err)
	if code == api.ErrCodeInternal {
		return 1
	}
	return 2 - int(code)
}

func run(args []string, stdout io.Writer) error {
	cfg, fs, err := loadConfig(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if cfg.Help {
		fmt.Fprintf(stdout, "Usage: hwtopo [flags]\n\n%s", fs.FlagUsages())
		return nil
	}

	var reg *prometheus.Registry
	if cfg.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	logCfg := logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Output: os.Stderr}
	if reg != nil {
		logCfg.Registerer = reg
	}
	log, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	engineCfg := &facade.Config{
		AdapterName: cfg.Adapter,
		SysRoot:     cfg.SysRoot,
		ProcRoot:    cfg.ProcRoot,
		Logger:      log,
	}
	if reg != nil {
		engineCfg.Registerer = reg
	}
	engine, err := facade.New(engineCfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	info, err := engine.CPUInfo()
	if err != nil {
		return err
	}
	snap, err := engine.Snapshot()
	if err != nil {
		return err
	}

	if err := applyThreadControl(engine, cfg, log); err != nil {
		return err
	}
	if err := render(stdout, cfg.Format, info, snap); err != nil {
		return err
	}
	if cfg.Debug {
		dp := control.NewDebugProbes()
		control.RegisterTopologyProbes(dp, engine)
		control.RegisterPlatformProbes(dp)
		if err := yaml.NewEncoder(stdout).Encode(map[string]any{"debug": dp.DumpState()}); err != nil {
			return err
		}
	}
	if reg != nil {
		return serveMetrics(cfg.MetricsAddr, reg, log)
	}
	return nil
}

func applyThreadControl(e *facade.Engine, cfg *Config, log *zap.Logger) error {
	if cfg.Pin >= 0 {
		if err := e.PinThreadToCore(cfg.Pin); err != nil {
			return err
		}
		log.Info("main thread pinned", zap.Int("lp", cfg.Pin))
	}
	if cfg.PinType != "" {
		t, err := parseCoreType(cfg.PinType)
		if err != nil {
			return err
		}
		if err := e.PinThreadToCoreType(t); err != nil {
			return err
		}
		log.Info("main thread pinned", zap.Stringer("type", t))
	}
	if cfg.Priority != "" {
		p, err := api.ParseThreadPriority(cfg.Priority)
		if err != nil {
			return err
		}
		if err := e.SetThreadPriority(p); err != nil {
			return err
		}
		log.Info("main thread priority set", zap.Stringer("priority", p))
	}
	return nil
}

func parseCoreType(s string) (api.CoreType, error) {
	for _, t := range []api.CoreType{api.CorePerformance, api.CoreEfficiency, api.CoreUnknown} {
		if strings.EqualFold(t.Description(), s) {
			return t, nil
		}
	}
	return api.CoreUnknown, api.Errorf(api.ErrCodeInvalidParameter, "unknown core type %q", s)
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("serving metrics", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
