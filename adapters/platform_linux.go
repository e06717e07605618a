//go:build linux
// +build linux

// File: adapters/platform_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

func nativeAdapters(cfg PlatformConfig, log *zap.Logger) []api.RawQuery {
	return []api.RawQuery{NewSysfs(cfg.SysRoot, cfg.ProcRoot, log)}
}
