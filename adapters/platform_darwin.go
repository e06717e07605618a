//go:build darwin
// +build darwin

// File: adapters/platform_darwin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import (
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

func nativeAdapters(_ PlatformConfig, log *zap.Logger) []api.RawQuery {
	return []api.RawQuery{NewPerflevel(log)}
}
