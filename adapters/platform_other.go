//go:build !linux && !windows && !darwin
// +build !linux,!windows,!darwin

// File: adapters/platform_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// No native adapter; the chain consists of the CPUID fallback only.

package adapters

import (
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

func nativeAdapters(PlatformConfig, *zap.Logger) []api.RawQuery {
	return nil
}
