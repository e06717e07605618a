//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows-specific debug introspection points.

package control

import (
	"runtime"

	"golang.org/x/sys/windows"
)

var procGetActiveProcessorGroupCount = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetActiveProcessorGroupCount")

// RegisterPlatformProbes sets Windows-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.processor_groups", func() any {
		if err := procGetActiveProcessorGroupCount.Find(); err != nil {
			return 1
		}
		n, _, _ := procGetActiveProcessorGroupCount.Call()
		return int(uint16(n))
	})
}
