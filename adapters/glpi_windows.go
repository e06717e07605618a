//go:build windows
// +build windows

// File: adapters/glpi_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// GetLogicalProcessorInformationEx buffer retrieval.

package adapters

import (
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	modkernel32                          = windows.NewLazySystemDLL("kernel32.dll")
	procGetLogicalProcessorInformationEx = modkernel32.NewProc("GetLogicalProcessorInformationEx")
)

// NewGLPI returns the Windows adapter backed by the live system call.
func NewGLPI(logger *zap.Logger) *GLPI {
	return &GLPI{
		Query:    queryGLPI,
		PtrSize:  int(unsafe.Sizeof(uintptr(0))),
		Identify: CPUIDIdentity,
		Logger:   logger,
	}
}

func queryGLPI() ([]byte, error) {
	if err := procGetLogicalProcessorInformationEx.Find(); err != nil {
		return nil, err
	}
	var size uint32
	r, _, err := procGetLogicalProcessorInformationEx.Call(relationAll, 0, uintptr(unsafe.Pointer(&size)))
	if r == 0 && err != windows.ERROR_INSUFFICIENT_BUFFER {
		return nil, err
	}
	if size == 0 {
		return nil, windows.ERROR_NO_DATA
	}
	// The required size can grow between calls when processors come online.
	for {
		buf := make([]byte, size)
		r, _, err = procGetLogicalProcessorInformationEx.Call(
			relationAll,
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(unsafe.Pointer(&size)),
		)
		if r != 0 {
			return buf[:size], nil
		}
		if err != windows.ERROR_INSUFFICIENT_BUFFER {
			return nil, err
		}
	}
}
