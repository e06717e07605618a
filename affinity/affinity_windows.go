//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows implementation on SetThreadGroupAffinity and SetThreadPriority.

package affinity

import (
	"errors"
	"unsafe"

	"github.com/momentics/hwtopo/api"
	"golang.org/x/sys/windows"
)

var (
	modkernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadGroupAffinity = modkernel32.NewProc("SetThreadGroupAffinity")
	procSetThreadAffinityMask  = modkernel32.NewProc("SetThreadAffinityMask")
	procSetThreadPriority      = modkernel32.NewProc("SetThreadPriority")
)

// groupAffinity mirrors GROUP_AFFINITY.
type groupAffinity struct {
	Mask     uintptr
	Group    uint16
	Reserved [3]uint16
}

const groupSize = int(unsafe.Sizeof(uintptr(0))) * 8

func setAffinityPlatform(lps []int) error {
	group := lps[0] / 64
	var ga groupAffinity
	ga.Group = uint16(group)
	for _, lp := range lps {
		if lp/64 != group {
			return api.NewError(api.ErrCodeInvalidParameter, "logical processors span processor groups")
		}
		if lp%64 >= groupSize {
			return api.Errorf(api.ErrCodeInvalidParameter, "logical processor %d exceeds affinity mask width", lp)
		}
		ga.Mask |= 1 << uint(lp%64)
	}
	thread := windows.CurrentThread()

	if procSetThreadGroupAffinity.Find() == nil {
		r, _, err := procSetThreadGroupAffinity.Call(uintptr(thread), uintptr(unsafe.Pointer(&ga)), 0)
		if r == 0 {
			return mapWinErr(err, "SetThreadGroupAffinity")
		}
		return nil
	}
	if group != 0 {
		return api.NewError(api.ErrCodeUnsupported, "processor groups not supported by this Windows version")
	}
	r, _, err := procSetThreadAffinityMask.Call(uintptr(thread), ga.Mask)
	if r == 0 {
		return mapWinErr(err, "SetThreadAffinityMask")
	}
	return nil
}

func setPriorityPlatform(p api.ThreadPriority) error {
	prio := windowsPriorities[p]
	r, _, err := procSetThreadPriority.Call(uintptr(windows.CurrentThread()), uintptr(prio))
	if r == 0 {
		return mapWinErr(err, "SetThreadPriority").WithContext("priority", p.Description())
	}
	return nil
}

func mapWinErr(err error, call string) *api.Error {
	var errno windows.Errno
	if errors.As(err, &errno) {
		switch errno {
		case windows.ERROR_ACCESS_DENIED, windows.ERROR_INVALID_PARAMETER, windows.ERROR_PRIVILEGE_NOT_HELD:
			return api.Wrap(err, api.ErrCodePermissionDenied, call+" refused")
		case windows.ERROR_CALL_NOT_IMPLEMENTED, windows.ERROR_PROC_NOT_FOUND:
			return api.Wrap(err, api.ErrCodeUnsupported, call+" not available")
		}
	}
	return api.Wrap(err, api.ErrCodeInternal, call+" failed")
}
