//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux implementation on sched_setaffinity(2) and sched_setattr(2). Both
// act on the calling thread when given pid 0.

package affinity

import (
	"errors"
	"unsafe"

	"github.com/momentics/hwtopo/api"
	"golang.org/x/sys/unix"
)

// maxCPUs is the capacity of unix.CPUSet.
const maxCPUs = int(unsafe.Sizeof(unix.CPUSet{})) * 8

func setAffinityPlatform(lps []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, lp := range lps {
		if lp >= maxCPUs {
			return api.Errorf(api.ErrCodeInvalidParameter, "logical processor %d exceeds cpu set capacity", lp).
				WithContext("max", maxCPUs)
		}
		set.Set(lp)
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return mapErrno(err, "sched_setaffinity")
	}
	return nil
}

func setPriorityPlatform(p api.ThreadPriority) error {
	pol := linuxPriorities[p]
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   pol.policy,
		Nice:     pol.nice,
		Priority: pol.priority,
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		return mapErrno(err, "sched_setattr").WithContext("priority", p.Description())
	}
	return nil
}

// mapErrno classifies a syscall failure. EPERM/EACCES are missing
// privileges (CAP_SYS_NICE, RLIMIT_NICE/RTPRIO); EINVAL is the kernel
// refusing the request, e.g. a CPU outside the cgroup's cpuset.
func mapErrno(err error, call string) *api.Error {
	var errno unix.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.EPERM, unix.EACCES, unix.EINVAL:
			return api.Wrap(err, api.ErrCodePermissionDenied, call+" refused")
		case unix.ENOSYS:
			return api.Wrap(err, api.ErrCodeUnsupported, call+" not implemented by kernel")
		}
	}
	return api.Wrap(err, api.ErrCodeInternal, call+" failed")
}
