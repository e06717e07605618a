// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-neutral API for thread affinity and priority. Platform-specific
// implementations are located in separate files (affinity_linux.go,
// affinity_windows.go, etc.) guarded by build tags.
//
// Every call acts on the calling OS thread. On success the calling goroutine
// is locked to that thread with runtime.LockOSThread so the setting keeps
// applying to it; on failure the lock is released again.

package affinity

import (
	"runtime"

	"github.com/momentics/hwtopo/api"
)

// SetAffinity pins the calling OS thread to logical processor lp.
func SetAffinity(lp int) error {
	return SetAffinitySet([]int{lp})
}

// SetAffinitySet restricts the calling OS thread to the given logical
// processors.
func SetAffinitySet(lps []int) error {
	if len(lps) == 0 {
		return api.NewError(api.ErrCodeInvalidParameter, "empty logical processor set")
	}
	for _, lp := range lps {
		if lp < 0 {
			return api.Errorf(api.ErrCodeInvalidParameter, "negative logical processor %d", lp)
		}
	}
	runtime.LockOSThread()
	if err := setAffinityPlatform(lps); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}

// SetPriority sets the scheduling priority of the calling OS thread.
func SetPriority(p api.ThreadPriority) error {
	if !p.Valid() {
		return api.Errorf(api.ErrCodeInvalidParameter, "invalid thread priority %d", int(p))
	}
	runtime.LockOSThread()
	if err := setPriorityPlatform(p); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	return nil
}

// Controller is the api.ThreadController backed by this package.
type Controller struct{}

func (Controller) SetAffinity(lp int) error               { return SetAffinity(lp) }
func (Controller) SetAffinitySet(lps []int) error         { return SetAffinitySet(lps) }
func (Controller) SetPriority(p api.ThreadPriority) error { return SetPriority(p) }

var _ api.ThreadController = Controller{}
