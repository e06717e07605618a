//go:build darwin && !cgo
// +build darwin,!cgo

// File: affinity/priority_darwin_nocgo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import "github.com/momentics/hwtopo/api"

func setPriorityPlatform(api.ThreadPriority) error {
	return api.NewError(api.ErrCodeUnsupported, "thread priority requires cgo on macOS")
}
