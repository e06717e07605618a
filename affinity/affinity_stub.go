//go:build !linux && !windows && !darwin
// +build !linux,!windows,!darwin

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Stub implementation for unsupported platforms.

package affinity

import "github.com/momentics/hwtopo/api"

func setAffinityPlatform([]int) error {
	return api.NewError(api.ErrCodeUnsupported, "thread affinity not supported on this platform")
}

func setPriorityPlatform(api.ThreadPriority) error {
	return api.NewError(api.ErrCodeUnsupported, "thread priority not supported on this platform")
}
