//go:build darwin
// +build darwin

// File: affinity/affinity_darwin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// macOS has no hard thread-to-CPU binding; affinity tags are scheduler
// hints only, so pinning reports Unsupported.

package affinity

import "github.com/momentics/hwtopo/api"

func setAffinityPlatform([]int) error {
	return api.NewError(api.ErrCodeUnsupported, "thread affinity not supported on macOS")
}
