// File: api/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread affinity and priority contract for the calling thread.

package api

// ThreadController pins and prioritizes the calling OS thread. Implementations
// lock the calling goroutine to its OS thread on success.
type ThreadController interface {
	// SetAffinity restricts the calling thread to one logical processor.
	SetAffinity(lp int) error
	// SetAffinitySet restricts the calling thread to a set of logical processors.
	SetAffinitySet(lps []int) error
	// SetPriority sets the scheduling priority of the calling thread.
	SetPriority(p ThreadPriority) error
}
