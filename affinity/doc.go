// File: affinity/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package affinity binds the calling OS thread to logical processors and sets
// its scheduling priority. Seven portable priority levels map onto
// sched_setattr on Linux, SetThreadPriority on Windows and QoS classes on
// macOS. OS refusals surface as api.ErrPermissionDenied and are never
// retried with a different value.
package affinity
