// File: facade/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package facade exposes the topology engine: a lazily built, immutable
// snapshot of sockets, cores, logical processors and caches, plus feature
// detection and thread affinity/priority control validated against it.
//
//	e, err := facade.New(facade.DefaultConfig())
//	if err != nil { ... }
//	info, err := e.CPUInfo()
//
// Default returns a process-wide engine for callers that need no
// configuration.
package facade
