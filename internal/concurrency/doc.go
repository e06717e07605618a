// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Executor runs tasks on workers that each own one OS thread pinned to one
// logical processor. Tasks wait in a single FIFO and are taken by whichever
// pinned worker is free.
package concurrency
