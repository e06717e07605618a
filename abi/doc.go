// File: abi/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package abi is a flat rendering of the engine: status codes instead of
// error values and caller-owned output structs instead of returned pointers.
// It suits bindings that export hwtopo across a foreign-function boundary.
package abi
