// File: internal/topology/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package topology builds immutable processor topology snapshots from raw
// adapter records.
package topology
