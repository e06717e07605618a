// File: features/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package features reports instruction-set extensions of the running
// processor as a FeatureSet bit mask.
package features
