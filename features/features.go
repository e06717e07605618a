// File: features/features.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Instruction-set feature flags of the running processor. The bit layout is
// per architecture family; see the arch files for the constants.

package features

import "strings"

// FeatureSet is a bit set of instruction-set extensions. Bits outside Known
// are never set by Detect.
type FeatureSet uint32

// Detect queries the processor. It holds no state and may be called from any
// goroutine.
func Detect() FeatureSet {
	return detect() & Known
}

// Has reports whether every bit of f is set in s.
func (s FeatureSet) Has(f FeatureSet) bool {
	return f != 0 && s&f == f
}

// Names returns the names of the set bits in bit order.
func (s FeatureSet) Names() []string {
	var out []string
	for _, n := range featureNames {
		if s&n.bit != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// String joins Names with spaces, or returns "none".
func (s FeatureSet) String() string {
	names := s.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}

// Parse resolves a feature name of the running architecture.
func Parse(name string) (FeatureSet, bool) {
	for _, n := range featureNames {
		if strings.EqualFold(n.name, name) {
			return n.bit, true
		}
	}
	return 0, false
}

type featureName struct {
	bit  FeatureSet
	name string
}
