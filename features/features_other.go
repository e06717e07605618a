//go:build !amd64 && !386 && !arm64
// +build !amd64,!386,!arm64

// File: features/features_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package features

// Known is empty: no feature bits are defined for this architecture.
const Known FeatureSet = 0

var featureNames []featureName

func detect() FeatureSet { return 0 }
