//go:build !fastmath

package lpc

import "math"

// mathLog10 computes log10(x) using standard library math.
func mathLog10(x float64) float64 {
	return math.Log10(x)
}

// envelopeDBFlatTol bounds how far a unit-gain envelope may sit from 0 dB
// under this build's log10.
const envelopeDBFlatTol = 1e-10
