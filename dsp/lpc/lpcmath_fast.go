//go:build fastmath

package lpc

import (
	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10, used for log base conversions.
const ln10 = 2.302585092994045684017991454684

// mathLog10 computes log10(x) using fast approximation.
// Uses the identity: log10(x) = ln(x) / ln(10)
func mathLog10(x float64) float64 {
	return approx.FastLog(x) / ln10
}

// envelopeDBFlatTol bounds how far a unit-gain envelope may sit from 0 dB
// under this build's log10. FastLog carries roughly 1e-4 absolute error
// near 1, scaled by 20 on the dB path.
const envelopeDBFlatTol = 5e-3
