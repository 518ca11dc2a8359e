package lpc

// AnalysisFilter filters x by the prediction polynomial a, returning the
// prediction residual. The filter is causal FIR with zero initial state,
// so the output keeps the length and alignment of x.
func AnalysisFilter(x, a []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if err := validateMonic(a); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	AnalysisFilterTo(out, x, a)
	return out, nil
}

// AnalysisFilterTo writes the prediction residual of x under a to dst.
// dst must have length len(x) and may alias x.
//
// The loop runs newest-to-oldest so that in-place filtering reads each
// input sample before overwriting it.
func AnalysisFilterTo(dst, x, a []float64) {
	for n := len(x) - 1; n >= 0; n-- {
		sum := 0.0
		for k, c := range a {
			if k > n {
				break
			}

			sum += c * x[n-k]
		}

		dst[n] = sum
	}
}

// SynthesisFilter applies the all-pole filter 1/A(z) to x with zero initial
// state, returning a slice of the same length. This inverts [AnalysisFilter]
// for the same coefficient vector.
func SynthesisFilter(x, a []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if err := validateMonic(a); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	SynthesisFilterTo(out, x, a)
	return out, nil
}

// SynthesisFilterTo writes the all-pole filter output to dst. dst must have
// length len(x) and may alias x: the recursion reads output samples behind
// the write position and the input sample at it.
func SynthesisFilterTo(dst, x, a []float64) {
	for n := range x {
		sum := x[n]
		for k := 1; k < len(a); k++ {
			if k > n {
				break
			}

			sum -= a[k] * dst[n-k]
		}

		dst[n] = sum
	}
}
