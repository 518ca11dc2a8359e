package lpc

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by linear-prediction functions.
var (
	ErrEmptyInput        = errors.New("lpc: empty input")
	ErrInvalidOrder      = errors.New("lpc: invalid order")
	ErrNotMonic          = errors.New("lpc: coefficients not monic")
	ErrInvalidSampleRate = errors.New("lpc: invalid sample rate")
	ErrInvalidFFTSize    = errors.New("lpc: invalid fft size")
)

// Coefficients fits a monic prediction polynomial of the given order to x
// and returns the order+1 coefficients [1, a1, ..., ap].
//
// Degenerate frames (zero energy, early recursion termination) return the
// flat predictor with a nil error.
func Coefficients(x []float64, order int) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if order < 1 {
		return nil, ErrInvalidOrder
	}

	r, err := Autocorrelation(x, order)
	if err != nil {
		return nil, err
	}

	return Levinson(r, order)
}

// Autocorrelation returns the biased autocorrelation of x for lags
// 0..maxLag. Lags at or beyond len(x) are zero.
func Autocorrelation(x []float64, maxLag int) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if maxLag < 0 {
		return nil, ErrInvalidOrder
	}

	r := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag && lag < len(x); lag++ {
		sum := 0.0
		for i := lag; i < len(x); i++ {
			sum += x[i] * x[i-lag]
		}

		r[lag] = sum
	}

	return r, nil
}

// AutocorrelationFFT computes the same lags as [Autocorrelation] via the
// power spectrum (Wiener-Khinchin). The FFT size is padded past
// len(x)+maxLag so circular wrap-around cannot reach the requested lags.
//
// The direct form wins for the short lag counts of prediction fits; this
// path pays off when maxLag approaches len(x), as in periodicity analysis.
func AutocorrelationFFT(x []float64, maxLag int) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if maxLag < 0 {
		return nil, ErrInvalidOrder
	}

	fftSize := nextPowerOf2(len(x) + maxLag)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("lpc: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range x {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("lpc: forward FFT failed: %w", err)
	}

	re := make([]float64, fftSize)
	im := make([]float64, fftSize)
	power := make([]float64, fftSize)

	for i, c := range freq {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(power, re, im)

	for i, p := range power {
		freq[i] = complex(p, 0)
	}

	if err := plan.Inverse(padded, freq); err != nil {
		return nil, fmt.Errorf("lpc: inverse FFT failed: %w", err)
	}

	r := make([]float64, maxLag+1)
	for i := range r {
		r[i] = real(padded[i])
	}

	return r, nil
}

// Levinson solves the normal equations for the autocorrelation sequence r
// by Levinson-Durbin recursion and returns the monic coefficient vector
// [1, a1, ..., a_order]. r must hold at least order+1 lags.
//
// A sequence with r[0] <= 0 has no spectral shape to fit and yields the
// flat predictor. If the prediction error reaches zero mid-recursion, the
// recursion stops and the remaining coefficients stay zero.
func Levinson(r []float64, order int) ([]float64, error) {
	if len(r) == 0 {
		return nil, ErrEmptyInput
	}
	if order < 1 || len(r) < order+1 {
		return nil, ErrInvalidOrder
	}

	a := make([]float64, order+1)
	a[0] = 1

	if r[0] <= 0 {
		return a, nil
	}

	prev := make([]float64, order+1)
	energy := r[0]

	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc += prev[j] * r[i-j]
		}

		k := -acc / energy
		a[i] = k

		for j := 1; j < i; j++ {
			a[j] = prev[j] + k*prev[i-j]
		}

		energy *= 1 - k*k
		if energy <= 0 {
			break
		}

		copy(prev, a)
	}

	return a, nil
}

func validateMonic(a []float64) error {
	if len(a) == 0 || a[0] != 1 {
		return ErrNotMonic
	}

	return nil
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// isPowerOf2 returns true if n is a power of 2.
func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
