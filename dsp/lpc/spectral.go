package lpc

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/internal/polyroot"
)

// Resonance describes one complex-conjugate pole pair of a prediction
// polynomial as a resonance.
type Resonance struct {
	// Frequency is the resonance center frequency in Hz.
	Frequency float64
	// Bandwidth is the -3 dB bandwidth in Hz. Poles outside the unit
	// circle produce a negative bandwidth.
	Bandwidth float64
}

// Envelope evaluates the all-pole spectral envelope |1/A(e^jw)| of a monic
// prediction polynomial at fftSize uniformly spaced frequencies and returns
// the non-negative-frequency half (fftSize/2 + 1 bins, DC through Nyquist).
//
// fftSize must be a power of two and at least len(a).
func Envelope(a []float64, fftSize int) ([]float64, error) {
	if err := validateMonic(a); err != nil {
		return nil, err
	}
	if fftSize < len(a) || !isPowerOf2(fftSize) {
		return nil, ErrInvalidFFTSize
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("lpc: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range a {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("lpc: forward FFT failed: %w", err)
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)

	for i := range half {
		re[i] = real(freq[i])
		im[i] = imag(freq[i])
	}

	out := make([]float64, half)
	vecmath.Magnitude(out, re, im)

	for i, m := range out {
		if m == 0 {
			out[i] = math.Inf(1)
			continue
		}

		out[i] = 1 / m
	}

	return out, nil
}

// EnvelopeDB returns the spectral envelope of [Envelope] in decibels.
func EnvelopeDB(a []float64, fftSize int) ([]float64, error) {
	env, err := Envelope(a, fftSize)
	if err != nil {
		return nil, err
	}

	for i, v := range env {
		env[i] = 20 * mathLog10(v)
	}

	return env, nil
}

// Resonances extracts the resonances of a monic prediction polynomial by
// root finding. Each complex-conjugate pole pair above the real axis maps
// to one resonance:
//
//	frequency = arg(z) * rate / (2*pi)
//	bandwidth = -ln|z| * rate / pi
//
// Real poles carry no resonance and are skipped. Results are sorted by
// ascending frequency.
func Resonances(a []float64, sampleRate float64) ([]Resonance, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if err := validateMonic(a); err != nil {
		return nil, err
	}
	if len(a) < 2 {
		return nil, ErrInvalidOrder
	}

	roots, err := polyroot.Roots(a)
	if err != nil {
		return nil, fmt.Errorf("lpc: root finding failed: %w", err)
	}

	const realAxisTol = 1e-9

	out := make([]Resonance, 0, len(roots)/2)
	for _, z := range roots {
		if imag(z) <= realAxisTol {
			continue
		}

		radius := cmplx.Abs(z)
		if radius == 0 {
			continue
		}

		out = append(out, Resonance{
			Frequency: cmplx.Phase(z) * sampleRate / (2 * math.Pi),
			Bandwidth: -math.Log(radius) * sampleRate / math.Pi,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Frequency < out[j].Frequency })

	return out, nil
}
