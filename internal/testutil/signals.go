package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// ARProcess generates an autoregressive process: white noise with the given
// seed driven through the all-pole filter 1/A(z), where a is the monic
// coefficient vector [1, a1, ..., ap]. The filter starts from zero state.
func ARProcess(seed int64, a []float64, length int) []float64 {
	out := DeterministicNoise(seed, 1, length)
	allPoleInPlace(out, a)
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// allPoleInPlace runs the direct-form all-pole recursion
// y[n] = x[n] - sum(a[k]*y[n-k]) over buf with zero initial state.
func allPoleInPlace(buf, a []float64) {
	for n := range buf {
		for k := 1; k < len(a); k++ {
			if k > n {
				break
			}
			buf[n] -= a[k] * buf[n-k]
		}
	}
}
