package testutil

import "math"

// Formant describes one resonance of a synthetic vocal tract.
type Formant struct {
	Frequency float64 // Hz
	Bandwidth float64 // Hz
}

// Neutral-vowel formants, safely below an 8 kHz Nyquist.
var defaultFormants = []Formant{
	{Frequency: 500, Bandwidth: 80},
	{Frequency: 1500, Bandwidth: 100},
	{Frequency: 2500, Bandwidth: 120},
	{Frequency: 3500, Bandwidth: 180},
}

// TractPolynomial builds the monic all-pole denominator for a cascade of
// two-pole resonators. Each formant maps to a conjugate pole pair with
// radius exp(-pi*bw/rate) at angle 2*pi*f/rate.
func TractPolynomial(sampleRate float64, formants []Formant) []float64 {
	a := []float64{1}
	for _, f := range formants {
		r := math.Exp(-math.Pi * f.Bandwidth / sampleRate)
		theta := 2 * math.Pi * f.Frequency / sampleRate
		a = polyMul(a, []float64{1, -2 * r * math.Cos(theta), r * r})
	}
	return a
}

// GlottalPulseTrain generates periodic Rosenberg-style glottal flow at the
// fundamental f0: a raised-cosine opening phase over 40% of each period, a
// cosine closing phase over 16%, and a closed phase for the remainder.
func GlottalPulseTrain(sampleRate, f0 float64, length int) []float64 {
	out := make([]float64, length)
	if f0 <= 0 || sampleRate <= 0 {
		return out
	}

	period := sampleRate / f0
	tp := 0.4 * period
	tn := 0.16 * period

	for i := range out {
		t := math.Mod(float64(i), period)
		switch {
		case t < tp:
			out[i] = 0.5 * (1 - math.Cos(math.Pi*t/tp))
		case t < tp+tn:
			out[i] = math.Cos(math.Pi * (t - tp) / (2 * tn))
		default:
			out[i] = 0
		}
	}

	return out
}

// VoicedFrame synthesizes one frame of voiced speech: a glottal pulse train
// driven through an all-pole vocal tract, then differenced by a leaky
// lip-radiation stage. The output is peak-normalized and deterministic.
func VoicedFrame(sampleRate, f0 float64, length int) []float64 {
	frame := GlottalPulseTrain(sampleRate, f0, length)
	allPoleInPlace(frame, TractPolynomial(sampleRate, defaultFormants))

	prev := 0.0
	for i, v := range frame {
		frame[i] = v - 0.99*prev
		prev = v
	}

	peak := 0.0
	for _, v := range frame {
		if m := math.Abs(v); m > peak {
			peak = m
		}
	}

	if peak > 0 {
		for i := range frame {
			frame[i] /= peak
		}
	}

	return frame
}

func polyMul(p, q []float64) []float64 {
	out := make([]float64, len(p)+len(q)-1)
	for i, pi := range p {
		for j, qj := range q {
			out[i+j] += pi * qj
		}
	}
	return out
}
