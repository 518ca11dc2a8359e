package testutil

import (
	"math"
	"testing"
)

func TestGlottalPulseTrain(t *testing.T) {
	flow := GlottalPulseTrain(16000, 100, 400)
	if len(flow) != 400 {
		t.Fatalf("len = %d, want 400", len(flow))
	}
	// Rosenberg flow is non-negative and bounded by 1.
	for i, v := range flow {
		if v < 0 || v > 1 {
			t.Fatalf("flow[%d] = %v out of [0,1]", i, v)
		}
	}
	// One full period at 100 Hz / 16 kHz spans 160 samples; the closed
	// phase must leave some zeros in each period.
	zeros := 0
	for _, v := range flow[:160] {
		if v == 0 {
			zeros++
		}
	}
	if zeros == 0 {
		t.Fatal("expected a closed phase within the first period")
	}
}

func TestGlottalPulseTrainInvalidF0(t *testing.T) {
	flow := GlottalPulseTrain(16000, 0, 32)
	for i, v := range flow {
		if v != 0 {
			t.Fatalf("flow[%d] = %v, want silence for f0 = 0", i, v)
		}
	}
}

func TestTractPolynomial(t *testing.T) {
	formants := []Formant{{Frequency: 500, Bandwidth: 80}, {Frequency: 1500, Bandwidth: 100}}

	a := TractPolynomial(16000, formants)
	if len(a) != 5 {
		t.Fatalf("len = %d, want 5 for two resonators", len(a))
	}
	if a[0] != 1 {
		t.Fatalf("a[0] = %v, want 1", a[0])
	}
	// The constant term is the product of squared pole radii, so a stable
	// cascade keeps it inside (0, 1).
	last := a[len(a)-1]
	if last <= 0 || last >= 1 {
		t.Fatalf("a[%d] = %v, want within (0,1)", len(a)-1, last)
	}
}

func TestVoicedFrame(t *testing.T) {
	frame := VoicedFrame(16000, 120, 512)
	if len(frame) != 512 {
		t.Fatalf("len = %d, want 512", len(frame))
	}
	RequireFinite(t, frame)

	peak := 0.0
	for _, v := range frame {
		if m := math.Abs(v); m > peak {
			peak = m
		}
	}
	if math.Abs(peak-1) > 1e-12 {
		t.Fatalf("peak = %v, want 1 after normalization", peak)
	}
}

func TestVoicedFrameReproducible(t *testing.T) {
	a := VoicedFrame(16000, 120, 256)
	b := VoicedFrame(16000, 120, 256)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}
