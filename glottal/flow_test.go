package glottal

import (
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestFlowSmoothsVoicedFrame(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 120, 512)

	res, err := Decompose(frame, Config{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	flow, err := Flow(frame, res)
	if err != nil {
		t.Fatalf("Flow: %v", err)
	}

	if len(flow) != len(frame) {
		t.Fatalf("flow length %d, want %d", len(flow), len(frame))
	}

	testutil.RequireFinite(t, flow)

	// Removing the tract resonances and undoing the radiation tilt
	// leaves far less sample-to-sample change than the frame carries.
	if rFrame, rFlow := roughness(frame), roughness(flow); rFlow >= rFrame {
		t.Fatalf("flow roughness %v, want below frame roughness %v", rFlow, rFrame)
	}
}

func TestFlowValidation(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 120, 64)

	res, err := Decompose(frame, Config{VocalTractOrder: 8})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	if _, err := Flow(nil, res); err == nil {
		t.Fatal("expected error for empty frame")
	}

	if _, err := Flow(frame, Result{}); err == nil {
		t.Fatal("expected error for zero-value result")
	}
}

// roughness is the first-difference energy of x relative to its total
// energy.
func roughness(x []float64) float64 {
	num, den := 0.0, 0.0

	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		num += d * d
		den += x[i] * x[i]
	}

	if den == 0 {
		return 0
	}

	return num / den
}
