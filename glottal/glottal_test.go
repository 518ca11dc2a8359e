package glottal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/dsp/lpc"
	"github.com/cwbudde/algo-voice/dsp/window"
	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestDecomposeVoicedFrameDefaults(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 120, 512)

	res, err := Decompose(frame, Config{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	if len(res.VocalTract) != DefaultVocalTractOrder+1 {
		t.Fatalf("vocal tract length %d, want %d", len(res.VocalTract), DefaultVocalTractOrder+1)
	}

	if len(res.Glottis) != DefaultGlottisOrder+1 {
		t.Fatalf("glottis length %d, want %d", len(res.Glottis), DefaultGlottisOrder+1)
	}

	testutil.RequireMonic(t, res.VocalTract)
	testutil.RequireMonic(t, res.Glottis)
	testutil.RequireFinite(t, res.VocalTract)
	testutil.RequireFinite(t, res.Glottis)

	testutil.RequireSliceNearlyEqual(t, res.LipRadiation, []float64{1, -DefaultLipRadiation}, 0)
}

func TestDecomposeLengthsAcrossOrders(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 100, 400)

	tests := []struct {
		name string
		nv   int
		ng   int
	}{
		{"minimal", 1, 1},
		{"low", 8, 2},
		{"typical", 24, 3},
		{"high", 48, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decompose(frame, Config{VocalTractOrder: tt.nv, GlottisOrder: tt.ng})
			if err != nil {
				t.Fatalf("Decompose: %v", err)
			}

			if len(res.VocalTract) != tt.nv+1 {
				t.Fatalf("vocal tract length %d, want %d", len(res.VocalTract), tt.nv+1)
			}

			if len(res.Glottis) != tt.ng+1 {
				t.Fatalf("glottis length %d, want %d", len(res.Glottis), tt.ng+1)
			}

			testutil.RequireMonic(t, res.VocalTract)
			testutil.RequireMonic(t, res.Glottis)
			testutil.RequireFinite(t, res.VocalTract)
			testutil.RequireFinite(t, res.Glottis)
		})
	}
}

func TestGrossGlottisOrderOneIsSingleFit(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 120, 256)
	win := window.Generate(window.TypeHann, len(frame))
	al := []float64{1, -0.99}
	ramp := 9

	sgv, err := lpc.SynthesisFilter(frame, al)
	if err != nil {
		t.Fatalf("SynthesisFilter: %v", err)
	}

	xgv, err := lpc.SynthesisFilter(preFrame(frame, ramp), al)
	if err != nil {
		t.Fatalf("SynthesisFilter: %v", err)
	}

	got, err := grossGlottis(sgv, xgv, win, ramp, 1)
	if err != nil {
		t.Fatalf("grossGlottis: %v", err)
	}

	want, err := fitWindowed(sgv, win, 1)
	if err != nil {
		t.Fatalf("fitWindowed: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestGrossGlottisCascadeOrder(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 120, 256)
	win := window.Generate(window.TypeHann, len(frame))
	al := []float64{1, -0.99}
	ramp := 9

	sgv, err := lpc.SynthesisFilter(frame, al)
	if err != nil {
		t.Fatalf("SynthesisFilter: %v", err)
	}

	xgv, err := lpc.SynthesisFilter(preFrame(frame, ramp), al)
	if err != nil {
		t.Fatalf("SynthesisFilter: %v", err)
	}

	for _, ng := range []int{1, 2, 3, 4} {
		cascade, err := grossGlottis(sgv, xgv, win, ramp, ng)
		if err != nil {
			t.Fatalf("grossGlottis ng=%d: %v", ng, err)
		}

		if len(cascade) != ng+1 {
			t.Fatalf("cascade length %d, want %d", len(cascade), ng+1)
		}

		testutil.RequireMonic(t, cascade)
	}
}

func TestDecomposeZeroFrame(t *testing.T) {
	res, err := Decompose(make([]float64, 256), Config{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	wantTract := make([]float64, DefaultVocalTractOrder+1)
	wantTract[0] = 1
	testutil.RequireSliceNearlyEqual(t, res.VocalTract, wantTract, 0)

	wantGlottis := make([]float64, DefaultGlottisOrder+1)
	wantGlottis[0] = 1
	testutil.RequireSliceNearlyEqual(t, res.Glottis, wantGlottis, 0)
}

func TestPreFrameRamp(t *testing.T) {
	frame := []float64{0.8, -0.2, 0.5, 0.1}
	nv := 6
	ramp := nv + 1

	ext := preFrame(frame, ramp)

	if len(ext) != len(frame)+nv+1 {
		t.Fatalf("extended length %d, want %d", len(ext), len(frame)+nv+1)
	}

	if ext[0] != -frame[0] {
		t.Fatalf("ramp start %v, want %v", ext[0], -frame[0])
	}

	if ext[nv] != frame[0] {
		t.Fatalf("ramp end %v, want %v", ext[nv], frame[0])
	}

	step := ext[1] - ext[0]
	for i := 2; i < ramp; i++ {
		if d := ext[i] - ext[i-1]; math.Abs(d-step) > 1e-12 {
			t.Fatalf("ramp step at %d: %v, want %v", i, d, step)
		}
	}

	for i, v := range frame {
		if ext[ramp+i] != v {
			t.Fatalf("frame sample %d: %v, want %v", i, ext[ramp+i], v)
		}
	}
}

func TestDecomposeRecoverKnownTract(t *testing.T) {
	// A single formant at a quarter of the sample rate keeps the lag-1
	// correlation of the process near zero, so the single-pole glottal
	// stage has nothing to fit and the vocal-tract estimate should land
	// on the synthesis polynomial.
	truth := testutil.TractPolynomial(16000, []testutil.Formant{
		{Frequency: 4000, Bandwidth: 200},
	})

	frame := testutil.ARProcess(7, truth, 8192)

	cfg := Config{
		VocalTractOrder: len(truth) - 1,
		GlottisOrder:    1,
		LipRadiation:    0.01,
		Window:          testutil.Ones(len(frame)),
	}

	res, err := Decompose(frame, cfg)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, res.VocalTract, truth, 0.05)
}

func TestDecomposeDeterministic(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 120, 512)

	first, err := Decompose(frame, Config{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	second, err := Decompose(frame, Config{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, second.VocalTract, first.VocalTract, 0)
	testutil.RequireSliceNearlyEqual(t, second.Glottis, first.Glottis, 0)
	testutil.RequireSliceNearlyEqual(t, second.LipRadiation, first.LipRadiation, 0)
}

func TestAnalyzerWindowCacheAcrossLengths(t *testing.T) {
	a, err := NewAnalyzer(Config{})
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	short := testutil.VoicedFrame(16000, 120, 256)
	long := testutil.VoicedFrame(16000, 120, 320)

	if _, err := a.Decompose(short); err != nil {
		t.Fatalf("Decompose short: %v", err)
	}

	if _, err := a.Decompose(long); err != nil {
		t.Fatalf("Decompose long: %v", err)
	}

	again, err := a.Decompose(short)
	if err != nil {
		t.Fatalf("Decompose short again: %v", err)
	}

	fresh, err := Decompose(short, Config{})
	if err != nil {
		t.Fatalf("Decompose fresh: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, again.VocalTract, fresh.VocalTract, 0)
	testutil.RequireSliceNearlyEqual(t, again.Glottis, fresh.Glottis, 0)
}

func TestDecomposeValidation(t *testing.T) {
	frame := testutil.VoicedFrame(16000, 120, 64)

	tests := []struct {
		name  string
		frame []float64
		cfg   Config
		want  error
	}{
		{"empty frame", nil, Config{}, ErrEmptyFrame},
		{"negative vocal-tract order", frame, Config{VocalTractOrder: -1}, ErrVocalTractOrder},
		{"negative glottis order", frame, Config{GlottisOrder: -3}, ErrGlottisOrder},
		{"lip radiation at one", frame, Config{LipRadiation: 1}, ErrLipRadiation},
		{"lip radiation negative", frame, Config{LipRadiation: -0.5}, ErrLipRadiation},
		{"window length mismatch", frame, Config{Window: make([]float64, 63)}, ErrWindowLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decompose(tt.frame, tt.cfg); !errors.Is(err, tt.want) {
				t.Fatalf("Decompose error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewAnalyzerRejectsBadConfig(t *testing.T) {
	if _, err := NewAnalyzer(Config{LipRadiation: 2}); !errors.Is(err, ErrLipRadiation) {
		t.Fatalf("NewAnalyzer error %v, want %v", err, ErrLipRadiation)
	}
}
