package glottal

import (
	"errors"

	"github.com/cwbudde/algo-voice/dsp/conv"
	"github.com/cwbudde/algo-voice/dsp/lpc"
	"github.com/cwbudde/algo-voice/dsp/window"
)

// Default analysis parameters, chosen for speech sampled in the
// 16-48 kHz range.
const (
	DefaultVocalTractOrder = 48
	DefaultGlottisOrder    = 3
	DefaultLipRadiation    = 0.99
)

// Errors returned by parameter validation. Validation runs before any
// filtering, so a failed call produces no partial output.
var (
	ErrEmptyFrame      = errors.New("glottal: empty frame")
	ErrVocalTractOrder = errors.New("glottal: vocal-tract order below 1")
	ErrGlottisOrder    = errors.New("glottal: glottis order below 1")
	ErrLipRadiation    = errors.New("glottal: lip-radiation coefficient outside (0, 1)")
	ErrWindowLength    = errors.New("glottal: window length does not match frame length")
)

// Config holds decomposition parameters. Zero values select the defaults:
// vocal-tract order 48, glottis order 3, lip-radiation coefficient 0.99
// and a symmetric Hann window of the frame length. A lip-radiation
// coefficient of exactly 0 is outside the valid range, so the zero value
// is free to mean "default".
type Config struct {
	VocalTractOrder int
	GlottisOrder    int
	LipRadiation    float64
	Window          []float64
}

// Result holds the three filters of the source-filter decomposition.
// Every coefficient vector is monic.
type Result struct {
	VocalTract   []float64 // order VocalTractOrder
	Glottis      []float64 // order GlottisOrder
	LipRadiation []float64 // [1, -d]
}

// Analyzer decomposes speech frames with a fixed configuration.
//
// An Analyzer is not safe for concurrent use: when no explicit window is
// configured, Decompose caches the generated Hann window between calls.
// Use one Analyzer per goroutine, or the package-level [Decompose].
type Analyzer struct {
	cfg  Config
	hann []float64
}

// NewAnalyzer resolves defaults, validates the configuration and returns
// an Analyzer ready for repeated use.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &Analyzer{cfg: cfg}, nil
}

// Decompose is a one-shot decomposition of a single frame.
func Decompose(frame []float64, cfg Config) (Result, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return Result{}, err
	}

	return a.Decompose(frame)
}

// Decompose estimates the vocal-tract and glottis filters for one frame.
//
// The frame is extended by a ramp so filter-onset transients decay before
// the real samples, then integrated to cancel lip radiation. A gross
// glottal estimate exposes the vocal tract, and a fine round refits both
// filters. Degenerate frames (all zero, or losing all energy at some
// stage) do not fail; the flat predictor from the fit propagates and the
// call completes with trailing-zero coefficients.
func (a *Analyzer) Decompose(frame []float64) (Result, error) {
	if len(frame) == 0 {
		return Result{}, ErrEmptyFrame
	}

	win := a.cfg.Window

	switch {
	case win == nil:
		if len(a.hann) != len(frame) {
			a.hann = window.Generate(window.TypeHann, len(frame))
		}

		win = a.hann
	case len(win) != len(frame):
		return Result{}, ErrWindowLength
	}

	nv := a.cfg.VocalTractOrder
	ng := a.cfg.GlottisOrder
	al := []float64{1, -a.cfg.LipRadiation}

	ramp := nv + 1
	extended := preFrame(frame, ramp)

	// Leaky integration inverts the lip-radiation differentiator. The
	// plain frame feeds the first glottal fit; the ramped copy feeds
	// every cancellation pass.
	sgv := make([]float64, len(frame))
	lpc.SynthesisFilterTo(sgv, frame, al)

	xgv := make([]float64, len(extended))
	lpc.SynthesisFilterTo(xgv, extended, al)

	ag1, err := grossGlottis(sgv, xgv, win, ramp, ng)
	if err != nil {
		return Result{}, err
	}

	// Gross vocal tract, estimated once the glottal tilt is gone.
	av1, err := fitResidual(xgv, ag1, win, ramp, nv)
	if err != nil {
		return Result{}, err
	}

	// Fine glottis: a single full-order fit against the gross tract.
	ag, err := fitResidual(xgv, av1, win, ramp, ng)
	if err != nil {
		return Result{}, err
	}

	// Fine vocal tract against the fine glottis.
	av, err := fitResidual(xgv, ag, win, ramp, nv)
	if err != nil {
		return Result{}, err
	}

	return Result{VocalTract: av, Glottis: ag, LipRadiation: al}, nil
}

// grossGlottis builds the order-ng glottal estimate from ng cascaded
// first-order fits. The first fit sees the integrated frame directly;
// each further pass inverse-filters the ramped signal by the cascade so
// far and fits one more pole on what remains. Sequential single-pole
// fits stay better conditioned than one full-order fit on a signal still
// dominated by vocal-tract resonances.
func grossGlottis(sgv, xgv, win []float64, ramp, ng int) ([]float64, error) {
	cascade, err := fitWindowed(sgv, win, 1)
	if err != nil {
		return nil, err
	}

	for range ng - 1 {
		next, err := fitResidual(xgv, cascade, win, ramp, 1)
		if err != nil {
			return nil, err
		}

		cascade, err = conv.Direct(cascade, next)
		if err != nil {
			return nil, err
		}
	}

	return cascade, nil
}

// fitResidual inverse-filters the ramped signal by coeffs and drops the
// ramp samples. A prediction polynomial of the given order is then fit
// on the windowed remainder.
func fitResidual(ramped, coeffs, win []float64, ramp, order int) ([]float64, error) {
	residual := make([]float64, len(ramped))
	lpc.AnalysisFilterTo(residual, ramped, coeffs)

	return fitWindowed(residual[ramp:], win, order)
}

// fitWindowed fits a prediction polynomial on the windowed signal.
func fitWindowed(x, win []float64, order int) ([]float64, error) {
	buf, err := window.ApplyCoefficients(x, win)
	if err != nil {
		return nil, err
	}

	return lpc.Coefficients(buf, order)
}

// preFrame prepends a linear ramp of the given length running from
// -frame[0] to frame[0]. The ramp primes recursive filters so their
// onset transient decays before the first real sample; every filtering
// pass strips it again before fitting.
func preFrame(frame []float64, ramp int) []float64 {
	out := make([]float64, ramp+len(frame))

	x0 := frame[0]
	for i := range ramp {
		t := float64(i) / float64(ramp-1)
		out[i] = x0 * (2*t - 1)
	}

	copy(out[ramp:], frame)

	return out
}

func normalizeConfig(cfg Config) Config {
	if cfg.VocalTractOrder == 0 {
		cfg.VocalTractOrder = DefaultVocalTractOrder
	}

	if cfg.GlottisOrder == 0 {
		cfg.GlottisOrder = DefaultGlottisOrder
	}

	if cfg.LipRadiation == 0 {
		cfg.LipRadiation = DefaultLipRadiation
	}

	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.VocalTractOrder < 1 {
		return ErrVocalTractOrder
	}

	if cfg.GlottisOrder < 1 {
		return ErrGlottisOrder
	}

	if cfg.LipRadiation <= 0 || cfg.LipRadiation >= 1 {
		return ErrLipRadiation
	}

	return nil
}
