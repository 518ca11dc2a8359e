package glottal

import "github.com/cwbudde/algo-voice/dsp/lpc"

// Flow reconstructs the glottal-flow estimate for a frame from its
// decomposition. The vocal-tract contribution is inverse-filtered out of
// the frame and the lip-radiation differentiation is undone by leaky
// integration, leaving the source waveform the model attributes to the
// glottis.
func Flow(frame []float64, res Result) ([]float64, error) {
	residual, err := lpc.AnalysisFilter(frame, res.VocalTract)
	if err != nil {
		return nil, err
	}

	return lpc.SynthesisFilter(residual, res.LipRadiation)
}
