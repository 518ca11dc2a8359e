// Package lpc provides linear-prediction analysis using the autocorrelation
// method.
//
// [Coefficients] fits a monic prediction polynomial A(z) = 1 + a1*z^-1 + ...
// + ap*z^-p to a signal frame via Levinson-Durbin recursion, following the
// coefficient convention of MATLAB's lpc: index 0 holds the leading 1. The
// prediction residual of a fit is obtained with [AnalysisFilter], and
// [SynthesisFilter] applies the corresponding all-pole model.
//
// A fitted polynomial can be mapped to frequency-domain views: [Envelope]
// evaluates the all-pole spectral envelope |1/A(e^jw)| and [Resonances]
// extracts resonance frequencies and bandwidths from the polynomial roots.
//
// Degenerate input is not an error. A frame with no energy, or an
// autocorrelation sequence that terminates the recursion early, yields the
// flat predictor [1, 0, ..., 0] so that callers can filter unconditionally.
package lpc
