// Package glottal separates a speech frame into glottal-source and
// vocal-tract filters using glottal flow model based iterative adaptive
// inverse filtering (GFM-IAIF).
//
// [Decompose] estimates a monic vocal-tract polynomial and a monic glottis
// polynomial from one frame, together with the fixed lip-radiation
// differentiator assumed during analysis. Estimation alternates between
// the two unknowns. A gross glottal estimate, built from cascaded
// first-order fits so the spectral tilt is peeled off one pole at a time,
// exposes the vocal tract for its gross fit. The fine round then refits
// each filter against the other's latest estimate.
//
// The decomposition is a pure function of the frame and its parameters.
// Frames of a longer recording may be processed concurrently with one
// [Analyzer] per goroutine.
package glottal
