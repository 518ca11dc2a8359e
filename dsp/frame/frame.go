// Package frame slices longer recordings into fixed-length, hop-advanced
// analysis frames.
package frame

import "errors"

// Errors returned by framing functions.
var (
	ErrInvalidLength   = errors.New("frame: invalid frame length")
	ErrInvalidHop      = errors.New("frame: invalid hop")
	ErrIndexOutOfRange = errors.New("frame: index out of range")
)

// Config holds framing parameters.
type Config struct {
	// Length is the frame length in samples.
	Length int

	// Hop is the advance between frame starts in samples. Zero means
	// non-overlapping frames (hop = length).
	Hop int

	// PadTail appends one zero-padded frame when trailing samples remain
	// beyond the last fully covered position.
	PadTail bool
}

func normalizeConfig(cfg Config) Config {
	if cfg.Hop == 0 {
		cfg.Hop = cfg.Length
	}

	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.Length < 1 {
		return ErrInvalidLength
	}

	if cfg.Hop < 1 {
		return ErrInvalidHop
	}

	return nil
}

// Count returns the number of frames [Split] produces for n input samples.
func Count(n int, cfg Config) (int, error) {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return 0, err
	}

	if n < cfg.Length {
		if cfg.PadTail && n > 0 {
			return 1, nil
		}

		return 0, nil
	}

	count := (n-cfg.Length)/cfg.Hop + 1

	if cfg.PadTail && (count-1)*cfg.Hop+cfg.Length < n {
		count++
	}

	return count, nil
}

// At returns frame i of the signal as an independent copy of length
// cfg.Length, so downstream windowing and filtering can run in place.
// A PadTail frame is zero-filled past the end of the signal.
func At(signal []float64, i int, cfg Config) ([]float64, error) {
	cfg = normalizeConfig(cfg)

	count, err := Count(len(signal), cfg)
	if err != nil {
		return nil, err
	}

	if i < 0 || i >= count {
		return nil, ErrIndexOutOfRange
	}

	start := i * cfg.Hop
	out := make([]float64, cfg.Length)
	copy(out, signal[start:min(start+cfg.Length, len(signal))])

	return out, nil
}

// Split slices the signal into analysis frames.
func Split(signal []float64, cfg Config) ([][]float64, error) {
	cfg = normalizeConfig(cfg)

	count, err := Count(len(signal), cfg)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, count)
	for i := range out {
		f, err := At(signal, i, cfg)
		if err != nil {
			return nil, err
		}

		out[i] = f
	}

	return out, nil
}
