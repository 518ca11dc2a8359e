// Command gfmiaif decomposes speech into glottal-source and vocal-tract
// filters, frame by frame, and prints the resulting formants.
//
// Usage:
//
//	gfmiaif [flags] [file]
//
// The input is raw PCM (s16le by default, -format f64le for float64
// samples). Without a file argument the signal is read from stdin, or
// synthesized with -demo.
//
// Examples:
//
//	gfmiaif -rate 16000 vowel.raw
//	sox speech.wav -t raw -e signed -b 16 - | gfmiaif -rate 16000
//	gfmiaif -demo -formants 4
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-voice/dsp/conv"
	"github.com/cwbudde/algo-voice/dsp/frame"
	"github.com/cwbudde/algo-voice/dsp/lpc"
	"github.com/cwbudde/algo-voice/glottal"
)

const (
	// Frames quieter than this are reported as silence and skipped.
	silenceFloorDB = -90.0

	// Resonances outside these bounds are not counted as formants.
	minFormantFrequency = 90.0
	maxFormantBandwidth = 600.0
)

func main() {
	rate := flag.Float64("rate", 16000, "sample rate in Hz")
	frameLen := flag.Int("frame", 512, "frame length in samples")
	hop := flag.Int("hop", 0, "hop between frame starts in samples (0 = frame length)")
	nv := flag.Int("nv", 0, "vocal-tract filter order (0 = default 48)")
	ng := flag.Int("ng", 0, "glottis filter order (0 = default 3)")
	d := flag.Float64("d", 0, "lip-radiation coefficient in (0, 1) (0 = default 0.99)")
	format := flag.String("format", "s16le", "raw PCM sample format: s16le or f64le")
	formants := flag.Int("formants", 3, "number of vocal-tract formant columns")
	demo := flag.Bool("demo", false, "analyze one second of a synthesized vowel instead of reading input")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gfmiaif [flags] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Decomposes raw-PCM speech into glottal-source and vocal-tract filters\n")
		fmt.Fprintf(os.Stderr, "per frame and prints the glottal formant and vocal-tract formants.\n")
		fmt.Fprintf(os.Stderr, "Without a file argument the signal is read from stdin.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gfmiaif -rate 16000 vowel.raw\n")
		fmt.Fprintf(os.Stderr, "  sox speech.wav -t raw -e signed -b 16 - | gfmiaif -rate 16000\n")
		fmt.Fprintf(os.Stderr, "  gfmiaif -demo -formants 4\n")
	}
	flag.Parse()

	if *rate <= 0 {
		fmt.Fprintf(os.Stderr, "error: sample rate must be positive\n")
		os.Exit(1)
	}

	if *formants < 0 {
		fmt.Fprintf(os.Stderr, "error: formant column count must not be negative\n")
		os.Exit(1)
	}

	signal, err := loadSignal(*demo, *rate, *format, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	frames, err := frame.Split(signal, frame.Config{Length: *frameLen, Hop: *hop, PadTail: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(frames) == 0 {
		fmt.Fprintf(os.Stderr, "error: input shorter than one frame (%d samples)\n", len(signal))
		os.Exit(1)
	}

	analyzer, err := glottal.NewAnalyzer(glottal.Config{
		VocalTractOrder: *nv,
		GlottisOrder:    *ng,
		LipRadiation:    *d,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	hopSamples := *hop
	if hopSamples == 0 {
		hopSamples = *frameLen
	}

	printAnalysis(os.Stdout, analyzer, frames, *rate, hopSamples, *formants)
}

func loadSignal(demo bool, rate float64, format string, args []string) ([]float64, error) {
	if demo {
		if len(args) > 0 {
			return nil, errors.New("-demo does not take a file argument")
		}

		return demoSignal(rate, int(rate))
	}

	var (
		data []byte
		err  error
	)

	switch len(args) {
	case 0:
		data, err = io.ReadAll(os.Stdin)
	case 1:
		data, err = os.ReadFile(args[0])
	default:
		return nil, errors.New("at most one input file")
	}

	if err != nil {
		return nil, err
	}

	return decodeSamples(data, format)
}

func decodeSamples(data []byte, format string) ([]float64, error) {
	switch format {
	case "s16le":
		if len(data)%2 != 0 {
			return nil, fmt.Errorf("s16le input truncated at %d bytes", len(data))
		}

		out := make([]float64, len(data)/2)
		for i := range out {
			v := int16(binary.LittleEndian.Uint16(data[2*i:]))
			out[i] = float64(v) / 32768
		}

		return out, nil

	case "f64le":
		if len(data)%8 != 0 {
			return nil, fmt.Errorf("f64le input truncated at %d bytes", len(data))
		}

		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
		}

		return out, nil

	default:
		return nil, fmt.Errorf("unknown sample format %q (use s16le or f64le)", format)
	}
}

// demoSignal synthesizes a neutral vowel: a Rosenberg-style glottal pulse
// train through a resonator cascade, with a radiation differencer on top.
func demoSignal(rate float64, length int) ([]float64, error) {
	const f0 = 120.0

	period := rate / f0
	open := 0.4 * period
	closing := 0.16 * period

	excitation := make([]float64, length)
	for i := range excitation {
		t := math.Mod(float64(i), period)

		switch {
		case t < open:
			excitation[i] = 0.5 * (1 - math.Cos(math.Pi*t/open))
		case t < open+closing:
			excitation[i] = math.Cos(math.Pi * (t - open) / (2 * closing))
		}
	}

	tract := []float64{1}

	for _, f := range [...][2]float64{{500, 80}, {1500, 100}, {2500, 120}, {3500, 180}} {
		if f[0] >= rate/2 {
			continue
		}

		r := math.Exp(-math.Pi * f[1] / rate)
		theta := 2 * math.Pi * f[0] / rate

		section, err := conv.Direct(tract, []float64{1, -2 * r * math.Cos(theta), r * r})
		if err != nil {
			return nil, err
		}

		tract = section
	}

	voiced, err := lpc.SynthesisFilter(excitation, tract)
	if err != nil {
		return nil, err
	}

	prev := 0.0
	for i, v := range voiced {
		voiced[i] = v - 0.99*prev
		prev = v
	}

	return voiced, nil
}

func printAnalysis(w io.Writer, analyzer *glottal.Analyzer, frames [][]float64, rate float64, hop, formantCols int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "Frame\tTime [s]\tRMS [dB]\tFg [Hz]"
	rule := "-----\t--------\t--------\t-------"

	for i := range formantCols {
		header += fmt.Sprintf("\tF%d [Hz]", i+1)
		rule += "\t-------"
	}

	if _, err := fmt.Fprintln(tw, header); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	if _, err := fmt.Fprintln(tw, rule); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	blank := strings.Repeat("\t-", formantCols)

	for i, fr := range frames {
		t := float64(i*hop) / rate

		level := rmsDB(fr)
		if level < silenceFloorDB {
			if _, err := fmt.Fprintf(tw, "%d\t%.3f\t-\t-%s\n", i, t, blank); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
				return
			}

			continue
		}

		res, err := analyzer.Decompose(fr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: frame %d: %v\n", i, err)

			if _, err := fmt.Fprintf(tw, "%d\t%.3f\t%.1f\t-%s\n", i, t, level, blank); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
				return
			}

			continue
		}

		if _, err := fmt.Fprintf(tw, "%d\t%.3f\t%.1f\t%s%s\n",
			i, t, level,
			glottalFormant(res.Glottis, rate),
			tractFormants(res.VocalTract, rate, formantCols),
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}

	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

// glottalFormant reports the lowest resonance of the glottis filter, which
// the glottal flow model places below the first vocal-tract formant.
func glottalFormant(ag []float64, rate float64) string {
	rs, err := lpc.Resonances(ag, rate)
	if err != nil || len(rs) == 0 {
		return "-"
	}

	return fmt.Sprintf("%.0f", rs[0].Frequency)
}

// tractFormants formats the first formantCols vocal-tract resonances that
// look like formants. Very wide or very low resonances model spectral
// shape rather than tract resonances and are skipped.
func tractFormants(av []float64, rate float64, formantCols int) string {
	var picked []float64

	rs, err := lpc.Resonances(av, rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: formant extraction: %v\n", err)
	}

	for _, r := range rs {
		if r.Frequency < minFormantFrequency || r.Bandwidth < 0 || r.Bandwidth > maxFormantBandwidth {
			continue
		}

		picked = append(picked, r.Frequency)
	}

	var sb strings.Builder

	for i := range formantCols {
		if i < len(picked) {
			fmt.Fprintf(&sb, "\t%.0f", picked[i])
		} else {
			sb.WriteString("\t-")
		}
	}

	return sb.String()
}

func rmsDB(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}

	if sum == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(sum/float64(len(x)))
}
