package spectrum

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Defaults matching config.DefaultAnalysis.
const (
	DefaultMaxPeaks        = 10
	DefaultPeakHeightRatio = 0.1
	DefaultSegment         = 256
)

// ErrEmptySignal is returned when there is nothing to analyse.
var ErrEmptySignal = errors.New("spectrum: empty signal")

// Point is one (frequency, amplitude) pair of a spectrum.
type Point struct {
	Frequency float64 // Hz
	Amplitude float64
}

// Params controls one analysis.
type Params struct {
	// SampleRate in Hz; must be positive.
	SampleRate float64

	// MaxPeaks caps Result.Peaks. Zero means DefaultMaxPeaks.
	MaxPeaks int

	// PeakHeightRatio is the minimum peak height relative to the spectrum
	// maximum.
	PeakHeightRatio float64

	// Segment is the spectrogram segment length. Zero means DefaultSegment.
	Segment int
}

// DefaultParams returns the default parameters at the given sample rate.
func DefaultParams(sampleRate float64) Params {
	return Params{
		SampleRate:      sampleRate,
		MaxPeaks:        DefaultMaxPeaks,
		PeakHeightRatio: DefaultPeakHeightRatio,
		Segment:         DefaultSegment,
	}
}

// Result is the frequency-domain view of one signal.
type Result struct {
	SampleRate float64

	// Resolution is the bin spacing Fs/N in Hz.
	Resolution float64

	// Bins holds the non-negative frequency bins in ascending order.
	Bins []Point

	// Peaks holds the dominant frequencies in ascending frequency order.
	Peaks []Point

	Spectrogram Spectrogram
}

// Dominant returns the peak with the largest amplitude, and false when no
// peak was detected.
func (r Result) Dominant() (Point, bool) {
	if len(r.Peaks) == 0 {
		return Point{}, false
	}
	best := r.Peaks[0]
	for _, p := range r.Peaks[1:] {
		if p.Amplitude > best.Amplitude {
			best = p
		}
	}
	return best, true
}

// PeakLines renders the dominant peaks one per line, numbered from 1, as
// "1. 12.00 Hz (amplitude: 1248.750)".
func (r Result) PeakLines() []string {
	lines := make([]string, len(r.Peaks))
	for i, p := range r.Peaks {
		lines[i] = fmt.Sprintf("%d. %.2f Hz (amplitude: %.3f)", i+1, p.Frequency, p.Amplitude)
	}
	return lines
}

// Analyze computes the amplitude spectrum, its dominant peaks and the
// spectrogram of x.
func Analyze(x []float64, p Params) (Result, error) {
	if !(p.SampleRate > 0) {
		return Result{}, fmt.Errorf("spectrum: sample rate must be positive, got %g", p.SampleRate)
	}
	if len(x) == 0 {
		return Result{}, ErrEmptySignal
	}
	if p.MaxPeaks <= 0 {
		p.MaxPeaks = DefaultMaxPeaks
	}
	if p.Segment <= 0 {
		p.Segment = DefaultSegment
	}

	bins := Amplitude(x, p.SampleRate)
	res := Result{
		SampleRate:  p.SampleRate,
		Resolution:  p.SampleRate / float64(len(x)),
		Bins:        bins,
		Peaks:       DominantPeaks(bins, p.PeakHeightRatio, p.MaxPeaks),
		Spectrogram: Compute(x, p.SampleRate, p.Segment),
	}
	return res, nil
}

// Amplitude returns the Hann-windowed amplitude spectrum of x for bins
// 0 … ⌊N/2⌋-1. A single sample yields no bins.
func Amplitude(x []float64, sampleRate float64) []Point {
	n := len(x)
	half := n / 2
	if half == 0 {
		return nil
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, hann(x))

	out := make([]Point, half)
	for k := range out {
		out[k] = Point{
			Frequency: fft.Freq(k) * sampleRate,
			Amplitude: cmplx.Abs(coeffs[k]),
		}
	}
	return out
}

// DominantPeaks picks the first max local maxima of bins whose amplitude is
// at least heightRatio times the largest amplitude, in bin order.
func DominantPeaks(bins []Point, heightRatio float64, max int) []Point {
	if len(bins) == 0 {
		return nil
	}
	amps := make([]float64, len(bins))
	for i, b := range bins {
		amps[i] = b.Amplitude
	}

	idx := FindPeaks(amps, floats.Max(amps)*heightRatio)
	if len(idx) > max {
		idx = idx[:max]
	}

	out := make([]Point, len(idx))
	for i, k := range idx {
		out[i] = bins[k]
	}
	return out
}
