package spectrum

import (
	"gonum.org/v1/gonum/dsp/window"
)

// segmentTaperAlpha is the Tukey taper fraction used for spectrogram segments.
const segmentTaperAlpha = 0.25

// hann returns a copy of x multiplied by a symmetric Hann window of len(x).
// A single sample is left unchanged.
func hann(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	if len(out) < 2 {
		return out
	}
	return window.Hann(out)
}

// periodicTukey returns the n-point periodic Tukey window: the symmetric
// window of n+1 points with its last point dropped, so consecutive segments
// tile without a doubled endpoint.
func periodicTukey(n int, alpha float64) []float64 {
	if n <= 1 {
		w := make([]float64, n)
		for i := range w {
			w[i] = 1
		}
		return w
	}
	w := make([]float64, n+1)
	for i := range w {
		w[i] = 1
	}
	w = window.Tukey{Alpha: alpha}.Transform(w)
	return w[:n]
}
