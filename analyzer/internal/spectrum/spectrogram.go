package spectrum

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spectrogram is a time × frequency power spectral density grid.
type Spectrogram struct {
	// Times are segment centres in seconds from the first sample.
	Times []float64

	// Frequencies run from 0 to Fs/2 in steps of Fs/Segment.
	Frequencies []float64

	// Power[t][f] is the PSD of segment t at Frequencies[f], in units²/Hz.
	Power [][]float64

	// Segment is the segment length actually used.
	Segment int

	// Overlap is the number of samples shared by consecutive segments.
	Overlap int

	// Clamped is set when the signal was shorter than the requested segment.
	Clamped bool
}

// Compute estimates the spectrogram of x using segments of segment samples.
func Compute(x []float64, sampleRate float64, segment int) Spectrogram {
	sg := Spectrogram{Segment: segment}
	if len(x) == 0 || segment <= 0 {
		return sg
	}
	if segment > len(x) {
		segment = len(x)
		sg.Segment = segment
		sg.Clamped = true
	}

	overlap := segment / 8
	step := segment - overlap
	count := (len(x) - overlap) / step
	sg.Overlap = overlap

	win := periodicTukey(segment, segmentTaperAlpha)
	scale := 1 / (sampleRate * floats.Dot(win, win))

	nfreq := segment/2 + 1
	sg.Frequencies = make([]float64, nfreq)
	for k := range sg.Frequencies {
		sg.Frequencies[k] = float64(k) * sampleRate / float64(segment)
	}

	fft := fourier.NewFFT(segment)
	buf := make([]float64, segment)
	coeffs := make([]complex128, nfreq)

	sg.Times = make([]float64, count)
	sg.Power = make([][]float64, count)
	for s := 0; s < count; s++ {
		start := s * step
		seg := x[start : start+segment]

		mean := stat.Mean(seg, nil)
		for i, v := range seg {
			buf[i] = (v - mean) * win[i]
		}
		coeffs = fft.Coefficients(coeffs, buf)

		row := make([]float64, nfreq)
		for k, c := range coeffs {
			p := (real(c)*real(c) + imag(c)*imag(c)) * scale
			if k > 0 && (segment%2 == 1 || k < nfreq-1) {
				p *= 2
			}
			row[k] = p
		}

		sg.Power[s] = row
		sg.Times[s] = (float64(segment)/2 + float64(start)) / sampleRate
	}
	return sg
}
