package compute

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vibetrack/vibetrack/analyzer/internal/series"
)

// fpZero is the magnitude below which accumulated moments are treated as
// exact zeros, so a constant signal reports kurtosis 0 rather than noise.
const fpZero = 1e-14

// VibrationMetrics is the scalar vibration summary of one recording.
type VibrationMetrics struct {
	Peak        float64 // max magnitude, m/s²
	RMS         float64 // sqrt(mean(magnitude²)) over the whole signal, m/s²
	CrestFactor float64 // Peak/RMS, 0 when RMS is 0
	Kurtosis    float64 // excess kurtosis; NaN below 4 samples
	Intensity   Intensity
}

// Vibration computes the vibration metrics of t's magnitude signal.
func Vibration(t *series.Table) VibrationMetrics {
	return VibrationOf(t.Magnitude())
}

// VibrationOf computes the vibration metrics of a magnitude signal.
// An empty signal yields zero peak/RMS/crest and NaN kurtosis.
func VibrationOf(mag []float64) VibrationMetrics {
	if len(mag) == 0 {
		return VibrationMetrics{Kurtosis: math.NaN(), Intensity: ClassifyIntensity(0)}
	}

	peak := floats.Max(mag)
	rms := math.Sqrt(floats.Dot(mag, mag) / float64(len(mag)))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return VibrationMetrics{
		Peak:        peak,
		RMS:         rms,
		CrestFactor: crest,
		Kurtosis:    Kurtosis(mag),
		Intensity:   ClassifyIntensity(rms),
	}
}

// Kurtosis returns the bias-corrected excess kurtosis of x:
//
//	n(n+1)(n-1)·m4 / ((n-2)(n-3)·m2²) − 3(n-1)² / ((n-2)(n-3))
//
// where m2 and m4 are the summed second and fourth central moments.
// Fewer than four values give NaN; a zero-variance signal gives 0.
func Kurtosis(x []float64) float64 {
	n := float64(len(x))
	if len(x) < 4 {
		return math.NaN()
	}

	mean := stat.Mean(x, nil)
	var m2 float64
	for _, v := range x {
		d := v - mean
		m2 += d * d
	}
	if math.Abs(m2) < fpZero || (n-2)*(n-3)*m2*m2 < fpZero {
		return 0
	}
	return stat.ExKurtosis(x, nil)
}
