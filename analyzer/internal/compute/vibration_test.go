package compute

import (
	"math"
	"testing"

	"github.com/vibetrack/vibetrack/analyzer/internal/series"
)

func TestVibration_ConstantGravity(t *testing.T) {
	samples := make([]series.Sample, 5)
	for i := range samples {
		samples[i] = series.Sample{Timestamp: int64(i * 10), AccelZ: 9.8}
	}
	tbl, _ := series.New("five.csv", samples, series.Capabilities{})

	m := Vibration(tbl)

	if !almostEqual(m.Peak, 9.8, 1e-9) {
		t.Errorf("Peak = %v, want 9.8", m.Peak)
	}
	if !almostEqual(m.RMS, 9.8, 1e-9) {
		t.Errorf("RMS = %v, want 9.8", m.RMS)
	}
	if !almostEqual(m.CrestFactor, 1.0, 1e-9) {
		t.Errorf("CrestFactor = %v, want 1.0", m.CrestFactor)
	}
	if m.Kurtosis != 0 {
		t.Errorf("Kurtosis = %v, want 0 for a constant signal", m.Kurtosis)
	}
	if m.Intensity != IntensityVeryHigh {
		t.Errorf("Intensity = %q, want %q", m.Intensity, IntensityVeryHigh)
	}
}

func TestVibrationOf_ZeroSignal(t *testing.T) {
	m := VibrationOf(make([]float64, 10))
	if m.RMS != 0 {
		t.Errorf("RMS = %v, want 0", m.RMS)
	}
	if m.CrestFactor != 0 {
		t.Errorf("CrestFactor = %v, want 0 when RMS is 0", m.CrestFactor)
	}
	if m.Intensity != IntensityVeryLow {
		t.Errorf("Intensity = %q, want %q", m.Intensity, IntensityVeryLow)
	}
}

func TestVibrationOf_CrestFactorIsPeakOverRMS(t *testing.T) {
	mag := []float64{0.2, 0.4, 3.0, 0.1, 0.3}
	m := VibrationOf(mag)

	var sq float64
	for _, v := range mag {
		sq += v * v
	}
	wantRMS := math.Sqrt(sq / float64(len(mag)))
	if !almostEqual(m.RMS, wantRMS, 1e-12) {
		t.Errorf("RMS = %v, want %v", m.RMS, wantRMS)
	}
	if !almostEqual(m.CrestFactor, 3.0/wantRMS, 1e-12) {
		t.Errorf("CrestFactor = %v, want %v", m.CrestFactor, 3.0/wantRMS)
	}
	if m.Peak != 3.0 {
		t.Errorf("Peak = %v, want 3", m.Peak)
	}
}

func TestVibrationOf_Empty(t *testing.T) {
	m := VibrationOf(nil)
	if m.Peak != 0 || m.RMS != 0 || m.CrestFactor != 0 || !math.IsNaN(m.Kurtosis) {
		t.Errorf("VibrationOf(nil) = %+v", m)
	}
}

func TestKurtosis(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"uniform ramp", []float64{1, 2, 3, 4, 5}, -1.2},
		{"single outlier", []float64{1, 1, 1, 10}, 4.0},
		{"constant", []float64{2, 2, 2, 2, 2, 2}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Kurtosis(tc.x); !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("Kurtosis(%v) = %v, want %v", tc.x, got, tc.want)
			}
		})
	}
}

func TestKurtosis_TooFewSamples(t *testing.T) {
	for n := 0; n < 4; n++ {
		x := make([]float64, n)
		for i := range x {
			x[i] = float64(i)
		}
		if got := Kurtosis(x); !math.IsNaN(got) {
			t.Errorf("Kurtosis(n=%d) = %v, want NaN", n, got)
		}
	}
}
