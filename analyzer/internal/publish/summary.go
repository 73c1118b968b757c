package publish

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vibetrack/vibetrack/analyzer/internal/pipeline"
)

// Summary is the JSON payload published for one analysed input. Metrics
// that are undefined for the input (NaN) are encoded as null.
type Summary struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	Samples         int     `json:"samples"`
	DurationSeconds float64 `json:"duration_s"`
	SampleRate      float64 `json:"sample_rate_hz"`

	Peak           *float64 `json:"peak_mps2"`
	RMS            *float64 `json:"rms_mps2"`
	CrestFactor    *float64 `json:"crest_factor"`
	Kurtosis       *float64 `json:"kurtosis"`
	Intensity      string   `json:"intensity"`
	IntensityLevel int      `json:"intensity_level"`

	Peaks []Peak `json:"peaks"`
}

// Peak is one dominant frequency of the amplitude spectrum.
type Peak struct {
	Frequency float64 `json:"frequency_hz"`
	Amplitude float64 `json:"amplitude"`
}

// NewSummary builds the payload for r, stamped with a fresh message id and
// the current time.
func NewSummary(r *pipeline.Result) Summary {
	m := r.Metrics
	s := Summary{
		ID:              uuid.NewString(),
		Source:          r.Source(),
		AnalyzedAt:      time.Now().UTC(),
		Samples:         r.Table.Len(),
		DurationSeconds: r.Table.Duration(),
		SampleRate:      r.Spectrum.SampleRate,
		Peak:            finite(m.Peak),
		RMS:             finite(m.RMS),
		CrestFactor:     finite(m.CrestFactor),
		Kurtosis:        finite(m.Kurtosis),
		Intensity:       m.Intensity.String(),
		IntensityLevel:  m.Intensity.Level(),
		Peaks:           make([]Peak, 0, len(r.Spectrum.Peaks)),
	}
	for _, p := range r.Spectrum.Peaks {
		s.Peaks = append(s.Peaks, Peak{Frequency: p.Frequency, Amplitude: p.Amplitude})
	}
	return s
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
