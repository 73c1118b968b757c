package compute

// Intensity is the ordinal vibration intensity band of an overall RMS value.
type Intensity string

// Intensity bands, lowest first.
const (
	IntensityVeryLow  Intensity = "Very Low"
	IntensityLow      Intensity = "Low"
	IntensityModerate Intensity = "Moderate"
	IntensityHigh     Intensity = "High"
	IntensityVeryHigh Intensity = "Very High"
)

// Lower RMS bounds (m/s²) of each band above Very Low. Fixed domain
// constants; not configurable.
const (
	ThresholdLow      = 0.5
	ThresholdModerate = 1.0
	ThresholdHigh     = 2.0
	ThresholdVeryHigh = 5.0
)

var intensityOrder = []Intensity{
	IntensityVeryLow,
	IntensityLow,
	IntensityModerate,
	IntensityHigh,
	IntensityVeryHigh,
}

// ClassifyIntensity maps an overall RMS value to its band.
func ClassifyIntensity(rms float64) Intensity {
	switch {
	case rms < ThresholdLow:
		return IntensityVeryLow
	case rms < ThresholdModerate:
		return IntensityLow
	case rms < ThresholdHigh:
		return IntensityModerate
	case rms < ThresholdVeryHigh:
		return IntensityHigh
	default:
		return IntensityVeryHigh
	}
}

// Level is the 0-based ordinal of the band (Very Low = 0), or -1 for an
// unknown label.
func (i Intensity) Level() int {
	for n, v := range intensityOrder {
		if v == i {
			return n
		}
	}
	return -1
}

func (i Intensity) String() string { return string(i) }
