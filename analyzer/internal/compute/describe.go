package compute

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vibetrack/vibetrack/analyzer/internal/series"
)

// Stats is the descriptive summary of one channel.
type Stats struct {
	Count int
	Mean  float64
	Std   float64 // sample standard deviation; NaN for a single value
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// ChannelStats pairs a channel with its summary.
type ChannelStats struct {
	Channel series.Channel
	Stats   Stats
}

// Description groups the channel summaries of one table the way they are
// reported: acceleration (x, y, z, magnitude), then gyroscope and
// temperature when the table carries them.
type Description struct {
	Accel       []ChannelStats
	Gyro        []ChannelStats
	Temperature []ChannelStats
}

// Describe summarises every channel of t.
func Describe(t *series.Table) Description {
	d := Description{
		Accel: describeChannels(t, series.AccelX, series.AccelY, series.AccelZ, series.AccelMagnitude),
	}
	if t.HasGyro() {
		d.Gyro = describeChannels(t, series.GyroX, series.GyroY, series.GyroZ)
	}
	if t.HasTemperature() {
		d.Temperature = describeChannels(t, series.Temperature)
	}
	return d
}

func describeChannels(t *series.Table, chs ...series.Channel) []ChannelStats {
	out := make([]ChannelStats, 0, len(chs))
	for _, ch := range chs {
		out = append(out, ChannelStats{Channel: ch, Stats: Summarize(t.Column(ch))})
	}
	return out
}

// Summarize computes Stats for x. An empty x yields Count 0 and NaN fields.
func Summarize(x []float64) Stats {
	if len(x) == 0 {
		nan := math.NaN()
		return Stats{Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	}

	sorted := slices.Clone(x)
	slices.Sort(sorted)

	return Stats{
		Count: len(x),
		Mean:  stat.Mean(x, nil),
		Std:   stat.StdDev(x, nil),
		Min:   floats.Min(x),
		Q25:   Quantile(sorted, 0.25),
		Q50:   Quantile(sorted, 0.50),
		Q75:   Quantile(sorted, 0.75),
		Max:   floats.Max(x),
	}
}

// Quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks: h = (n-1)p, q = x[⌊h⌋] + (h-⌊h⌋)(x[⌊h⌋+1]-x[⌊h⌋]).
// sorted must be ascending and non-empty.
func Quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
