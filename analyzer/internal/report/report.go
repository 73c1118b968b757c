package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vibetrack/vibetrack/analyzer/internal/compute"
)

// Section titles and rules.
const (
	TitleReport     = "VIBRATION DATA ANALYSIS REPORT"
	TitleStatistics = "BASIC STATISTICS"
	TitleMetrics    = "VIBRATION METRICS"

	titleRule   = 40
	sectionRule = 20
)

// Subtitles of the statistics groups.
const (
	subtitleAccel       = "Acceleration Statistics (m/s²):"
	subtitleGyro        = "Gyroscope Statistics (rad/s):"
	subtitleTemperature = "Temperature Statistics (°C):"
)

// Metadata identifies the analysed input.
type Metadata struct {
	Source     string
	Samples    int
	Duration   float64 // seconds, last value of the time axis
	SampleRate float64 // Hz
}

// Report is a finished text report.
type Report struct {
	Metadata    Metadata
	Description compute.Description
	Metrics     compute.VibrationMetrics

	text string
}

// Build renders the report.
func Build(meta Metadata, desc compute.Description, m compute.VibrationMetrics) *Report {
	r := &Report{Metadata: meta, Description: desc, Metrics: m}
	r.text = r.render()
	return r
}

// String returns the report text.
func (r *Report) String() string { return r.text }

// WriteTo writes the report text to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.text)
	return int64(n), err
}

func (r *Report) render() string {
	var b strings.Builder

	b.WriteString(TitleReport + "\n")
	b.WriteString(strings.Repeat("=", titleRule) + "\n\n")

	fmt.Fprintf(&b, "Data File: %s\n", r.Metadata.Source)
	fmt.Fprintf(&b, "Samples: %d\n", r.Metadata.Samples)
	fmt.Fprintf(&b, "Duration: %.2f seconds\n", r.Metadata.Duration)
	fmt.Fprintf(&b, "Sample Rate: %s Hz\n\n", strconv.FormatFloat(r.Metadata.SampleRate, 'f', -1, 64))

	b.WriteString(TitleStatistics + "\n")
	b.WriteString(strings.Repeat("-", sectionRule) + "\n")
	b.WriteString(subtitleAccel + "\n")
	writeTable(&b, r.Description.Accel, 3)
	if len(r.Description.Gyro) > 0 {
		b.WriteString("\n" + subtitleGyro + "\n")
		writeTable(&b, r.Description.Gyro, 3)
	}
	if len(r.Description.Temperature) > 0 {
		b.WriteString("\n" + subtitleTemperature + "\n")
		writeTable(&b, r.Description.Temperature, 1)
	}
	b.WriteString("\n")

	m := r.Metrics
	b.WriteString(TitleMetrics + "\n")
	b.WriteString(strings.Repeat("-", sectionRule) + "\n")
	fmt.Fprintf(&b, "Peak Acceleration: %.3f m/s²\n", m.Peak)
	fmt.Fprintf(&b, "RMS Acceleration: %.3f m/s²\n", m.RMS)
	fmt.Fprintf(&b, "Crest Factor: %.2f\n", m.CrestFactor)
	fmt.Fprintf(&b, "Kurtosis: %.2f\n", m.Kurtosis)
	fmt.Fprintf(&b, "Intensity Level: %s\n", m.Intensity)

	return b.String()
}

// rowLabels are the statistic rows of a descriptive table, top to bottom.
var rowLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// writeTable renders channel statistics as a right-aligned grid: one column
// per channel, one row per statistic, values at the given precision.
func writeTable(b *strings.Builder, cols []compute.ChannelStats, precision int) {
	cells := make([][]string, len(cols))
	widths := make([]int, len(cols))
	for c, cs := range cols {
		s := cs.Stats
		vals := []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
		cells[c] = make([]string, len(vals))
		widths[c] = len(cs.Channel.String())
		for i, v := range vals {
			cells[c][i] = strconv.FormatFloat(v, 'f', precision, 64)
			widths[c] = max(widths[c], len(cells[c][i]))
		}
	}

	labelWidth := 0
	for _, l := range rowLabels {
		labelWidth = max(labelWidth, len(l))
	}

	b.WriteString(strings.Repeat(" ", labelWidth))
	for c, cs := range cols {
		fmt.Fprintf(b, "  %*s", widths[c], cs.Channel.String())
	}
	b.WriteString("\n")

	for i, l := range rowLabels {
		fmt.Fprintf(b, "%-*s", labelWidth, l)
		for c := range cols {
			fmt.Fprintf(b, "  %*s", widths[c], cells[c][i])
		}
		b.WriteString("\n")
	}
}

// DefaultPath derives the report path for an input: the input path with its
// extension replaced by "_analysis.txt".
func DefaultPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_analysis.txt"
}

// WriteFile writes r to path, replacing any existing file.
func WriteFile(path string, r *Report) error {
	if err := os.WriteFile(path, []byte(r.String()), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
