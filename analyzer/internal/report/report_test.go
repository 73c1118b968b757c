package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vibetrack/vibetrack/analyzer/internal/compute"
	"github.com/vibetrack/vibetrack/analyzer/internal/series"
)

func gravityTable(t *testing.T, caps series.Capabilities) *series.Table {
	t.Helper()
	samples := make([]series.Sample, 5)
	for i := range samples {
		samples[i] = series.Sample{Timestamp: int64(i * 10), AccelZ: 9.8, GyroX: 0.01, Temperature: 25}
	}
	tbl, err := series.New("five.csv", samples, caps)
	if err != nil {
		t.Fatalf("series.New: %v", err)
	}
	return tbl
}

func buildFor(tbl *series.Table) *Report {
	meta := Metadata{
		Source:     tbl.Source(),
		Samples:    tbl.Len(),
		Duration:   tbl.Duration(),
		SampleRate: 100,
	}
	return Build(meta, compute.Describe(tbl), compute.Vibration(tbl))
}

const goldenGravity = `VIBRATION DATA ANALYSIS REPORT
========================================

Data File: five.csv
Samples: 5
Duration: 0.04 seconds
Sample Rate: 100 Hz

BASIC STATISTICS
--------------------
Acceleration Statistics (m/s²):
       AccelX  AccelY  AccelZ  AccelMagnitude
count   5.000   5.000   5.000           5.000
mean    0.000   0.000   9.800           9.800
std     0.000   0.000   0.000           0.000
min     0.000   0.000   9.800           9.800
25%     0.000   0.000   9.800           9.800
50%     0.000   0.000   9.800           9.800
75%     0.000   0.000   9.800           9.800
max     0.000   0.000   9.800           9.800

VIBRATION METRICS
--------------------
Peak Acceleration: 9.800 m/s²
RMS Acceleration: 9.800 m/s²
Crest Factor: 1.00
Kurtosis: 0.00
Intensity Level: Very High
`

func TestBuild_Golden(t *testing.T) {
	r := buildFor(gravityTable(t, series.Capabilities{}))
	if got := r.String(); got != goldenGravity {
		t.Errorf("report mismatch\n--- got ---\n%s\n--- want ---\n%s", got, goldenGravity)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	tbl := gravityTable(t, series.Capabilities{HasGyro: true, HasTemperature: true})
	a := buildFor(tbl).String()
	b := buildFor(tbl).String()
	if a != b {
		t.Error("two builds from the same table differ")
	}
}

func TestBuild_SectionOrder(t *testing.T) {
	text := buildFor(gravityTable(t, series.Capabilities{})).String()

	i := strings.Index(text, TitleReport)
	j := strings.Index(text, TitleStatistics)
	k := strings.Index(text, TitleMetrics)
	if i != 0 || j <= i || k <= j {
		t.Errorf("section offsets = %d, %d, %d; want 0 < stats < metrics", i, j, k)
	}
}

func TestBuild_OptionalGroups(t *testing.T) {
	plain := buildFor(gravityTable(t, series.Capabilities{})).String()
	if strings.Contains(plain, subtitleGyro) || strings.Contains(plain, subtitleTemperature) {
		t.Error("optional groups rendered for a table without them")
	}

	full := buildFor(gravityTable(t, series.Capabilities{HasGyro: true, HasTemperature: true})).String()
	for _, want := range []string{
		subtitleGyro,
		"GyroX  GyroY  GyroZ",
		subtitleTemperature,
		"Temperature",
		"25.0",
	} {
		if !strings.Contains(full, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Index(full, subtitleGyro) > strings.Index(full, TitleMetrics) {
		t.Error("gyro table rendered after the metrics section")
	}
}

func TestBuild_NaNRendering(t *testing.T) {
	nan := math.NaN()
	desc := compute.Description{Accel: []compute.ChannelStats{{
		Channel: series.AccelX,
		Stats:   compute.Stats{Count: 1, Mean: 1, Std: nan, Min: 1, Q25: 1, Q50: 1, Q75: 1, Max: 1},
	}}}
	m := compute.VibrationMetrics{Peak: 1, RMS: 1, CrestFactor: 1, Kurtosis: nan, Intensity: compute.IntensityLow}

	text := Build(Metadata{Source: "one.csv", Samples: 1, SampleRate: 100}, desc, m).String()
	if !strings.Contains(text, "std"+strings.Repeat(" ", 7)+"NaN\n") {
		t.Errorf("std row does not render NaN:\n%s", text)
	}
	if !strings.Contains(text, "Kurtosis: NaN\n") {
		t.Errorf("kurtosis line does not render NaN:\n%s", text)
	}
}

func TestBuild_SampleRateFormatting(t *testing.T) {
	for _, tc := range []struct {
		rate float64
		want string
	}{
		{100, "Sample Rate: 100 Hz\n"},
		{99.5, "Sample Rate: 99.5 Hz\n"},
		{1000, "Sample Rate: 1000 Hz\n"},
	} {
		text := Build(Metadata{SampleRate: tc.rate}, compute.Description{}, compute.VibrationMetrics{}).String()
		if !strings.Contains(text, tc.want) {
			t.Errorf("rate %v: missing %q", tc.rate, tc.want)
		}
	}
}

func TestWriteTo(t *testing.T) {
	r := buildFor(gravityTable(t, series.Capabilities{}))
	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if int(n) != len(r.String()) || buf.String() != r.String() {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, len(r.String()))
	}
}

func TestWriteFile(t *testing.T) {
	r := buildFor(gravityTable(t, series.Capabilities{}))
	path := filepath.Join(t.TempDir(), "out_analysis.txt")

	if err := WriteFile(path, r); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != r.String() {
		t.Error("file contents differ from report text")
	}
}

func TestWriteFile_BadDir(t *testing.T) {
	r := buildFor(gravityTable(t, series.Capabilities{}))
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "x.txt"), r)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestDefaultPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"vibration_data.csv", "vibration_data_analysis.txt"},
		{"/data/run1.csv", "/data/run1_analysis.txt"},
		{"noext", "noext_analysis.txt"},
		{"dir.v2/run.tar.csv", "dir.v2/run.tar_analysis.txt"},
	}
	for _, tc := range cases {
		if got := DefaultPath(tc.in); got != tc.want {
			t.Errorf("DefaultPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
