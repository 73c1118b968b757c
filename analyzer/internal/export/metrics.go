package export

import (
	"fmt"
	"io"
	"strconv"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/vibetrack/vibetrack/analyzer/internal/compute"
	"github.com/vibetrack/vibetrack/analyzer/internal/spectrum"
)

// Metric family names.
const (
	MetricPeak        = "vibration_peak_acceleration_mps2"
	MetricRMS         = "vibration_rms_acceleration_mps2"
	MetricCrestFactor = "vibration_crest_factor"
	MetricKurtosis    = "vibration_kurtosis"
	MetricIntensity   = "vibration_intensity_level"
	MetricResolution  = "vibration_spectrum_resolution_hz"
	MetricPeakAmp     = "vibration_dominant_frequency_amplitude"
)

// Label names.
const (
	LabelSource    = "source"
	LabelFrequency = "frequency"
	LabelIntensity = "intensity"
)

// Entry is the metrics of one analysed input.
type Entry struct {
	Source   string
	Metrics  compute.VibrationMetrics
	Spectrum spectrum.Result
}

// WriteMetrics writes the metrics of one input as Prometheus text. Every
// sample carries a source label; dominant peaks are additionally labelled
// with their frequency in Hz. The peak family is omitted when no peak was
// detected.
func WriteMetrics(w io.Writer, source string, m compute.VibrationMetrics, spec spectrum.Result) error {
	return WriteMetricsSet(w, Entry{Source: source, Metrics: m, Spectrum: spec})
}

// WriteMetricsSet writes the metrics of several inputs into one exposition,
// one family per metric with one sample per input.
func WriteMetricsSet(w io.Writer, entries ...Entry) error {
	fams := []*dto.MetricFamily{
		gaugeFamily(MetricPeak, "Maximum acceleration magnitude."),
		gaugeFamily(MetricRMS, "Overall RMS of the acceleration magnitude."),
		gaugeFamily(MetricCrestFactor, "Peak over RMS; 0 when RMS is 0."),
		gaugeFamily(MetricKurtosis, "Excess kurtosis of the acceleration magnitude."),
		gaugeFamily(MetricIntensity, "Intensity band ordinal, Very Low = 0."),
		gaugeFamily(MetricResolution, "Frequency bin spacing Fs/N."),
		gaugeFamily(MetricPeakAmp, "Amplitude of each dominant spectral peak."),
	}
	for _, e := range entries {
		for i, ms := range samples(e) {
			fams[i].Metric = append(fams[i].Metric, ms...)
		}
	}

	for _, mf := range fams {
		if len(mf.GetMetric()) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("export: metrics %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// samples returns the metrics of e, indexed like the families built by
// WriteMetricsSet.
func samples(e Entry) [][]*dto.Metric {
	src := label(LabelSource, e.Source)
	m := e.Metrics

	peaks := make([]*dto.Metric, 0, len(e.Spectrum.Peaks))
	for _, p := range e.Spectrum.Peaks {
		peaks = append(peaks, gaugeMetric(p.Amplitude, src,
			label(LabelFrequency, strconv.FormatFloat(p.Frequency, 'f', -1, 64))))
	}

	return [][]*dto.Metric{
		{gaugeMetric(m.Peak, src)},
		{gaugeMetric(m.RMS, src)},
		{gaugeMetric(m.CrestFactor, src)},
		{gaugeMetric(m.Kurtosis, src)},
		{gaugeMetric(float64(m.Intensity.Level()), src, label(LabelIntensity, m.Intensity.String()))},
		{gaugeMetric(e.Spectrum.Resolution, src)},
		peaks,
	}
}

func gaugeFamily(name, help string, metrics ...*dto.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(name),
		Help:   proto.String(help),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

func gaugeMetric(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func label(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}
