package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultSampleRate         = 100.0
	DefaultRollingWindow      = 100
	DefaultSpectrogramSegment = 256
	DefaultMaxPeaks           = 10
	DefaultPeakHeightRatio    = 0.1
	DefaultMQTTTopic          = "vibration/analysis"
	DefaultMQTTQoS            = 1
	DefaultConnectTimeout     = 10 * time.Second
	DefaultInboxPattern       = "*.csv"
	DefaultInboxWorkers       = 2
)

// Config is the top-level analyzer configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Analysis Analysis     `yaml:"analysis"`
	Report   ReportConfig `yaml:"report"`
	Export   ExportConfig `yaml:"export"`
	MQTT     MQTTConfig   `yaml:"mqtt"`
	Inbox    InboxConfig  `yaml:"inbox"`
}

// Analysis holds the numeric parameters of one analysis run.
type Analysis struct {
	// SampleRate is the nominal sampling rate in Hz. It only sets the
	// frequency axis; the time axis always comes from Timestamp.
	SampleRate float64 `yaml:"sample_rate"`

	// RollingWindow is the rolling RMS window in samples.
	RollingWindow int `yaml:"rolling_window"`

	// SpectrogramSegment is the spectrogram segment length in samples.
	// Inputs shorter than this use one segment spanning the whole signal.
	SpectrogramSegment int `yaml:"spectrogram_segment"`

	// MaxPeaks caps the number of dominant frequencies reported.
	MaxPeaks int `yaml:"max_peaks"`

	// PeakHeightRatio is the minimum peak height as a fraction of the
	// spectrum maximum.
	PeakHeightRatio float64 `yaml:"peak_height_ratio"`
}

// ReportConfig controls where the text report is written.
type ReportConfig struct {
	// Path is an explicit report path. Empty derives <input>_analysis.txt.
	// Ignored in inbox mode, where every input gets its derived path.
	Path string `yaml:"path"`
}

// ExportConfig enables the optional machine-readable artifacts.
type ExportConfig struct {
	// MetricsPath is a Prometheus textfile collector file.
	MetricsPath string `yaml:"metrics_path"`

	// SpectrumPath receives frequency,amplitude CSV rows.
	SpectrumPath string `yaml:"spectrum_path"`

	// SpectrogramPath receives time,frequency,power CSV rows.
	SpectrogramPath string `yaml:"spectrogram_path"`
}

// MQTTConfig configures publication of the analysis summary.
type MQTTConfig struct {
	// Broker is the broker URL (tcp://host:1883). Empty disables publishing.
	Broker string `yaml:"broker"`

	Topic string `yaml:"topic"`

	// ClientID defaults to vibetrack-<uuid> when empty.
	ClientID string `yaml:"client_id"`

	QoS byte `yaml:"qos"`

	// Retained marks the summary as the topic's retained message.
	Retained bool `yaml:"retained"`

	// UsernameEnv and PasswordEnv name environment variables holding
	// broker credentials.
	UsernameEnv string `yaml:"username_env"`
	PasswordEnv string `yaml:"password_env"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

// Username returns the broker username resolved from the environment.
func (m MQTTConfig) Username() string {
	if m.UsernameEnv == "" {
		return ""
	}
	return os.Getenv(m.UsernameEnv)
}

// Password returns the broker password resolved from the environment.
func (m MQTTConfig) Password() string {
	if m.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(m.PasswordEnv)
}

// InboxConfig configures directory watch mode.
type InboxConfig struct {
	// Dir is the watched directory. Empty disables watch mode.
	Dir string `yaml:"dir"`

	// Pattern is a filepath.Match pattern applied to file base names.
	Pattern string `yaml:"pattern"`

	// Workers bounds how many files are analyzed concurrently.
	Workers int `yaml:"workers"`

	// Settle is how long a file must stay unmodified before it is analyzed.
	Settle time.Duration `yaml:"settle"`
}

// DefaultSettle is the inbox quiet period before a file counts as complete.
const DefaultSettle = 2 * time.Second

// Load reads and parses the YAML config file at path.
// An empty path returns the defaults. Missing optional fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Analysis: DefaultAnalysis(),
		MQTT: MQTTConfig{
			Topic:          DefaultMQTTTopic,
			QoS:            DefaultMQTTQoS,
			ConnectTimeout: DefaultConnectTimeout,
		},
		Inbox: InboxConfig{
			Pattern: DefaultInboxPattern,
			Workers: DefaultInboxWorkers,
			Settle:  DefaultSettle,
		},
	}
}

// DefaultAnalysis returns the default analysis parameters.
func DefaultAnalysis() Analysis {
	return Analysis{
		SampleRate:         DefaultSampleRate,
		RollingWindow:      DefaultRollingWindow,
		SpectrogramSegment: DefaultSpectrogramSegment,
		MaxPeaks:           DefaultMaxPeaks,
		PeakHeightRatio:    DefaultPeakHeightRatio,
	}
}

// Validate checks structural constraints. Constraints that depend on the
// input (rolling window vs table length) are checked by Analysis.ValidateFor.
func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	if c.MQTT.QoS > 2 {
		return &ConfigurationError{Field: "mqtt.qos", Reason: fmt.Sprintf("must be 0, 1 or 2, got %d", c.MQTT.QoS)}
	}
	if c.MQTT.Enabled() && c.MQTT.Topic == "" {
		return &ConfigurationError{Field: "mqtt.topic", Reason: "is required when mqtt.broker is set"}
	}
	if c.MQTT.ConnectTimeout <= 0 {
		return &ConfigurationError{Field: "mqtt.connect_timeout", Reason: "must be positive"}
	}
	if c.Inbox.Workers <= 0 {
		return &ConfigurationError{Field: "inbox.workers", Reason: "must be positive"}
	}
	if c.Inbox.Settle < 0 {
		return &ConfigurationError{Field: "inbox.settle", Reason: "must not be negative"}
	}
	return nil
}

// Validate checks the input-independent analysis parameters.
func (a Analysis) Validate() error {
	if !(a.SampleRate > 0) {
		return &ConfigurationError{Field: "analysis.sample_rate", Reason: fmt.Sprintf("must be positive, got %g", a.SampleRate)}
	}
	if a.RollingWindow <= 0 {
		return &ConfigurationError{Field: "analysis.rolling_window", Reason: fmt.Sprintf("must be positive, got %d", a.RollingWindow)}
	}
	if a.SpectrogramSegment <= 0 {
		return &ConfigurationError{Field: "analysis.spectrogram_segment", Reason: fmt.Sprintf("must be positive, got %d", a.SpectrogramSegment)}
	}
	if a.MaxPeaks <= 0 {
		return &ConfigurationError{Field: "analysis.max_peaks", Reason: fmt.Sprintf("must be positive, got %d", a.MaxPeaks)}
	}
	if a.PeakHeightRatio < 0 || a.PeakHeightRatio > 1 {
		return &ConfigurationError{Field: "analysis.peak_height_ratio", Reason: fmt.Sprintf("must be within [0, 1], got %g", a.PeakHeightRatio)}
	}
	return nil
}

// ValidateFor runs Validate and additionally checks the parameters against
// an input of n samples.
func (a Analysis) ValidateFor(n int) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.RollingWindow > n {
		return &ConfigurationError{
			Field:  "analysis.rolling_window",
			Reason: fmt.Sprintf("window %d is larger than the %d-sample table", a.RollingWindow, n),
		}
	}
	return nil
}
