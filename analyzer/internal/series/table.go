package series

import (
	"errors"
	"math"
)

// Channel identifies one numeric column of a Table.
type Channel int

const (
	AccelX Channel = iota
	AccelY
	AccelZ
	AccelMagnitude
	GyroX
	GyroY
	GyroZ
	Temperature
)

var channelNames = map[Channel]string{
	AccelX:         "AccelX",
	AccelY:         "AccelY",
	AccelZ:         "AccelZ",
	AccelMagnitude: "AccelMagnitude",
	GyroX:          "GyroX",
	GyroY:          "GyroY",
	GyroZ:          "GyroZ",
	Temperature:    "Temperature",
}

func (c Channel) String() string {
	if n, ok := channelNames[c]; ok {
		return n
	}
	return "unknown"
}

// Sample is one sensor reading. Gyro and Temperature are meaningful only
// when the owning Table reports the matching capability.
type Sample struct {
	Timestamp int64 // milliseconds

	AccelX float64 // m/s²
	AccelY float64
	AccelZ float64

	GyroX float64 // rad/s
	GyroY float64
	GyroZ float64

	Temperature float64 // °C
}

// Capabilities records which optional channel groups the input carried.
type Capabilities struct {
	HasGyro        bool
	HasTemperature bool
}

// ErrEmpty is returned by New when no samples are supplied.
var ErrEmpty = errors.New("series: no samples")

// Table is an ordered, immutable set of Samples plus derived signals.
// Slices returned by accessors are shared; callers must not modify them.
type Table struct {
	source  string
	samples []Sample
	caps    Capabilities

	time      []float64
	magnitude []float64

	rms       []float64
	rmsWindow int
}

// New builds a Table from samples, deriving the relative time axis and the
// acceleration magnitude. The samples slice is copied.
func New(source string, samples []Sample, caps Capabilities) (*Table, error) {
	if len(samples) == 0 {
		return nil, ErrEmpty
	}

	own := make([]Sample, len(samples))
	copy(own, samples)

	t0 := own[0].Timestamp
	tm := make([]float64, len(own))
	mag := make([]float64, len(own))
	for i, s := range own {
		tm[i] = float64(s.Timestamp-t0) / 1000.0
		mag[i] = Magnitude(s.AccelX, s.AccelY, s.AccelZ)
	}

	return &Table{
		source:    source,
		samples:   own,
		caps:      caps,
		time:      tm,
		magnitude: mag,
	}, nil
}

// Magnitude returns the Euclidean norm of an acceleration vector.
func Magnitude(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

// WithRollingRMS returns a copy of t carrying the centered rolling RMS of the
// magnitude signal over window samples. See RollingRMS for the edge policy.
func (t *Table) WithRollingRMS(window int) (*Table, error) {
	rms, err := RollingRMS(t.magnitude, window)
	if err != nil {
		return nil, err
	}
	out := *t
	out.rms = rms
	out.rmsWindow = window
	return &out, nil
}

// Source is the identity of the input the table was loaded from.
func (t *Table) Source() string { return t.source }

// Len is the number of samples.
func (t *Table) Len() int { return len(t.samples) }

// Samples returns the raw samples.
func (t *Table) Samples() []Sample { return t.samples }

// HasGyro reports whether all three gyroscope channels were present.
func (t *Table) HasGyro() bool { return t.caps.HasGyro }

// HasTemperature reports whether the temperature channel was present.
func (t *Table) HasTemperature() bool { return t.caps.HasTemperature }

// Time returns seconds relative to the first sample; Time()[0] == 0.
func (t *Table) Time() []float64 { return t.time }

// Magnitude returns sqrt(x²+y²+z²) per sample.
func (t *Table) Magnitude() []float64 { return t.magnitude }

// RMS returns the rolling RMS signal, or nil when WithRollingRMS has not been
// applied. Positions without a full centered window hold NaN.
func (t *Table) RMS() []float64 { return t.rms }

// RMSWindow is the window used for RMS, 0 when absent.
func (t *Table) RMSWindow() int { return t.rmsWindow }

// Duration is the last value of the time axis in seconds.
func (t *Table) Duration() float64 { return t.time[len(t.time)-1] }

// Monotonic reports whether timestamps never decrease.
func (t *Table) Monotonic() bool {
	for i := 1; i < len(t.samples); i++ {
		if t.samples[i].Timestamp < t.samples[i-1].Timestamp {
			return false
		}
	}
	return true
}

// Channels lists the channels available in this table in report order:
// acceleration components and magnitude first, then gyro and temperature
// when present.
func (t *Table) Channels() []Channel {
	chs := []Channel{AccelX, AccelY, AccelZ, AccelMagnitude}
	if t.caps.HasGyro {
		chs = append(chs, GyroX, GyroY, GyroZ)
	}
	if t.caps.HasTemperature {
		chs = append(chs, Temperature)
	}
	return chs
}

// Column returns the values of one channel as a new slice. It returns nil
// for an optional channel the table does not carry.
func (t *Table) Column(c Channel) []float64 {
	switch c {
	case AccelMagnitude:
		out := make([]float64, len(t.magnitude))
		copy(out, t.magnitude)
		return out
	case GyroX, GyroY, GyroZ:
		if !t.caps.HasGyro {
			return nil
		}
	case Temperature:
		if !t.caps.HasTemperature {
			return nil
		}
	}

	out := make([]float64, len(t.samples))
	for i, s := range t.samples {
		switch c {
		case AccelX:
			out[i] = s.AccelX
		case AccelY:
			out[i] = s.AccelY
		case AccelZ:
			out[i] = s.AccelZ
		case GyroX:
			out[i] = s.GyroX
		case GyroY:
			out[i] = s.GyroY
		case GyroZ:
			out[i] = s.GyroZ
		case Temperature:
			out[i] = s.Temperature
		default:
			return nil
		}
	}
	return out
}
