package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/vibetrack/vibetrack/analyzer/internal/series"
)

// Column names of the recorder CSV format.
const (
	ColTimestamp   = "Timestamp"
	ColAccelX      = "AccelX"
	ColAccelY      = "AccelY"
	ColAccelZ      = "AccelZ"
	ColGyroX       = "GyroX"
	ColGyroY       = "GyroY"
	ColGyroZ       = "GyroZ"
	ColTemperature = "Temperature"
)

// RequiredColumns must all be present in the header.
var RequiredColumns = []string{ColTimestamp, ColAccelX, ColAccelY, ColAccelZ}

// GyroColumns enable the gyroscope capability only when all are present.
var GyroColumns = []string{ColGyroX, ColGyroY, ColGyroZ}

// Load opens the CSV file at path and parses it. The path is used as the
// table source identity.
func Load(path string) (*series.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads a recorder CSV stream. source names the input in errors and
// becomes the table's source identity.
func Parse(r io.Reader, source string) (*series.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &EmptyInputError{Source: source}
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: read header: %w", source, err)
	}

	idx := indexHeader(header)

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	caps := series.Capabilities{HasGyro: true}
	for _, col := range GyroColumns {
		if _, ok := idx[col]; !ok {
			caps.HasGyro = false
		}
	}
	_, caps.HasTemperature = idx[ColTemperature]

	var samples []series.Sample
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: %s: %w", source, err)
		}
		line, _ := cr.FieldPos(0)

		row := rowReader{source: source, line: line, rec: rec, idx: idx}
		s := series.Sample{
			Timestamp: row.timestamp(),
			AccelX:    row.float(ColAccelX),
			AccelY:    row.float(ColAccelY),
			AccelZ:    row.float(ColAccelZ),
		}
		if caps.HasGyro {
			s.GyroX = row.float(ColGyroX)
			s.GyroY = row.float(ColGyroY)
			s.GyroZ = row.float(ColGyroZ)
		}
		if caps.HasTemperature {
			s.Temperature = row.float(ColTemperature)
		}
		if row.err != nil {
			return nil, row.err
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, &EmptyInputError{Source: source}
	}

	slog.Debug("ingest: parsed",
		"source", source,
		"samples", len(samples),
		"gyro", caps.HasGyro,
		"temperature", caps.HasTemperature,
	)

	return series.New(source, samples, caps)
}

// indexHeader maps trimmed column names to their field position. The first
// occurrence of a duplicated name wins.
func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

// rowReader extracts typed cells from one record and keeps the first error.
type rowReader struct {
	source string
	line   int
	rec    []string
	idx    map[string]int
	err    error
}

func (r *rowReader) cell(col string) string {
	return strings.TrimSpace(r.rec[r.idx[col]])
}

func (r *rowReader) fail(col, value string, err error) {
	if r.err == nil {
		r.err = &ParseError{Source: r.source, Line: r.line, Column: col, Value: value, Err: err}
	}
}

func (r *rowReader) float(col string) float64 {
	v := r.cell(col)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(col, v, err)
		return 0
	}
	return f
}

// timestamp accepts integer milliseconds, and integral floats such as
// "1500.0" written by some loggers.
func (r *rowReader) timestamp() int64 {
	v := r.cell(ColTimestamp)
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return ms
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(ColTimestamp, v, err)
		return 0
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		r.fail(ColTimestamp, v, errors.New("not an integer millisecond value"))
		return 0
	}
	return int64(f)
}
