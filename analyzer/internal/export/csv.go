package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vibetrack/vibetrack/analyzer/internal/spectrum"
)

// WriteSpectrum writes the amplitude spectrum as frequency,amplitude rows.
func WriteSpectrum(w io.Writer, spec spectrum.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frequency", "amplitude"}); err != nil {
		return fmt.Errorf("export: spectrum: %w", err)
	}
	for _, b := range spec.Bins {
		if err := cw.Write([]string{formatFloat(b.Frequency), formatFloat(b.Amplitude)}); err != nil {
			return fmt.Errorf("export: spectrum: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: spectrum: %w", err)
	}
	return nil
}

// WriteSpectrogram writes the spectrogram in long form, one
// time,frequency,power row per cell, time-major.
func WriteSpectrogram(w io.Writer, sg spectrum.Spectrogram) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "frequency", "power"}); err != nil {
		return fmt.Errorf("export: spectrogram: %w", err)
	}
	for ti, row := range sg.Power {
		t := formatFloat(sg.Times[ti])
		for fi, p := range row {
			if err := cw.Write([]string{t, formatFloat(sg.Frequencies[fi]), formatFloat(p)}); err != nil {
				return fmt.Errorf("export: spectrogram: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: spectrogram: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteFile runs write against a temporary file next to path and renames it
// over path once write succeeds.
func WriteFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}
