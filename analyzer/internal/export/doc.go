// Package export writes machine-readable artifacts of an analysis.
//
// metrics.go renders the vibration metrics and dominant frequencies as a
// Prometheus text exposition, suitable for the node_exporter textfile
// collector. csv.go writes the amplitude spectrum and the spectrogram as CSV
// for external plotting. WriteFile replaces a target atomically so that a
// collector never reads a half-written file.
package export
