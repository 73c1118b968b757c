// Package series holds the immutable in-memory model of one captured
// accelerometer recording.
//
// A Table is built once from parsed Samples. Construction derives the
// relative time axis (seconds since the first timestamp) and the per-sample
// acceleration magnitude; WithRollingRMS adds the centered rolling RMS signal
// and returns a new Table. Nothing in this package mutates a Table after it
// has been returned.
//
// Optional sensor channels are modelled as explicit capability flags
// (HasGyro, HasTemperature) decided at ingestion time.
package series
