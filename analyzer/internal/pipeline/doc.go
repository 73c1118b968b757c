// Package pipeline runs the analysis stages for one input file or a batch.
//
// Run chains ingest, rolling RMS, descriptive statistics, vibration
// metrics, frequency analysis and report synthesis. Each stage consumes the
// previous stage's immutable output, so a Result is safe to share between
// goroutines once returned. RunBatch fans files out over a bounded worker
// pool and keeps results in input order.
package pipeline
