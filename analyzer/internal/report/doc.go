// Package report renders the text vibration report.
//
// Build assembles metadata, the descriptive statistics tables and the
// vibration metrics into one fixed-layout block with three sections in
// this order: VIBRATION DATA ANALYSIS REPORT (header and metadata), BASIC
// STATISTICS, VIBRATION METRICS. Frequency-domain results are not part of
// the report. Identical inputs give byte-identical text.
package report
