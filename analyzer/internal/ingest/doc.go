// Package ingest parses recorder CSV files into a series.Table.
//
// Required columns are Timestamp, AccelX, AccelY and AccelZ; a missing one
// yields a *SchemaError naming every absent column. GyroX, GyroY and GyroZ
// are optional as a group: all three must be present for the gyroscope
// capability to be enabled. Temperature is optional on its own. Extra
// columns are ignored and column order is free.
//
// Load failures are typed so callers can tell them apart with errors.As:
// *SchemaError, *EmptyInputError (no header or no data rows) and
// *ParseError (a cell that is not a number).
package ingest
