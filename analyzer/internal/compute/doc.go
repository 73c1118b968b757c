// Package compute derives scalar summaries from a series.Table.
//
// describe.go provides per-channel descriptive statistics (count, mean,
// sample standard deviation, min, quartiles, max) with the linear quantile
// interpolation spreadsheet and dataframe tools use.
//
// vibration.go provides the vibration metrics of the magnitude signal:
// peak, overall RMS, crest factor (peak/RMS, 0 when RMS is 0) and excess
// kurtosis (bias-corrected Fisher definition, 0 for a normal distribution).
//
// intensity.go maps the overall RMS to a five-band intensity label.
// Thresholds: Very Low <0.5, Low <1.0, Moderate <2.0, High <5.0, Very High.
//
// Every function is pure; nothing here returns an error.
package compute
