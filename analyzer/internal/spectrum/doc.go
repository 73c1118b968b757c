// Package spectrum performs the frequency-domain analysis of an acceleration
// magnitude signal.
//
// Analyze tapers the whole signal with a symmetric Hann window, takes its
// discrete Fourier transform and keeps the first ⌊N/2⌋ bins (DC up to, but
// excluding, the folded Nyquist bin), each bin k at k·Fs/N Hz with the
// absolute value of its coefficient as amplitude. Dominant frequencies are the
// local maxima of that amplitude spectrum at or above a fraction of its
// global maximum, listed in frequency order and capped in count.
//
// Spectrogram estimates power spectral density over successive overlapping
// segments of the raw (untapered) signal: periodic Tukey(0.25) window, 1/8
// segment overlap, per-segment mean removal, one-sided density scaling. When
// the signal is shorter than the segment length the segment is clamped to
// the signal, giving a single column with coarser frequency resolution.
//
// Everything here is pure. Power values are linear; converting to dB for
// display is left to the consumer.
package spectrum
