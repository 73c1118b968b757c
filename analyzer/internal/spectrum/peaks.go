package spectrum

// FindPeaks returns the indices of local maxima in x whose value is at least
// minHeight. A peak must be strictly greater than its left neighbour and
// strictly greater than the first differing value on its right; for a flat
// top the middle index (rounded down) is reported. The first and last
// elements are never peaks. Indices are ascending.
func FindPeaks(x []float64, minHeight float64) []int {
	var peaks []int
	last := len(x) - 1

	for i := 1; i < last; i++ {
		if !(x[i-1] < x[i]) {
			continue
		}
		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			mid := (i + ahead - 1) / 2
			if x[mid] >= minHeight {
				peaks = append(peaks, mid)
			}
			i = ahead
		}
	}
	return peaks
}
