package series

import (
	"fmt"
	"math"
)

// DefaultRollingWindow is the rolling RMS window in samples.
const DefaultRollingWindow = 100

// RollingRMS computes the centered rolling root-mean-square of x over window
// samples.
//
// The window for position i spans [i-window/2, i+(window-1)/2], matching a
// centered rolling window whose label sits on the middle element (on the
// right of the two middle elements for an even window). Positions where that
// span would cross either edge are NaN: partial windows are never evaluated.
// For window 100 that leaves the first 50 and the last 49 positions NaN.
func RollingRMS(x []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("series: rolling window must be positive, got %d", window)
	}
	if window > len(x) {
		return nil, fmt.Errorf("series: rolling window %d exceeds %d samples", window, len(x))
	}

	lead := window / 2
	trail := (window - 1) / 2

	out := make([]float64, len(x))
	for i := range out {
		out[i] = math.NaN()
	}

	for i := lead; i+trail < len(x); i++ {
		var sum float64
		for _, v := range x[i-lead : i+trail+1] {
			sum += v * v
		}
		out[i] = math.Sqrt(sum / float64(window))
	}
	return out, nil
}
