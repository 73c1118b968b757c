package spectrum

import (
	"math"
	"testing"
)

func TestCompute_SegmentLayout(t *testing.T) {
	sg := Compute(sine(1000, 10, 1, 0, 100), 100, 256)

	if sg.Clamped {
		t.Error("Clamped = true for a signal longer than the segment")
	}
	if sg.Segment != 256 || sg.Overlap != 32 {
		t.Errorf("Segment/Overlap = %d/%d, want 256/32", sg.Segment, sg.Overlap)
	}
	// (1000 - 32) / 224 = 4 segments.
	if len(sg.Times) != 4 || len(sg.Power) != 4 {
		t.Fatalf("segments = %d/%d, want 4", len(sg.Times), len(sg.Power))
	}
	wantTimes := []float64{1.28, 3.52, 5.76, 8.00}
	for i, want := range wantTimes {
		if !almostEqual(sg.Times[i], want, 1e-9) {
			t.Errorf("Times[%d] = %v, want %v", i, sg.Times[i], want)
		}
	}
	if len(sg.Frequencies) != 129 {
		t.Fatalf("len(Frequencies) = %d, want 129", len(sg.Frequencies))
	}
	if sg.Frequencies[0] != 0 || !almostEqual(sg.Frequencies[128], 50, 1e-9) {
		t.Errorf("frequency span = [%v, %v], want [0, 50]", sg.Frequencies[0], sg.Frequencies[128])
	}
	for _, row := range sg.Power {
		if len(row) != len(sg.Frequencies) {
			t.Fatalf("row length %d, want %d", len(row), len(sg.Frequencies))
		}
	}
}

func TestCompute_PowerPeaksAtToneFrequency(t *testing.T) {
	fs := 100.0
	sg := Compute(sine(2048, 12.5, 1, 9.8, fs), fs, 256)

	for s, row := range sg.Power {
		best := 0
		for k, p := range row {
			if p < 0 || math.IsNaN(p) {
				t.Fatalf("segment %d bin %d power = %v", s, k, p)
			}
			if p > row[best] {
				best = k
			}
		}
		if !almostEqual(sg.Frequencies[best], 12.5, fs/256) {
			t.Errorf("segment %d peak at %v Hz, want 12.5", s, sg.Frequencies[best])
		}
		// Mean removal: the gravity offset must not dominate DC.
		if row[0] > row[best]*1e-3 {
			t.Errorf("segment %d DC power %v not removed", s, row[0])
		}
	}
}

func TestCompute_DensityIntegratesToVariance(t *testing.T) {
	// For a tone with an integer number of cycles per segment, the summed
	// one-sided PSD times the bin width recovers the signal power A²/2
	// scaled by the window's coherent loss, which for density scaling is 1.
	fs, amp := 256.0, 2.0
	sg := Compute(sine(256, 32, amp, 0, fs), fs, 256)
	if len(sg.Power) != 1 {
		t.Fatalf("segments = %d, want 1", len(sg.Power))
	}
	var total float64
	for _, p := range sg.Power[0] {
		total += p
	}
	total *= fs / 256
	want := amp * amp / 2
	if !almostEqual(total, want, want*0.05) {
		t.Errorf("integrated power = %v, want ≈ %v", total, want)
	}
}

func TestCompute_ClampsShortSignal(t *testing.T) {
	sg := Compute(sine(100, 10, 1, 0, 100), 100, 256)

	if !sg.Clamped {
		t.Error("Clamped = false for a 100-sample signal")
	}
	if sg.Segment != 100 {
		t.Errorf("Segment = %d, want 100", sg.Segment)
	}
	if len(sg.Times) != 1 {
		t.Fatalf("segments = %d, want 1", len(sg.Times))
	}
	if !almostEqual(sg.Times[0], 0.5, 1e-12) {
		t.Errorf("Times[0] = %v, want 0.5", sg.Times[0])
	}
	if len(sg.Frequencies) != 51 {
		t.Errorf("len(Frequencies) = %d, want 51", len(sg.Frequencies))
	}
}

func TestCompute_Tiny(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		x := make([]float64, n)
		for i := range x {
			x[i] = float64(i)
		}
		sg := Compute(x, 100, 256)
		if len(sg.Power) != 1 {
			t.Errorf("n=%d: segments = %d, want 1", n, len(sg.Power))
		}
		for _, row := range sg.Power {
			for k, p := range row {
				if math.IsNaN(p) || math.IsInf(p, 0) {
					t.Errorf("n=%d bin %d power = %v", n, k, p)
				}
			}
		}
	}
	if sg := Compute(nil, 100, 256); len(sg.Power) != 0 {
		t.Errorf("empty signal produced %d segments", len(sg.Power))
	}
}
