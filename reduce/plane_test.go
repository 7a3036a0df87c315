package reduce

import (
	"math"
	"testing"
)

func planeFromRows(rows [][]float64) *Plane {
	ny := len(rows)
	nx := len(rows[0])
	p := NewPlane(nx, ny)
	for y, row := range rows {
		for x, v := range row {
			p.Set(x, y, v)
		}
	}
	return p
}

func TestMinMaxIgnoresNaN(t *testing.T) {
	p := planeFromRows([][]float64{
		{1, 2, 3, math.NaN()},
		{4, math.NaN(), 5, 6},
		{math.NaN(), math.NaN(), 7, 8},
		{9, 10, math.NaN(), 11},
	})
	min, max := MinMax(p)
	if min != 1 || max != 11 {
		t.Fatalf("MinMax = (%v,%v), want (1,11)", min, max)
	}
}

func TestMinMaxAllNaN(t *testing.T) {
	p := planeFromRows([][]float64{{math.NaN(), math.NaN()}})
	min, max := MinMax(p)
	if !math.IsNaN(min) || !math.IsNaN(max) {
		t.Fatalf("MinMax(all-NaN) = (%v,%v), want (NaN,NaN)", min, max)
	}
}

// S2 from spec.md §8.
func TestHistogramS2(t *testing.T) {
	p := planeFromRows([][]float64{
		{1, 2, 3, math.NaN()},
		{4, math.NaN(), 5, 6},
		{math.NaN(), math.NaN(), 7, 8},
		{9, 10, math.NaN(), 11},
	})
	min, max := MinMax(p)
	bins := Histogram(p, min, max, 5)
	// min=1, max=11, binWidth=2: values 1-2, 3-4, 5-6 and 7-8 fill bins
	// 0-3; 9, 10 and the clamped 11 fill bin 4.
	want := []int64{2, 2, 2, 2, 3}
	if len(bins) != len(want) {
		t.Fatalf("got %d bins, want %d", len(bins), len(want))
	}
	for i := range want {
		if bins[i] != want[i] {
			t.Fatalf("bins = %v, want %v", bins, want)
		}
	}
	var sum int64
	for _, c := range bins {
		sum += c
	}
	if sum != 11 {
		t.Fatalf("sum(bins) = %d, want 11 (16 - 5 NaNs)", sum)
	}
}

func TestHistogramDegenerateRange(t *testing.T) {
	p := planeFromRows([][]float64{{5, 5}, {5, 5}})
	bins := Histogram(p, 5, 5, 4)
	if bins[0] != 4 {
		t.Fatalf("degenerate range should collapse all values into bin 0, got %v", bins)
	}
}

func TestMeanPoolIdempotentAtMip1(t *testing.T) {
	p := planeFromRows([][]float64{{1, 2}, {3, 4}})
	out := MeanPool(p, 1)
	for i := range p.Data {
		if out.Data[i] != p.Data[i] {
			t.Fatalf("MeanPool(p,1) != p at %d", i)
		}
	}
}

// S3 from spec.md §8.
func TestMeanPoolNaNBlock(t *testing.T) {
	nan := math.NaN()
	p := planeFromRows([][]float64{
		{nan, nan, 1, 1},
		{nan, nan, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	})
	out := MeanPool(p, 2)
	if out.NX != 2 || out.NY != 2 {
		t.Fatalf("shape = (%d,%d), want (2,2)", out.NX, out.NY)
	}
	if !math.IsNaN(out.At(0, 0)) {
		t.Fatalf("top-left block should be NaN, got %v", out.At(0, 0))
	}
	if out.At(1, 0) != 1 || out.At(0, 1) != 1 || out.At(1, 1) != 1 {
		t.Fatalf("remaining blocks should be 1, got %v %v %v", out.At(1, 0), out.At(0, 1), out.At(1, 1))
	}
}

func TestMeanPoolShapeLaw(t *testing.T) {
	p := NewPlane(12, 8)
	for _, mip := range []int{1, 2, 4} {
		out := MeanPool(p, mip)
		if out.NX != 12/mip || out.NY != 8/mip {
			t.Fatalf("mip %d: shape = (%d,%d), want (%d,%d)", mip, out.NX, out.NY, 12/mip, 8/mip)
		}
	}
}

func TestAutoBins(t *testing.T) {
	if AutoBins(64, 64) != 64 {
		t.Fatalf("AutoBins(64,64) = %d, want 64", AutoBins(64, 64))
	}
	if AutoBins(1, 1) != 2 {
		t.Fatalf("AutoBins(1,1) = %d, want 2 (floor at 2)", AutoBins(1, 1))
	}
}
