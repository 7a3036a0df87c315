package codec

import (
	"math"
	"testing"
)

// S1 from spec.md §8: an all-finite 64x64 tile encodes to a single run.
func TestNaNRunsAllFinite(t *testing.T) {
	band := make([]float32, 64*64)
	runs := NaNRuns(band)
	if len(runs) != 1 || runs[0] != 4096 {
		t.Fatalf("runs = %v, want [4096]", runs)
	}
}

func TestNaNRunsMixed(t *testing.T) {
	nan := float32(math.NaN())
	band := []float32{1, 2, nan, nan, nan, 3, 4, nan}
	runs := NaNRuns(band)
	want := []int32{2, 3, 2, 1}
	if len(runs) != len(want) {
		t.Fatalf("runs = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("runs = %v, want %v", runs, want)
		}
	}
	var sum int32
	for _, r := range runs {
		sum += r
	}
	if int(sum) != len(band) {
		t.Fatalf("sum(runs) = %d, want %d", sum, len(band))
	}
}

func TestNaNRunsLeadingNaN(t *testing.T) {
	nan := float32(math.NaN())
	band := []float32{nan, nan, 1, 2}
	runs := NaNRuns(band)
	want := []int32{0, 2, 2}
	if len(runs) != len(want) {
		t.Fatalf("runs = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("runs = %v, want %v", runs, want)
		}
	}
}

func TestDecodeNaNRunsRoundTrip(t *testing.T) {
	nan := float32(math.NaN())
	band := []float32{1, 2, nan, nan, nan, 3, 4, nan}
	runs := NaNRuns(band)
	mask := DecodeNaNRuns(runs, len(band))
	for i, v := range band {
		if mask[i] != math.IsNaN(float64(v)) {
			t.Fatalf("mask[%d] = %v, want %v", i, mask[i], math.IsNaN(float64(v)))
		}
	}
}

func TestZstdCompressorRoundTrip(t *testing.T) {
	band := make([]float32, 256)
	for i := range band {
		band[i] = float32(i) * 0.5
	}
	c := ZstdCompressor{}
	block, err := c.Compress(band, 16)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := c.Decompress(block, len(band))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	for i := range band {
		if out[i] != band[i] {
			t.Fatalf("roundtrip mismatch at %d: got %v, want %v", i, out[i], band[i])
		}
	}
}
