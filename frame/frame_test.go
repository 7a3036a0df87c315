package frame

import (
	"testing"

	"github.com/skylark-imaging/cubeview/imagesource"
	"github.com/skylark-imaging/cubeview/reduce"
	"github.com/skylark-imaging/cubeview/region"
)

// countingSource wraps a Source to count ReadSlice calls, so tests can
// assert the slice cache is or isn't consulted.
type countingSource struct {
	imagesource.Source
	reads int
}

func (c *countingSource) ReadSlice(channel, stokes int, bounds imagesource.Bounds) (*reduce.Plane, error) {
	c.reads++
	return c.Source.ReadSlice(channel, stokes, bounds)
}

func newTestFrame(t *testing.T, width, height, depth, stokes int, fn imagesource.PlaneFunc) *Frame {
	src := imagesource.NewSynthetic(width, height, depth, stokes, fn)
	f, err := Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return f
}

// S1: open a 64x64 image of value i+j, view the whole plane, expect a
// histogram whose bins sum to 4096 and firstBinCenter = 0.5*binWidth.
func TestOpenAndHistogramS1(t *testing.T) {
	f := newTestFrame(t, 64, 64, 1, 1, func(x, y, c, s int) float64 { return float64(x + y) })

	if err := f.SetView(imagesource.Bounds{XMin: 0, YMin: 0, XMax: 64, YMax: 64}, 1); err != nil {
		t.Fatalf("SetView: %v", err)
	}
	plane, err := f.GetImageData(true)
	if err != nil {
		t.Fatalf("GetImageData: %v", err)
	}
	if plane.NX != 64 || plane.NY != 64 {
		t.Fatalf("plane shape = %dx%d, want 64x64", plane.NX, plane.NY)
	}

	hist, err := f.GetHistogramForCurrentPlane()
	if err != nil {
		t.Fatalf("GetHistogramForCurrentPlane: %v", err)
	}
	var sum int64
	for _, c := range hist.Bins {
		sum += c
	}
	if sum != 4096 {
		t.Fatalf("bins.sum() = %d, want 4096", sum)
	}
	if hist.FirstBinCenter != 0.5*hist.BinWidth {
		t.Fatalf("FirstBinCenter = %v, want %v", hist.FirstBinCenter, 0.5*hist.BinWidth)
	}
}

// S4: a 4D cube with depth=3; switching channels must keep the embedded
// histogram's channel in sync with the raster's channel.
func TestChannelSwitchS4(t *testing.T) {
	f := newTestFrame(t, 8, 8, 3, 2, func(x, y, c, s int) float64 { return float64(x + y + c) })

	if err := f.SetChannels(2, 0); err != nil {
		t.Fatalf("SetChannels: %v", err)
	}
	if _, err := f.GetImageData(true); err != nil {
		t.Fatalf("GetImageData: %v", err)
	}
	hist, err := f.GetHistogramForCurrentPlane()
	if err != nil {
		t.Fatalf("GetHistogramForCurrentPlane: %v", err)
	}
	if hist.Channel != 2 {
		t.Fatalf("hist.Channel = %d, want 2", hist.Channel)
	}
	if f.Channel() != 2 {
		t.Fatalf("f.Channel() = %d, want 2", f.Channel())
	}
}

// S5: two SET_HISTOGRAM_REQUIREMENTS of the same config on region -1
// must return byte-identical bins, proving the memo isn't recomputed or
// perturbed by redundant requirement updates.
func TestHistogramMemoizationS5(t *testing.T) {
	f := newTestFrame(t, 16, 16, 1, 1, func(x, y, c, s int) float64 { return float64(x * y) })

	configs := []region.HistogramConfig{{Channel: 0, NumBins: -1}}
	if err := f.SetHistogramRequirements(region.ReservedWholeImageID, configs); err != nil {
		t.Fatalf("SetHistogramRequirements: %v", err)
	}
	_, first, err := f.RegionHistograms(region.ReservedWholeImageID)
	if err != nil {
		t.Fatalf("RegionHistograms: %v", err)
	}

	if err := f.SetHistogramRequirements(region.ReservedWholeImageID, configs); err != nil {
		t.Fatalf("SetHistogramRequirements: %v", err)
	}
	_, second, err := f.RegionHistograms(region.ReservedWholeImageID)
	if err != nil {
		t.Fatalf("RegionHistograms: %v", err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("len(first)=%d len(second)=%d, want 1 each", len(first), len(second))
	}
	if len(first[0].Bins) != len(second[0].Bins) {
		t.Fatalf("bin count mismatch: %d vs %d", len(first[0].Bins), len(second[0].Bins))
	}
	for i := range first[0].Bins {
		if first[0].Bins[i] != second[0].Bins[i] {
			t.Fatalf("bins[%d] = %d vs %d, want identical", i, first[0].Bins[i], second[0].Bins[i])
		}
	}
}

// S6: 10x10 image of value x+10y; cursor at (3,4) with x/y profiles.
func TestCursorProfileS6(t *testing.T) {
	f := newTestFrame(t, 10, 10, 1, 1, func(x, y, c, s int) float64 { return float64(x + 10*y) })

	if err := f.SetCursor(3, 4); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	if err := f.SetSpatialRequirements(region.ReservedCursorID, []string{"x", "y"}); err != nil {
		t.Fatalf("SetSpatialRequirements: %v", err)
	}

	cx, cy, _, _, value, profiles, err := f.SpatialProfiles()
	if err != nil {
		t.Fatalf("SpatialProfiles: %v", err)
	}
	if cx != 3 || cy != 4 {
		t.Fatalf("cursor = (%d,%d), want (3,4)", cx, cy)
	}
	if value != 43 {
		t.Fatalf("value = %v, want 43", value)
	}
	if len(profiles) != 2 {
		t.Fatalf("len(profiles) = %d, want 2", len(profiles))
	}

	wantX := []float64{40, 41, 42, 43, 44, 45, 46, 47, 48, 49}
	wantY := []float64{3, 13, 23, 33, 43, 53, 63, 73, 83, 93}
	for _, p := range profiles {
		switch p.Coordinate {
		case "x":
			assertEqualFloats(t, p.Values, wantX)
		case "y":
			assertEqualFloats(t, p.Values, wantY)
		default:
			t.Fatalf("unexpected coordinate %q", p.Coordinate)
		}
	}
}

// C3/C4: a 4-channel cube where value = 100*c; cursor's Z profile must
// report that channel's value at every channel, delegating to
// region.SpectralStats over a per-channel single-pixel subcube.
func TestCursorSpectralProfile(t *testing.T) {
	f := newTestFrame(t, 6, 6, 4, 1, func(x, y, c, s int) float64 { return float64(100 * c) })

	if err := f.SetCursor(2, 2); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	if err := f.SetSpatialRequirements(region.ReservedCursorID, []string{"z"}); err != nil {
		t.Fatalf("SetSpatialRequirements: %v", err)
	}

	_, _, _, _, _, profiles, err := f.SpatialProfiles()
	if err != nil {
		t.Fatalf("SpatialProfiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("len(profiles) = %d, want 1", len(profiles))
	}
	if profiles[0].Coordinate != "z" {
		t.Fatalf("Coordinate = %q, want z", profiles[0].Coordinate)
	}
	assertEqualFloats(t, profiles[0].Values, []float64{0, 100, 200, 300})
}

// spec.md §4.6: sliceCache is per plane, not per view — a SET_IMAGE_VIEW
// that only narrows bounds must not trigger a re-read, and the
// whole-image histogram must still reflect the full plane rather than
// the narrowed view.
func TestSliceCachePersistsAcrossSetView(t *testing.T) {
	base := imagesource.NewSynthetic(8, 8, 1, 1, func(x, y, c, s int) float64 { return float64(x + y) })
	src := &countingSource{Source: base}
	f, err := Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := f.GetImageData(true); err != nil {
		t.Fatalf("GetImageData: %v", err)
	}
	if src.reads != 1 {
		t.Fatalf("reads = %d, want 1", src.reads)
	}

	if err := f.SetView(imagesource.Bounds{XMin: 2, YMin: 2, XMax: 6, YMax: 6}, 1); err != nil {
		t.Fatalf("SetView: %v", err)
	}
	plane, err := f.GetImageData(true)
	if err != nil {
		t.Fatalf("GetImageData: %v", err)
	}
	if src.reads != 1 {
		t.Fatalf("SetView triggered a re-read: reads = %d, want 1", src.reads)
	}
	if plane.NX != 4 || plane.NY != 4 {
		t.Fatalf("cropped plane shape = %dx%d, want 4x4", plane.NX, plane.NY)
	}

	hist, err := f.GetHistogramForCurrentPlane()
	if err != nil {
		t.Fatalf("GetHistogramForCurrentPlane: %v", err)
	}
	var sum int64
	for _, c := range hist.Bins {
		sum += c
	}
	if sum != 64 {
		t.Fatalf("histogram sample count = %d, want 64 (whole 8x8 image, not the 4x4 view)", sum)
	}
}

func assertEqualFloats(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSetChannelsOutOfRange(t *testing.T) {
	f := newTestFrame(t, 4, 4, 2, 1, func(x, y, c, s int) float64 { return 0 })
	if err := f.SetChannels(5, 0); err == nil {
		t.Fatal("expected error for out-of-range channel")
	}
}

func TestMipTruncation(t *testing.T) {
	f := newTestFrame(t, 10, 10, 1, 1, func(x, y, c, s int) float64 { return float64(x) })
	if err := f.SetView(imagesource.Bounds{XMin: 0, YMin: 0, XMax: 10, YMax: 10}, 3); err != nil {
		t.Fatalf("SetView: %v", err)
	}
	b := f.Bounds()
	if b.Width()%3 != 0 || b.Height()%3 != 0 {
		t.Fatalf("bounds %+v not truncated to multiple of mip 3", b)
	}
}

func TestAddOrUpdateRegionRejectsCursorID(t *testing.T) {
	f := newTestFrame(t, 4, 4, 1, 1, func(x, y, c, s int) float64 { return 0 })
	if err := f.AddOrUpdateRegion(region.ReservedCursorID, region.Point, nil, 0); err == nil {
		t.Fatal("expected error using regionId 0 via AddOrUpdateRegion")
	}
}
