// Package frame implements the Frame state machine from spec.md §3/§4:
// the per-(session,fileId) object that owns an imagesource.Source, the
// current view (channel, stokes, bounds, mip), a cache of the current
// plane, and the region map. It mutates under a single mutex — Frame is
// never accessed by more than one goroutine concurrently (spec.md §9).
package frame

import (
	"sync"

	"github.com/skylark-imaging/cubeview/cverr"
	"github.com/skylark-imaging/cubeview/imagesource"
	"github.com/skylark-imaging/cubeview/reduce"
	"github.com/skylark-imaging/cubeview/region"
)

// Frame is constructed on OPEN_FILE, mutated by SET_IMAGE_CHANNELS /
// SET_IMAGE_VIEW / SET_REGION / SET_CURSOR, and destroyed on CLOSE_FILE
// or session teardown (spec.md §3).
type Frame struct {
	mu sync.Mutex

	source imagesource.Source
	shape  imagesource.Shape

	channel, stokes int
	bounds          imagesource.Bounds
	mip             int

	sliceCache *reduce.Plane // whole-image plane for (channel, stokes) whenever non-empty

	regions map[int]*region.Region
}

// Open constructs a Frame over source, truncates bounds/mip to the
// whole image at mip 1, and auto-creates region -1 covering the full
// image (spec.md §3, §4.6's "automatic whole-image region on open").
func Open(source imagesource.Source) (*Frame, error) {
	shape := source.Shape()
	if err := imagesource.ValidateShape(shape); err != nil {
		return nil, err
	}
	f := &Frame{
		source:  source,
		shape:   shape,
		channel: 0,
		stokes:  0,
		bounds:  imagesource.Bounds{XMin: 0, YMin: 0, XMax: shape.Width, YMax: shape.Height},
		mip:     1,
		regions: make(map[int]*region.Region),
	}
	f.regions[region.ReservedWholeImageID] = region.NewWholeImage(shape.Width, shape.Height, shape.Depth)
	f.regions[region.ReservedCursorID] = region.NewCursor()
	return f, nil
}

// Shape returns the opened image's extent.
func (f *Frame) Shape() imagesource.Shape {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shape
}

// truncateToMip rounds a bounds rectangle down so both extents are
// multiples of mip, per spec.md §3's invariant (policy: truncate).
func truncateToMip(b imagesource.Bounds, mip int) imagesource.Bounds {
	w := (b.Width() / mip) * mip
	h := (b.Height() / mip) * mip
	return imagesource.Bounds{XMin: b.XMin, YMin: b.YMin, XMax: b.XMin + w, YMax: b.YMin + h}
}

// SetChannels validates and applies channel/stokes, invalidating the
// slice cache (spec.md §4.4). Caller must re-fetch a plane afterward.
func (f *Frame) SetChannels(channel, stokes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if channel < 0 || channel >= f.shape.Depth {
		return cverr.New(cverr.InvalidRequest, "SET_IMAGE_CHANNELS", "channel %d out of range [0,%d)", channel, f.shape.Depth)
	}
	if stokes < 0 || stokes >= f.shape.Stokes {
		return cverr.New(cverr.InvalidRequest, "SET_IMAGE_CHANNELS", "stokes %d out of range [0,%d)", stokes, f.shape.Stokes)
	}
	f.channel, f.stokes = channel, stokes
	f.sliceCache = nil
	return nil
}

// SetView validates and applies bounds/mip/quality-unrelated geometry,
// truncating bounds to a multiple of mip (spec.md §3). sliceCache is left
// alone: it holds the whole plane at (channel, stokes), and caching is
// per plane, not per view (spec.md §4.6).
func (f *Frame) SetView(bounds imagesource.Bounds, mip int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mip < 1 {
		return cverr.New(cverr.InvalidRequest, "SET_IMAGE_VIEW", "mip must be >= 1, got %d", mip)
	}
	if err := imagesource.CheckBounds(f.shape, bounds); err != nil {
		return cverr.Wrap(cverr.InvalidRequest, "SET_IMAGE_VIEW", err, "invalid bounds")
	}
	f.bounds = truncateToMip(bounds, mip)
	f.mip = mip
	return nil
}

// Channel, Stokes, Bounds, Mip expose the current view for callers that
// build wire responses.
func (f *Frame) Channel() int { f.mu.Lock(); defer f.mu.Unlock(); return f.channel }
func (f *Frame) Stokes() int  { f.mu.Lock(); defer f.mu.Unlock(); return f.stokes }
func (f *Frame) Bounds() imagesource.Bounds {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bounds
}
func (f *Frame) Mip() int { f.mu.Lock(); defer f.mu.Unlock(); return f.mip }

// currentPlane returns the cached whole-image (channel, stokes) plane,
// reading through to source and populating the cache on a miss. It has
// exactly shape (width, height) regardless of the current view's bounds
// (spec.md §3, §4.6's "sliceCache unchanged (caching is per plane, not
// per view)"). Caller must hold f.mu.
func (f *Frame) currentPlane() (*reduce.Plane, error) {
	if f.sliceCache != nil {
		return f.sliceCache, nil
	}
	whole := imagesource.Bounds{XMin: 0, YMin: 0, XMax: f.shape.Width, YMax: f.shape.Height}
	plane, err := f.source.ReadSlice(f.channel, f.stokes, whole)
	if err != nil {
		return nil, cverr.Wrap(cverr.IoError, "SET_IMAGE_CHANNELS", err, "read slice channel=%d stokes=%d", f.channel, f.stokes)
	}
	f.sliceCache = plane
	return plane, nil
}

// GetImageData crops the cached whole-image plane to the current view's
// bounds and downsamples by the current mip. meanFilter selects MeanPool
// averaging over nearest-neighbor subsampling (spec.md §4.2 rule 3
// default is MeanPool).
func (f *Frame) GetImageData(meanFilter bool) (*reduce.Plane, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	whole, err := f.currentPlane()
	if err != nil {
		return nil, err
	}
	plane := reduce.Crop(whole, f.bounds.XMin, f.bounds.YMin, f.bounds.XMax, f.bounds.YMax)
	if f.mip <= 1 {
		return plane, nil
	}
	if meanFilter {
		return reduce.MeanPool(plane, f.mip), nil
	}
	return nearestSubsample(plane, f.mip), nil
}

// nearestSubsample picks every mip-th sample instead of averaging,
// the cheaper alternative GetImageData offers alongside MeanPool.
func nearestSubsample(p *reduce.Plane, mip int) *reduce.Plane {
	outNX := p.NX / mip
	outNY := p.NY / mip
	out := reduce.NewPlane(outNX, outNY)
	for oy := 0; oy < outNY; oy++ {
		for ox := 0; ox < outNX; ox++ {
			out.Set(ox, oy, p.At(ox*mip, oy*mip))
		}
	}
	return out
}

// GetHistogramForCurrentPlane computes (or returns the memoized) channel
// histogram for the whole-image region at the current channel/stokes,
// used to satisfy property 7: every raster embeds its matching
// histogram.
func (f *Frame) GetHistogramForCurrentPlane() (region.Histogram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plane, err := f.currentPlane()
	if err != nil {
		return region.Histogram{}, err
	}
	whole := f.regions[region.ReservedWholeImageID]
	return whole.Stats.FillHistogramFast(f.source, f.shape, plane, f.channel, f.stokes, -1)
}
