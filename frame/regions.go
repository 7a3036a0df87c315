package frame

import (
	"github.com/skylark-imaging/cubeview/cverr"
	"github.com/skylark-imaging/cubeview/imagesource"
	"github.com/skylark-imaging/cubeview/region"
)

// AddOrUpdateRegion creates regionId if absent or mutates it in place if
// present, per spec.md §3's Region lifecycle. regionId == ReservedCursorID
// is rejected here; SetCursor owns region 0.
func (f *Frame) AddOrUpdateRegion(regionID int, t region.Type, points []region.ControlPoint, rotationDeg float64) error {
	if regionID == region.ReservedCursorID {
		return cverr.New(cverr.InvalidRequest, "SET_REGION", "regionId 0 is reserved for the cursor; use SET_CURSOR")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.regions[regionID]
	if !ok {
		r = region.New("", t)
		r.MaxChan = f.shape.Depth - 1
		f.regions[regionID] = r
	}
	r.Type = t
	r.SetControlPoints(points)
	r.SetRotation(rotationDeg)
	return nil
}

// SetCursor moves region 0's single control point (spec.md §4.4).
func (f *Frame) SetCursor(x, y float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cursor := f.regions[region.ReservedCursorID]
	cursor.SetControlPoints([]region.ControlPoint{{X: x, Y: y}})
	return nil
}

// RemoveRegion destroys a region other than the two reserved ids.
func (f *Frame) RemoveRegion(regionID int) error {
	if regionID == region.ReservedWholeImageID || regionID == region.ReservedCursorID {
		return cverr.New(cverr.InvalidRequest, "REMOVE_REGION", "regionId %d is reserved and cannot be removed", regionID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.regions[regionID]; !ok {
		return cverr.New(cverr.NotFound, "REMOVE_REGION", "no such region %d", regionID)
	}
	delete(f.regions, regionID)
	return nil
}

// SetHistogramRequirements records which (channel, numBins) histograms
// regionId wants computed (spec.md §4.5); does not itself compute them.
func (f *Frame) SetHistogramRequirements(regionID int, configs []region.HistogramConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.regions[regionID]
	if !ok {
		return cverr.New(cverr.NotFound, "SET_HISTOGRAM_REQUIREMENTS", "no such region %d", regionID)
	}
	r.Stats.SetHistogramConfigs(configs)
	return nil
}

// SetSpatialRequirements records which profile coordinate codes regionId
// wants extracted on the next SET_CURSOR-triggered update (spec.md §4.6).
func (f *Frame) SetSpatialRequirements(regionID int, profiles []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.regions[regionID]
	if !ok {
		return cverr.New(cverr.NotFound, "SET_SPATIAL_REQUIREMENTS", "no such region %d", regionID)
	}
	r.Profiler.SetRequirements(profiles, f.shape.Stokes, f.stokes)
	return nil
}

// RegionHistograms computes every configured histogram for regionId at
// the current (or config-resolved) channel(s)/stokes, memoized per
// spec.md §4.3.
func (f *Frame) RegionHistograms(regionID int) (int, []region.Histogram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.regions[regionID]
	if !ok {
		return 0, nil, cverr.New(cverr.NotFound, "SET_HISTOGRAM_REQUIREMENTS", "no such region %d", regionID)
	}
	plane, err := f.currentPlane()
	if err != nil {
		return 0, nil, err
	}
	var histograms []region.Histogram
	for _, cfg := range r.Stats.Configs() {
		for _, ch := range region.ResolveChannel(cfg, f.channel, f.shape.Depth) {
			chPlane := plane
			if ch != f.channel {
				whole := imagesource.Bounds{XMin: 0, YMin: 0, XMax: f.shape.Width, YMax: f.shape.Height}
				p, rerr := f.source.ReadSlice(ch, f.stokes, whole)
				if rerr != nil {
					return 0, nil, cverr.Wrap(cverr.IoError, "SET_HISTOGRAM_REQUIREMENTS", rerr, "read slice channel=%d stokes=%d", ch, f.stokes)
				}
				chPlane = p
			}
			h, herr := r.Stats.FillHistogramFast(f.source, f.shape, chPlane, ch, f.stokes, cfg.NumBins)
			if herr != nil {
				return 0, nil, herr
			}
			histograms = append(histograms, h)
		}
	}
	return f.stokes, histograms, nil
}

// SpatialProfiles extracts the cursor region's configured X/Y/Z cuts
// through the current plane at the cursor's position, plus the cursor
// value itself (spec.md §4.4, §8 S6).
func (f *Frame) SpatialProfiles() (x, y, channel, stokes int, value float64, profiles []region.SpatialProfile, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cursor := f.regions[region.ReservedCursorID]
	cx, cy := cursor.Cursor()

	plane, perr := f.currentPlane()
	if perr != nil {
		return 0, 0, 0, 0, 0, nil, perr
	}
	if cx < 0 || cx >= plane.NX || cy < 0 || cy >= plane.NY {
		return 0, 0, 0, 0, 0, nil, cverr.New(cverr.InvalidRequest, "SET_CURSOR", "cursor (%d,%d) outside current view", cx, cy)
	}

	value = plane.At(cx, cy)
	for _, req := range cursor.Profiler.Requirements() {
		if req.Axis == region.AxisZ {
			subcube, serr := f.cursorSubcube(cx, cy, req.Stokes)
			if serr != nil {
				return 0, 0, 0, 0, 0, nil, serr
			}
			profiles = append(profiles, region.ExtractSpectral(subcube, req))
			continue
		}
		profiles = append(profiles, region.ExtractSpatial(plane, req, cx, cy))
	}
	return cx, cy, f.channel, f.stokes, value, profiles, nil
}

// cursorSubcube reads the single pixel (cx,cy) at every channel for the
// given stokes index, building the per-channel Subcube spectralStats
// reduces for a Z profile (spec.md §4.3). Caller must hold f.mu.
func (f *Frame) cursorSubcube(cx, cy, stokes int) (region.Subcube, error) {
	bounds := imagesource.Bounds{XMin: cx, YMin: cy, XMax: cx + 1, YMax: cy + 1}
	subcube := make(region.Subcube, f.shape.Depth)
	for ch := 0; ch < f.shape.Depth; ch++ {
		plane, err := f.source.ReadSlice(ch, stokes, bounds)
		if err != nil {
			return nil, cverr.Wrap(cverr.IoError, "SET_CURSOR", err, "read spectral slice channel=%d stokes=%d", ch, stokes)
		}
		subcube[ch] = plane
	}
	return subcube, nil
}

// Close releases the Frame's image source and region map. The caller
// (session) is responsible for removing f from its fileId map first.
func (f *Frame) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = nil
	f.sliceCache = nil
	if closer, ok := f.source.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
