package region

import (
	"github.com/skylark-imaging/cubeview/reduce"
)

// Axis is the profile direction: X/Y cut the current plane, Z walks the
// spectral dimension (spec.md §4.4).
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ProfileReq is one accepted (axis, stokes) pair parsed from a
// coordinate code such as "x", "Ux", "z".
type ProfileReq struct {
	Code   string
	Axis   Axis
	Stokes int
}

// Profiler parses coordinate code strings into ProfileReqs and extracts
// the corresponding 1D cuts, following RegionProfiler.cc's grammar:
//
//	code := stokesChar axisChar | axisChar
//	axisChar := 'x' | 'y' | 'z'
//	stokesChar := 'I' | 'Q' | 'U' | 'V' -> indices 0..3
type Profiler struct {
	requirements []ProfileReq
}

// NewProfiler returns an empty Profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

func axisStokesFromChar(code string) (axis Axis, axisOK bool, stokes int, hasStokes bool) {
	if len(code) == 0 || len(code) > 2 {
		return 0, false, -1, false
	}
	axisChar := code[len(code)-1]
	switch axisChar {
	case 'x':
		axis, axisOK = AxisX, true
	case 'y':
		axis, axisOK = AxisY, true
	case 'z':
		axis, axisOK = AxisZ, true
	default:
		return 0, false, -1, false
	}
	if len(code) == 2 {
		switch code[0] {
		case 'I':
			stokes, hasStokes = 0, true
		case 'Q':
			stokes, hasStokes = 1, true
		case 'U':
			stokes, hasStokes = 2, true
		case 'V':
			stokes, hasStokes = 3, true
		default:
			return 0, false, -1, false
		}
	}
	return axis, axisOK, stokes, hasStokes
}

// SetRequirements parses profiles into the accepted subset, preserving
// input order (spec.md §8 property 6: total-order parser). defaultStokes
// fills in codes with no explicit stokes character; nStokes bounds the
// stokes index accepted.
func (p *Profiler) SetRequirements(profiles []string, nStokes, defaultStokes int) {
	accepted := make([]ProfileReq, 0, len(profiles))
	for _, code := range profiles {
		axis, axisOK, stokes, hasStokes := axisStokesFromChar(code)
		if !axisOK {
			continue
		}
		if !hasStokes {
			stokes = defaultStokes
		}
		if stokes >= nStokes || stokes < 0 {
			continue
		}
		accepted = append(accepted, ProfileReq{Code: code, Axis: axis, Stokes: stokes})
	}
	p.requirements = accepted
}

// Requirements returns the accepted requirement list in input order.
func (p *Profiler) Requirements() []ProfileReq {
	return p.requirements
}

// SpatialProfile is one X or Y cut of the current plane at the given
// cursor (spec.md §4.4): X is row cy (length = width), Y is column cx
// (length = height).
type SpatialProfile struct {
	Coordinate string
	Start, End int
	Values     []float64
}

// ExtractSpatial produces a row or column cut of plane through (cx, cy).
// req.Axis must be AxisX or AxisY.
func ExtractSpatial(plane *reduce.Plane, req ProfileReq, cx, cy int) SpatialProfile {
	switch req.Axis {
	case AxisX:
		values := make([]float64, plane.NX)
		for x := 0; x < plane.NX; x++ {
			values[x] = plane.At(x, cy)
		}
		return SpatialProfile{Coordinate: req.Code, Start: 0, End: len(values), Values: values}
	case AxisY:
		values := make([]float64, plane.NY)
		for y := 0; y < plane.NY; y++ {
			values[y] = plane.At(cx, y)
		}
		return SpatialProfile{Coordinate: req.Code, Start: 0, End: len(values), Values: values}
	default:
		return SpatialProfile{Coordinate: req.Code}
	}
}

// ExtractSpectral produces the Z cut through the cursor: one value per
// channel, reduced via spectralStats over a single-pixel subcube (so
// StatMean degenerates to the pixel's own value) per spec.md §4.3/§4.4's
// "Z profile ... delegates to RegionStats.spectralStats".
func ExtractSpectral(subcube Subcube, req ProfileReq) SpatialProfile {
	stats := SpectralStats(subcube, []SpectralStatKind{StatMean}, 0)
	values := stats[StatMean]
	return SpatialProfile{Coordinate: req.Code, Start: 0, End: len(values), Values: values}
}
