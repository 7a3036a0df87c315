// Package imagesource defines the abstract image reader contract (§4.1,
// §6 of SPEC_FULL.md) that Frame consumes. The on-disk readers for FITS,
// HDF5, CASA, and MIRIAD are explicit non-goals (spec.md §1); this
// package holds only the interface and a synthetic implementation used
// by tests and local demos.
package imagesource

import (
	"fmt"

	"github.com/skylark-imaging/cubeview/cverr"
	"github.com/skylark-imaging/cubeview/reduce"
)

// Shape describes an opened image's extent. Depth and Stokes are 1 when
// the corresponding axis is absent; NDims is fixed at open time.
type Shape struct {
	Width, Height int
	Depth, Stokes int
	NDims         int
}

// StatKind names a precomputed per-channel statistics table.
type StatKind int

const (
	StatMin StatKind = iota
	StatMax
	StatMean
	StatNanCount
	StatHistogram
	StatPercentiles
	StatPercentileRanks
)

// SubKind names an optional named sub-dataset an ImageSource may expose.
type SubKind int

const (
	SubPrimaryCube SubKind = iota
	SubSwizzledZYX
	SubSwizzledZYXW
)

// Bounds describes a rectangular view into the (width,height) plane.
type Bounds struct {
	XMin, YMin, XMax, YMax int
}

func (b Bounds) Width() int  { return b.XMax - b.XMin }
func (b Bounds) Height() int { return b.YMax - b.YMin }

// Source is the capability set Frame relies on. Implementations must
// support concurrent ReadSlice calls for distinct (channel, stokes)
// pairs; they synchronize internally (§4.1).
type Source interface {
	Shape() Shape
	HasSub(kind SubKind) bool

	// ReadSlice returns a dense (bounds.Width(), bounds.Height()) plane in
	// column-major (x,y) order for the given channel and stokes index.
	ReadSlice(channel, stokes int, bounds Bounds) (*reduce.Plane, error)

	// HasStats reports whether a precomputed statistics table of the
	// given kind is available; Frame must check this before ReadStats.
	HasStats(kind StatKind) bool

	// ReadStats returns a precomputed per-(stokes,channel) table. The
	// returned slice is indexed [stokes*depth + channel] for scalar
	// kinds, or [(stokes*depth+channel)*numBins + bin] for StatHistogram.
	ReadStats(kind StatKind) ([]float64, error)
}

// ValidateShape enforces the invariant from spec.md §3: ndims in {2,3,4}.
func ValidateShape(s Shape) error {
	if s.NDims < 2 || s.NDims > 4 {
		return cverr.New(cverr.DimensionError, "OPEN_FILE", "image must be 2D, 3D or 4D, got %dD", s.NDims)
	}
	return nil
}

// CheckBounds validates that a bounds rectangle lies inside shape and
// returns a descriptive error otherwise.
func CheckBounds(s Shape, b Bounds) error {
	if b.XMin < 0 || b.YMin < 0 || b.XMax <= b.XMin || b.YMax <= b.YMin {
		return fmt.Errorf("invalid bounds %+v", b)
	}
	if b.XMax > s.Width || b.YMax > s.Height {
		return fmt.Errorf("bounds %+v exceed image shape %dx%d", b, s.Width, s.Height)
	}
	return nil
}
