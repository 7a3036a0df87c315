package imagesource

import (
	"fmt"
	"sync"

	"github.com/skylark-imaging/cubeview/reduce"
)

// PlaneFunc generates the value at (x, y, channel, stokes) for a
// synthetic cube. It replaces the FITS/HDF5/CASA/MIRIAD decoders that
// are out of scope for cubeview (spec.md §1) in tests and demos.
type PlaneFunc func(x, y, channel, stokes int) float64

// Synthetic is an in-memory ImageSource generating planes from a
// PlaneFunc, the equivalent of imageblk's makeVolume test helpers but
// shaped to the ImageSource contract instead of a KV-store value.
type Synthetic struct {
	shape Shape
	fn    PlaneFunc

	mu    sync.Mutex
	stats map[StatKind][]float64
}

// NewSynthetic builds a synthetic source of the given shape, generating
// samples via fn. NDims is inferred from which of depth/stokes are >1.
func NewSynthetic(width, height, depth, stokes int, fn PlaneFunc) *Synthetic {
	ndims := 2
	if depth > 1 {
		ndims = 3
	}
	if stokes > 1 {
		ndims = 4
	}
	return &Synthetic{
		shape: Shape{Width: width, Height: height, Depth: depth, Stokes: stokes, NDims: ndims},
		fn:    fn,
		stats: make(map[StatKind][]float64),
	}
}

func (s *Synthetic) Shape() Shape { return s.shape }

func (s *Synthetic) HasSub(kind SubKind) bool { return false }

func (s *Synthetic) ReadSlice(channel, stokes int, bounds Bounds) (*reduce.Plane, error) {
	if channel < 0 || channel >= s.shape.Depth || stokes < 0 || stokes >= s.shape.Stokes {
		return nil, fmt.Errorf("channel %d / stokes %d out of range for shape %+v", channel, stokes, s.shape)
	}
	if err := CheckBounds(s.shape, bounds); err != nil {
		return nil, err
	}
	w, h := bounds.Width(), bounds.Height()
	p := reduce.NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Set(x, y, s.fn(bounds.XMin+x, bounds.YMin+y, channel, stokes))
		}
	}
	return p, nil
}

// SetStats installs a precomputed statistics table, letting tests
// exercise the readStats fast path described in SPEC_FULL.md's RESTORED
// FROM original_source section without needing a real file format.
func (s *Synthetic) SetStats(kind StatKind, table []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[kind] = table
}

func (s *Synthetic) HasStats(kind StatKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.stats[kind]
	return ok
}

func (s *Synthetic) ReadStats(kind StatKind) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.stats[kind]
	if !ok {
		return nil, fmt.Errorf("no precomputed stats of kind %d", kind)
	}
	return t, nil
}
