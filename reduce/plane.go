// Package reduce implements the NaN-aware parallel reduction kernels
// used by every raster and histogram response: MinMax, Histogram, and
// MeanPool. All three tile their input across goroutines so wall time
// scales with available cores; single-threaded execution (nx*ny small
// enough that only one tile is used) is observationally identical.
package reduce

import (
	"math"
	"runtime"
	"sync"
)

// Plane is a dense column-major (x, y) matrix of float64 samples, matching
// the shape ImageSource.ReadSlice returns (§4.1 of SPEC_FULL.md).
type Plane struct {
	NX, NY int
	Data   []float64 // len == NX*NY, index = x + y*NX
}

// NewPlane allocates a zeroed plane of the given dimensions.
func NewPlane(nx, ny int) *Plane {
	return &Plane{NX: nx, NY: ny, Data: make([]float64, nx*ny)}
}

// At returns the sample at (x, y).
func (p *Plane) At(x, y int) float64 {
	return p.Data[x+y*p.NX]
}

// Set assigns the sample at (x, y).
func (p *Plane) Set(x, y int, v float64) {
	p.Data[x+y*p.NX] = v
}

// Crop extracts the [x0,x1) x [y0,y1) sub-rectangle of p into a new
// Plane, used to restrict a cached whole-image plane down to the
// current view's bounds (spec.md §4.6).
func Crop(p *Plane, x0, y0, x1, y1 int) *Plane {
	out := NewPlane(x1-x0, y1-y0)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			out.Set(x-x0, y-y0, p.At(x, y))
		}
	}
	return out
}

// numTiles picks a row-band tile count bounded by GOMAXPROCS and the
// number of rows available, so tiny planes never oversubscribe.
func numTiles(rows int) int {
	n := runtime.GOMAXPROCS(0)
	if n > rows {
		n = rows
	}
	if n < 1 {
		n = 1
	}
	return n
}

// rowBands splits [0,ny) into n contiguous bands, the last absorbing any
// remainder — the same discipline pool.CompressionPool.Compress uses for
// compression bands.
func rowBands(ny, n int) [][2]int {
	bands := make([][2]int, n)
	for i := 0; i < n; i++ {
		start := i * ny / n
		end := (i + 1) * ny / n
		if i == n-1 {
			end = ny
		}
		bands[i] = [2]int{start, end}
	}
	return bands
}

// MinMax returns the NaN-skipping (min, max) over the whole plane. If
// every sample is NaN, both results are NaN (§4.2 rule 1).
func MinMax(p *Plane) (min, max float64) {
	if p.NX == 0 || p.NY == 0 {
		return math.NaN(), math.NaN()
	}
	n := numTiles(p.NY)
	bands := rowBands(p.NY, n)

	type partial struct{ min, max float64 }
	results := make([]partial, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, b := range bands {
		i, b := i, b
		go func() {
			defer wg.Done()
			lo, hi := math.Inf(1), math.Inf(-1)
			for y := b[0]; y < b[1]; y++ {
				for x := 0; x < p.NX; x++ {
					v := p.At(x, y)
					if math.IsNaN(v) {
						continue
					}
					if v < lo {
						lo = v
					}
					if v > hi {
						hi = v
					}
				}
			}
			results[i] = partial{lo, hi}
		}()
	}
	wg.Wait()

	min, max = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		if r.min < min {
			min = r.min
		}
		if r.max > max {
			max = r.max
		}
	}
	if math.IsInf(min, 1) && math.IsInf(max, -1) {
		return math.NaN(), math.NaN()
	}
	return min, max
}

// AutoBins computes the auto bin count policy from §4.2/§4.3:
// ceil(max(sqrt(nx*ny), 2)).
func AutoBins(nx, ny int) int {
	n := int(math.Ceil(math.Max(math.Sqrt(float64(nx*ny)), 2)))
	return n
}

// Histogram bins the plane's finite values into numBins buckets spanning
// [minVal, maxVal]. Bin index is clamp(floor((v-minVal)/binWidth), 0,
// numBins-1); when minVal==maxVal, binWidth is 0 and every finite value
// lands in bin 0 (§4.2 rule 2). NaNs are skipped.
func Histogram(p *Plane, minVal, maxVal float64, numBins int) []int64 {
	if numBins <= 0 {
		numBins = AutoBins(p.NX, p.NY)
	}
	bins := make([]int64, numBins)
	if p.NX == 0 || p.NY == 0 {
		return bins
	}
	binWidth := (maxVal - minVal) / float64(numBins)

	n := numTiles(p.NY)
	bandsList := rowBands(p.NY, n)
	partials := make([][]int64, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, b := range bandsList {
		i, b := i, b
		go func() {
			defer wg.Done()
			local := make([]int64, numBins)
			for y := b[0]; y < b[1]; y++ {
				for x := 0; x < p.NX; x++ {
					v := p.At(x, y)
					if math.IsNaN(v) {
						continue
					}
					var bin int
					if binWidth == 0 {
						bin = 0
					} else {
						bin = int(math.Floor((v - minVal) / binWidth))
						if bin < 0 {
							bin = 0
						} else if bin >= numBins {
							bin = numBins - 1
						}
					}
					local[bin]++
				}
			}
			partials[i] = local
		}()
	}
	wg.Wait()

	for _, local := range partials {
		for i, c := range local {
			bins[i] += c
		}
	}
	return bins
}

// MeanPool downsamples p by an integer factor mip, averaging each mip x mip
// block while ignoring NaN samples; a block that is entirely NaN produces
// NaN. Partial blocks at the edges (when NX or NY isn't a multiple of mip)
// are dropped, matching the caller-truncates contract in §4.2 rule 3.
func MeanPool(p *Plane, mip int) *Plane {
	if mip <= 1 {
		out := NewPlane(p.NX, p.NY)
		copy(out.Data, p.Data)
		return out
	}
	outNX := p.NX / mip
	outNY := p.NY / mip
	out := NewPlane(outNX, outNY)
	if outNX == 0 || outNY == 0 {
		return out
	}

	n := numTiles(outNY)
	bands := rowBands(outNY, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for _, b := range bands {
		b := b
		go func() {
			defer wg.Done()
			for oy := b[0]; oy < b[1]; oy++ {
				for ox := 0; ox < outNX; ox++ {
					var sum float64
					var count int
					for py := 0; py < mip; py++ {
						for px := 0; px < mip; px++ {
							v := p.At(ox*mip+px, oy*mip+py)
							if math.IsNaN(v) {
								continue
							}
							sum += v
							count++
						}
					}
					if count == 0 {
						out.Set(ox, oy, math.NaN())
					} else {
						out.Set(ox, oy, sum/float64(count))
					}
				}
			}
		}()
	}
	wg.Wait()
	return out
}
