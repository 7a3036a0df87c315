package region

import (
	"math"

	"github.com/skylark-imaging/cubeview/reduce"
)

// SpectralStatKind is one of the statistic kinds from spec.md §4.3.
type SpectralStatKind int

const (
	StatSum SpectralStatKind = iota
	StatFlux
	StatMean
	StatRMS
	StatSigma
	StatSumSq
	StatMin
	StatMax
)

// Subcube is one plane per spectral channel, in channel order, for a
// fixed stokes index and the region's spatial extent. A nil plane marks
// a channel outside the region's configured channel range; its stat
// values are NaN.
type Subcube []*reduce.Plane

// SpectralStats reduces subcube along X and Y for each requested stat
// kind, returning one value per channel (spec.md §4.3). beamArea scales
// StatFlux; when beamArea is 0, flux equals sum (no beam metadata
// present).
func SpectralStats(subcube Subcube, kinds []SpectralStatKind, beamArea float64) map[SpectralStatKind][]float64 {
	out := make(map[SpectralStatKind][]float64, len(kinds))
	for _, k := range kinds {
		out[k] = make([]float64, len(subcube))
	}

	for ch, plane := range subcube {
		if plane == nil {
			for _, k := range kinds {
				out[k][ch] = math.NaN()
			}
			continue
		}
		sum, sumSq, min, max := 0.0, 0.0, math.Inf(1), math.Inf(-1)
		nFinite := 0
		for _, v := range plane.Data {
			if math.IsNaN(v) {
				continue
			}
			nFinite++
			sum += v
			sumSq += v * v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if nFinite == 0 {
			for _, k := range kinds {
				out[k][ch] = math.NaN()
			}
			continue
		}
		mean := sum / float64(nFinite)
		var sigma float64
		if nFinite > 1 {
			sigma = math.Sqrt((sumSq - float64(nFinite)*mean*mean) / float64(nFinite-1))
		} else {
			sigma = math.NaN()
		}
		rms := math.Sqrt(sumSq / float64(nFinite))
		flux := sum
		if beamArea != 0 {
			flux = sum / beamArea
		}

		for _, k := range kinds {
			switch k {
			case StatSum:
				out[k][ch] = sum
			case StatFlux:
				out[k][ch] = flux
			case StatMean:
				out[k][ch] = mean
			case StatRMS:
				out[k][ch] = rms
			case StatSigma:
				out[k][ch] = sigma
			case StatSumSq:
				out[k][ch] = sumSq
			case StatMin:
				out[k][ch] = min
			case StatMax:
				out[k][ch] = max
			}
		}
	}
	return out
}
