// Package region implements the Region/RegionStats/RegionProfiler trio
// from spec.md §4.3-§4.5: per-region histogram memoization, spectral
// statistics, and spatial/spectral profile parsing.
package region

import (
	"math"

	"github.com/skylark-imaging/cubeview/imagesource"
	"github.com/skylark-imaging/cubeview/reduce"
)

// HistogramConfig mirrors spec.md §3: Channel -1 means "current channel",
// -2 means "all channels"; NumBins -1 means auto.
type HistogramConfig struct {
	Channel int
	NumBins int
}

// Histogram is the wire-ready result of one channel/stokes histogram.
type Histogram struct {
	Channel        int
	Stokes         int
	NumBins        int
	BinWidth       float64
	FirstBinCenter float64
	Bins           []int64
}

type histKey struct {
	channel int
	stokes  int
}

// Stats owns the histogram memo and spectral-statistic computation for
// one Region. Memoization is by (channel, stokes) only; re-issuing the
// same HistogramConfig list does not clear previously cached channels
// (spec.md §4.3).
type Stats struct {
	configs []HistogramConfig
	memo    map[histKey]Histogram
}

// NewStats constructs an empty Stats, used for every freshly created Region.
func NewStats() *Stats {
	return &Stats{memo: make(map[histKey]Histogram)}
}

// SetHistogramConfigs replaces the requirement list without touching the
// existing memo.
func (s *Stats) SetHistogramConfigs(configs []HistogramConfig) {
	s.configs = append([]HistogramConfig(nil), configs...)
}

// Configs returns the currently configured histogram requirements.
func (s *Stats) Configs() []HistogramConfig {
	return s.configs
}

// ResetMemo drops every cached histogram; called whenever the owning
// Region's geometry, channel range, or stokes set changes (spec.md §4.3,
// §4.5).
func (s *Stats) ResetMemo() {
	s.memo = make(map[histKey]Histogram)
}

// FillHistogram returns the histogram for (channel, stokes), computing
// and memoizing it from plane via MinMax+Histogram if not already cached.
// Two consecutive calls with an unchanged plane return identical results
// (spec.md §8 property 5).
func (s *Stats) FillHistogram(plane *reduce.Plane, channel, stokes, numBins int) Histogram {
	key := histKey{channel, stokes}
	if h, ok := s.memo[key]; ok {
		return h
	}
	h := computeHistogram(plane, channel, stokes, numBins)
	s.memo[key] = h
	return h
}

// FillHistogramFast satisfies (channel, stokes) from source's
// precomputed statistics tables when all of StatMin, StatMax, and
// StatHistogram are available, falling back to MinMax+Histogram over
// plane otherwise (spec.md §4.1's readStats fast path, §4.3). Memoized
// the same as FillHistogram.
func (s *Stats) FillHistogramFast(source imagesource.Source, shape imagesource.Shape, plane *reduce.Plane, channel, stokes, numBins int) (Histogram, error) {
	key := histKey{channel, stokes}
	if h, ok := s.memo[key]; ok {
		return h, nil
	}
	if numBins <= 0 {
		numBins = reduce.AutoBins(plane.NX, plane.NY)
	}
	h, ok, err := histogramFromStatsTable(source, shape, channel, stokes, numBins)
	if err != nil {
		return Histogram{}, err
	}
	if !ok {
		h = computeHistogram(plane, channel, stokes, numBins)
	}
	s.memo[key] = h
	return h, nil
}

// histogramFromStatsTable reconstructs a Histogram from source's
// precomputed per-(stokes,channel) StatMin/StatMax/StatHistogram tables,
// reporting ok=false when any table is absent or too short for the
// requested entry so the caller can fall back to raw-sample computation.
func histogramFromStatsTable(source imagesource.Source, shape imagesource.Shape, channel, stokes, numBins int) (Histogram, bool, error) {
	if !source.HasStats(imagesource.StatMin) || !source.HasStats(imagesource.StatMax) || !source.HasStats(imagesource.StatHistogram) {
		return Histogram{}, false, nil
	}
	mins, err := source.ReadStats(imagesource.StatMin)
	if err != nil {
		return Histogram{}, false, err
	}
	maxes, err := source.ReadStats(imagesource.StatMax)
	if err != nil {
		return Histogram{}, false, err
	}
	table, err := source.ReadStats(imagesource.StatHistogram)
	if err != nil {
		return Histogram{}, false, err
	}
	idx := stokes*shape.Depth + channel
	if idx < 0 || idx >= len(mins) || idx >= len(maxes) {
		return Histogram{}, false, nil
	}
	start := idx * numBins
	if numBins <= 0 || start+numBins > len(table) {
		return Histogram{}, false, nil
	}
	min, max := mins[idx], maxes[idx]
	bins := make([]int64, numBins)
	for i, v := range table[start : start+numBins] {
		bins[i] = int64(math.Round(v))
	}
	binWidth := 0.0
	if numBins > 0 {
		binWidth = (max - min) / float64(numBins)
	}
	firstCenter := min + binWidth/2.0
	if math.IsNaN(min) {
		firstCenter = math.NaN()
	}
	return Histogram{
		Channel:        channel,
		Stokes:         stokes,
		NumBins:        numBins,
		BinWidth:       binWidth,
		FirstBinCenter: firstCenter,
		Bins:           bins,
	}, true, nil
}

// Memoized reports whether (channel, stokes) is already cached, and
// returns it if so.
func (s *Stats) Memoized(channel, stokes int) (Histogram, bool) {
	h, ok := s.memo[histKey{channel, stokes}]
	return h, ok
}

func computeHistogram(plane *reduce.Plane, channel, stokes, numBins int) Histogram {
	min, max := reduce.MinMax(plane)
	if numBins <= 0 {
		numBins = reduce.AutoBins(plane.NX, plane.NY)
	}
	bins := reduce.Histogram(plane, min, max, numBins)
	binWidth := 0.0
	if numBins > 0 {
		binWidth = (max - min) / float64(numBins)
	}
	firstCenter := min + binWidth/2.0
	if math.IsNaN(min) {
		firstCenter = math.NaN()
	}
	return Histogram{
		Channel:        channel,
		Stokes:         stokes,
		NumBins:        numBins,
		BinWidth:       binWidth,
		FirstBinCenter: firstCenter,
		Bins:           bins,
	}
}

// ResolveChannel expands the HistogramConfig.Channel policy
// (current=-1, all=-2) into the concrete channel list to compute,
// honoring the REDESIGN FLAG in spec.md §9: -2 always means every
// channel 0..depth, even for 2D images where depth is 1.
func ResolveChannel(cfg HistogramConfig, currentChannel, depth int) []int {
	switch {
	case cfg.Channel == -1:
		return []int{currentChannel}
	case cfg.Channel == -2:
		chans := make([]int, depth)
		for i := range chans {
			chans[i] = i
		}
		return chans
	default:
		return []int{cfg.Channel}
	}
}
