package pool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/skylark-imaging/cubeview/codec"
	"github.com/skylark-imaging/cubeview/cverr"
)

// MaxSubsets bounds CompressionSettings.NSubsets (spec.md §3/§4.8).
const MaxSubsets = 8

// Settings mirrors spec.md §3 CompressionSettings.
type Settings struct {
	Kind     codec.Kind
	Quality  int
	NSubsets int
}

// Band is one compressed row-band plus its NaN run-length map, in the
// order §4.8/§6 require them assembled.
type Band struct {
	Compressed  []byte
	NaNEncoding []int32
}

// CompressionPool fans a raster out across row bands and compresses
// each one on the shared priority Pool, per spec.md §4.8.
type CompressionPool struct {
	workers *Pool
	codec   codec.Compressor
}

// NewCompressionPool wraps a priority Pool with a concrete Compressor.
func NewCompressionPool(workers *Pool, c codec.Compressor) *CompressionPool {
	return &CompressionPool{workers: workers, codec: c}
}

// RemoveByID cancels every not-yet-started compression task tagged with
// id, used when a session disconnects (spec.md §7).
func (cp *CompressionPool) RemoveByID(id string) int {
	return cp.workers.RemoveByID(id)
}

// bandRange returns the half-open [start,end) row range for band i of n,
// with the last band absorbing any remainder (spec.md §4.8 step 2).
func bandRange(i, n, numRows int) (int, int) {
	start := i * numRows / n
	end := (i + 1) * numRows / n
	if i == n-1 {
		end = numRows
	}
	return start, end
}

// Compress partitions data (numRows rows of rowLength float32 samples
// each, row-major) into min(settings.NSubsets, MaxSubsets) bands,
// compresses and NaN-encodes each concurrently tagged with sessionID at
// priority, and returns them in band order. settings.Kind == KindNone
// bypasses cp.codec entirely and emits each band as raw little-endian
// float32 bytes (spec.md §3's "none" pass-through); any other Kind runs
// the real codec. If any band fails, the whole raster fails (spec.md
// §4.8, §7 CodecError) and partial results are discarded.
func (cp *CompressionPool) Compress(ctx context.Context, sessionID string, priority int, rowLength, numRows int, data []float32, settings Settings) ([]Band, error) {
	n := settings.NSubsets
	if n <= 0 {
		n = 1
	}
	if n > MaxSubsets {
		n = MaxSubsets
	}

	bands := make([]Band, n)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			start, end := bandRange(i, n, numRows)
			bandData := data[start*rowLength : end*rowLength]

			type result struct {
				compressed []byte
				err        error
			}
			compressCh := make(chan result, 1)
			cp.workers.Push(sessionID, priority, func() {
				if settings.Kind == codec.KindNone {
					compressCh <- result{codec.EncodeRaw(bandData), nil}
					return
				}
				block, err := cp.codec.Compress(bandData, settings.Quality)
				compressCh <- result{block, err}
			})

			nanCh := make(chan []int32, 1)
			cp.workers.Push(sessionID, priority, func() {
				nanCh <- codec.NaNRuns(bandData)
			})

			select {
			case <-gctx.Done():
				return cverr.New(cverr.Cancelled, "RASTER_IMAGE_DATA", "compression band %d cancelled", i)
			case r := <-compressCh:
				if r.err != nil {
					return cverr.Wrap(cverr.CodecError, "RASTER_IMAGE_DATA", r.err, "band %d compression failed", i)
				}
				bands[i].Compressed = r.compressed
			}
			select {
			case <-gctx.Done():
				return cverr.New(cverr.Cancelled, "RASTER_IMAGE_DATA", "compression band %d cancelled", i)
			case runs := <-nanCh:
				bands[i].NaNEncoding = runs
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bands, nil
}
