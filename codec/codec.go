// Package codec implements the "opaque" lossy block codec boundary from
// spec.md §1/§6 and the NaN run-length encoding that travels alongside
// it. The spec treats the compressed block format as a pure function the
// core does not need to understand; cubeview backs that boundary with a
// real compressor (klauspost/compress/zstd) instead of a stub so
// CompressionPool exercises genuine codec work.
package codec

import (
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Kind is the CompressionSettings.kind enum from spec.md §3.
type Kind int

const (
	KindNone Kind = iota
	KindLossyFloatBlock
)

// Compressor turns a row-major band of float32 samples into an opaque
// byte block at the given quality (integer precision), and back.
type Compressor interface {
	Compress(band []float32, quality int) ([]byte, error)
	Decompress(block []byte, numSamples int) ([]float32, error)
}

// ZstdCompressor is the concrete Compressor. "quality" maps to the zstd
// encoder level: higher precision asks for a higher compression level,
// mirroring how CARTA's ZFP quality knob trades size for fidelity.
type ZstdCompressor struct{}

func qualityToLevel(quality int) zstd.EncoderLevel {
	switch {
	case quality >= 16:
		return zstd.SpeedBestCompression
	case quality >= 8:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedDefault
	}
}

// EncodeRaw serializes band as raw little-endian float32 bytes — the
// wire representation CompressionSettings.kind == KindNone asks for
// (spec.md §3), a pass-through with no codec involved at all.
func EncodeRaw(band []float32) []byte {
	raw := make([]byte, 4*len(band))
	for i, v := range band {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	return raw
}

// DecodeRaw is EncodeRaw's inverse.
func DecodeRaw(raw []byte, numSamples int) []float32 {
	out := make([]float32, numSamples)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out
}

func (ZstdCompressor) Compress(band []float32, quality int) ([]byte, error) {
	raw := EncodeRaw(band)
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(qualityToLevel(quality)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

func (ZstdCompressor) Decompress(block []byte, numSamples int) ([]float32, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(block, nil)
	if err != nil {
		return nil, err
	}
	out := DecodeRaw(raw, numSamples)
	return out, nil
}

// NaNRuns encodes the NaN positions of band as alternating
// finite_count, nan_count runs starting with finite_count, per spec.md
// §6. The sum of all runs equals len(band).
func NaNRuns(band []float32) []int32 {
	if len(band) == 0 {
		return nil
	}
	runs := make([]int32, 0, 4)
	curIsNaN := false
	count := int32(0)
	for i, v := range band {
		isNaN := math.IsNaN(float64(v))
		if i == 0 {
			curIsNaN = isNaN
			if isNaN {
				// runs must start with finite_count, even if it's zero.
				runs = append(runs, 0)
			}
		} else if isNaN != curIsNaN {
			runs = append(runs, count)
			count = 0
			curIsNaN = isNaN
		}
		count++
	}
	runs = append(runs, count)
	return runs
}

// DecodeNaNRuns reconstructs which indices in a band of the given length
// were NaN, without inspecting the compressed block (spec.md §6).
func DecodeNaNRuns(runs []int32, length int) []bool {
	mask := make([]bool, length)
	idx := 0
	isNaN := false
	for _, r := range runs {
		for i := int32(0); i < r && idx < length; i++ {
			mask[idx] = isNaN
			idx++
		}
		isNaN = !isNaN
	}
	return mask
}
