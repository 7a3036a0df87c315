package pool

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/skylark-imaging/cubeview/codec"
)

func TestCompressKindNoneIsRawPassthrough(t *testing.T) {
	p := New(2)
	defer p.Close()
	cp := NewCompressionPool(p, codec.ZstdCompressor{})

	data := make([]float32, 8*8)
	for i := range data {
		data[i] = float32(i)
	}

	bands, err := cp.Compress(context.Background(), "s1", 0, 8, 8, data, Settings{Kind: codec.KindNone, NSubsets: 1})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(bands) != 1 {
		t.Fatalf("expected 1 band, got %d", len(bands))
	}
	block := bands[0].Compressed
	if len(block) != 4*len(data) {
		t.Fatalf("expected %d raw bytes, got %d", 4*len(data), len(block))
	}
	for i, v := range data {
		got := math.Float32frombits(binary.LittleEndian.Uint32(block[i*4:]))
		if got != v {
			t.Fatalf("sample %d: got %v want %v", i, got, v)
		}
	}
}

func TestCompressKindLossyFloatBlockIsCompressed(t *testing.T) {
	p := New(2)
	defer p.Close()
	cp := NewCompressionPool(p, codec.ZstdCompressor{})

	data := make([]float32, 64*64)
	for i := range data {
		data[i] = 1.0 // constant plane compresses far below its raw size
	}

	bands, err := cp.Compress(context.Background(), "s1", 0, 64, 64, data, Settings{Kind: codec.KindLossyFloatBlock, Quality: 8, NSubsets: 1})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(bands[0].Compressed) >= 4*len(data) {
		t.Fatalf("expected compressed block smaller than raw %d bytes, got %d", 4*len(data), len(bands[0].Compressed))
	}
}
