package wire

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	buf := EncodeFrame(EventOpenFile, 42, payload)
	if len(buf) != headerSize+len(payload) {
		t.Fatalf("len(buf) = %d, want %d", len(buf), headerSize+len(payload))
	}

	name, reqID, got, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if name != EventOpenFile {
		t.Fatalf("name = %q, want %q", name, EventOpenFile)
	}
	if reqID != 42 {
		t.Fatalf("reqID = %d, want 42", reqID)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %v, want %v", got, payload)
	}
}

func TestFrameTooShort(t *testing.T) {
	if _, _, _, err := DecodeFrame(make([]byte, headerSize-1)); err == nil {
		t.Fatal("expected error for short frame")
	}
}

func TestFrameEventNamePadding(t *testing.T) {
	buf := EncodeFrame("X", 0, nil)
	for i := 1; i < eventNameSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("byte %d = %d, want 0", i, buf[i])
		}
	}
}

func TestSetImageViewRoundTrip(t *testing.T) {
	want := SetImageView{
		FileID:             7,
		Bounds:             Bounds{XMin: 0, YMin: 0, XMax: 64, YMax: 64},
		Mip:                1,
		CompressionType:    0,
		CompressionQuality: 9,
		NumSubsets:         4,
	}
	b := want.AppendMsgp(nil)

	var got SetImageView
	rest, err := got.UnmarshalMsgp(b)
	if err != nil {
		t.Fatalf("UnmarshalMsgp: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("leftover bytes: %d", len(rest))
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSetRegionRoundTrip(t *testing.T) {
	want := SetRegion{
		FileID:        1,
		RegionID:      2,
		Type:          2, // rectangle
		ControlPoints: []Point{{X: 1.5, Y: 2.5}, {X: 3, Y: 4}},
		Rotation:      45.0,
	}
	b := want.AppendMsgp(nil)

	var got SetRegion
	if _, err := got.UnmarshalMsgp(b); err != nil {
		t.Fatalf("UnmarshalMsgp: %v", err)
	}
	if got.FileID != want.FileID || got.RegionID != want.RegionID || got.Type != want.Type || got.Rotation != want.Rotation {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.ControlPoints) != len(want.ControlPoints) {
		t.Fatalf("len(ControlPoints) = %d, want %d", len(got.ControlPoints), len(want.ControlPoints))
	}
	for i := range want.ControlPoints {
		if got.ControlPoints[i] != want.ControlPoints[i] {
			t.Fatalf("ControlPoints[%d] = %v, want %v", i, got.ControlPoints[i], want.ControlPoints[i])
		}
	}
}

func TestRasterImageDataRoundTrip(t *testing.T) {
	hist := HistogramWire{Channel: 0, Stokes: 0, NumBins: 2, BinWidth: 1, FirstBinCenter: 0.5, Bins: []int64{10, 20}}
	want := RasterImageData{
		FileID:             3,
		Stokes:             0,
		Channel:            0,
		Mip:                1,
		Bounds:             Bounds{0, 0, 64, 64},
		CompressionType:    0,
		CompressionQuality: 0,
		ImageData:          [][]byte{{1, 2, 3}, {4, 5}},
		NaNEncodings:       [][]int32{{16384}, {100, 5, 95}},
		ChannelHistogram:   &hist,
	}
	b := want.AppendMsgp(nil)

	var got RasterImageData
	rest, err := got.UnmarshalMsgp(b)
	if err != nil {
		t.Fatalf("UnmarshalMsgp: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("leftover bytes: %d", len(rest))
	}
	if got.ChannelHistogram == nil || got.ChannelHistogram.Channel != hist.Channel {
		t.Fatalf("ChannelHistogram = %+v, want %+v", got.ChannelHistogram, hist)
	}
	if len(got.ImageData) != 2 || !bytes.Equal(got.ImageData[1], []byte{4, 5}) {
		t.Fatalf("ImageData = %v", got.ImageData)
	}
	if len(got.NaNEncodings) != 2 || got.NaNEncodings[1][1] != 5 {
		t.Fatalf("NaNEncodings = %v", got.NaNEncodings)
	}
}

func TestRasterImageDataNilHistogram(t *testing.T) {
	want := RasterImageData{FileID: 1, ImageData: [][]byte{{9}}, NaNEncodings: [][]int32{{1}}}
	b := want.AppendMsgp(nil)

	var got RasterImageData
	if _, err := got.UnmarshalMsgp(b); err != nil {
		t.Fatalf("UnmarshalMsgp: %v", err)
	}
	if got.ChannelHistogram != nil {
		t.Fatalf("ChannelHistogram = %+v, want nil", got.ChannelHistogram)
	}
}

func TestSpatialProfileDataRoundTrip(t *testing.T) {
	// S6: cursor profile scenario numbers.
	want := SpatialProfileData{
		FileID: 1, RegionID: 0, X: 3, Y: 4, Channel: 0, Stokes: 0, Value: 43,
		Profiles: []SpatialProfileWire{
			{Coordinate: "x", Start: 0, End: 10, Values: []float64{40, 41, 42, 43, 44, 45, 46, 47, 48, 49}},
			{Coordinate: "y", Start: 0, End: 10, Values: []float64{3, 13, 23, 33, 43, 53, 63, 73, 83, 93}},
		},
	}
	b := want.AppendMsgp(nil)

	var got SpatialProfileData
	if _, err := got.UnmarshalMsgp(b); err != nil {
		t.Fatalf("UnmarshalMsgp: %v", err)
	}
	if got.Value != 43 {
		t.Fatalf("Value = %v, want 43", got.Value)
	}
	if len(got.Profiles) != 2 || got.Profiles[1].Values[4] != 43 {
		t.Fatalf("Profiles = %+v", got.Profiles)
	}
}

func TestFileListResponseRoundTrip(t *testing.T) {
	want := FileListResponse{
		Directory: "/data",
		Success:   true,
		Entries: []FileEntry{
			{Name: "cube.fits", IsDir: false, Size: 1024, HDUList: []string{"0"}},
			{Name: "sub", IsDir: true},
		},
	}
	b := want.AppendMsgp(nil)

	var got FileListResponse
	if _, err := got.UnmarshalMsgp(b); err != nil {
		t.Fatalf("UnmarshalMsgp: %v", err)
	}
	if len(got.Entries) != 2 || got.Entries[0].Name != "cube.fits" || got.Entries[1].IsDir != true {
		t.Fatalf("Entries = %+v", got.Entries)
	}
}

func TestErrorDataRoundTrip(t *testing.T) {
	want := ErrorData{Message: "bad bounds", Tags: []string{"SET_IMAGE_VIEW"}, Severity: 3}
	b := want.AppendMsgp(nil)

	var got ErrorData
	if _, err := got.UnmarshalMsgp(b); err != nil {
		t.Fatalf("UnmarshalMsgp: %v", err)
	}
	if got.Message != want.Message || got.Severity != want.Severity || len(got.Tags) != 1 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
