package wire

import "github.com/tinylib/msgp/msgp"

// Bounds is a rectangular region of an image plane in image pixel
// coordinates (spec.md §3 ImageBounds).
type Bounds struct {
	XMin, YMin, XMax, YMax int32
}

func appendBounds(b []byte, v Bounds) []byte {
	b = msgp.AppendInt32(b, v.XMin)
	b = msgp.AppendInt32(b, v.YMin)
	b = msgp.AppendInt32(b, v.XMax)
	b = msgp.AppendInt32(b, v.YMax)
	return b
}

func readBounds(b []byte) (Bounds, []byte, error) {
	var v Bounds
	var err error
	if v.XMin, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	if v.YMin, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	if v.XMax, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	if v.YMax, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	return v, b, nil
}

// Point is a single control point in image pixel coordinates.
type Point struct {
	X, Y float64
}

func appendPoint(b []byte, v Point) []byte {
	b = msgp.AppendFloat64(b, v.X)
	b = msgp.AppendFloat64(b, v.Y)
	return b
}

func readPoint(b []byte) (Point, []byte, error) {
	var v Point
	var err error
	if v.X, b, err = msgp.ReadFloat64Bytes(b); err != nil {
		return v, b, err
	}
	if v.Y, b, err = msgp.ReadFloat64Bytes(b); err != nil {
		return v, b, err
	}
	return v, b, nil
}

func appendPoints(b []byte, pts []Point) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(pts)))
	for _, p := range pts {
		b = appendPoint(b, p)
	}
	return b
}

func readPoints(b []byte) ([]Point, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	pts := make([]Point, n)
	for i := range pts {
		if pts[i], b, err = readPoint(b); err != nil {
			return nil, b, err
		}
	}
	return pts, b, nil
}

func appendInt32Slice(b []byte, v []int32) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(v)))
	for _, x := range v {
		b = msgp.AppendInt32(b, x)
	}
	return b
}

func readInt32Slice(b []byte) ([]int32, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	v := make([]int32, n)
	for i := range v {
		if v[i], b, err = msgp.ReadInt32Bytes(b); err != nil {
			return nil, b, err
		}
	}
	return v, b, nil
}

func appendInt64Slice(b []byte, v []int64) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(v)))
	for _, x := range v {
		b = msgp.AppendInt64(b, x)
	}
	return b
}

func readInt64Slice(b []byte) ([]int64, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	v := make([]int64, n)
	for i := range v {
		if v[i], b, err = msgp.ReadInt64Bytes(b); err != nil {
			return nil, b, err
		}
	}
	return v, b, nil
}

func appendFloat64Slice(b []byte, v []float64) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(v)))
	for _, x := range v {
		b = msgp.AppendFloat64(b, x)
	}
	return b
}

func readFloat64Slice(b []byte) ([]float64, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	v := make([]float64, n)
	for i := range v {
		if v[i], b, err = msgp.ReadFloat64Bytes(b); err != nil {
			return nil, b, err
		}
	}
	return v, b, nil
}

func appendStringSlice(b []byte, v []string) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(v)))
	for _, s := range v {
		b = msgp.AppendString(b, s)
	}
	return b
}

func readStringSlice(b []byte) ([]string, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	v := make([]string, n)
	for i := range v {
		if v[i], b, err = msgp.ReadStringBytes(b); err != nil {
			return nil, b, err
		}
	}
	return v, b, nil
}

func appendBytesSlice(b []byte, v [][]byte) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(v)))
	for _, x := range v {
		b = msgp.AppendBytes(b, x)
	}
	return b
}

func readBytesSlice(b []byte) ([][]byte, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	v := make([][]byte, n)
	for i := range v {
		if v[i], b, err = msgp.ReadBytesBytes(b, nil); err != nil {
			return nil, b, err
		}
	}
	return v, b, nil
}

func appendInt32SliceSlice(b []byte, v [][]int32) []byte {
	b = msgp.AppendArrayHeader(b, uint32(len(v)))
	for _, x := range v {
		b = appendInt32Slice(b, x)
	}
	return b
}

func readInt32SliceSlice(b []byte) ([][]int32, []byte, error) {
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, b, err
	}
	v := make([][]int32, n)
	for i := range v {
		if v[i], b, err = readInt32Slice(b); err != nil {
			return nil, b, err
		}
	}
	return v, b, nil
}

// RegisterViewer carries the client's api key (spec.md §4.1).
type RegisterViewer struct {
	APIKey string
}

func (m RegisterViewer) AppendMsgp(b []byte) []byte { return msgp.AppendString(b, m.APIKey) }

func (m *RegisterViewer) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	m.APIKey, b, err = msgp.ReadStringBytes(b)
	return b, err
}

// RegisterViewerAck replies with a session id or a rejection reason.
type RegisterViewerAck struct {
	SessionID string
	Success   bool
	Message   string
}

func (m RegisterViewerAck) AppendMsgp(b []byte) []byte {
	b = msgp.AppendString(b, m.SessionID)
	b = msgp.AppendBool(b, m.Success)
	b = msgp.AppendString(b, m.Message)
	return b
}

func (m *RegisterViewerAck) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.SessionID, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.Success, b, err = msgp.ReadBoolBytes(b); err != nil {
		return b, err
	}
	m.Message, b, err = msgp.ReadStringBytes(b)
	return b, err
}

// OpenFile requests a Frame be opened for directory/file (spec.md §4.2).
type OpenFile struct {
	FileID    int32
	Directory string
	File      string
	HDU       string
}

func (m OpenFile) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendString(b, m.Directory)
	b = msgp.AppendString(b, m.File)
	b = msgp.AppendString(b, m.HDU)
	return b
}

func (m *OpenFile) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Directory, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.File, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	m.HDU, b, err = msgp.ReadStringBytes(b)
	return b, err
}

// OpenFileAck reports whether FileID now has a live Frame.
type OpenFileAck struct {
	FileID    int32
	Success   bool
	Message   string
	Width     int32
	Height    int32
	NumChan   int32
	NumStokes int32
}

func (m OpenFileAck) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendBool(b, m.Success)
	b = msgp.AppendString(b, m.Message)
	b = msgp.AppendInt32(b, m.Width)
	b = msgp.AppendInt32(b, m.Height)
	b = msgp.AppendInt32(b, m.NumChan)
	b = msgp.AppendInt32(b, m.NumStokes)
	return b
}

func (m *OpenFileAck) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Success, b, err = msgp.ReadBoolBytes(b); err != nil {
		return b, err
	}
	if m.Message, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.Width, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Height, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.NumChan, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	m.NumStokes, b, err = msgp.ReadInt32Bytes(b)
	return b, err
}

// CloseFile tears down FileID's Frame (spec.md §4.2).
type CloseFile struct {
	FileID int32
}

func (m CloseFile) AppendMsgp(b []byte) []byte { return msgp.AppendInt32(b, m.FileID) }

func (m *CloseFile) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	m.FileID, b, err = msgp.ReadInt32Bytes(b)
	return b, err
}

// SetImageView changes the viewport, mip, and compression settings for
// an open file (spec.md §4.3).
type SetImageView struct {
	FileID             int32
	Bounds             Bounds
	Mip                int32
	CompressionType    int32
	CompressionQuality int32
	NumSubsets         int32
}

func (m SetImageView) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = appendBounds(b, m.Bounds)
	b = msgp.AppendInt32(b, m.Mip)
	b = msgp.AppendInt32(b, m.CompressionType)
	b = msgp.AppendInt32(b, m.CompressionQuality)
	b = msgp.AppendInt32(b, m.NumSubsets)
	return b
}

func (m *SetImageView) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Bounds, b, err = readBounds(b); err != nil {
		return b, err
	}
	if m.Mip, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.CompressionType, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.CompressionQuality, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	m.NumSubsets, b, err = msgp.ReadInt32Bytes(b)
	return b, err
}

// SetImageChannels changes the active channel/stokes (spec.md §4.4).
type SetImageChannels struct {
	FileID  int32
	Channel int32
	Stokes  int32
}

func (m SetImageChannels) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendInt32(b, m.Channel)
	b = msgp.AppendInt32(b, m.Stokes)
	return b
}

func (m *SetImageChannels) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Channel, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	m.Stokes, b, err = msgp.ReadInt32Bytes(b)
	return b, err
}

// SetRegion defines or updates RegionID's geometry (spec.md §4.5).
type SetRegion struct {
	FileID        int32
	RegionID      int32
	Type          int32
	ControlPoints []Point
	Rotation      float64
}

func (m SetRegion) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendInt32(b, m.RegionID)
	b = msgp.AppendInt32(b, m.Type)
	b = appendPoints(b, m.ControlPoints)
	b = msgp.AppendFloat64(b, m.Rotation)
	return b
}

func (m *SetRegion) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.RegionID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Type, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.ControlPoints, b, err = readPoints(b); err != nil {
		return b, err
	}
	m.Rotation, b, err = msgp.ReadFloat64Bytes(b)
	return b, err
}

// SetCursor moves the spatial-profile cursor (spec.md §4.6).
type SetCursor struct {
	FileID int32
	Point  Point
}

func (m SetCursor) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = appendPoint(b, m.Point)
	return b
}

func (m *SetCursor) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	m.Point, b, err = readPoint(b)
	return b, err
}

// HistogramConfigWire mirrors region.HistogramConfig on the wire.
type HistogramConfigWire struct {
	Channel int32
	NumBins int32
}

func appendHistogramConfig(b []byte, v HistogramConfigWire) []byte {
	b = msgp.AppendInt32(b, v.Channel)
	b = msgp.AppendInt32(b, v.NumBins)
	return b
}

func readHistogramConfig(b []byte) (HistogramConfigWire, []byte, error) {
	var v HistogramConfigWire
	var err error
	if v.Channel, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	v.NumBins, b, err = msgp.ReadInt32Bytes(b)
	return v, b, err
}

// SetHistogramRequirements declares which channels RegionID wants
// histograms for (spec.md §4.5, §4.6).
type SetHistogramRequirements struct {
	FileID   int32
	RegionID int32
	Configs  []HistogramConfigWire
}

func (m SetHistogramRequirements) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendInt32(b, m.RegionID)
	b = msgp.AppendArrayHeader(b, uint32(len(m.Configs)))
	for _, c := range m.Configs {
		b = appendHistogramConfig(b, c)
	}
	return b
}

func (m *SetHistogramRequirements) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.RegionID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return b, err
	}
	m.Configs = make([]HistogramConfigWire, n)
	for i := range m.Configs {
		if m.Configs[i], b, err = readHistogramConfig(b); err != nil {
			return b, err
		}
	}
	return b, nil
}

// SetSpatialRequirements declares which profile strings RegionID wants
// for the cursor/line region (spec.md §4.6).
type SetSpatialRequirements struct {
	FileID   int32
	RegionID int32
	Profiles []string
}

func (m SetSpatialRequirements) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendInt32(b, m.RegionID)
	b = appendStringSlice(b, m.Profiles)
	return b
}

func (m *SetSpatialRequirements) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.RegionID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	m.Profiles, b, err = readStringSlice(b)
	return b, err
}

// HistogramWire mirrors region.Histogram on the wire.
type HistogramWire struct {
	Channel        int32
	Stokes         int32
	NumBins        int32
	BinWidth       float64
	FirstBinCenter float64
	Bins           []int64
}

func appendHistogram(b []byte, v HistogramWire) []byte {
	b = msgp.AppendInt32(b, v.Channel)
	b = msgp.AppendInt32(b, v.Stokes)
	b = msgp.AppendInt32(b, v.NumBins)
	b = msgp.AppendFloat64(b, v.BinWidth)
	b = msgp.AppendFloat64(b, v.FirstBinCenter)
	b = appendInt64Slice(b, v.Bins)
	return b
}

func readHistogram(b []byte) (HistogramWire, []byte, error) {
	var v HistogramWire
	var err error
	if v.Channel, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	if v.Stokes, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	if v.NumBins, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	if v.BinWidth, b, err = msgp.ReadFloat64Bytes(b); err != nil {
		return v, b, err
	}
	if v.FirstBinCenter, b, err = msgp.ReadFloat64Bytes(b); err != nil {
		return v, b, err
	}
	v.Bins, b, err = readInt64Slice(b)
	return v, b, err
}

// RasterImageData carries one compressed plane plus its NaN run-length
// encodings and the matching channel histogram (spec.md §4.8, property
// 7: every raster reply embeds the histogram for the plane it carries).
type RasterImageData struct {
	FileID             int32
	Stokes             int32
	Channel            int32
	Mip                int32
	Bounds             Bounds
	CompressionType    int32
	CompressionQuality int32
	ImageData          [][]byte
	NaNEncodings       [][]int32
	ChannelHistogram   *HistogramWire
}

func (m RasterImageData) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendInt32(b, m.Stokes)
	b = msgp.AppendInt32(b, m.Channel)
	b = msgp.AppendInt32(b, m.Mip)
	b = appendBounds(b, m.Bounds)
	b = msgp.AppendInt32(b, m.CompressionType)
	b = msgp.AppendInt32(b, m.CompressionQuality)
	b = appendBytesSlice(b, m.ImageData)
	b = appendInt32SliceSlice(b, m.NaNEncodings)
	if m.ChannelHistogram == nil {
		b = msgp.AppendBool(b, false)
	} else {
		b = msgp.AppendBool(b, true)
		b = appendHistogram(b, *m.ChannelHistogram)
	}
	return b
}

func (m *RasterImageData) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Stokes, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Channel, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Mip, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Bounds, b, err = readBounds(b); err != nil {
		return b, err
	}
	if m.CompressionType, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.CompressionQuality, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.ImageData, b, err = readBytesSlice(b); err != nil {
		return b, err
	}
	if m.NaNEncodings, b, err = readInt32SliceSlice(b); err != nil {
		return b, err
	}
	has, b, err := msgp.ReadBoolBytes(b)
	if err != nil {
		return b, err
	}
	if has {
		var h HistogramWire
		if h, b, err = readHistogram(b); err != nil {
			return b, err
		}
		m.ChannelHistogram = &h
	} else {
		m.ChannelHistogram = nil
	}
	return b, nil
}

// RegionHistogramData carries the histograms a region's requirements
// produced for one update (spec.md §4.6).
type RegionHistogramData struct {
	FileID     int32
	RegionID   int32
	Stokes     int32
	Histograms []HistogramWire
}

func (m RegionHistogramData) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendInt32(b, m.RegionID)
	b = msgp.AppendInt32(b, m.Stokes)
	b = msgp.AppendArrayHeader(b, uint32(len(m.Histograms)))
	for _, h := range m.Histograms {
		b = appendHistogram(b, h)
	}
	return b
}

func (m *RegionHistogramData) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.RegionID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Stokes, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return b, err
	}
	m.Histograms = make([]HistogramWire, n)
	for i := range m.Histograms {
		if m.Histograms[i], b, err = readHistogram(b); err != nil {
			return b, err
		}
	}
	return b, nil
}

// SpatialProfileWire mirrors region.SpatialProfile on the wire.
type SpatialProfileWire struct {
	Coordinate string
	Start      int32
	End        int32
	Values     []float64
}

func appendSpatialProfile(b []byte, v SpatialProfileWire) []byte {
	b = msgp.AppendString(b, v.Coordinate)
	b = msgp.AppendInt32(b, v.Start)
	b = msgp.AppendInt32(b, v.End)
	b = appendFloat64Slice(b, v.Values)
	return b
}

func readSpatialProfile(b []byte) (SpatialProfileWire, []byte, error) {
	var v SpatialProfileWire
	var err error
	if v.Coordinate, b, err = msgp.ReadStringBytes(b); err != nil {
		return v, b, err
	}
	if v.Start, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	if v.End, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return v, b, err
	}
	v.Values, b, err = readFloat64Slice(b)
	return v, b, err
}

// SpatialProfileData carries the cursor value and requested profile
// cuts through it (spec.md §4.6).
type SpatialProfileData struct {
	FileID   int32
	RegionID int32
	X, Y     int32
	Channel  int32
	Stokes   int32
	Value    float64
	Profiles []SpatialProfileWire
}

func (m SpatialProfileData) AppendMsgp(b []byte) []byte {
	b = msgp.AppendInt32(b, m.FileID)
	b = msgp.AppendInt32(b, m.RegionID)
	b = msgp.AppendInt32(b, m.X)
	b = msgp.AppendInt32(b, m.Y)
	b = msgp.AppendInt32(b, m.Channel)
	b = msgp.AppendInt32(b, m.Stokes)
	b = msgp.AppendFloat64(b, m.Value)
	b = msgp.AppendArrayHeader(b, uint32(len(m.Profiles)))
	for _, p := range m.Profiles {
		b = appendSpatialProfile(b, p)
	}
	return b
}

func (m *SpatialProfileData) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.FileID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.RegionID, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.X, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Y, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Channel, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Stokes, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Value, b, err = msgp.ReadFloat64Bytes(b); err != nil {
		return b, err
	}
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return b, err
	}
	m.Profiles = make([]SpatialProfileWire, n)
	for i := range m.Profiles {
		if m.Profiles[i], b, err = readSpatialProfile(b); err != nil {
			return b, err
		}
	}
	return b, nil
}

// FileListRequest asks the browse package to enumerate one directory
// (restored from original_source/Session.cc's onFileListRequest).
type FileListRequest struct {
	Directory string
}

func (m FileListRequest) AppendMsgp(b []byte) []byte { return msgp.AppendString(b, m.Directory) }

func (m *FileListRequest) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	m.Directory, b, err = msgp.ReadStringBytes(b)
	return b, err
}

// FileEntry is one directory or file entry in a FileListResponse.
type FileEntry struct {
	Name    string
	IsDir   bool
	Size    int64
	HDUList []string
}

func appendFileEntry(b []byte, v FileEntry) []byte {
	b = msgp.AppendString(b, v.Name)
	b = msgp.AppendBool(b, v.IsDir)
	b = msgp.AppendInt64(b, v.Size)
	b = appendStringSlice(b, v.HDUList)
	return b
}

func readFileEntry(b []byte) (FileEntry, []byte, error) {
	var v FileEntry
	var err error
	if v.Name, b, err = msgp.ReadStringBytes(b); err != nil {
		return v, b, err
	}
	if v.IsDir, b, err = msgp.ReadBoolBytes(b); err != nil {
		return v, b, err
	}
	if v.Size, b, err = msgp.ReadInt64Bytes(b); err != nil {
		return v, b, err
	}
	v.HDUList, b, err = readStringSlice(b)
	return v, b, err
}

// FileListResponse answers a FileListRequest (restored from
// original_source/Session.cc).
type FileListResponse struct {
	Directory string
	Success   bool
	Message   string
	Entries   []FileEntry
}

func (m FileListResponse) AppendMsgp(b []byte) []byte {
	b = msgp.AppendString(b, m.Directory)
	b = msgp.AppendBool(b, m.Success)
	b = msgp.AppendString(b, m.Message)
	b = msgp.AppendArrayHeader(b, uint32(len(m.Entries)))
	for _, e := range m.Entries {
		b = appendFileEntry(b, e)
	}
	return b
}

func (m *FileListResponse) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.Directory, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.Success, b, err = msgp.ReadBoolBytes(b); err != nil {
		return b, err
	}
	if m.Message, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	n, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return b, err
	}
	m.Entries = make([]FileEntry, n)
	for i := range m.Entries {
		if m.Entries[i], b, err = readFileEntry(b); err != nil {
			return b, err
		}
	}
	return b, nil
}

// FileInfoRequest asks for extended metadata on one file
// (restored from original_source/FileInfoLoader.cc).
type FileInfoRequest struct {
	Directory string
	File      string
	HDU       string
}

func (m FileInfoRequest) AppendMsgp(b []byte) []byte {
	b = msgp.AppendString(b, m.Directory)
	b = msgp.AppendString(b, m.File)
	b = msgp.AppendString(b, m.HDU)
	return b
}

func (m *FileInfoRequest) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.Directory, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.File, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	m.HDU, b, err = msgp.ReadStringBytes(b)
	return b, err
}

// FileInfoResponse answers a FileInfoRequest. HeaderEntries is an
// opaque rendering of whatever key/value header fields the underlying
// reader exposed (e.g. FITS cards); cubeview does not interpret them.
type FileInfoResponse struct {
	Directory     string
	File          string
	Success       bool
	Message       string
	Width         int32
	Height        int32
	NumChan       int32
	NumStokes     int32
	HeaderEntries []string
}

func (m FileInfoResponse) AppendMsgp(b []byte) []byte {
	b = msgp.AppendString(b, m.Directory)
	b = msgp.AppendString(b, m.File)
	b = msgp.AppendBool(b, m.Success)
	b = msgp.AppendString(b, m.Message)
	b = msgp.AppendInt32(b, m.Width)
	b = msgp.AppendInt32(b, m.Height)
	b = msgp.AppendInt32(b, m.NumChan)
	b = msgp.AppendInt32(b, m.NumStokes)
	b = appendStringSlice(b, m.HeaderEntries)
	return b
}

func (m *FileInfoResponse) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.Directory, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.File, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.Success, b, err = msgp.ReadBoolBytes(b); err != nil {
		return b, err
	}
	if m.Message, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.Width, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.Height, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.NumChan, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	if m.NumStokes, b, err = msgp.ReadInt32Bytes(b); err != nil {
		return b, err
	}
	m.HeaderEntries, b, err = readStringSlice(b)
	return b, err
}

// ErrorData reports a decode/handling failure back to the client
// (spec.md §7).
type ErrorData struct {
	Message  string
	Tags     []string
	Severity int32
}

func (m ErrorData) AppendMsgp(b []byte) []byte {
	b = msgp.AppendString(b, m.Message)
	b = appendStringSlice(b, m.Tags)
	b = msgp.AppendInt32(b, m.Severity)
	return b
}

func (m *ErrorData) UnmarshalMsgp(b []byte) ([]byte, error) {
	var err error
	if m.Message, b, err = msgp.ReadStringBytes(b); err != nil {
		return b, err
	}
	if m.Tags, b, err = readStringSlice(b); err != nil {
		return b, err
	}
	m.Severity, b, err = msgp.ReadInt32Bytes(b)
	return b, err
}
