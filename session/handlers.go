package session

import (
	"github.com/skylark-imaging/cubeview/codec"
	"github.com/skylark-imaging/cubeview/cverr"
	"github.com/skylark-imaging/cubeview/cvlog"
	"github.com/skylark-imaging/cubeview/frame"
	"github.com/skylark-imaging/cubeview/imagesource"
	"github.com/skylark-imaging/cubeview/pool"
	"github.com/skylark-imaging/cubeview/region"
	"github.com/skylark-imaging/cubeview/wire"
)

func encodeOutgoing(out Outgoing) []byte {
	return wire.EncodeFrame(out.EventName, out.RequestID, out.Payload)
}

func handleRegisterViewer(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.RegisterViewer
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventRegisterViewer, err, "decode failed")
	}
	var success bool
	if s.Auth != nil {
		success = s.Auth.AuthorizeKey(req.APIKey)
	} else {
		success = s.APIKey == "" || req.APIKey == s.APIKey
	}
	msg := ""
	if !success {
		msg = "invalid api key"
	}
	ack := wire.RegisterViewerAck{SessionID: s.ID, Success: success, Message: msg}
	return []Outgoing{{EventName: wire.EventRegisterViewerAck, RequestID: reqID, Payload: ack.AppendMsgp(nil)}}, nil
}

func handleOpenFile(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.OpenFile
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventOpenFile, err, "decode failed")
	}

	if !s.browser.IsDirectoryReadable(req.Directory) {
		ack := wire.OpenFileAck{FileID: req.FileID, Success: false, Message: "permission denied"}
		return []Outgoing{{EventName: wire.EventOpenFileAck, RequestID: reqID, Payload: ack.AppendMsgp(nil)}}, nil
	}

	src, err := s.browser.Open(req.Directory, req.File, req.HDU)
	if err != nil {
		ack := wire.OpenFileAck{FileID: req.FileID, Success: false, Message: err.Error()}
		return []Outgoing{{EventName: wire.EventOpenFileAck, RequestID: reqID, Payload: ack.AppendMsgp(nil)}}, nil
	}

	f, err := frame.Open(src)
	if err != nil {
		ack := wire.OpenFileAck{FileID: req.FileID, Success: false, Message: err.Error()}
		return []Outgoing{{EventName: wire.EventOpenFileAck, RequestID: reqID, Payload: ack.AppendMsgp(nil)}}, nil
	}

	s.addFrame(req.FileID, f)
	shape := f.Shape()
	ack := wire.OpenFileAck{
		FileID: req.FileID, Success: true,
		Width: int32(shape.Width), Height: int32(shape.Height),
		NumChan: int32(shape.Depth), NumStokes: int32(shape.Stokes),
	}
	return []Outgoing{{EventName: wire.EventOpenFileAck, RequestID: reqID, Payload: ack.AppendMsgp(nil)}}, nil
}

func handleCloseFile(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.CloseFile
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventCloseFile, err, "decode failed")
	}
	if req.FileID == -1 {
		s.mu.Lock()
		ids := make([]int32, 0, len(s.frames))
		for id := range s.frames {
			ids = append(ids, id)
		}
		s.mu.Unlock()
		for _, id := range ids {
			s.removeFrame(id)
		}
		return nil, nil
	}
	s.removeFrame(req.FileID)
	return nil, nil
}

// rasterResponse builds the RASTER_IMAGE_DATA payload for f's current
// view, compressing through s.workers and embedding the matching
// histogram (spec.md §8 property 7).
func rasterResponse(s *Session, f *frame.Frame, fileID, reqID uint32) ([]Outgoing, error) {
	plane, err := f.GetImageData(true)
	if err != nil {
		return nil, err
	}

	row := make([]float32, plane.NX*plane.NY)
	for y := 0; y < plane.NY; y++ {
		for x := 0; x < plane.NX; x++ {
			row[x+y*plane.NX] = float32(plane.At(x, y))
		}
	}

	tlog := cvlog.NewTimeLog()
	bands, err := s.workers.Compress(s.Context(), s.ID, 0, plane.NX, plane.NY, row, s.compression)
	if err != nil {
		return nil, cverr.Wrap(cverr.CodecError, wire.EventRasterImageData, err, "compression failed")
	}
	if cvlog.Verbose {
		var compressedSize int
		for _, b := range bands {
			compressedSize += len(b.Compressed)
		}
		tlog.Infof("compressed %dx%d tile (%s -> %s)", plane.NX, plane.NY, cvlog.FormatBytes(4*len(row)), cvlog.FormatBytes(compressedSize))
	}

	hist, err := f.GetHistogramForCurrentPlane()
	if err != nil {
		return nil, err
	}

	imageData := make([][]byte, len(bands))
	nanEncodings := make([][]int32, len(bands))
	for i, b := range bands {
		imageData[i] = b.Compressed
		nanEncodings[i] = b.NaNEncoding
	}

	histWire := wire.HistogramWire{
		Channel: int32(hist.Channel), Stokes: int32(hist.Stokes), NumBins: int32(hist.NumBins),
		BinWidth: hist.BinWidth, FirstBinCenter: hist.FirstBinCenter, Bins: hist.Bins,
	}
	b := f.Bounds()
	raster := wire.RasterImageData{
		FileID: int32(fileID), Stokes: int32(f.Stokes()), Channel: int32(f.Channel()), Mip: int32(f.Mip()),
		Bounds:             wire.Bounds{XMin: int32(b.XMin), YMin: int32(b.YMin), XMax: int32(b.XMax), YMax: int32(b.YMax)},
		CompressionType:    int32(s.compression.Kind),
		CompressionQuality: int32(s.compression.Quality),
		ImageData:          imageData,
		NaNEncodings:       nanEncodings,
		ChannelHistogram:   &histWire,
	}
	return []Outgoing{{EventName: wire.EventRasterImageData, RequestID: reqID, Payload: raster.AppendMsgp(nil)}}, nil
}

func handleSetImageView(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.SetImageView
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventSetImageView, err, "decode failed")
	}
	f, err := s.frameFor(req.FileID, wire.EventSetImageView)
	if err != nil {
		return nil, err
	}

	s.compression = pool.Settings{
		Kind:     codec.Kind(req.CompressionType),
		Quality:  int(req.CompressionQuality),
		NSubsets: int(req.NumSubsets),
	}
	bounds := imagesource.Bounds{XMin: int(req.Bounds.XMin), YMin: int(req.Bounds.YMin), XMax: int(req.Bounds.XMax), YMax: int(req.Bounds.YMax)}
	if err := f.SetView(bounds, int(req.Mip)); err != nil {
		return nil, err
	}
	return rasterResponse(s, f, uint32(req.FileID), reqID)
}

func handleSetImageChannels(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.SetImageChannels
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventSetImageChannels, err, "decode failed")
	}
	f, err := s.frameFor(req.FileID, wire.EventSetImageChannels)
	if err != nil {
		return nil, err
	}
	if err := f.SetChannels(int(req.Channel), int(req.Stokes)); err != nil {
		return nil, err
	}
	return rasterResponse(s, f, uint32(req.FileID), reqID)
}

func wireTypeToRegionType(t int32) region.Type { return region.Type(t) }

func handleSetRegion(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.SetRegion
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventSetRegion, err, "decode failed")
	}
	f, err := s.frameFor(req.FileID, wire.EventSetRegion)
	if err != nil {
		return nil, err
	}
	points := make([]region.ControlPoint, len(req.ControlPoints))
	for i, p := range req.ControlPoints {
		points[i] = region.ControlPoint{X: p.X, Y: p.Y}
	}
	if err := f.AddOrUpdateRegion(int(req.RegionID), wireTypeToRegionType(req.Type), points, req.Rotation); err != nil {
		return nil, err
	}
	return nil, nil
}

func handleSetCursor(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.SetCursor
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventSetCursor, err, "decode failed")
	}
	f, err := s.frameFor(req.FileID, wire.EventSetCursor)
	if err != nil {
		return nil, err
	}
	if err := f.SetCursor(req.Point.X, req.Point.Y); err != nil {
		return nil, err
	}
	return spatialProfileResponse(f, uint32(req.FileID), reqID)
}

func spatialProfileResponse(f *frame.Frame, fileID uint32, reqID uint32) ([]Outgoing, error) {
	x, y, channel, stokes, value, profiles, err := f.SpatialProfiles()
	if err != nil {
		return nil, err
	}
	wireProfiles := make([]wire.SpatialProfileWire, len(profiles))
	for i, p := range profiles {
		wireProfiles[i] = wire.SpatialProfileWire{Coordinate: p.Coordinate, Start: int32(p.Start), End: int32(p.End), Values: p.Values}
	}
	data := wire.SpatialProfileData{
		FileID: int32(fileID), RegionID: region.ReservedCursorID,
		X: int32(x), Y: int32(y), Channel: int32(channel), Stokes: int32(stokes),
		Value: value, Profiles: wireProfiles,
	}
	return []Outgoing{{EventName: wire.EventSpatialProfileData, RequestID: reqID, Payload: data.AppendMsgp(nil)}}, nil
}

func handleSetHistogramRequirements(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.SetHistogramRequirements
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventSetHistogramRequirements, err, "decode failed")
	}
	f, err := s.frameFor(req.FileID, wire.EventSetHistogramRequirements)
	if err != nil {
		return nil, err
	}
	configs := make([]region.HistogramConfig, len(req.Configs))
	for i, c := range req.Configs {
		configs[i] = region.HistogramConfig{Channel: int(c.Channel), NumBins: int(c.NumBins)}
	}
	if err := f.SetHistogramRequirements(int(req.RegionID), configs); err != nil {
		return nil, err
	}

	stokes, histograms, err := f.RegionHistograms(int(req.RegionID))
	if err != nil {
		return nil, err
	}
	wireHistograms := make([]wire.HistogramWire, len(histograms))
	for i, h := range histograms {
		wireHistograms[i] = wire.HistogramWire{
			Channel: int32(h.Channel), Stokes: int32(h.Stokes), NumBins: int32(h.NumBins),
			BinWidth: h.BinWidth, FirstBinCenter: h.FirstBinCenter, Bins: h.Bins,
		}
	}
	data := wire.RegionHistogramData{FileID: req.FileID, RegionID: req.RegionID, Stokes: int32(stokes), Histograms: wireHistograms}
	return []Outgoing{{EventName: wire.EventRegionHistogramData, RequestID: reqID, Payload: data.AppendMsgp(nil)}}, nil
}

func handleSetSpatialRequirements(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.SetSpatialRequirements
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventSetSpatialRequirements, err, "decode failed")
	}
	f, err := s.frameFor(req.FileID, wire.EventSetSpatialRequirements)
	if err != nil {
		return nil, err
	}
	if err := f.SetSpatialRequirements(int(req.RegionID), req.Profiles); err != nil {
		return nil, err
	}
	if req.RegionID != region.ReservedCursorID {
		return nil, nil
	}
	return spatialProfileResponse(f, uint32(req.FileID), reqID)
}

func handleFileListRequest(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.FileListRequest
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventFileListRequest, err, "decode failed")
	}
	entries, err := s.browser.ListDirectory(req.Directory)
	resp := wire.FileListResponse{Directory: req.Directory}
	if err != nil {
		resp.Success = false
		resp.Message = err.Error()
	} else {
		resp.Success = true
		resp.Entries = make([]wire.FileEntry, len(entries))
		for i, e := range entries {
			resp.Entries[i] = wire.FileEntry{Name: e.Name, IsDir: e.IsDir, Size: e.Size, HDUList: e.HDUList}
		}
	}
	return []Outgoing{{EventName: wire.EventFileListResponse, RequestID: reqID, Payload: resp.AppendMsgp(nil)}}, nil
}

func handleFileInfoRequest(s *Session, reqID uint32, payload []byte) ([]Outgoing, error) {
	var req wire.FileInfoRequest
	if _, err := (&req).UnmarshalMsgp(payload); err != nil {
		return nil, cverr.Wrap(cverr.InvalidRequest, wire.EventFileInfoRequest, err, "decode failed")
	}
	info, err := s.browser.FileInfo(req.Directory, req.File, req.HDU)
	resp := wire.FileInfoResponse{Directory: req.Directory, File: req.File}
	if err != nil {
		resp.Success = false
		resp.Message = err.Error()
	} else {
		resp.Success = info.Success
		resp.Message = info.Message
		resp.Width, resp.Height = int32(info.Width), int32(info.Height)
		resp.NumChan, resp.NumStokes = int32(info.NumChan), int32(info.NumStokes)
		resp.HeaderEntries = info.HeaderEntries
	}
	return []Outgoing{{EventName: wire.EventFileInfoResponse, RequestID: reqID, Payload: resp.AppendMsgp(nil)}}, nil
}
