package wire

// Event names are the 32-byte header tags from spec.md §6, fed directly
// to EncodeFrame/DecodeFrame and matched in session's dispatch table.
const (
	EventRegisterViewer           = "REGISTER_VIEWER"
	EventRegisterViewerAck        = "REGISTER_VIEWER_ACK"
	EventOpenFile                 = "OPEN_FILE"
	EventOpenFileAck              = "OPEN_FILE_ACK"
	EventCloseFile                = "CLOSE_FILE"
	EventSetImageView             = "SET_IMAGE_VIEW"
	EventSetImageChannels         = "SET_IMAGE_CHANNELS"
	EventSetRegion                = "SET_REGION"
	EventSetCursor                = "SET_CURSOR"
	EventSetHistogramRequirements = "SET_HISTOGRAM_REQUIREMENTS"
	EventSetSpatialRequirements   = "SET_SPATIAL_REQUIREMENTS"
	EventRasterImageData          = "RASTER_IMAGE_DATA"
	EventRegionHistogramData      = "REGION_HISTOGRAM_DATA"
	EventSpatialProfileData       = "SPATIAL_PROFILE_DATA"
	EventErrorData                = "ERROR_DATA"

	// Restored from original_source/Session.cc; routed through the same
	// dispatch table but delegated to the browse package (see
	// SPEC_FULL.md's RESTORED FROM original_source/ section).
	EventFileListRequest  = "FILE_LIST_REQUEST"
	EventFileListResponse = "FILE_LIST_RESPONSE"
	EventFileInfoRequest  = "FILE_INFO_REQUEST"
	EventFileInfoResponse = "FILE_INFO_RESPONSE"
)
