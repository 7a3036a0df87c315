// Package session implements the per-connection dispatcher from
// spec.md §4.7/§5: a Session owns a map of open Frames keyed by fileId,
// routes incoming wire events to handlers through a straight name→func
// table, and funnels outgoing responses through a single writer so
// ordering-within-a-session (spec.md §5) holds. The dispatch table
// mirrors the name→CommandFunc registry in janelia-flyem/dvid's
// message package, adapted from a process-global registry to a
// per-Session instance method table since each Session needs its own
// closed-over Frame map.
package session

import (
	"sync"

	"github.com/skylark-imaging/cubeview/cverr"
	"github.com/skylark-imaging/cubeview/cvlog"
	"github.com/skylark-imaging/cubeview/wire"
)

// Handler processes one decoded request payload and returns zero or
// more outgoing frames to write, in order.
type Handler func(s *Session, requestID uint32, payload []byte) ([]Outgoing, error)

// Outgoing is one fully-built wire frame awaiting Writer.Write.
type Outgoing struct {
	EventName string
	RequestID uint32
	Payload   []byte
}

var dispatchTable = map[string]Handler{
	wire.EventRegisterViewer:           handleRegisterViewer,
	wire.EventOpenFile:                 handleOpenFile,
	wire.EventCloseFile:                handleCloseFile,
	wire.EventSetImageView:             handleSetImageView,
	wire.EventSetImageChannels:         handleSetImageChannels,
	wire.EventSetRegion:                handleSetRegion,
	wire.EventSetCursor:                handleSetCursor,
	wire.EventSetHistogramRequirements: handleSetHistogramRequirements,
	wire.EventSetSpatialRequirements:   handleSetSpatialRequirements,
	wire.EventFileListRequest:          handleFileListRequest,
	wire.EventFileInfoRequest:          handleFileInfoRequest,
}

var dispatchMu sync.RWMutex

// RegisterHandler overrides or extends the dispatch table; exposed for
// tests that substitute a handler, and for wiring in a custom browse
// implementation at startup.
func RegisterHandler(eventName string, h Handler) {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	dispatchTable[eventName] = h
}

func lookupHandler(eventName string) (Handler, bool) {
	dispatchMu.RLock()
	defer dispatchMu.RUnlock()
	h, ok := dispatchTable[eventName]
	return h, ok
}

// Dispatch decodes one raw frame and routes it to its handler, applying
// the error propagation policy from spec.md §7: decode failures are
// logged and dropped (no response, connection survives); unknown events
// are logged and dropped; handler errors other than Cancelled become an
// ERROR_DATA frame; Fatal errors are returned to the caller so it can
// close the connection.
func (s *Session) Dispatch(raw []byte) ([]Outgoing, error) {
	eventName, requestID, payload, err := wire.DecodeFrame(raw)
	if err != nil {
		cvlog.Warningf("session %s: malformed frame: %v", s.ID, err)
		return nil, nil
	}

	handler, ok := lookupHandler(eventName)
	if !ok {
		cvlog.Warningf("session %s: unknown event %q, dropping", s.ID, eventName)
		return nil, nil
	}

	out, herr := handler(s, requestID, payload)
	if herr == nil {
		return out, nil
	}

	cerr, ok := herr.(*cverr.Error)
	if !ok {
		cerr = cverr.Wrap(cverr.Fatal, eventName, herr, "unexpected error type")
	}
	if cerr.Kind == cverr.Cancelled {
		return nil, nil
	}
	cvlog.Errorf("session %s: request %d: %v", s.ID, requestID, cerr)
	if cerr.Kind == cverr.Fatal {
		return nil, cerr
	}

	errData := wire.ErrorData{
		Message:  cerr.Msg,
		Tags:     []string{cerr.Tag},
		Severity: severityFor(cerr.Kind),
	}
	return []Outgoing{{
		EventName: wire.EventErrorData,
		RequestID: requestID,
		Payload:   errData.AppendMsgp(nil),
	}}, nil
}

// severityFor maps a cverr.Kind to the DEBUG..CRITICAL severity scale
// from spec.md §6's ERROR_DATA definition.
func severityFor(k cverr.Kind) int32 {
	switch k {
	case cverr.InvalidRequest, cverr.NotFound, cverr.PermissionDenied:
		return 2 // WARN
	case cverr.IoError, cverr.FormatError, cverr.DimensionError, cverr.CodecError:
		return 3 // ERROR
	case cverr.Fatal:
		return 4 // CRITICAL
	default:
		return 1 // INFO
	}
}
