package session

import (
	"context"
	"sync"

	"github.com/twinj/uuid"

	"github.com/skylark-imaging/cubeview/cverr"
	"github.com/skylark-imaging/cubeview/frame"
	"github.com/skylark-imaging/cubeview/imagesource"
	"github.com/skylark-imaging/cubeview/pool"
)

// Writer is the transport-level sink a Session writes encoded frames
// to. The net.Conn (or websocket) wiring lives in server/, keeping this
// package transport-agnostic, the way dvid/datastore keeps its store
// interfaces independent of the HTTP layer serving them.
type Writer interface {
	Write(frame []byte) error
}

// Browser is the external file-browser/permission collaborator from
// spec.md §6 that the browse package implements; kept as an interface
// here so session has no import-cycle on browse.
type Browser interface {
	ListDirectory(dir string) ([]FileEntry, error)
	FileInfo(dir, file, hdu string) (FileInfo, error)
	IsDirectoryReadable(dir string) bool

	// Open returns a live imagesource.Source for (directory, file, hdu).
	// Decoding the concrete format (FITS/HDF5/CASA/MIRIAD) is a
	// non-goal (spec.md §1); cubeview's own browse.FileBrowser backs
	// this only with the Synthetic source for demos and tests.
	Open(directory, file, hdu string) (imagesource.Source, error)
}

// FileEntry and FileInfo mirror the wire.FileEntry/FileInfoResponse
// shapes without importing wire, so Browser implementations don't need
// to depend on the wire package either.
type FileEntry struct {
	Name    string
	IsDir   bool
	Size    int64
	HDUList []string
}

type FileInfo struct {
	Success       bool
	Message       string
	Width, Height int
	NumChan       int
	NumStokes     int
	HeaderEntries []string
}

// Authenticator validates REGISTER_VIEWER api keys. Optional: a
// Session with no Authenticator set falls back to comparing against
// APIKey directly. server.NewAuthenticator implements this interface
// without session importing server, avoiding an import cycle.
type Authenticator interface {
	AuthorizeKey(apiKey string) bool
}

// Session is the dispatcher state for one client connection (spec.md
// §4.7, §5). Its Frame map, apiKey, and compression settings are only
// ever touched from the goroutine reading that connection; mu guards
// the Frame map, and no other locking is done beyond what Frame itself
// does. The pool and browser are shared, safe-for-concurrent-use
// collaborators.
type Session struct {
	ID     string
	APIKey string
	Auth   Authenticator

	frames map[int32]*frame.Frame

	compression pool.Settings
	workers     *pool.CompressionPool
	browser     Browser

	writer Writer
	mu     sync.Mutex // guards frames map against concurrent Dispatch calls from future multiplexed transports
}

// New mints a session id via twinj/uuid (restored from
// original_source/Session.cc's RegisterViewerAck behavior, see
// SPEC_FULL.md) and wires in the shared CompressionPool and Browser.
func New(apiKey string, workers *pool.CompressionPool, browser Browser, writer Writer) *Session {
	return &Session{
		ID:          uuid.NewV4().String(),
		APIKey:      apiKey,
		frames:      make(map[int32]*frame.Frame),
		compression: pool.Settings{NSubsets: 1},
		workers:     workers,
		browser:     browser,
		writer:      writer,
	}
}

// frameFor looks up an open Frame by fileId.
func (s *Session) frameFor(fileID int32, tag string) (*frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.frames[fileID]
	if !ok {
		return nil, cverr.New(cverr.NotFound, tag, "no open file with id %d", fileID)
	}
	return f, nil
}

func (s *Session) addFrame(fileID int32, f *frame.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames[fileID] = f
}

// removeFrame deletes and closes the Frame at fileID, returning
// whether one existed.
func (s *Session) removeFrame(fileID int32) bool {
	s.mu.Lock()
	f, ok := s.frames[fileID]
	if ok {
		delete(s.frames, fileID)
	}
	s.mu.Unlock()
	if ok {
		_ = f.Close()
	}
	return ok
}

// Close tears down every open Frame and cancels this session's queued
// compression work (spec.md §4.8, §7: disconnect destroys the session
// and cancels via the pool's RemoveByID).
func (s *Session) Close() {
	s.mu.Lock()
	ids := make([]int32, 0, len(s.frames))
	for id := range s.frames {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.removeFrame(id)
	}
	if s.workers != nil {
		s.workers.RemoveByID(s.ID)
	}
}

// send writes one already-encoded Outgoing to the session's Writer.
func (s *Session) send(out Outgoing) error {
	return s.writer.Write(encodeOutgoing(out))
}

// sendAll writes a sequence of Outgoing frames in order, stopping at
// the first write error (transport failure, not a protocol error).
func (s *Session) sendAll(outs []Outgoing) error {
	for _, out := range outs {
		if err := s.send(out); err != nil {
			return err
		}
	}
	return nil
}

// Send writes the Outgoing frames Dispatch returned, in order; the
// transport layer calls this after each successful Dispatch.
func (s *Session) Send(outs []Outgoing) error {
	return s.sendAll(outs)
}

// Context is passed to CompressionPool.Compress for every raster
// response. It is always context.Background(), so it never cancels a
// raster's compression.
func (s *Session) Context() context.Context { return context.Background() }
