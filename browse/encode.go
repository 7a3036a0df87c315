package browse

import (
	"bytes"
	"encoding/gob"

	"github.com/golang/snappy"

	"github.com/skylark-imaging/cubeview/session"
)

// Cache values are gob-encoded: this is a private on-process cache blob
// format, never a wire payload, so there's no cross-language or
// cross-version concern the way there is for wire's msgp-based
// payloads — gob's reflection-driven (de)serialization is the right
// tool for a same-process cache, same reasoning DVID doesn't reach for
// a schema'd format on its internal badger/leveldb value encodings.
func encodeEntries(entries []session.FileEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeEntries(compressed []byte) ([]session.FileEntry, error) {
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, err
	}
	var entries []session.FileEntry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func encodeFileInfo(info session.FileInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(info); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFileInfo(compressed []byte) (session.FileInfo, error) {
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return session.FileInfo{}, err
	}
	var info session.FileInfo
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&info); err != nil {
		return session.FileInfo{}, err
	}
	return info, nil
}
