// Package wire implements the binary frame layout and structured
// message payloads from spec.md §6: a 40-byte header (32-byte
// null-padded event name, little-endian uint32 request id, 4 reserved
// bytes) followed by a payload. Payloads are encoded with tinylib/msgp's
// low-level Append/Read helpers rather than full codegen, since the
// message set here is small and hand-tracking the field order keeps the
// wire format exactly as spec.md §6 lays it out.
package wire

import (
	"encoding/binary"
	"fmt"
)

const (
	eventNameSize = 32
	headerSize    = eventNameSize + 4 + 4
)

// EncodeFrame lays out one wire message: event name, request id, and an
// already-encoded payload.
func EncodeFrame(eventName string, requestID uint32, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))
	n := copy(buf, eventName)
	for i := n; i < eventNameSize; i++ {
		buf[i] = 0
	}
	binary.LittleEndian.PutUint32(buf[eventNameSize:], requestID)
	// offset 36..39 reserved, left zero
	copy(buf[headerSize:], payload)
	return buf
}

// DecodeFrame splits a raw message into its event name, request id, and
// payload. The event name is the substring before the first null byte.
func DecodeFrame(buf []byte) (eventName string, requestID uint32, payload []byte, err error) {
	if len(buf) < headerSize {
		return "", 0, nil, fmt.Errorf("frame too short: %d bytes, need at least %d", len(buf), headerSize)
	}
	nameBytes := buf[:eventNameSize]
	end := eventNameSize
	for i, b := range nameBytes {
		if b == 0 {
			end = i
			break
		}
	}
	eventName = string(nameBytes[:end])
	requestID = binary.LittleEndian.Uint32(buf[eventNameSize : eventNameSize+4])
	payload = buf[headerSize:]
	return eventName, requestID, payload, nil
}
