package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/skylark-imaging/cubeview/wire"
)

func TestConnWriterReadFrameRoundTrip(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()
	defer srv.Close()

	w := &connWriter{conn: client}
	frame := wire.EncodeFrame(wire.EventRegisterViewer, 7, []byte("payload"))

	done := make(chan error, 1)
	go func() { done <- w.Write(frame) }()

	got, err := readFrame(bufio.NewReader(srv))
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Write: %v", err)
	}
	if string(got) != string(frame) {
		t.Fatalf("round trip mismatch: got %v want %v", got, frame)
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()
	defer srv.Close()

	w := &connWriter{conn: client}
	_ = w.conn.SetWriteDeadline(time.Now().Add(time.Second))
	go func() {
		// a length prefix that exceeds maxFrameBytes, with no body to match
		prefixOnly := []byte{0xFF, 0xFF, 0xFF, 0xFF}
		_, _ = w.conn.Write(prefixOnly)
	}()

	if _, err := readFrame(bufio.NewReader(srv)); err == nil {
		t.Fatal("expected an error for an oversized frame length")
	}
}
