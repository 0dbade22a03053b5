package wire

import (
	"bytes"
	"testing"
)

func TestEmptyPayloadChecksumIsFixed(t *testing.T) {
	c4, err := checksum4(nil)
	if err != nil {
		t.Fatalf("checksum4: %v", err)
	}
	if c4 != emptyPayloadChecksum {
		t.Fatalf("expected %x, got %x", emptyPayloadChecksum, c4)
	}
}

func TestWriteReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello world")
	if err := WriteMessage(&buf, "version", payload); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	hdr, got, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if hdr.Command != "version" {
		t.Fatalf("command: got %q", hdr.Command)
	}
	if hdr.PayloadSize != uint32(len(payload)) {
		t.Fatalf("payload size: got %d want %d", hdr.PayloadSize, len(payload))
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload: got %q want %q", got, payload)
	}
}

func TestReadMessageRejectsBadChecksum(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, "ping", []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff
	if _, _, err := ReadMessage(bytes.NewReader(corrupted)); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestCommandOfUnknown(t *testing.T) {
	if _, err := CommandOf("bogus"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
