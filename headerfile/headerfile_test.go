package headerfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btcnode/node/wire"
)

func appendRawByte(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write([]byte{0x42})
	return err
}

func sampleHeaders(n int) []wire.BlockHeader {
	out := make([]wire.BlockHeader, n)
	for i := range out {
		out[i] = wire.BlockHeader{Version: 1, Timestamp: uint32(i), Nonce: uint32(i)}
	}
	return out
}

func TestLastOnMissingFileIsNotOk(t *testing.T) {
	f := Open(filepath.Join(t.TempDir(), "headers.dat"))
	_, ok, err := f.Last()
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing header file")
	}
}

func TestAppendAndReadAllRoundTrip(t *testing.T) {
	f := Open(filepath.Join(t.TempDir(), "headers.dat"))
	headers := sampleHeaders(3)
	if err := f.Append(headers[:2]); err != nil {
		t.Fatalf("Append first batch: %v", err)
	}
	if err := f.Append(headers[2:]); err != nil {
		t.Fatalf("Append second batch: %v", err)
	}

	got, err := f.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d headers, want 3", len(got))
	}
	for i, h := range got {
		if h.Hash() != headers[i].Hash() {
			t.Fatalf("header %d mismatch", i)
		}
	}

	last, ok, err := f.Last()
	if err != nil || !ok {
		t.Fatalf("Last: ok=%v err=%v", ok, err)
	}
	if last.Hash() != headers[2].Hash() {
		t.Fatal("Last did not return the most recently appended header")
	}
}

func TestFindFromReturnsHeadersAfterLocator(t *testing.T) {
	f := Open(filepath.Join(t.TempDir(), "headers.dat"))
	headers := sampleHeaders(5)
	if err := f.Append(headers); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := f.FindFrom(headers[1].Hash(), 10)
	if err != nil {
		t.Fatalf("FindFrom: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d headers after locator, want 3", len(got))
	}
	if got[0].Hash() != headers[2].Hash() {
		t.Fatal("FindFrom did not start immediately after the locator")
	}
}

func TestFindFromUnknownLocatorIsEmptyNotError(t *testing.T) {
	f := Open(filepath.Join(t.TempDir(), "headers.dat"))
	if err := f.Append(sampleHeaders(2)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := f.FindFrom([32]byte{0xff}, 10)
	if err != nil {
		t.Fatalf("FindFrom: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for unknown locator, got %d", len(got))
	}
}

func TestReadAllRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers.dat")
	f := Open(path)
	if err := f.Append(sampleHeaders(1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := appendRawByte(path); err != nil {
		t.Fatalf("corrupt file: %v", err)
	}
	if _, err := f.ReadAll(); err == nil {
		t.Fatal("expected InvalidFormat for a file not a multiple of the record size")
	}
}
