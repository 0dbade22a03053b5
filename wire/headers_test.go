package wire

import "testing"

func sampleHeader(n byte) BlockHeader {
	return BlockHeader{
		Version:       1,
		PrevBlockHash: [32]byte{n},
		MerkleRoot:    [32]byte{n, n},
		Timestamp:     1700000000 + uint32(n),
		Bits:          0x1d00ffff,
		Nonce:         uint32(n),
	}
}

func TestHeadersRoundTrip(t *testing.T) {
	headers := []BlockHeader{sampleHeader(1), sampleHeader(2), sampleHeader(3)}
	enc, err := EncodeHeaders(headers)
	if err != nil {
		t.Fatalf("EncodeHeaders: %v", err)
	}
	got, err := DecodeHeaders(enc)
	if err != nil {
		t.Fatalf("DecodeHeaders: %v", err)
	}
	if len(got) != len(headers) {
		t.Fatalf("got %d headers, want %d", len(got), len(headers))
	}
	for i := range headers {
		if got[i] != headers[i] {
			t.Fatalf("header %d mismatch: got %+v want %+v", i, got[i], headers[i])
		}
	}
}

func TestHeadersRejectsOversizedBatch(t *testing.T) {
	headers := make([]BlockHeader, MaxHeadersPerMsg+1)
	if _, err := EncodeHeaders(headers); err == nil {
		t.Fatal("expected error for batch exceeding MaxHeadersPerMsg")
	}
}

func TestGetHeadersRoundTrip(t *testing.T) {
	req := GetHeadersPayload{
		Version:      70015,
		BlockLocator: [][32]byte{{1, 2, 3}},
		HashStop:     [32]byte{},
	}
	enc, err := EncodeGetHeaders(req)
	if err != nil {
		t.Fatalf("EncodeGetHeaders: %v", err)
	}
	got, err := DecodeGetHeaders(enc)
	if err != nil {
		t.Fatalf("DecodeGetHeaders: %v", err)
	}
	if got.Version != req.Version || len(got.BlockLocator) != 1 || got.BlockLocator[0] != req.BlockLocator[0] {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, req)
	}
}
