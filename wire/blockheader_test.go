package wire

import "testing"

func TestBlockHeaderRoundTrip(t *testing.T) {
	h := BlockHeader{
		Version:       1,
		PrevBlockHash: [32]byte{1, 2, 3},
		MerkleRoot:    [32]byte{4, 5, 6},
		Timestamp:     1700000000,
		Bits:          0x1d00ffff,
		Nonce:         12345,
	}
	got, err := DecodeBlockHeader(h.Encode())
	if err != nil {
		t.Fatalf("DecodeBlockHeader: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, h)
	}
}

func TestTargetMonotonicWithExponent(t *testing.T) {
	low := Target(0x1d00ffff)
	high := Target(0x1e00ffff)
	if low.Cmp(high) >= 0 {
		t.Fatalf("expected target to grow with exponent: %s >= %s", low, high)
	}
}
