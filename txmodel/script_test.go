package txmodel

import "testing"

func TestP2PKHScriptRoundTrip(t *testing.T) {
	hash := [20]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	script := BuildP2PKHScript(hash)
	if !IsP2PKH(script) {
		t.Fatal("built script not recognised as P2PKH")
	}
	got, err := ExtractP2PKHHash(script)
	if err != nil {
		t.Fatalf("ExtractP2PKHHash: %v", err)
	}
	if got != hash {
		t.Fatalf("hash mismatch: got %x want %x", got, hash)
	}
}

func TestExtractP2PKHHashRejectsOtherShapes(t *testing.T) {
	if _, err := ExtractP2PKHHash([]byte{0x51}); err == nil {
		t.Fatal("expected NotP2PKH error for non-P2PKH script")
	}
}
