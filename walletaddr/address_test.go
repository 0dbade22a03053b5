package walletaddr

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

func TestAddressRoundTrip(t *testing.T) {
	hash := [20]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	addr := Encode(hash)
	got, err := Decode(addr)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != hash {
		t.Fatalf("hash mismatch: got %x want %x", got, hash)
	}
}

func TestDecodeRejectsTamperedChecksum(t *testing.T) {
	hash := [20]byte{1}
	addr := Encode(hash)
	tampered := addr[:len(addr)-1] + "z"
	if _, err := Decode(tampered); err == nil {
		t.Fatal("expected checksum failure on tampered address")
	}
}

func TestWIFRoundTrip(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	wif := EncodeWIF(priv)
	got, err := DecodeWIF(wif)
	if err != nil {
		t.Fatalf("DecodeWIF: %v", err)
	}
	if string(got.Serialize()) != string(priv.Serialize()) {
		t.Fatal("decoded private key does not match original")
	}
}

func TestDecodeWIFRejectsWrongLength(t *testing.T) {
	if _, err := DecodeWIF("2"); err == nil {
		t.Fatal("expected InvalidFormat for undersized WIF payload")
	}
}
