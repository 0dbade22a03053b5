// Package walletaddr converts between base58 P2PKH addresses and the
// 20-byte pubkey hashes committed in script (spec §3).
package walletaddr

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for HASH160, no replacement in the ecosystem

	"github.com/btcnode/node/nodeerr"
)

// TestnetVersion is the one-byte version prefix for testnet P2PKH addresses.
const TestnetVersion byte = 0x6f

// Hash160 computes RIPEMD160(SHA256(pubkey)), the P2PKH pubkey hash.
func Hash160(pubKey []byte) [20]byte {
	sha := sha256.Sum256(pubKey)
	h := ripemd160.New()
	h.Write(sha[:])
	sum := h.Sum(nil)
	var out [20]byte
	copy(out[:], sum)
	return out
}

func checksum(versionAndHash []byte) [4]byte {
	first := sha256.Sum256(versionAndHash)
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:4])
	return out
}

// Encode builds a base58 P2PKH address from a pubkey hash (spec §3).
func Encode(pkHash [20]byte) string {
	payload := make([]byte, 0, 1+20+4)
	payload = append(payload, TestnetVersion)
	payload = append(payload, pkHash[:]...)
	c := checksum(payload)
	payload = append(payload, c[:]...)
	return base58.Encode(payload)
}

// Decode strips the version byte and checksum from a base58 address,
// returning the 20-byte pubkey hash (spec §3 "strips the version byte and
// 4-byte checksum").
func Decode(address string) ([20]byte, error) {
	var hash [20]byte
	raw, err := base58.Decode(address)
	if err != nil {
		return hash, nodeerr.Wrap(nodeerr.KindInvalidFormat, "base58 decode address", err)
	}
	if len(raw) != 1+20+4 {
		return hash, nodeerr.New(nodeerr.KindInvalidFormat, "address: wrong decoded length")
	}
	version := raw[0]
	pkHash := raw[1:21]
	wantChecksum := raw[21:25]
	gotChecksum := checksum(raw[:21])
	for i := 0; i < 4; i++ {
		if wantChecksum[i] != gotChecksum[i] {
			return hash, nodeerr.New(nodeerr.KindInvalidFormat, "address: checksum mismatch")
		}
	}
	if version != TestnetVersion {
		return hash, nodeerr.New(nodeerr.KindInvalidFormat, "address: unexpected version byte")
	}
	copy(hash[:], pkHash)
	return hash, nil
}
