package walletaddr

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/mr-tron/base58"

	"github.com/btcnode/node/nodeerr"
)

// TestnetWIFVersion is the one-byte version prefix for testnet WIF private
// keys; compressed keys carry a trailing 0x01 before the checksum.
const TestnetWIFVersion byte = 0xef

// EncodeWIF encodes a compressed-pubkey private key in Wallet Import Format
// (spec §6 "private_key_wif").
func EncodeWIF(priv *btcec.PrivateKey) string {
	payload := make([]byte, 0, 1+32+1+4)
	payload = append(payload, TestnetWIFVersion)
	payload = append(payload, priv.Serialize()...)
	payload = append(payload, 0x01) // compressed pubkey marker
	c := checksum(payload)
	payload = append(payload, c[:]...)
	return base58.Encode(payload)
}

// DecodeWIF parses a WIF-encoded private key.
func DecodeWIF(wif string) (*btcec.PrivateKey, error) {
	raw, err := base58.Decode(wif)
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.KindInvalidFormat, "base58 decode WIF", err)
	}
	if len(raw) != 1+32+1+4 {
		return nil, nodeerr.New(nodeerr.KindInvalidFormat, "WIF: wrong decoded length")
	}
	version := raw[0]
	keyBytes := raw[1:33]
	compressedFlag := raw[33]
	wantChecksum := raw[34:38]
	gotChecksum := checksum(raw[:34])
	for i := 0; i < 4; i++ {
		if wantChecksum[i] != gotChecksum[i] {
			return nil, nodeerr.New(nodeerr.KindInvalidFormat, "WIF: checksum mismatch")
		}
	}
	if version != TestnetWIFVersion || compressedFlag != 0x01 {
		return nil, nodeerr.New(nodeerr.KindInvalidFormat, "WIF: unexpected version or compression flag")
	}
	priv, _ := btcec.PrivKeyFromBytes(keyBytes)
	return priv, nil
}
