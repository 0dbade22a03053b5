package txmodel

import "github.com/btcnode/node/nodeerr"

// P2PKH script opcodes (spec §3): OP_DUP OP_HASH160 <20> <pk_hash:20> OP_EQUALVERIFY OP_CHECKSIG.
const (
	opDup         byte = 0x76
	opHash160     byte = 0xa9
	opPushHash160 byte = 0x14 // push 20 bytes
	opEqualVerify byte = 0x88
	opCheckSig    byte = 0xac
)

// BuildP2PKHScript constructs the standard P2PKH pk_script for pkHash.
func BuildP2PKHScript(pkHash [20]byte) []byte {
	out := make([]byte, 0, 25)
	out = append(out, opDup, opHash160, opPushHash160)
	out = append(out, pkHash[:]...)
	out = append(out, opEqualVerify, opCheckSig)
	return out
}

// ExtractP2PKHHash reports the 20-byte pubkey hash committed in script if it
// has the P2PKH shape (spec §3), failing with NotP2PKH otherwise.
func ExtractP2PKHHash(script []byte) ([20]byte, error) {
	var hash [20]byte
	if len(script) != 25 ||
		script[0] != opDup ||
		script[1] != opHash160 ||
		script[2] != opPushHash160 ||
		script[23] != opEqualVerify ||
		script[24] != opCheckSig {
		return hash, nodeerr.New(nodeerr.KindNotP2PKH, "script is not P2PKH shape")
	}
	copy(hash[:], script[3:23])
	return hash, nil
}

// IsP2PKH reports whether script has the P2PKH shape.
func IsP2PKH(script []byte) bool {
	_, err := ExtractP2PKHHash(script)
	return err == nil
}

// BuildScriptSig constructs the P2PKH script_sig: <sig_len><sig><pubkey_len><compressed_pubkey>
// (spec §4.8).
func BuildScriptSig(derSigWithHashType []byte, compressedPubKey []byte) []byte {
	out := make([]byte, 0, 1+len(derSigWithHashType)+1+len(compressedPubKey))
	out = append(out, byte(len(derSigWithHashType)))
	out = append(out, derSigWithHashType...)
	out = append(out, byte(len(compressedPubKey)))
	out = append(out, compressedPubKey...)
	return out
}
