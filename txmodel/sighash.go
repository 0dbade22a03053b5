package txmodel

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/btcnode/node/nodeerr"
)

// sighashAllSentinel is the 4-byte SIGHASH_ALL value appended to the
// preimage before hashing (spec §4.8).
var sighashAllSentinel = [4]byte{0x01, 0x00, 0x00, 0x00}

// sighashAllFlag is the 1-byte hash-type suffix appended to the DER
// signature (spec §4.8).
const sighashAllFlag = 0x01

// SighashAllPreimage builds the digest input for signing input i: tx with
// that input's script temporarily set to prevPkScript, followed by the
// SIGHASH_ALL sentinel, hashed once with sha256 (spec §4.8 — a single
// sha256, not sha256d).
func SighashAllPreimage(tx *Transaction, inputIndex int, prevPkScript []byte) ([32]byte, error) {
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return [32]byte{}, nodeerr.New(nodeerr.KindSigningError, "sighash: input index out of range")
	}
	saved := tx.Inputs[inputIndex].Script
	tx.Inputs[inputIndex].Script = prevPkScript
	serialized := tx.Encode()
	tx.Inputs[inputIndex].Script = saved

	preimage := make([]byte, 0, len(serialized)+4)
	preimage = append(preimage, serialized...)
	preimage = append(preimage, sighashAllSentinel[:]...)
	return sha256.Sum256(preimage), nil
}

// SignInput signs input i of tx against prevPkScript with priv, and installs
// the resulting P2PKH script_sig directly into tx.Inputs[i].Script (spec
// §4.8). Only input i's script is substituted while hashing; every other
// input is hashed with whatever script it currently holds.
func SignInput(tx *Transaction, inputIndex int, prevPkScript []byte, priv *btcec.PrivateKey) error {
	digest, err := SighashAllPreimage(tx, inputIndex, prevPkScript)
	if err != nil {
		return err
	}
	sig := btcecdsa.Sign(priv, digest[:])
	der := sig.Serialize()
	derWithHashType := append(append([]byte(nil), der...), sighashAllFlag)

	compressedPub := priv.PubKey().SerializeCompressed()
	tx.Inputs[inputIndex].Script = BuildScriptSig(derWithHashType, compressedPub)
	return nil
}

// SignTransaction signs every input of tx in order. prevScripts[i] is the
// pk_script of the output referenced by tx.Inputs[i]; privKeys[i] is the
// matching private key (spec §4.8 "sign_transaction"). Each input's
// script is reset to empty before the next input is signed, so every
// preimage sees empty scripts on all other inputs; the script_sigs are
// installed once all inputs are signed.
func SignTransaction(tx *Transaction, prevScripts [][]byte, privKeys []*btcec.PrivateKey) error {
	if len(prevScripts) != len(tx.Inputs) || len(privKeys) != len(tx.Inputs) {
		return nodeerr.New(nodeerr.KindSigningError, "sign_transaction: input/key count mismatch")
	}
	for i := range tx.Inputs {
		tx.Inputs[i].Script = nil
	}
	scriptSigs := make([][]byte, len(tx.Inputs))
	for i := range tx.Inputs {
		if err := SignInput(tx, i, prevScripts[i], privKeys[i]); err != nil {
			return err
		}
		scriptSigs[i] = tx.Inputs[i].Script
		tx.Inputs[i].Script = nil
	}
	for i := range tx.Inputs {
		tx.Inputs[i].Script = scriptSigs[i]
	}
	return nil
}
