package txmodel

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"testing"
)

func TestSignTransactionProducesVerifiableP2PKHScriptSig(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	prevScript := BuildP2PKHScript([20]byte{1, 2, 3, 4, 5})

	tx := Transaction{
		Version: 1,
		Inputs: []TxIn{
			{PrevOut: Outpoint{TxID: [32]byte{7}, Index: 0}, Sequence: 0xffffffff},
		},
		Outputs: []TxOut{{Value: 1000, PkScript: prevScript}},
	}

	if err := SignTransaction(&tx, [][]byte{prevScript}, []*btcec.PrivateKey{priv}); err != nil {
		t.Fatalf("SignTransaction: %v", err)
	}

	script := tx.Inputs[0].Script
	if len(script) == 0 {
		t.Fatal("expected non-empty script_sig after signing")
	}
	sigLen := int(script[0])
	if sigLen == 0 || sigLen+1 > len(script) {
		t.Fatalf("malformed script_sig length prefix: %d", sigLen)
	}
	hashType := script[1+sigLen-1]
	if hashType != sighashAllFlag {
		t.Fatalf("expected SIGHASH_ALL flag %#x, got %#x", sighashAllFlag, hashType)
	}
}

func TestSighashAllPreimageRestoresScript(t *testing.T) {
	tx := sampleTx()
	original := append([]byte(nil), tx.Inputs[0].Script...)
	if _, err := SighashAllPreimage(&tx, 0, []byte{0xaa}); err != nil {
		t.Fatalf("SighashAllPreimage: %v", err)
	}
	if string(tx.Inputs[0].Script) != string(original) {
		t.Fatal("input script was not restored after computing the preimage")
	}
}
