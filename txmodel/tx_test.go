package txmodel

import (
	"testing"

	"github.com/btcnode/node/wire"
)

func sampleTx() Transaction {
	return Transaction{
		Version: 1,
		Inputs: []TxIn{
			{PrevOut: Outpoint{TxID: [32]byte{1}, Index: 0}, Script: []byte{0x01, 0x02}, Sequence: 0xffffffff},
		},
		Outputs: []TxOut{
			{Value: 5000, PkScript: BuildP2PKHScript([20]byte{9, 9, 9})},
		},
		LockTime: 0,
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	tx := sampleTx()
	got, n, err := DecodeTransaction(tx.Encode())
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if n != len(tx.Encode()) {
		t.Fatalf("consumed %d bytes, want %d", n, len(tx.Encode()))
	}
	if got.Version != tx.Version || got.LockTime != tx.LockTime {
		t.Fatalf("header fields mismatch: got %+v", got)
	}
	if len(got.Inputs) != 1 || got.Inputs[0].PrevOut != tx.Inputs[0].PrevOut {
		t.Fatalf("input mismatch: got %+v", got.Inputs)
	}
	if len(got.Outputs) != 1 || got.Outputs[0].Value != tx.Outputs[0].Value {
		t.Fatalf("output mismatch: got %+v", got.Outputs)
	}
}

func TestTransactionTxIDIsSha256d(t *testing.T) {
	tx := sampleTx()
	want := wire.Sha256d(tx.Encode())
	if tx.TxID() != want {
		t.Fatalf("TxID mismatch: got %x want %x", tx.TxID(), want)
	}
}

func TestIsCoinbaseShape(t *testing.T) {
	cb := Transaction{
		Inputs: []TxIn{
			{PrevOut: Outpoint{TxID: [32]byte{}, Index: CoinbaseIndex}, Script: append(appendU32le(nil, 42), 0xde, 0xad)},
		},
		Outputs: []TxOut{{Value: 5000000000}},
	}
	if !cb.IsCoinbase() {
		t.Fatal("expected coinbase shape")
	}
	height, err := cb.CoinbaseHeight()
	if err != nil {
		t.Fatalf("CoinbaseHeight: %v", err)
	}
	if height != 42 {
		t.Fatalf("height: got %d want 42", height)
	}

	notCb := sampleTx()
	if notCb.IsCoinbase() {
		t.Fatal("regular tx misidentified as coinbase")
	}
}
