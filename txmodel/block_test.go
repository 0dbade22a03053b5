package txmodel

import (
	"testing"

	"github.com/btcnode/node/wire"
)

func coinbaseTx(height uint32) Transaction {
	script := appendU32le(nil, height)
	return Transaction{
		Version: 1,
		Inputs: []TxIn{
			{PrevOut: Outpoint{TxID: [32]byte{}, Index: CoinbaseIndex}, Script: script, Sequence: 0xffffffff},
		},
		Outputs: []TxOut{{Value: 5000000000, PkScript: BuildP2PKHScript([20]byte{1})}},
	}
}

func encodeBlock(t *testing.T, header wire.BlockHeader, txs []Transaction) []byte {
	t.Helper()
	b := append([]byte{}, header.Encode()...)
	b = wire.AppendCompactSize(b, uint64(len(txs)))
	for _, tx := range txs {
		b = append(b, tx.Encode()...)
	}
	return b
}

func TestDecodeBlockRequiresCoinbaseFirst(t *testing.T) {
	header := wire.BlockHeader{Version: 1}
	txs := []Transaction{sampleTx()} // not a coinbase
	raw := encodeBlock(t, header, txs)
	if _, err := DecodeBlock(raw); err == nil {
		t.Fatal("expected error when first transaction is not a coinbase")
	}
}

func TestDecodeBlockAndTxIDs(t *testing.T) {
	header := wire.BlockHeader{Version: 1}
	txs := []Transaction{coinbaseTx(100), sampleTx()}
	raw := encodeBlock(t, header, txs)

	block, err := DecodeBlock(raw)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	ids := block.TxIDs()
	if len(ids) != 2 {
		t.Fatalf("got %d tx ids, want 2", len(ids))
	}
	if ids[0] != txs[0].TxID() || ids[1] != txs[1].TxID() {
		t.Fatal("tx ids do not match coinbase-first order")
	}
}
