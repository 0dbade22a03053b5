package utxo

import (
	"path/filepath"
	"testing"

	"github.com/btcnode/node/txmodel"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "utxo.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func coinbaseTx(value int64, pkHash [20]byte) txmodel.Transaction {
	return txmodel.Transaction{
		Version: 1,
		Inputs: []txmodel.TxIn{
			{PrevOut: txmodel.Outpoint{Index: txmodel.CoinbaseIndex}, Sequence: 0xffffffff},
		},
		Outputs: []txmodel.TxOut{{Value: value, PkScript: txmodel.BuildP2PKHScript(pkHash)}},
	}
}

func TestApplyAddsBlockOutputsToIndex(t *testing.T) {
	idx := openTestIndex(t)
	pkHash := [20]byte{1, 2, 3}
	cb := coinbaseTx(5000000000, pkHash)
	block := txmodel.Block{Transactions: []txmodel.Transaction{cb}}

	if err := idx.Apply(block, "blocks/0.bin"); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	projection, err := idx.UsersUtxoSet(pkHash)
	if err != nil {
		t.Fatalf("UsersUtxoSet: %v", err)
	}
	if len(projection) != 1 || projection[0].Value != 5000000000 {
		t.Fatalf("unexpected projection: %+v", projection)
	}
}

func TestApplyRemovesSpentOutputAcrossBlocks(t *testing.T) {
	idx := openTestIndex(t)
	minerHash := [20]byte{1}
	payeeHash := [20]byte{2}

	cb := coinbaseTx(5000000000, minerHash)
	block1 := txmodel.Block{Transactions: []txmodel.Transaction{cb}}
	if err := idx.Apply(block1, "blocks/1.bin"); err != nil {
		t.Fatalf("Apply block1: %v", err)
	}

	spend := txmodel.Transaction{
		Version: 1,
		Inputs: []txmodel.TxIn{
			{PrevOut: txmodel.Outpoint{TxID: cb.TxID(), Index: 0}, Sequence: 0xffffffff},
		},
		Outputs: []txmodel.TxOut{{Value: 4999990000, PkScript: txmodel.BuildP2PKHScript(payeeHash)}},
	}
	cb2 := coinbaseTx(5000000000, minerHash)
	cb2.Inputs[0].Script = []byte{0x02, 0x00, 0x00, 0x00} // height 2, so cb2's tx_id differs from cb's
	block2 := txmodel.Block{Transactions: []txmodel.Transaction{cb2, spend}}
	if err := idx.Apply(block2, "blocks/2.bin"); err != nil {
		t.Fatalf("Apply block2: %v", err)
	}

	minerProjection, err := idx.UsersUtxoSet(minerHash)
	if err != nil {
		t.Fatalf("UsersUtxoSet(miner): %v", err)
	}
	if len(minerProjection) != 1 {
		t.Fatalf("expected only block2's coinbase output left for miner, got %d", len(minerProjection))
	}
	if minerProjection[0].Value != 5000000000 {
		t.Fatalf("unexpected surviving output: %+v", minerProjection[0])
	}

	payeeProjection, err := idx.UsersUtxoSet(payeeHash)
	if err != nil {
		t.Fatalf("UsersUtxoSet(payee): %v", err)
	}
	if len(payeeProjection) != 1 || payeeProjection[0].Value != 4999990000 {
		t.Fatalf("unexpected payee projection: %+v", payeeProjection)
	}
}

func TestSearchUtxosToSpendFailsWhenInsufficient(t *testing.T) {
	projection := []txmodel.TxOut{{Value: 100}}
	if _, _, err := SearchUtxosToSpend(projection, 1000); err == nil {
		t.Fatal("expected NotEnoughCoins error")
	}
}

func TestSearchUtxosToSpendAccumulatesUntilAmountIsMet(t *testing.T) {
	projection := []txmodel.TxOut{{Value: 100}, {Value: 200}, {Value: 300}}
	selected, total, err := SearchUtxosToSpend(projection, 250)
	if err != nil {
		t.Fatalf("SearchUtxosToSpend: %v", err)
	}
	if total != 300 || len(selected) != 2 {
		t.Fatalf("got total=%d selected=%d, want total=300 selected=2", total, len(selected))
	}
}
