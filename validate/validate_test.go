package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btcnode/node/merkle"
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/txmodel"
	"github.com/btcnode/node/wire"
)

// easyBits is an n_bits value whose target (0xffff << 248) exceeds every
// possible 256-bit hash, so any header satisfies the proof-of-work check.
const easyBits uint32 = 0x2200ffff

func coinbaseTx(height uint32) txmodel.Transaction {
	script := []byte{byte(height), byte(height >> 8), byte(height >> 16)}
	return txmodel.Transaction{
		Version: 1,
		Inputs: []txmodel.TxIn{
			{PrevOut: txmodel.Outpoint{Index: txmodel.CoinbaseIndex}, Script: script, Sequence: 0xffffffff},
		},
		Outputs: []txmodel.TxOut{{Value: 5000000000, PkScript: txmodel.BuildP2PKHScript([20]byte{1})}},
	}
}

func encodeBlock(header wire.BlockHeader, txs []txmodel.Transaction) []byte {
	b := append([]byte{}, header.Encode()...)
	b = wire.AppendCompactSize(b, uint64(len(txs)))
	for _, tx := range txs {
		b = append(b, tx.Encode()...)
	}
	return b
}

func TestCheckProofOfWorkAcceptsHeaderBelowTarget(t *testing.T) {
	header := wire.BlockHeader{Version: 1, Bits: easyBits}
	if err := CheckProofOfWork(header); err != nil {
		t.Fatalf("CheckProofOfWork: %v", err)
	}
}

func TestCheckProofOfWorkRejectsHeaderAboveTarget(t *testing.T) {
	header := wire.BlockHeader{Version: 1, Bits: 0x1d00ffff}
	if err := CheckProofOfWork(header); err == nil {
		t.Fatal("expected InvalidProofOfWork for a header that cannot satisfy mainnet-strength difficulty")
	}
}

func TestCheckMerkleRootAcceptsMatchingRoot(t *testing.T) {
	cb := coinbaseTx(1)
	leaves := [][32]byte{cb.TxID()}
	root := merkle.Build(leaves).Root()
	block := txmodel.Block{Header: wire.BlockHeader{MerkleRoot: root}, Transactions: []txmodel.Transaction{cb}}
	if err := CheckMerkleRoot(block); err != nil {
		t.Fatalf("CheckMerkleRoot: %v", err)
	}
}

func TestCheckMerkleRootRejectsMismatch(t *testing.T) {
	cb := coinbaseTx(1)
	block := txmodel.Block{Header: wire.BlockHeader{MerkleRoot: [32]byte{0xff}}, Transactions: []txmodel.Transaction{cb}}
	if err := CheckMerkleRoot(block); err == nil {
		t.Fatal("expected InvalidMerkleRoot for a tampered root")
	}
}

func TestValidateAndSaveBlockAlreadyDownloadedIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	cb := coinbaseTx(7)
	leaves := [][32]byte{cb.TxID()}
	root := merkle.Build(leaves).Root()
	header := wire.BlockHeader{Bits: easyBits, MerkleRoot: root}
	raw := encodeBlock(header, []txmodel.Transaction{cb})
	path := filepath.Join(dir, "block.bin")

	if _, err := ValidateAndSaveBlock(raw, path); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected block file to exist: %v", err)
	}

	_, err := ValidateAndSaveBlock(raw, path)
	if err == nil {
		t.Fatal("expected AlreadyDownloaded on second save to the same path")
	}
	if !nodeerr.Is(err, nodeerr.KindAlreadyDownloaded) {
		t.Fatalf("expected KindAlreadyDownloaded, got %v", err)
	}
}
