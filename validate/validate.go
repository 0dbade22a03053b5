// Package validate runs proof-of-work and Merkle-root checks on a parsed
// block and persists it exactly once (spec §4.5).
package validate

import (
	"math/big"
	"os"

	"github.com/btcnode/node/merkle"
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/txmodel"
	"github.com/btcnode/node/wire"
)

// CheckProofOfWork requires reverse(header.hash) <= target(header.n_bits)
// (spec §3, §4.5 step 2, §9 endianness note).
func CheckProofOfWork(header wire.BlockHeader) error {
	reversed := wire.ReverseBytes32(header.Hash())
	hashInt := new(big.Int).SetBytes(reversed[:])
	if hashInt.Cmp(wire.Target(header.Bits)) > 0 {
		return nodeerr.New(nodeerr.KindInvalidProofOfWork, "block hash exceeds target")
	}
	return nil
}

// CheckMerkleRoot builds the Merkle tree over block's transaction ids and
// requires its root to equal header.merkle_root (spec §4.5 step 3).
func CheckMerkleRoot(block txmodel.Block) error {
	leaves := block.TxIDs()
	tree := merkle.Build(leaves)
	if tree.Root() != block.Header.MerkleRoot {
		return nodeerr.New(nodeerr.KindInvalidMerkleRoot, "merkle root mismatch")
	}
	return nil
}

// ValidateBlock runs steps 1-3 of spec §4.5: parse, proof-of-work, Merkle
// root. It is the "validate only" sibling of ValidateAndSaveBlock and writes
// nothing to disk.
func ValidateBlock(raw []byte) (txmodel.Block, error) {
	block, err := txmodel.DecodeBlock(raw)
	if err != nil {
		return block, err
	}
	if err := CheckProofOfWork(block.Header); err != nil {
		return block, err
	}
	if err := CheckMerkleRoot(block); err != nil {
		return block, err
	}
	return block, nil
}

// ValidateAndSaveBlock runs ValidateBlock and, on success, writes raw to
// path using exclusive-create; a pre-existing path is reported via
// AlreadyDownloaded and the file is not rewritten (spec §4.5 step 4).
func ValidateAndSaveBlock(raw []byte, path string) (txmodel.Block, error) {
	block, err := ValidateBlock(raw)
	if err != nil {
		return block, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return block, nodeerr.New(nodeerr.KindAlreadyDownloaded, path)
		}
		return block, nodeerr.Wrap(nodeerr.KindFailedToCreate, "create block file", err)
	}
	defer f.Close()
	if _, err := f.Write(raw); err != nil {
		return block, nodeerr.Wrap(nodeerr.KindFailedToWrite, "write block file", err)
	}
	return block, nil
}
