package txmodel

import (
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// Block is a parsed block: header plus its transaction list (spec §3, §4.5).
type Block struct {
	Header       wire.BlockHeader
	Transactions []Transaction
}

// DecodeBlock parses a full block payload: an 80-byte header, a CompactSize
// transaction count, then that many transactions. The first transaction must
// have the coinbase shape (spec §4.5 step 1).
func DecodeBlock(b []byte) (Block, error) {
	var blk Block
	if len(b) < wire.BlockHeaderBytes {
		return blk, nodeerr.New(nodeerr.KindInvalidFormat, "block: too short for header")
	}
	header, err := wire.DecodeBlockHeader(b[:wire.BlockHeaderBytes])
	if err != nil {
		return blk, err
	}
	c := newCursor(b[wire.BlockHeaderBytes:])
	txCountU64, err := c.readCompactSize()
	if err != nil {
		return blk, err
	}
	txCount, err := toIntLen(txCountU64, "tx_count")
	if err != nil {
		return blk, err
	}
	if txCount == 0 {
		return blk, nodeerr.New(nodeerr.KindInvalidFormat, "block: zero transactions")
	}
	txs := make([]Transaction, 0, txCount)
	for i := 0; i < txCount; i++ {
		tx, err := decodeTransactionFromCursor(c)
		if err != nil {
			return blk, err
		}
		txs = append(txs, tx)
	}
	if !txs[0].IsCoinbase() {
		return blk, nodeerr.New(nodeerr.KindInvalidFormat, "block: first transaction is not a coinbase")
	}
	blk.Header = header
	blk.Transactions = txs
	return blk, nil
}

// TxIDs returns the transaction ids in block order, coinbase first, the
// leaf list the Merkle tree is built from (spec §4.6).
func (blk Block) TxIDs() [][32]byte {
	ids := make([][32]byte, len(blk.Transactions))
	for i := range blk.Transactions {
		tx := blk.Transactions[i]
		ids[i] = tx.TxID()
	}
	return ids
}
