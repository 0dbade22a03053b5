// Package utxo maintains the unspent-output index and its per-address
// projection (spec §4.7), backed by bbolt the same way the teacher's
// node/store package backs its chain state.
package utxo

import (
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/txmodel"
)

var bucketOutputsByTxID = []byte("outputs_by_txid")

// Index is the UtxoIndex (spec §3): tx_id -> ordered still-spendable
// outputs of that transaction. It is shared by the listener pool (mutator)
// and the wallet (reader); both acquire mu (spec §4.7 concurrency note).
type Index struct {
	db *bolt.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) the bbolt-backed UTXO index at path.
func Open(path string) (*Index, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.KindFailedToOpen, "open utxo db", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketOutputsByTxID)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, nodeerr.Wrap(nodeerr.KindFailedToOpen, "init utxo buckets", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database.
func (idx *Index) Close() error {
	return idx.db.Close()
}

func (idx *Index) get(tx *bolt.Tx, txID [32]byte) ([]txmodel.TxOut, error) {
	v := tx.Bucket(bucketOutputsByTxID).Get(txID[:])
	if v == nil {
		return nil, nil
	}
	return decodeOutputs(txID, v)
}

func (idx *Index) put(tx *bolt.Tx, txID [32]byte, outs []txmodel.TxOut) error {
	if len(outs) == 0 {
		return tx.Bucket(bucketOutputsByTxID).Delete(txID[:])
	}
	return tx.Bucket(bucketOutputsByTxID).Put(txID[:], encodeOutputs(outs))
}

// Apply processes the transactions of block in order (spec §4.7):
// for each input, remove the matching (prev_tx_id, prev_index) output,
// dropping the key entirely if it becomes empty; then insert the
// transaction's own outputs under its tx_id, tagged with blockPath.
func (idx *Index) Apply(block txmodel.Block, blockPath string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.db.Update(func(tx *bolt.Tx) error {
		for i := range block.Transactions {
			t := &block.Transactions[i]
			if !t.IsCoinbase() {
				for _, in := range t.Inputs {
					outs, err := idx.get(tx, in.PrevOut.TxID)
					if err != nil {
						return err
					}
					if outs == nil {
						continue
					}
					outs = removeByIndex(outs, in.PrevOut.Index)
					if err := idx.put(tx, in.PrevOut.TxID, outs); err != nil {
						return err
					}
				}
			}
			txID := t.TxID()
			newOuts := make([]txmodel.TxOut, len(t.Outputs))
			for i, o := range t.Outputs {
				o.TxID = txID
				o.Index = uint32(i)
				o.BlockPath = blockPath
				newOuts[i] = o
			}
			if err := idx.put(tx, txID, newOuts); err != nil {
				return err
			}
		}
		return nil
	})
}

func removeByIndex(outs []txmodel.TxOut, index uint32) []txmodel.TxOut {
	for i, o := range outs {
		if o.Index == index {
			return append(outs[:i:i], outs[i+1:]...)
		}
	}
	return outs
}

// Snapshot returns every still-spendable output in the index. Readers
// acquire the same mutex used by Apply (spec §4.7).
func (idx *Index) Snapshot() ([]txmodel.TxOut, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var all []txmodel.TxOut
	err := idx.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOutputsByTxID).ForEach(func(k, v []byte) error {
			var txID [32]byte
			copy(txID[:], k)
			outs, err := decodeOutputs(txID, v)
			if err != nil {
				return err
			}
			all = append(all, outs...)
			return nil
		})
	})
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.KindFailedToRead, "snapshot utxo index", err)
	}
	return all, nil
}
