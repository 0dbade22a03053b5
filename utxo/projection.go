package utxo

import (
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/txmodel"
)

// UsersUtxoSet filters idx's outputs down to those whose pk_script decodes
// to pkHash, the per-address projection used by the wallet (spec §4.7
// "users_utxo_set").
func (idx *Index) UsersUtxoSet(pkHash [20]byte) ([]txmodel.TxOut, error) {
	all, err := idx.Snapshot()
	if err != nil {
		return nil, err
	}
	var mine []txmodel.TxOut
	for _, o := range all {
		h, err := txmodel.ExtractP2PKHHash(o.PkScript)
		if err != nil {
			continue
		}
		if h == pkHash {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

// Balance sums the values of a projection (spec §3 Account.Balance).
func Balance(projection []txmodel.TxOut) int64 {
	var total int64
	for _, o := range projection {
		total += o.Value
	}
	return total
}

// SearchUtxosToSpend greedily accumulates outputs from projection in
// iteration order until their summed value meets or exceeds amount, failing
// with NotEnoughCoins otherwise (spec §4.7).
func SearchUtxosToSpend(projection []txmodel.TxOut, amount int64) ([]txmodel.TxOut, int64, error) {
	var selected []txmodel.TxOut
	var total int64
	for _, o := range projection {
		selected = append(selected, o)
		total += o.Value
		if total >= amount {
			return selected, total, nil
		}
	}
	return nil, 0, nodeerr.New(nodeerr.KindNotEnoughCoins, "insufficient funds for requested amount")
}
