// Package wallet tracks a set of Bitcoin testnet accounts, their per-address
// UTXO projections, and pending/confirmed spend and receipt sets, and builds
// and signs P2PKH transactions on their behalf (spec §3, §4.8).
package wallet

import (
	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/btcnode/node/txmodel"
	"github.com/btcnode/node/utxo"
	"github.com/btcnode/node/walletaddr"
)

// Account is one tracked address: its keypair, display name, and the sets of
// transaction ids this account has spent or received, split into pending
// (not yet seen in a confirmed block) and confirmed (spec §3, §4.8).
type Account struct {
	BitcoinAddress string
	PrivateKeyWIF  string
	DisplayName    string

	priv *btcec.PrivateKey

	SpentPending      map[[32]byte]bool
	SpentConfirmed    map[[32]byte]bool
	ReceivedPending   map[[32]byte]bool
	ReceivedConfirmed map[[32]byte]bool
}

// NewAccount builds an Account from a freshly generated or imported private
// key and a display name.
func NewAccount(priv *btcec.PrivateKey, displayName string) Account {
	pkHash := walletaddr.Hash160(priv.PubKey().SerializeCompressed())
	return Account{
		BitcoinAddress:    walletaddr.Encode(pkHash),
		PrivateKeyWIF:     walletaddr.EncodeWIF(priv),
		DisplayName:       displayName,
		priv:              priv,
		SpentPending:      make(map[[32]byte]bool),
		SpentConfirmed:    make(map[[32]byte]bool),
		ReceivedPending:   make(map[[32]byte]bool),
		ReceivedConfirmed: make(map[[32]byte]bool),
	}
}

// PubKeyHash returns the 20-byte HASH160 committed in the account's address.
func (a *Account) PubKeyHash() ([20]byte, error) {
	return walletaddr.Decode(a.BitcoinAddress)
}

// PrivateKey lazily decodes PrivateKeyWIF, caching the result, so accounts
// loaded from disk (which only carry the WIF string) can still sign.
func (a *Account) PrivateKey() (*btcec.PrivateKey, error) {
	if a.priv != nil {
		return a.priv, nil
	}
	priv, err := walletaddr.DecodeWIF(a.PrivateKeyWIF)
	if err != nil {
		return nil, err
	}
	a.priv = priv
	return priv, nil
}

// Projection returns this account's current spendable outputs from idx
// (spec §4.7 "users_utxo_set").
func (a *Account) Projection(idx *utxo.Index) ([]txmodel.TxOut, error) {
	pkHash, err := a.PubKeyHash()
	if err != nil {
		return nil, err
	}
	return idx.UsersUtxoSet(pkHash)
}

// Balance sums this account's current projection (spec §3 Account.balance).
func (a *Account) Balance(idx *utxo.Index) (int64, error) {
	proj, err := a.Projection(idx)
	if err != nil {
		return 0, err
	}
	return utxo.Balance(proj), nil
}
