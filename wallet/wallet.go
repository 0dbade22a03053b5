package wallet

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/txmodel"
	"github.com/btcnode/node/utxo"
	"github.com/btcnode/node/walletaddr"
)

// Wallet is an ordered sequence of Accounts, head being current, plus the
// set of block paths already consumed so a re-delivered "new block"
// notification is a no-op (spec §3 "Wallet").
type Wallet struct {
	Accounts       []Account
	SeenBlockPaths map[string]bool

	index *utxo.Index

	In  chan Message
	Out chan Notification
}

// New creates an empty wallet backed by idx for UTXO projections.
func New(idx *utxo.Index) *Wallet {
	return &Wallet{
		SeenBlockPaths: make(map[string]bool),
		index:          idx,
		In:             make(chan Message, 64),
		Out:            make(chan Notification, 64),
	}
}

// Current returns the head account, the wallet's "current" account (spec
// §4.8 "Accounts list discipline").
func (w *Wallet) Current() (*Account, error) {
	if len(w.Accounts) == 0 {
		return nil, nodeerr.New(nodeerr.KindAccountNotFound, "wallet has no accounts")
	}
	return &w.Accounts[0], nil
}

// AppendAccount adds a new account to the tail of the list (spec §4.8 "New
// accounts are appended").
func (w *Wallet) AppendAccount(a Account) {
	w.Accounts = append(w.Accounts, a)
}

// SwitchCurrent makes the account at index i current by swapping it with
// the head; the rest of the list keeps its relative order (spec §4.8
// "Switching the current account is a swap-to-head, not a reorder").
func (w *Wallet) SwitchCurrent(i int) error {
	if i < 0 || i >= len(w.Accounts) {
		return nodeerr.New(nodeerr.KindAccountNotFound, "account index out of range")
	}
	w.Accounts[0], w.Accounts[i] = w.Accounts[i], w.Accounts[0]
	return nil
}

// CreateUnsignedTransaction builds an unsigned spend from the current
// account to target for amount, paying fee, using UTXOs selected from the
// account's own projection (spec §4.8 "create_unsigned_transaction").
// It returns the transaction along with the pk_script of each spent output,
// needed by SignTransaction.
func (w *Wallet) CreateUnsignedTransaction(target string, amount, fee int64) (*txmodel.Transaction, [][]byte, error) {
	acc, err := w.Current()
	if err != nil {
		return nil, nil, err
	}
	projection, err := acc.Projection(w.index)
	if err != nil {
		return nil, nil, err
	}
	selected, totalIn, err := utxo.SearchUtxosToSpend(projection, amount)
	if err != nil {
		return nil, nil, err
	}

	targetHash, err := walletaddr.Decode(target)
	if err != nil {
		return nil, nil, err
	}
	senderHash, err := acc.PubKeyHash()
	if err != nil {
		return nil, nil, err
	}

	tx := &txmodel.Transaction{Version: 1}
	prevScripts := make([][]byte, 0, len(selected))
	for _, o := range selected {
		tx.Inputs = append(tx.Inputs, txmodel.TxIn{
			PrevOut:  txmodel.Outpoint{TxID: o.TxID, Index: o.Index},
			Sequence: 0xffffffff,
		})
		prevScripts = append(prevScripts, o.PkScript)
	}

	tx.Outputs = []txmodel.TxOut{
		{Value: totalIn - amount, PkScript: txmodel.BuildP2PKHScript(senderHash)},
		{Value: amount - fee, PkScript: txmodel.BuildP2PKHScript(targetHash)},
	}

	return tx, prevScripts, nil
}

// SignTransaction signs every input of tx against prevScripts with the
// current account's private key (spec §4.8 "sign_transaction").
func (w *Wallet) SignTransaction(tx *txmodel.Transaction, prevScripts [][]byte) error {
	acc, err := w.Current()
	if err != nil {
		return err
	}
	priv, err := acc.PrivateKey()
	if err != nil {
		return err
	}
	privKeys := make([]*btcec.PrivateKey, len(tx.Inputs))
	for i := range privKeys {
		privKeys[i] = priv
	}
	if err := txmodel.SignTransaction(tx, prevScripts, privKeys); err != nil {
		return err
	}
	acc.SpentPending[tx.TxID()] = true
	return nil
}

// CreateTransaction builds and signs a spend in one step (spec §4.8
// "create_transaction = create_unsigned + sign").
func (w *Wallet) CreateTransaction(target string, amount, fee int64) (*txmodel.Transaction, error) {
	tx, prevScripts, err := w.CreateUnsignedTransaction(target, amount, fee)
	if err != nil {
		return nil, err
	}
	if err := w.SignTransaction(tx, prevScripts); err != nil {
		return nil, err
	}
	return tx, nil
}

// ProcessNewBlockPath implements the confirmation protocol: read the block
// at path, and for every account, move any pending tx id that appears in
// the block to confirmed, emitting a notification per move. Re-delivery of
// an already-seen path is a no-op (spec §4.8 "Confirmation protocol").
func (w *Wallet) ProcessNewBlockPath(path string) error {
	if w.SeenBlockPaths[path] {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nodeerr.Wrap(nodeerr.KindFailedToRead, "read block for confirmation", err)
	}
	block, err := txmodel.DecodeBlock(raw)
	if err != nil {
		return err
	}
	inBlock := make(map[[32]byte]bool, len(block.Transactions))
	for _, id := range block.TxIDs() {
		inBlock[id] = true
	}

	for i := range w.Accounts {
		acc := &w.Accounts[i]
		confirmSet(acc.SpentPending, acc.SpentConfirmed, inBlock, func(txID [32]byte) {
			w.Out <- Notification{Confirmed: &ConfirmedEvent{Account: acc, TxID: txID}}
		})
		confirmSet(acc.ReceivedPending, acc.ReceivedConfirmed, inBlock, func(txID [32]byte) {
			w.Out <- Notification{Confirmed: &ConfirmedEvent{Account: acc, TxID: txID}}
		})
	}

	w.SeenBlockPaths[path] = true
	return nil
}

func confirmSet(pending, confirmed map[[32]byte]bool, inBlock map[[32]byte]bool, notify func([32]byte)) {
	for txID := range pending {
		if inBlock[txID] {
			delete(pending, txID)
			confirmed[txID] = true
			notify(txID)
		}
	}
}

// HandleIncomingTransaction marks tx as a pending receipt for whichever
// account's address it pays, if any, and notifies the UI (spec §4.9 "tx →
// parse the transaction and enqueue it to the wallet channel").
func (w *Wallet) HandleIncomingTransaction(tx *txmodel.Transaction) {
	txID := tx.TxID()
	for i := range w.Accounts {
		acc := &w.Accounts[i]
		pkHash, err := acc.PubKeyHash()
		if err != nil {
			continue
		}
		for _, out := range tx.Outputs {
			h, err := txmodel.ExtractP2PKHHash(out.PkScript)
			if err == nil && h == pkHash {
				acc.ReceivedPending[txID] = true
				w.Out <- Notification{NewTransaction: &NewTransactionEvent{Account: acc, TxID: txID}}
				break
			}
		}
	}
}

// Run consumes messages from In until the channel is closed, applying block
// confirmations, incoming transactions, and account-creation requests (spec
// §7 "Cyclic ownership ... broken by message passing").
func (w *Wallet) Run() {
	for msg := range w.In {
		switch {
		case msg.NewBlockPath != "":
			if err := w.ProcessNewBlockPath(msg.NewBlockPath); err != nil {
				continue
			}
		case msg.NewTransaction != nil:
			w.HandleIncomingTransaction(msg.NewTransaction)
		case msg.CreateNewAccount != nil:
			priv, err := btcec.NewPrivateKey()
			if err != nil {
				continue
			}
			w.AppendAccount(NewAccount(priv, msg.CreateNewAccount.DisplayName))
		}
	}
}

func (a *Account) String() string {
	return fmt.Sprintf("%s (%s)", a.DisplayName, a.BitcoinAddress)
}
