package wallet

import "github.com/btcnode/node/txmodel"

// Notification is a UI-facing event emitted by the wallet thread (spec §4.8,
// §7 "User-visible behavior").
type Notification struct {
	NewTransaction *NewTransactionEvent
	Confirmed      *ConfirmedEvent
}

// NewTransactionEvent reports an incoming transaction touching one of the
// wallet's addresses.
type NewTransactionEvent struct {
	Account *Account
	TxID    [32]byte
}

// ConfirmedEvent reports a previously pending transaction moving to
// confirmed because it appeared in a newly processed block.
type ConfirmedEvent struct {
	Account *Account
	TxID    [32]byte
}

// Message is one item on the wallet's single-consumer input channel (spec
// §4.9, §7 "Cyclic ownership ... broken by message passing").
type Message struct {
	NewBlockPath     string
	NewTransaction   *txmodel.Transaction
	CreateNewAccount *CreateAccountRequest
}

// CreateAccountRequest asks the wallet thread to mint and append a fresh
// account.
type CreateAccountRequest struct {
	DisplayName string
}
