// Package listener runs the post-IBD per-peer worker loop: respond to
// pings, fetch advertised blocks and transactions, apply UTXO updates, and
// forward wallet-relevant events (spec §4.9).
package listener

import (
	"github.com/btcnode/node/blockpool"
	"github.com/btcnode/node/blockstore"
	"github.com/btcnode/node/p2p"
	"github.com/btcnode/node/txmodel"
	"github.com/btcnode/node/utxo"
	"github.com/btcnode/node/wallet"
	"github.com/btcnode/node/wire"
)

// Worker services one live peer forever, applying block downloads to index
// and forwarding events to wallet.In (spec §4.9, §5 "one thread per peer
// during live listening").
type Worker struct {
	Peer  *p2p.Peer
	Index *utxo.Index
	Store blockstore.Store
	In    chan wallet.Message
}

// New builds a live-phase worker around peer.
func New(peer *p2p.Peer, idx *utxo.Index, store blockstore.Store, walletIn chan wallet.Message) *Worker {
	return &Worker{Peer: peer, Index: idx, Store: store, In: walletIn}
}

// Run loops forever on peer's inbound messages until the stream errors or
// closes (spec §4.9). It never writes to the header file and touches only
// the UtxoIndex mutex and the wallet channel, per spec §4.9's shared-state
// note.
func (w *Worker) Run() error {
	for {
		hdr, payload, err := w.Peer.Recv()
		if err != nil {
			return err
		}
		if err := w.dispatch(hdr, payload); err != nil {
			return err
		}
	}
}

func (w *Worker) dispatch(hdr wire.MessageHeader, payload []byte) error {
	switch hdr.Command {
	case wire.CommandString(wire.MsgPing):
		nonce, err := wire.DecodePingPong(payload)
		if err != nil {
			return nil
		}
		return w.Peer.Send(wire.CommandString(wire.MsgPong), wire.EncodePingPong(nonce))

	case wire.CommandString(wire.MsgInv):
		items, err := wire.DecodeInv(payload)
		if err != nil {
			return nil
		}
		for _, item := range items {
			switch item.Type {
			case wire.InvTypeBlock:
				if err := w.handleBlockInv(item.Hash); err != nil {
					return err
				}
			case wire.InvTypeTx:
				if err := w.requestTx(item.Hash); err != nil {
					return err
				}
			}
		}
		return nil

	case wire.CommandString(wire.MsgTx):
		tx, _, err := txmodel.DecodeTransaction(payload)
		if err != nil {
			return nil
		}
		w.In <- wallet.Message{NewTransaction: &tx}
		return nil

	default:
		return nil // any other control message is parsed and discarded
	}
}

// handleBlockInv runs the single-block download mechanism of §4.4 against
// the owned peer, applies the UTXO update on success, and signals the
// wallet (spec §4.9).
func (w *Worker) handleBlockInv(hash [32]byte) error {
	block, err := blockpool.FetchLiveBlock(w.Peer, hash, w.Store)
	if err != nil {
		return err
	}
	if err := w.Index.Apply(block, w.Store.Path(hash)); err != nil {
		return err
	}
	w.In <- wallet.Message{NewBlockPath: w.Store.Path(hash)}
	return nil
}

func (w *Worker) requestTx(hash [32]byte) error {
	payload, err := wire.EncodeInv([]wire.InvVector{{Type: wire.InvTypeTx, Hash: hash}})
	if err != nil {
		return err
	}
	return w.Peer.Send(wire.CommandString(wire.MsgGetData), payload)
}
