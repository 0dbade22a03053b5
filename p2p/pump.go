package p2p

import (
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// DrainResult is the payload handed back once the awaited command arrives.
type DrainResult struct {
	Header  wire.MessageHeader
	Payload []byte
}

// Pump reads and dispatches messages from peer until one whose command is in
// want arrives, answering ping with pong and silently dropping
// pong/sendheaders/addr/feefilter/inv/headers along the way (spec §4.3 step
// 2, §4.4 step 4). notFoundIsFatal causes a notfound message to return an
// error instead of being drained, for block-fetch callers (spec §4.4).
func Pump(peer *Peer, want map[string]bool, notFoundIsFatal bool) (DrainResult, error) {
	for {
		hdr, payload, err := peer.Recv()
		if err != nil {
			return DrainResult{}, err
		}
		if want[hdr.Command] {
			return DrainResult{Header: hdr, Payload: payload}, nil
		}
		switch hdr.Command {
		case wire.CommandString(wire.MsgPing):
			nonce, perr := wire.DecodePingPong(payload)
			if perr != nil {
				continue
			}
			_ = peer.Send(wire.CommandString(wire.MsgPong), wire.EncodePingPong(nonce))
		case wire.CommandString(wire.MsgNotFound):
			if notFoundIsFatal {
				return DrainResult{}, nodeerr.New(nodeerr.KindObjectNotFound, "notfound")
			}
		case wire.CommandString(wire.MsgPong),
			wire.CommandString(wire.MsgSendHeaders),
			wire.CommandString(wire.MsgAddr),
			wire.CommandString(wire.MsgFeeFilter),
			wire.CommandString(wire.MsgInv),
			wire.CommandString(wire.MsgHeaders):
			continue
		default:
			continue
		}
	}
}

// WantOnly builds a single-command want-set for Pump.
func WantOnly(mt wire.MessageType) map[string]bool {
	return map[string]bool{wire.CommandString(mt): true}
}
