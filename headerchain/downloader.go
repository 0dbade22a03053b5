// Package headerchain extends the local header file from the last stored
// header up to a peer's tip, and wraps that download in a per-candidate
// retry loop for initial block header sync (spec §4.3, §4.11).
package headerchain

import (
	"github.com/btcnode/node/headerfile"
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/p2p"
	"github.com/btcnode/node/wire"
)

// Downloader drives a single peer session to extend file to the peer's
// current tip (spec §4.3).
type Downloader struct {
	File         headerfile.File
	StartingDate uint32
}

// New builds a Downloader writing to file, filtering the tail batch by
// startingDate (spec §4.3 invariant "no header with timestamp < starting_date
// is written during the tail batch").
func New(file headerfile.File, startingDate uint32) *Downloader {
	return &Downloader{File: file, StartingDate: startingDate}
}

// Run extends the header file by repeatedly sending getheaders against peer
// and appending the results, terminating when a batch smaller than
// wire.MaxHeadersPerMsg arrives (spec §4.3).
func (d *Downloader) Run(peer *p2p.Peer) error {
	last, ok, err := d.File.Last()
	if err != nil {
		return err
	}
	if !ok {
		if err := d.File.Append([]wire.BlockHeader{Genesis}); err != nil {
			return err
		}
		last = Genesis
	}

	for {
		locatorHash := last.Hash()
		payload, err := wire.EncodeGetHeaders(wire.GetHeadersPayload{
			Version:      0,
			BlockLocator: [][32]byte{locatorHash},
			HashStop:     [32]byte{},
		})
		if err != nil {
			return err
		}
		if err := peer.Send(wire.CommandString(wire.MsgGetHeaders), payload); err != nil {
			return err
		}

		res, err := p2p.Pump(peer, p2p.WantOnly(wire.MsgHeaders), false)
		if err != nil {
			return err
		}
		headers, err := wire.DecodeHeaders(res.Payload)
		if err != nil {
			return err
		}

		if len(headers) == wire.MaxHeadersPerMsg {
			if err := d.File.Append(headers); err != nil {
				return nodeerr.Wrap(nodeerr.KindFailedToWriteAll, "append full header batch", err)
			}
			last = headers[len(headers)-1]
			continue
		}

		floor := last.Timestamp
		if d.StartingDate > floor {
			floor = d.StartingDate
		}
		tail := make([]wire.BlockHeader, 0, len(headers))
		for _, h := range headers {
			if h.Timestamp >= floor {
				tail = append(tail, h)
			}
		}
		if err := d.File.Append(tail); err != nil {
			return nodeerr.Wrap(nodeerr.KindFailedToWriteAll, "append tail header batch", err)
		}
		return nil
	}
}
