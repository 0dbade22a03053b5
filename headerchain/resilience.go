package headerchain

import (
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/p2p"
)

// DownloadOrRetry wraps d.Run: on any error it pops the next candidate from
// candidates, reconnects, and resumes from the current last-stored header.
// Once header sync completes against one candidate, it best-effort dials up
// to extraPeers more of the remaining candidates and returns them alongside
// the primary peer, so the block download pool has more than one peer to
// work with and "surviving peers" to retry against (spec §4.4, §4.11). It
// fails with FailedToConnect once candidates is exhausted without a
// successful header sync.
func (d *Downloader) DownloadOrRetry(candidates []string, cfg p2p.HandshakeConfig, extraPeers int) (*p2p.Peer, []*p2p.Peer, error) {
	for len(candidates) > 0 {
		addr := candidates[0]
		candidates = candidates[1:]

		peer, err := p2p.DialOutbound(addr, cfg)
		if err != nil {
			continue
		}
		if err := d.Run(peer); err != nil {
			_ = peer.Close()
			continue
		}

		return peer, dialSpares(candidates, cfg, extraPeers), nil
	}
	return nil, nil, nodeerr.New(nodeerr.KindFailedToConnect, "header sync: no candidates left")
}

// dialSpares best-effort dials up to n additional peers from the remaining
// candidates; a candidate that fails to connect or handshake is skipped,
// not retried, since these are extra capacity rather than required peers.
func dialSpares(candidates []string, cfg p2p.HandshakeConfig, n int) []*p2p.Peer {
	var spares []*p2p.Peer
	for _, addr := range candidates {
		if len(spares) >= n {
			break
		}
		peer, err := p2p.DialOutbound(addr, cfg)
		if err != nil {
			continue
		}
		spares = append(spares, peer)
	}
	return spares
}
