// Package blockpool downloads a stream of requested block hashes across a
// bounded set of peer-owning workers, validating and persisting each block
// exactly once (spec §4.4).
package blockpool

import (
	"sync"
	"time"

	"github.com/btcnode/node/blockstore"
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/p2p"
	"github.com/btcnode/node/txmodel"
	"github.com/btcnode/node/validate"
	"github.com/btcnode/node/wire"
)

// ReadTimeout bounds each block fetch attempt during IBD: the read deadline
// is set once before the getdata/block exchange for a hash, so every read of
// that attempt shares the same 60-second window rather than a lifetime
// budget for the worker. It is cleared before the worker exits so its peer
// can be reused for unbounded live broadcast (spec §4.4, §5).
const ReadTimeout = 60 * time.Second

// MaxFailedCount is the number of per-worker download failures tolerated
// before the worker gives up its peer and exits (spec §4.4 step 5).
const MaxFailedCount = 5

// Pool coordinates one round of workers fetching blocks named on Hashes.
type Pool struct {
	Hashes   chan [32]byte
	Failed   chan [32]byte
	Store    blockstore.Store
	Progress chan [32]byte // successfully downloaded hashes, for UI progress
}

// New builds a Pool with the given hash backlog capacity, writing finished
// blocks under store.
func New(store blockstore.Store, backlog int) *Pool {
	return &Pool{
		Hashes:   make(chan [32]byte, backlog),
		Failed:   make(chan [32]byte, backlog),
		Store:    store,
		Progress: make(chan [32]byte, backlog),
	}
}

// RunWorker owns peer exclusively until pool.Hashes closes or the worker
// exceeds MaxFailedCount. It reports ok=true when the channel closed before
// the failure budget was spent, meaning peer is still trustworthy for a
// further round (spec §4.4 "worker ... return the owned peer to the
// caller").
func RunWorker(peer *p2p.Peer, pool *Pool) (survivor *p2p.Peer, ok bool) {
	failures := 0

	for hash := range pool.Hashes {
		if pool.Store.Exists(hash) {
			pool.Progress <- hash
			continue
		}
		_ = peer.SetReadDeadline(time.Now().Add(ReadTimeout))
		if err := fetchAndSave(peer, hash, pool.Store); err != nil {
			pool.Failed <- hash
			failures++
			if failures > MaxFailedCount {
				_ = peer.SetReadDeadline(time.Time{})
				return peer, false
			}
			continue
		}
		pool.Progress <- hash
	}
	_ = peer.SetReadDeadline(time.Time{})
	return peer, true
}

func fetchAndSave(peer *p2p.Peer, hash [32]byte, store blockstore.Store) (retErr error) {
	payload, err := wire.EncodeInv([]wire.InvVector{{Type: wire.InvTypeBlock, Hash: hash}})
	if err != nil {
		return err
	}
	if err := peer.Send(wire.CommandString(wire.MsgGetData), payload); err != nil {
		return err
	}

	res, err := p2p.Pump(peer, p2p.WantOnly(wire.MsgBlock), true)
	if err != nil {
		return err
	}

	_, err = validate.ValidateAndSaveBlock(res.Payload, store.Path(hash))
	if err != nil && !nodeerr.Is(err, nodeerr.KindAlreadyDownloaded) {
		return err
	}
	return nil
}

// Download drives hashes to completion across peers, one worker per peer.
// Each round queues the outstanding hashes onto a fresh Pool and runs every
// peer concurrently; any hash a worker failed on is retried in the next
// round against whichever peers survived (spec §4.4 "a second channel
// carries hashes whose download failed, for sequential retry against
// surviving peers"). It stops once every hash has succeeded or no peers are
// left, returning the peers still alive and any hash still outstanding
// because every peer gave up on it.
func Download(peers []*p2p.Peer, store blockstore.Store, hashes [][32]byte) (survivors []*p2p.Peer, failed [][32]byte) {
	pending := hashes

	for len(pending) > 0 && len(peers) > 0 {
		round := New(store, len(pending))
		for _, h := range pending {
			round.Hashes <- h
		}
		close(round.Hashes)

		var wg sync.WaitGroup
		results := make([]*p2p.Peer, len(peers))
		alive := make([]bool, len(peers))
		for i, peer := range peers {
			wg.Add(1)
			go func(i int, peer *p2p.Peer) {
				defer wg.Done()
				results[i], alive[i] = RunWorker(peer, round)
			}(i, peer)
		}
		wg.Wait()
		close(round.Progress)
		close(round.Failed)

		var retry [][32]byte
		for hash := range round.Failed {
			retry = append(retry, hash)
		}
		// Hashes no worker dequeued (every worker gave up first) are still
		// outstanding too.
		for hash := range round.Hashes {
			retry = append(retry, hash)
		}

		var next []*p2p.Peer
		for i, p := range results {
			if alive[i] {
				next = append(next, p)
			}
		}
		peers = next
		pending = retry
	}

	return peers, pending
}

// FetchLiveBlock downloads a single block out-of-band from an already
// connected peer, the mechanism reused by the listener pool when an inv
// advertises MSG_BLOCK after IBD (spec §4.9, reusing §4.4's per-block
// exchange without the worker/channel scaffolding).
func FetchLiveBlock(peer *p2p.Peer, hash [32]byte, store blockstore.Store) (txmodel.Block, error) {
	if store.Exists(hash) {
		raw, err := store.Read(hash)
		if err != nil {
			return txmodel.Block{}, err
		}
		return txmodel.DecodeBlock(raw)
	}
	if err := fetchAndSave(peer, hash, store); err != nil {
		return txmodel.Block{}, err
	}
	raw, err := store.Read(hash)
	if err != nil {
		return txmodel.Block{}, err
	}
	return txmodel.DecodeBlock(raw)
}
