// Package p2p implements the peer session: connection policy, the
// version/verack handshake, and the message pump used by every higher-level
// consumer of a peer stream (header downloader, block download pool,
// listener pool, server).
package p2p

import (
	"net"
	"sync"
	"time"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// Role identifies which side of the handshake a Peer played.
type Role int

const (
	RoleUnknown Role = iota
	RoleOutbound
	RoleInbound
)

// Peer is a single bidirectional byte stream to another node, exclusively
// owned by whichever worker currently uses it (spec §4.2, §5).
type Peer struct {
	Conn net.Conn
	Role Role

	mu sync.Mutex
}

// Addr reports the peer's remote address, or nil if the stream no longer
// reports one. Used as the liveness probe described in spec §4.2.
func (p *Peer) Addr() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Conn == nil {
		return nil
	}
	return p.Conn.RemoteAddr()
}

// Alive reports whether the underlying stream still reports a peer address.
func (p *Peer) Alive() bool {
	return p.Addr() != nil
}

// Close releases the underlying connection.
func (p *Peer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Conn == nil {
		return nil
	}
	err := p.Conn.Close()
	p.Conn = nil
	return err
}

// Send frames and writes one message.
func (p *Peer) Send(command string, payload []byte) error {
	if p.Conn == nil {
		return nodeerr.New(nodeerr.KindTcpStreamNotConnected, "peer: send on closed stream")
	}
	return wire.WriteMessage(p.Conn, command, payload)
}

// Recv reads one framed message.
func (p *Peer) Recv() (wire.MessageHeader, []byte, error) {
	if p.Conn == nil {
		return wire.MessageHeader{}, nil, nodeerr.New(nodeerr.KindTcpStreamNotConnected, "peer: recv on closed stream")
	}
	return wire.ReadMessage(p.Conn)
}

// SetReadDeadline propagates a deadline to the underlying connection; a zero
// value clears it, matching net.Conn semantics.
func (p *Peer) SetReadDeadline(t time.Time) error {
	if p.Conn == nil {
		return nodeerr.New(nodeerr.KindTcpStreamNotConnected, "peer: deadline on closed stream")
	}
	return p.Conn.SetReadDeadline(t)
}
