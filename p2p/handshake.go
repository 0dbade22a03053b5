package p2p

import (
	"crypto/rand"
	"encoding/binary"
	"net"
	"time"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// MaxRetryAttempts is the number of connect attempts made per candidate IP
// before moving on (spec §4.2).
const MaxRetryAttempts = 3

// ConnectionTimeout bounds a single connect attempt.
const ConnectionTimeout = 5 * time.Second

// HandshakeTimeout bounds each read during the handshake itself.
const HandshakeTimeout = 10 * time.Second

// HandshakeConfig carries the fields DialOutbound/AcceptInbound need to build
// our half of the version exchange (spec §6 Version payload).
type HandshakeConfig struct {
	ProtocolVersion int32
	LocalIP         net.IP
	LocalPort       uint16
	StartHeight     int32
}

func randomNonce() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func (cfg HandshakeConfig) ourVersion(remoteIP net.IP, remotePort uint16) wire.VersionPayload {
	return wire.VersionPayload{
		Version:           cfg.ProtocolVersion,
		Services:          0,
		Timestamp:         time.Now().Unix(),
		AddrRecvServices:  1,
		AddrRecvIP:        wire.IPv4MappedIPv6(remoteIP),
		AddrRecvPort:      remotePort,
		AddrTransServices: 0,
		AddrTransIP:       wire.IPv4MappedIPv6(cfg.LocalIP),
		AddrTransPort:     cfg.LocalPort,
		Nonce:             randomNonce(),
		StartHeight:       cfg.StartHeight,
		Relay:             false,
	}
}

// DialOutbound connects to addr (host:port, IPv4 only) and performs the
// outbound handshake (spec §4.2): send our version, discard theirs, send the
// literal verack, and accept only if their reply is the literal verack.
// It retries the connect step up to MaxRetryAttempts times.
func DialOutbound(addr string, cfg HandshakeConfig) (*Peer, error) {
	remoteIP, remotePort, err := wire.ParseIPv4HostPort(addr)
	if err != nil {
		return nil, err
	}

	var conn net.Conn
	var lastErr error
	for attempt := 0; attempt < MaxRetryAttempts; attempt++ {
		conn, lastErr = net.DialTimeout("tcp4", addr, ConnectionTimeout)
		if lastErr == nil {
			break
		}
	}
	if conn == nil {
		return nil, nodeerr.Wrap(nodeerr.KindFailedToConnect, "dial "+addr, lastErr)
	}

	peer := &Peer{Conn: conn, Role: RoleOutbound}
	if err := peer.outboundHandshake(cfg.ourVersion(remoteIP, remotePort)); err != nil {
		_ = peer.Close()
		return nil, err
	}
	return peer, nil
}

// AcceptInbound wraps an already-accepted connection and performs the
// inbound side of the handshake: receive version, reply with ours, receive
// their verack, send ours.
func AcceptInbound(conn net.Conn, cfg HandshakeConfig) (*Peer, error) {
	peer := &Peer{Conn: conn, Role: RoleInbound}
	remoteIP, remotePort := remoteIPv4(conn)
	if err := peer.inboundHandshake(cfg.ourVersion(remoteIP, remotePort)); err != nil {
		_ = peer.Close()
		return nil, err
	}
	return peer, nil
}

func remoteIPv4(conn net.Conn) (net.IP, uint16) {
	if tcp, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		return tcp.IP.To4(), uint16(tcp.Port)
	}
	return net.IPv4zero, 0
}

func (p *Peer) outboundHandshake(ours wire.VersionPayload) error {
	_ = p.SetReadDeadline(time.Now().Add(HandshakeTimeout))
	defer p.SetReadDeadline(time.Time{})

	if err := p.Send(wire.CommandString(wire.MsgVersion), wire.EncodeVersion(ours)); err != nil {
		return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "send version", err)
	}

	// Read their version header and its payload; contents are discarded
	// (spec §4.2 step 2).
	hdr, _, err := p.Recv()
	if err != nil {
		return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "recv peer version", err)
	}
	if hdr.Command != wire.CommandString(wire.MsgVersion) {
		return nodeerr.New(nodeerr.KindHandshakeFailed, "expected version, got "+hdr.Command)
	}

	verack, err := wire.VerackLiteral()
	if err != nil {
		return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "build verack", err)
	}
	if err := p.Send(wire.CommandString(wire.MsgVerack), nil); err != nil {
		return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "send verack", err)
	}

	return p.expectLiteralVerack(verack)
}

func (p *Peer) inboundHandshake(ours wire.VersionPayload) error {
	_ = p.SetReadDeadline(time.Now().Add(HandshakeTimeout))
	defer p.SetReadDeadline(time.Time{})

	hdr, _, err := p.Recv()
	if err != nil {
		return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "recv peer version", err)
	}
	if hdr.Command != wire.CommandString(wire.MsgVersion) {
		return nodeerr.New(nodeerr.KindHandshakeFailed, "expected version, got "+hdr.Command)
	}

	if err := p.Send(wire.CommandString(wire.MsgVersion), wire.EncodeVersion(ours)); err != nil {
		return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "send version", err)
	}

	verack, err := wire.VerackLiteral()
	if err != nil {
		return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "build verack", err)
	}
	if err := p.expectLiteralVerack(verack); err != nil {
		return err
	}
	return p.Send(wire.CommandString(wire.MsgVerack), nil)
}

// expectLiteralVerack reads exactly HeaderBytes and accepts the session iff
// they equal the literal verack header (spec §4.2 step 4).
func (p *Peer) expectLiteralVerack(want [wire.HeaderBytes]byte) error {
	var got [wire.HeaderBytes]byte
	if p.Conn == nil {
		return nodeerr.New(nodeerr.KindTcpStreamNotConnected, "verack: closed stream")
	}
	n := 0
	for n < wire.HeaderBytes {
		m, err := p.Conn.Read(got[n:])
		n += m
		if err != nil {
			return nodeerr.Wrap(nodeerr.KindHandshakeFailed, "recv verack", err)
		}
	}
	if got != want {
		return nodeerr.New(nodeerr.KindHandshakeFailed, "verack mismatch")
	}
	return nil
}
