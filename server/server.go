// Package server accepts inbound peer connections, performs the handshake,
// and answers getheaders and getdata requests from the locally persisted
// header file and block store (spec §4.10).
package server

import (
	"net"

	"github.com/btcnode/node/blockstore"
	"github.com/btcnode/node/headerfile"
	"github.com/btcnode/node/p2p"
	"github.com/btcnode/node/wire"
)

// Server answers inbound peer requests against a read-only view of the
// node's header file and block store.
type Server struct {
	Headers headerfile.File
	Blocks  blockstore.Store
	Config  p2p.HandshakeConfig
}

// New builds a Server.
func New(headers headerfile.File, blocks blockstore.Store, cfg p2p.HandshakeConfig) *Server {
	return &Server{Headers: headers, Blocks: blocks, Config: cfg}
}

// Serve accepts connections on ln forever, handling each on its own
// goroutine (spec §5 "one thread for the server acceptor and one per
// accepted client").
func (s *Server) Serve(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	peer, err := p2p.AcceptInbound(conn, s.Config)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer peer.Close()

	for {
		hdr, payload, err := peer.Recv()
		if err != nil {
			return
		}
		if err := s.dispatch(peer, hdr, payload); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(peer *p2p.Peer, hdr wire.MessageHeader, payload []byte) error {
	switch hdr.Command {
	case wire.CommandString(wire.MsgGetHeaders):
		return s.handleGetHeaders(peer, payload)
	case wire.CommandString(wire.MsgGetData):
		return s.handleGetData(peer, payload)
	default:
		return nil // unsupported commands are parsed and ignored
	}
}

// handleGetHeaders scans the header file linearly for the locator hash and
// returns up to MaxHeadersPerMsg headers following it, or an empty batch if
// not found (spec §4.10).
func (s *Server) handleGetHeaders(peer *p2p.Peer, payload []byte) error {
	req, err := wire.DecodeGetHeaders(payload)
	if err != nil {
		return nil
	}
	var locator [32]byte
	if len(req.BlockLocator) > 0 {
		locator = req.BlockLocator[0]
	}
	headers, err := s.Headers.FindFrom(locator, wire.MaxHeadersPerMsg)
	if err != nil {
		return nil
	}
	resp, err := wire.EncodeHeaders(headers)
	if err != nil {
		return nil
	}
	return peer.Send(wire.CommandString(wire.MsgHeaders), resp)
}

// handleGetData answers a MSG_BLOCK request by reading the block from the
// store and prepending the block message framing (spec §4.10).
func (s *Server) handleGetData(peer *p2p.Peer, payload []byte) error {
	items, err := wire.DecodeInv(payload)
	if err != nil {
		return nil
	}
	for _, item := range items {
		if item.Type != wire.InvTypeBlock {
			continue
		}
		raw, err := s.Blocks.Read(item.Hash)
		if err != nil {
			continue
		}
		if err := peer.Send(wire.CommandString(wire.MsgBlock), raw); err != nil {
			return err
		}
	}
	return nil
}
