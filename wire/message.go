package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/btcnode/node/nodeerr"
)

// TestnetMagic is the Bitcoin testnet network magic (spec section 6): bytes
// 0b 11 09 07 in network order.
const TestnetMagic uint32 = 0x0b110907

// HeaderBytes is the fixed length of a MessageHeader (spec section 3).
const HeaderBytes = 24

const commandBytes = 12

// emptyPayloadChecksum is sha256d(nil)[0:4], the fixed checksum for
// zero-length payloads (verack) (spec section 3, section 8).
var emptyPayloadChecksum = [4]byte{0x5d, 0xf6, 0xe0, 0xe2}

type MessageType int

const (
	MsgUnknown MessageType = iota
	MsgVersion
	MsgVerack
	MsgPing
	MsgPong
	MsgHeaders
	MsgGetHeaders
	MsgSendHeaders
	MsgAddr
	MsgFeeFilter
	MsgInv
	MsgBlock
	MsgNotFound
	MsgTx
	MsgGetData
)

var commandNames = map[MessageType]string{
	MsgVersion:     "version",
	MsgVerack:      "verack",
	MsgPing:        "ping",
	MsgPong:        "pong",
	MsgHeaders:     "headers",
	MsgGetHeaders:  "getheaders",
	MsgSendHeaders: "sendheaders",
	MsgAddr:        "addr",
	MsgFeeFilter:   "feefilter",
	MsgInv:         "inv",
	MsgBlock:       "block",
	MsgNotFound:    "notfound",
	MsgTx:          "tx",
	MsgGetData:     "getdata",
}

var namesToCommand map[string]MessageType

func init() {
	namesToCommand = make(map[string]MessageType, len(commandNames))
	for mt, name := range commandNames {
		namesToCommand[name] = mt
	}
}

// CommandString returns the wire command string for mt.
func CommandString(mt MessageType) string {
	return commandNames[mt]
}

// CommandOf maps a null-trimmed command string to its MessageType (spec section 4.1).
func CommandOf(command string) (MessageType, error) {
	mt, ok := namesToCommand[command]
	if !ok {
		return MsgUnknown, nodeerr.New(nodeerr.KindCommandType, "unknown command: "+command)
	}
	return mt, nil
}

// MessageHeader is the 24-byte framing prefix of every P2P message (spec section 3).
type MessageHeader struct {
	Magic       uint32
	Command     string
	PayloadSize uint32
	Checksum    [4]byte
}

func checksum4(payload []byte) ([4]byte, error) {
	if len(payload) == 0 {
		return emptyPayloadChecksum, nil
	}
	d := Sha256d(payload)
	var out [4]byte
	if copy(out[:], d[:4]) != 4 {
		return out, nodeerr.New(nodeerr.KindHeaderField, "checksum: short digest")
	}
	return out, nil
}

// EncodeHeader builds the 24-byte MessageHeader for cmd/payload (spec section 4.1).
func EncodeHeader(cmd string, payload []byte) ([HeaderBytes]byte, error) {
	var out [HeaderBytes]byte
	if len(cmd) == 0 || len(cmd) > commandBytes {
		return out, nodeerr.New(nodeerr.KindHeaderField, "command length out of range")
	}
	c4, err := checksum4(payload)
	if err != nil {
		return out, err
	}
	// magic is the network-order byte sequence 0b 11 09 07.
	binary.BigEndian.PutUint32(out[0:4], TestnetMagic)
	copy(out[4:16], cmd)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(payload)))
	copy(out[20:24], c4[:])
	return out, nil
}

// ParseHeader parses the 24-byte prefix into a MessageHeader (spec section 4.1).
func ParseHeader(b []byte) (MessageHeader, error) {
	var h MessageHeader
	if len(b) != HeaderBytes {
		return h, nodeerr.New(nodeerr.KindHeaderField, "header: wrong length")
	}
	h.Magic = binary.BigEndian.Uint32(b[0:4])
	n := commandBytes
	for i := 0; i < commandBytes; i++ {
		if b[4+i] == 0 {
			n = i
			break
		}
	}
	h.Command = string(b[4 : 4+n])
	h.PayloadSize = binary.LittleEndian.Uint32(b[16:20])
	copy(h.Checksum[:], b[20:24])
	return h, nil
}

// WriteMessage frames and writes a complete message to w.
func WriteMessage(w io.Writer, command string, payload []byte) error {
	hdr, err := EncodeHeader(command, payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(hdr[:]); err != nil {
		return nodeerr.Wrap(nodeerr.KindTcpStreamNotConnected, "write header", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return nodeerr.Wrap(nodeerr.KindTcpStreamNotConnected, "write payload", err)
	}
	return nil
}

// ReadMessage reads one complete framed message from r: header then payload.
func ReadMessage(r io.Reader) (MessageHeader, []byte, error) {
	var hdrBytes [HeaderBytes]byte
	if _, err := io.ReadFull(r, hdrBytes[:]); err != nil {
		return MessageHeader{}, nil, nodeerr.Wrap(nodeerr.KindTcpStreamNotConnected, "read header", err)
	}
	hdr, err := ParseHeader(hdrBytes[:])
	if err != nil {
		return hdr, nil, err
	}
	if hdr.Magic != TestnetMagic {
		return hdr, nil, nodeerr.New(nodeerr.KindInvalidFormat, "magic mismatch")
	}
	payload := make([]byte, hdr.PayloadSize)
	if hdr.PayloadSize > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return hdr, nil, nodeerr.Wrap(nodeerr.KindTcpStreamNotConnected, "read payload", err)
		}
	}
	c4, err := checksum4(payload)
	if err != nil {
		return hdr, nil, err
	}
	if !bytes.Equal(c4[:], hdr.Checksum[:]) {
		return hdr, nil, nodeerr.New(nodeerr.KindInvalidFormat, "checksum mismatch")
	}
	return hdr, payload, nil
}
