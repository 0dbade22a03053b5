package wire

import (
	"encoding/binary"

	"github.com/btcnode/node/nodeerr"
)

// VersionPayload is the handshake's version message (spec section 6). All fields
// are little-endian except the two port fields, which the reference node
// serializes big-endian; see DESIGN.md "Open Question Decisions".
type VersionPayload struct {
	Version           int32
	Services          uint64
	Timestamp         int64
	AddrRecvServices  uint64
	AddrRecvIP        [16]byte
	AddrRecvPort      uint16
	AddrTransServices uint64
	AddrTransIP       [16]byte
	AddrTransPort     uint16
	Nonce             uint64
	StartHeight       int32
	Relay             bool
}

// EncodeVersion serializes a VersionPayload to wire bytes.
func EncodeVersion(v VersionPayload) []byte {
	b := make([]byte, 0, 4+8+8+8+16+2+8+16+2+8+1+4+1)
	var t4 [4]byte
	var t8 [8]byte
	var t2 [2]byte

	binary.LittleEndian.PutUint32(t4[:], uint32(v.Version))
	b = append(b, t4[:]...)
	binary.LittleEndian.PutUint64(t8[:], v.Services)
	b = append(b, t8[:]...)
	binary.LittleEndian.PutUint64(t8[:], uint64(v.Timestamp))
	b = append(b, t8[:]...)

	binary.LittleEndian.PutUint64(t8[:], v.AddrRecvServices)
	b = append(b, t8[:]...)
	b = append(b, v.AddrRecvIP[:]...)
	binary.BigEndian.PutUint16(t2[:], v.AddrRecvPort)
	b = append(b, t2[:]...)

	binary.LittleEndian.PutUint64(t8[:], v.AddrTransServices)
	b = append(b, t8[:]...)
	b = append(b, v.AddrTransIP[:]...)
	binary.BigEndian.PutUint16(t2[:], v.AddrTransPort)
	b = append(b, t2[:]...)

	binary.LittleEndian.PutUint64(t8[:], v.Nonce)
	b = append(b, t8[:]...)

	b = AppendCompactSize(b, 0) // user_agent_len = 0, no user agent carried.

	binary.LittleEndian.PutUint32(t4[:], uint32(v.StartHeight))
	b = append(b, t4[:]...)

	if v.Relay {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	return b
}

// DecodeVersion parses a VersionPayload. The trailing user_agent bytes, if
// any, are skipped (we don't surface the string).
func DecodeVersion(b []byte) (VersionPayload, error) {
	var v VersionPayload
	c := newCursor(b)

	ver, err := c.readI32LE()
	if err != nil {
		return v, err
	}
	services, err := c.readU64LE()
	if err != nil {
		return v, err
	}
	ts, err := c.readI64LE()
	if err != nil {
		return v, err
	}
	recvServices, err := c.readU64LE()
	if err != nil {
		return v, err
	}
	recvIP, err := c.readExact(16)
	if err != nil {
		return v, err
	}
	recvPort, err := c.readU16BE()
	if err != nil {
		return v, err
	}
	transServices, err := c.readU64LE()
	if err != nil {
		return v, err
	}
	transIP, err := c.readExact(16)
	if err != nil {
		return v, err
	}
	transPort, err := c.readU16BE()
	if err != nil {
		return v, err
	}
	nonce, err := c.readU64LE()
	if err != nil {
		return v, err
	}
	uaLen, err := c.readCompactSize()
	if err != nil {
		return v, err
	}
	if uaLen > 0 {
		if _, err := c.readExact(int(uaLen)); err != nil {
			return v, err
		}
	}
	startHeight, err := c.readI32LE()
	if err != nil {
		return v, err
	}
	relayByte, err := c.readU8()
	if err != nil {
		return v, err
	}

	v.Version = ver
	v.Services = services
	v.Timestamp = ts
	v.AddrRecvServices = recvServices
	copy(v.AddrRecvIP[:], recvIP)
	v.AddrRecvPort = recvPort
	v.AddrTransServices = transServices
	copy(v.AddrTransIP[:], transIP)
	v.AddrTransPort = transPort
	v.Nonce = nonce
	v.StartHeight = startHeight
	v.Relay = relayByte != 0
	return v, nil
}

// VerackPayload has no fields; WriteMessage/ReadMessage handle the empty
// body directly. VerackLiteral is the exact 24 bytes of a verack message
// with an empty payload, used by the handshake (spec section 4.2).
func VerackLiteral() ([HeaderBytes]byte, error) {
	hdr, err := EncodeHeader("verack", nil)
	if err != nil {
		return hdr, nodeerr.Wrap(nodeerr.KindHeaderField, "verack literal", err)
	}
	return hdr, nil
}
