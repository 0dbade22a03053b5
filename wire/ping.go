package wire

import "encoding/binary"

// EncodePingPong serializes the 8-byte nonce payload shared by ping and pong.
func EncodePingPong(nonce uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, nonce)
	return b
}

// DecodePingPong parses the 8-byte nonce payload shared by ping and pong.
func DecodePingPong(b []byte) (uint64, error) {
	c := newCursor(b)
	return c.readU64LE()
}
