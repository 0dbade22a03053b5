package wire

import (
	"encoding/binary"
	"math/big"

	"github.com/btcnode/node/nodeerr"
)

// BlockHeaderBytes is the fixed wire length of a BlockHeader (spec section 3).
const BlockHeaderBytes = 80

// BlockHeader is the 80-byte block header (spec section 3).
type BlockHeader struct {
	Version       int32
	PrevBlockHash [32]byte
	MerkleRoot    [32]byte
	Timestamp     uint32
	Bits          uint32
	Nonce         uint32
}

// Hash returns sha256d(serialized header), the block's identity.
func (h BlockHeader) Hash() [32]byte {
	return Sha256d(h.Encode())
}

// Encode serializes h to its 80-byte wire form.
func (h BlockHeader) Encode() []byte {
	b := make([]byte, 0, BlockHeaderBytes)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], uint32(h.Version))
	b = append(b, tmp4[:]...)
	b = append(b, h.PrevBlockHash[:]...)
	b = append(b, h.MerkleRoot[:]...)
	binary.LittleEndian.PutUint32(tmp4[:], h.Timestamp)
	b = append(b, tmp4[:]...)
	binary.LittleEndian.PutUint32(tmp4[:], h.Bits)
	b = append(b, tmp4[:]...)
	binary.LittleEndian.PutUint32(tmp4[:], h.Nonce)
	b = append(b, tmp4[:]...)
	return b
}

// DecodeBlockHeader parses an 80-byte wire header.
func DecodeBlockHeader(b []byte) (BlockHeader, error) {
	var h BlockHeader
	if len(b) != BlockHeaderBytes {
		return h, nodeerr.New(nodeerr.KindInvalidFormat, "block header: wrong length")
	}
	c := newCursor(b)
	ver, err := c.readI32LE()
	if err != nil {
		return h, err
	}
	prev, err := c.readExact(32)
	if err != nil {
		return h, err
	}
	merkle, err := c.readExact(32)
	if err != nil {
		return h, err
	}
	ts, err := c.readU32LE()
	if err != nil {
		return h, err
	}
	bits, err := c.readU32LE()
	if err != nil {
		return h, err
	}
	nonce, err := c.readU32LE()
	if err != nil {
		return h, err
	}
	h.Version = ver
	copy(h.PrevBlockHash[:], prev)
	copy(h.MerkleRoot[:], merkle)
	h.Timestamp = ts
	h.Bits = bits
	h.Nonce = nonce
	return h, nil
}

// Target unpacks the compact n_bits representation (mantissa:3B, exponent:1B)
// into a 256-bit threshold (spec section 3).
func Target(nBits uint32) *big.Int {
	exponent := nBits >> 24
	mantissa := nBits & 0x007fffff

	target := new(big.Int).SetUint64(uint64(mantissa))
	if exponent <= 3 {
		target.Rsh(target, uint(8*(3-exponent)))
	} else {
		target.Lsh(target, uint(8*(exponent-3)))
	}
	return target
}
