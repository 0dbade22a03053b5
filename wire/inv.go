package wire

import (
	"github.com/btcnode/node/nodeerr"
)

// MaxInvEntries caps the number of vectors in a single inv/getdata message.
const MaxInvEntries = 50000

// Inventory type identifiers (spec section 6).
const (
	InvTypeTx    uint32 = 1
	InvTypeBlock uint32 = 2
)

// InvVector identifies one advertised or requested object.
type InvVector struct {
	Type uint32
	Hash [32]byte
}

// EncodeInv serializes a list of inventory vectors, used for both inv and
// getdata messages (identical wire shape).
func EncodeInv(items []InvVector) ([]byte, error) {
	if len(items) > MaxInvEntries {
		return nil, nodeerr.New(nodeerr.KindInvalidSize, "inv: too many entries")
	}
	b := make([]byte, 0, 9+len(items)*36)
	b = AppendCompactSize(b, uint64(len(items)))
	for _, it := range items {
		b = appendU32le(b, it.Type)
		b = append(b, it.Hash[:]...)
	}
	return b, nil
}

// DecodeInv parses an inv/getdata payload.
func DecodeInv(b []byte) ([]InvVector, error) {
	c := newCursor(b)
	count, err := c.readCompactSize()
	if err != nil {
		return nil, err
	}
	if count > MaxInvEntries {
		return nil, nodeerr.New(nodeerr.KindInvalidSize, "inv: count exceeds maximum")
	}
	out := make([]InvVector, 0, count)
	for i := uint64(0); i < count; i++ {
		typ, err := c.readU32LE()
		if err != nil {
			return nil, err
		}
		h, err := c.readExact(32)
		if err != nil {
			return nil, err
		}
		var v InvVector
		v.Type = typ
		copy(v.Hash[:], h)
		out = append(out, v)
	}
	return out, nil
}
