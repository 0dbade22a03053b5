package txmodel

import (
	"encoding/binary"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// cursor is a forward-only reader over transaction/block bytes, scoped to
// this package the same way the teacher's consensus package keeps its own
// cursor private rather than sharing one across packages.
type cursor struct {
	b   []byte
	pos int
}

func newCursor(b []byte) *cursor { return &cursor{b: b} }

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, nodeerr.New(nodeerr.KindInvalidFormat, "truncated transaction")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

func (c *cursor) readU32LE() (uint32, error) {
	b, err := c.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI64LE() (int64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (c *cursor) readCompactSize() (uint64, error) {
	v, used, err := wire.DecodeCompactSize(c.b[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += used
	return v, nil
}

func toIntLen(n uint64, field string) (int, error) {
	const maxReasonable = 1 << 24
	if n > maxReasonable {
		return 0, nodeerr.New(nodeerr.KindInvalidSize, field+" exceeds maximum")
	}
	return int(n), nil
}
