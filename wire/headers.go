package wire

import (
	"github.com/btcnode/node/nodeerr"
)

// MaxHeadersPerMsg is the largest batch a headers message may carry (spec section 4.1, section 8).
const MaxHeadersPerMsg = 2000

// MaxLocatorHashes caps the block locator in getheaders.
const MaxLocatorHashes = 64

// GetHeadersPayload is the getheaders message (spec section 3, section 4.3).
type GetHeadersPayload struct {
	Version      uint32
	BlockLocator [][32]byte
	HashStop     [32]byte
}

// EncodeGetHeaders serializes a GetHeadersPayload.
func EncodeGetHeaders(p GetHeadersPayload) ([]byte, error) {
	if len(p.BlockLocator) == 0 || len(p.BlockLocator) > MaxLocatorHashes {
		return nil, nodeerr.New(nodeerr.KindInvalidSize, "getheaders: invalid locator length")
	}
	b := make([]byte, 0, 4+9+len(p.BlockLocator)*32+32)
	b = appendU32le(b, p.Version)
	b = AppendCompactSize(b, uint64(len(p.BlockLocator)))
	for _, h := range p.BlockLocator {
		b = append(b, h[:]...)
	}
	b = append(b, p.HashStop[:]...)
	return b, nil
}

// DecodeGetHeaders parses a GetHeadersPayload.
func DecodeGetHeaders(b []byte) (GetHeadersPayload, error) {
	var p GetHeadersPayload
	c := newCursor(b)
	ver, err := c.readU32LE()
	if err != nil {
		return p, err
	}
	count, err := c.readCompactSize()
	if err != nil {
		return p, err
	}
	if count == 0 || count > MaxLocatorHashes {
		return p, nodeerr.New(nodeerr.KindInvalidSize, "getheaders: invalid locator length")
	}
	loc := make([][32]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		h, err := c.readExact(32)
		if err != nil {
			return p, err
		}
		var hh [32]byte
		copy(hh[:], h)
		loc = append(loc, hh)
	}
	stop, err := c.readExact(32)
	if err != nil {
		return p, err
	}
	p.Version = ver
	p.BlockLocator = loc
	copy(p.HashStop[:], stop)
	return p, nil
}

// EncodeHeaders serializes a headers message: count then count headers each
// followed by a zero transaction-count suffix byte (spec section 6).
func EncodeHeaders(headers []BlockHeader) ([]byte, error) {
	if len(headers) > MaxHeadersPerMsg {
		return nil, nodeerr.New(nodeerr.KindInvalidSize, "headers: too many headers")
	}
	b := make([]byte, 0, 9+len(headers)*(BlockHeaderBytes+1))
	b = AppendCompactSize(b, uint64(len(headers)))
	for _, h := range headers {
		b = append(b, h.Encode()...)
		b = append(b, 0x00)
	}
	return b, nil
}

// DecodeHeaders parses a headers message.
func DecodeHeaders(b []byte) ([]BlockHeader, error) {
	c := newCursor(b)
	count, err := c.readCompactSize()
	if err != nil {
		return nil, err
	}
	if count > MaxHeadersPerMsg {
		return nil, nodeerr.New(nodeerr.KindInvalidSize, "headers: count exceeds maximum")
	}
	out := make([]BlockHeader, 0, count)
	for i := uint64(0); i < count; i++ {
		chunk, err := c.readExact(BlockHeaderBytes)
		if err != nil {
			return nil, err
		}
		h, err := DecodeBlockHeader(chunk)
		if err != nil {
			return nil, err
		}
		if _, err := c.readU8(); err != nil { // trailing tx-count-zero byte
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func appendU32le(dst []byte, v uint32) []byte {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return append(dst, b[:]...)
}
