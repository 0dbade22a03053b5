package wire

import (
	"encoding/binary"

	"github.com/btcnode/node/nodeerr"
)

// EncodeCompactSize encodes n using the minimal Bitcoin CompactSize prefix
// rule (spec section 3, section 8): <0xFD in one byte, 0xFD+u16, 0xFE+u32, 0xFF+u64.
func EncodeCompactSize(n uint64) []byte {
	return AppendCompactSize(nil, n)
}

// AppendCompactSize appends the CompactSize encoding of n to dst and returns
// the extended slice.
func AppendCompactSize(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		return append(dst, b[:]...)
	case n <= 0xffffffff:
		dst = append(dst, 0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		return append(dst, b[:]...)
	default:
		dst = append(dst, 0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], n)
		return append(dst, b[:]...)
	}
}

// DecodeCompactSize decodes one CompactSize value from the front of buf and
// returns the value and the number of bytes consumed.
func DecodeCompactSize(buf []byte) (uint64, int, error) {
	if len(buf) < 1 {
		return 0, 0, nodeerr.New(nodeerr.KindInvalidFormat, "compactsize: empty buffer")
	}
	tag := buf[0]
	switch {
	case tag < 0xfd:
		return uint64(tag), 1, nil
	case tag == 0xfd:
		if len(buf) < 3 {
			return 0, 0, nodeerr.New(nodeerr.KindInvalidFormat, "compactsize: truncated u16")
		}
		return uint64(binary.LittleEndian.Uint16(buf[1:3])), 3, nil
	case tag == 0xfe:
		if len(buf) < 5 {
			return 0, 0, nodeerr.New(nodeerr.KindInvalidFormat, "compactsize: truncated u32")
		}
		return uint64(binary.LittleEndian.Uint32(buf[1:5])), 5, nil
	default:
		if len(buf) < 9 {
			return 0, 0, nodeerr.New(nodeerr.KindInvalidFormat, "compactsize: truncated u64")
		}
		return binary.LittleEndian.Uint64(buf[1:9]), 9, nil
	}
}

// ReadVarint reads one CompactSize-encoded value from r.
func ReadVarint(r ByteReader) (uint64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, nodeerr.Wrap(nodeerr.KindFailedToRead, "varint: read tag", err)
	}
	switch {
	case first < 0xfd:
		return uint64(first), nil
	case first == 0xfd:
		var b [2]byte
		if err := readFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b[:])), nil
	case first == 0xfe:
		var b [4]byte
		if err := readFull(r, b[:]); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b[:])), nil
	default:
		var b [8]byte
		if err := readFull(r, b[:]); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b[:]), nil
	}
}

// ByteReader is the minimal reader ReadVarint needs; satisfied by bufio.Reader
// and similar.
type ByteReader interface {
	ReadByte() (byte, error)
	Read(p []byte) (int, error)
}

func readFull(r ByteReader, buf []byte) error {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return nodeerr.Wrap(nodeerr.KindFailedToRead, "varint: read body", err)
		}
	}
	return nil
}
