package wire

import "testing"

func TestDecodeCompactSizeFixtures(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint64
	}{
		{[]byte{0xfd, 0x01, 0x00}, 1},
		{[]byte{0xfe, 0x01, 0x00, 0x00, 0x00}, 1},
		{[]byte{0xff, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, 1},
		{[]byte{0x01}, 1},
	}
	for _, c := range cases {
		got, _, err := DecodeCompactSize(c.in)
		if err != nil {
			t.Fatalf("DecodeCompactSize(%x): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("DecodeCompactSize(%x) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCompactSizeMinimalEncoding(t *testing.T) {
	cases := []struct {
		n        uint64
		wantLen  int
		wantHead byte
	}{
		{0, 1, 0x00},
		{0xfc, 1, 0xfc},
		{0xfd, 3, 0xfd},
		{0xffff, 3, 0xfd},
		{0x10000, 5, 0xfe},
		{0xffffffff, 5, 0xfe},
		{0x100000000, 9, 0xff},
	}
	for _, c := range cases {
		enc := EncodeCompactSize(c.n)
		if len(enc) != c.wantLen {
			t.Fatalf("EncodeCompactSize(%d): len=%d want %d", c.n, len(enc), c.wantLen)
		}
		if enc[0] != c.wantHead {
			t.Fatalf("EncodeCompactSize(%d): head=%#x want %#x", c.n, enc[0], c.wantHead)
		}
		got, used, err := DecodeCompactSize(enc)
		if err != nil {
			t.Fatalf("DecodeCompactSize round trip: %v", err)
		}
		if got != c.n || used != len(enc) {
			t.Fatalf("round trip mismatch: got %d/%d want %d/%d", got, used, c.n, len(enc))
		}
	}
}
