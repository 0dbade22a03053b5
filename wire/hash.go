package wire

import "crypto/sha256"

// Sha256d is double SHA-256, used for every hash identity on the wire
// (block headers, transactions, message checksums' preimage).
func Sha256d(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// ReverseBytes32 returns a byte-reversed copy of h, used to convert between
// internal (little-endian wire) byte order and the reversed, big-endian
// display order.
func ReverseBytes32(h [32]byte) [32]byte {
	var out [32]byte
	for i := 0; i < 32; i++ {
		out[i] = h[31-i]
	}
	return out
}
