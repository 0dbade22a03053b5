// Package blockstore names and reads/writes the one-file-per-block layout
// shared by the block download pool, the listener, and the server (spec
// §4.4, §4.10, §6 "Blocks directory").
package blockstore

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/btcnode/node/nodeerr"
)

// Store roots the blocks directory at Dir and names files by block hash.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir.
func New(dir string) Store {
	return Store{Dir: dir}
}

// Path returns the on-disk path for a block with the given header hash:
// "<dir>/<hex(hash)>.bin" (spec §6).
func (s Store) Path(hash [32]byte) string {
	return filepath.Join(s.Dir, hex.EncodeToString(hash[:])+".bin")
}

// Exists reports whether the block file for hash is already present (spec
// §4.4 step 2, "skip if already downloaded").
func (s Store) Exists(hash [32]byte) bool {
	_, err := os.Stat(s.Path(hash))
	return err == nil
}

// Read loads the raw wire bytes of a previously saved block.
func (s Store) Read(hash [32]byte) ([]byte, error) {
	raw, err := os.ReadFile(s.Path(hash))
	if err != nil {
		return nil, nodeerr.Wrap(nodeerr.KindFailedToRead, "read block file", err)
	}
	return raw, nil
}
