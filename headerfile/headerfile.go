// Package headerfile manages the append-only 80-byte-record header file
// shared between the header downloader (sole writer) and the server's
// getheaders handler (read-only) (spec §4.3, §4.10, §5 "Shared resources").
package headerfile

import (
	"os"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// File wraps the path to an append-only header file.
type File struct {
	Path string
}

// Open returns a File rooted at path; it does not require the file to
// exist yet (the writer creates it on first append).
func Open(path string) File {
	return File{Path: path}
}

// ReadAll loads every stored header in file order.
func (f File) ReadAll() ([]wire.BlockHeader, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, nodeerr.Wrap(nodeerr.KindFailedToRead, "read header file", err)
	}
	if len(raw)%wire.BlockHeaderBytes != 0 {
		return nil, nodeerr.New(nodeerr.KindInvalidFormat, "header file: not a multiple of record size")
	}
	count := len(raw) / wire.BlockHeaderBytes
	out := make([]wire.BlockHeader, 0, count)
	for i := 0; i < count; i++ {
		chunk := raw[i*wire.BlockHeaderBytes : (i+1)*wire.BlockHeaderBytes]
		h, err := wire.DecodeBlockHeader(chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Last returns the most recently appended header, and ok=false if the file
// is empty or missing (spec §4.3 "seed with the genesis header if empty").
func (f File) Last() (h wire.BlockHeader, ok bool, err error) {
	all, err := f.ReadAll()
	if err != nil {
		return h, false, err
	}
	if len(all) == 0 {
		return h, false, nil
	}
	return all[len(all)-1], true, nil
}

// Append seeks to end-of-file and writes headers in order (spec §4.3 "the
// writer seeks to end-of-file before each append").
func (f File) Append(headers []wire.BlockHeader) error {
	if len(headers) == 0 {
		return nil
	}
	file, err := os.OpenFile(f.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nodeerr.Wrap(nodeerr.KindFailedToWriteAll, "open header file for append", err)
	}
	defer file.Close()
	if _, err := file.Seek(0, os.SEEK_END); err != nil {
		return nodeerr.Wrap(nodeerr.KindFailedToSeek, "seek header file", err)
	}
	for _, h := range headers {
		if _, err := file.Write(h.Encode()); err != nil {
			return nodeerr.Wrap(nodeerr.KindFailedToWriteAll, "append header record", err)
		}
	}
	return nil
}

// FindFrom linearly scans for the header whose hash matches locator and
// returns up to maxCount headers immediately following it (spec §4.10
// "getheaders"). If the locator is not found, it returns an empty,
// non-error result.
func (f File) FindFrom(locator [32]byte, maxCount int) ([]wire.BlockHeader, error) {
	all, err := f.ReadAll()
	if err != nil {
		return nil, err
	}
	for i, h := range all {
		if h.Hash() == locator {
			end := i + 1 + maxCount
			if end > len(all) {
				end = len(all)
			}
			return all[i+1 : end], nil
		}
	}
	return nil, nil
}
