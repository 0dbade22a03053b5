// Package txmodel implements Transaction/TxIn/TxOut wire serialization,
// coinbase and P2PKH recognition, and SIGHASH_ALL signing (spec §3, §4.8).
package txmodel

import (
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// CoinbaseIndex is the previous-output index sentinel on a coinbase input.
const CoinbaseIndex uint32 = 0xffffffff

// Outpoint identifies a previous transaction output.
type Outpoint struct {
	TxID  [32]byte
	Index uint32
}

// TxIn is one transaction input (spec §3).
type TxIn struct {
	PrevOut  Outpoint
	Script   []byte
	Sequence uint32
}

// TxOut is one transaction output (spec §3). TxID and BlockPath are not part
// of the wire form; they're stamped on by the UTXO index for fast lookup.
type TxOut struct {
	Value    int64
	PkScript []byte

	TxID      [32]byte
	Index     uint32
	BlockPath string
}

// Transaction is a parsed Bitcoin transaction (spec §3).
type Transaction struct {
	Version  uint32
	Inputs   []TxIn
	Outputs  []TxOut
	LockTime uint32
}

// IsCoinbase reports whether tx matches the coinbase shape: a single input
// with an all-zero previous tx_id and index 0xffffffff (spec §3, §4.5).
func (tx *Transaction) IsCoinbase() bool {
	if len(tx.Inputs) != 1 {
		return false
	}
	in := tx.Inputs[0]
	return in.PrevOut.TxID == [32]byte{} && in.PrevOut.Index == CoinbaseIndex
}

// CoinbaseHeight extracts the 4-byte little-endian height prefix from a
// coinbase's input script (spec §3).
func (tx *Transaction) CoinbaseHeight() (uint32, error) {
	if !tx.IsCoinbase() {
		return 0, nodeerr.New(nodeerr.KindInvalidFormat, "not a coinbase transaction")
	}
	script := tx.Inputs[0].Script
	if len(script) < 4 {
		return 0, nodeerr.New(nodeerr.KindInvalidFormat, "coinbase script too short for height prefix")
	}
	c := newCursor(script[:4])
	return c.readU32LE()
}

// TxID returns sha256d(serialized transaction), the transaction's identity
// (spec §3).
func (tx *Transaction) TxID() [32]byte {
	return wire.Sha256d(tx.Encode())
}

// Encode serializes tx to its wire form.
func (tx *Transaction) Encode() []byte {
	b := make([]byte, 0, 4+9+9+4)
	b = appendU32le(b, tx.Version)
	b = wire.AppendCompactSize(b, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		b = append(b, in.PrevOut.TxID[:]...)
		b = appendU32le(b, in.PrevOut.Index)
		b = wire.AppendCompactSize(b, uint64(len(in.Script)))
		b = append(b, in.Script...)
		b = appendU32le(b, in.Sequence)
	}
	b = wire.AppendCompactSize(b, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		b = appendI64le(b, out.Value)
		b = wire.AppendCompactSize(b, uint64(len(out.PkScript)))
		b = append(b, out.PkScript...)
	}
	b = appendU32le(b, tx.LockTime)
	return b
}

// DecodeTransaction parses one transaction starting at the front of b and
// returns it along with the number of bytes consumed, so callers walking a
// block's transaction list can advance past it.
func DecodeTransaction(b []byte) (Transaction, int, error) {
	c := newCursor(b)
	tx, err := decodeTransactionFromCursor(c)
	return tx, c.pos, err
}

func decodeTransactionFromCursor(c *cursor) (Transaction, error) {
	var tx Transaction
	ver, err := c.readU32LE()
	if err != nil {
		return tx, err
	}
	inCountU64, err := c.readCompactSize()
	if err != nil {
		return tx, err
	}
	inCount, err := toIntLen(inCountU64, "tx_in_count")
	if err != nil {
		return tx, err
	}
	inputs := make([]TxIn, 0, inCount)
	for i := 0; i < inCount; i++ {
		in, err := decodeTxIn(c)
		if err != nil {
			return tx, err
		}
		inputs = append(inputs, in)
	}

	outCountU64, err := c.readCompactSize()
	if err != nil {
		return tx, err
	}
	outCount, err := toIntLen(outCountU64, "tx_out_count")
	if err != nil {
		return tx, err
	}
	outputs := make([]TxOut, 0, outCount)
	for i := 0; i < outCount; i++ {
		out, err := decodeTxOut(c)
		if err != nil {
			return tx, err
		}
		outputs = append(outputs, out)
	}

	lockTime, err := c.readU32LE()
	if err != nil {
		return tx, err
	}

	tx.Version = ver
	tx.Inputs = inputs
	tx.Outputs = outputs
	tx.LockTime = lockTime
	return tx, nil
}

func decodeTxIn(c *cursor) (TxIn, error) {
	var in TxIn
	txid, err := c.readExact(32)
	if err != nil {
		return in, err
	}
	index, err := c.readU32LE()
	if err != nil {
		return in, err
	}
	scriptLenU64, err := c.readCompactSize()
	if err != nil {
		return in, err
	}
	scriptLen, err := toIntLen(scriptLenU64, "script_bytes")
	if err != nil {
		return in, err
	}
	script, err := c.readExact(scriptLen)
	if err != nil {
		return in, err
	}
	sequence, err := c.readU32LE()
	if err != nil {
		return in, err
	}
	copy(in.PrevOut.TxID[:], txid)
	in.PrevOut.Index = index
	in.Script = append([]byte(nil), script...)
	in.Sequence = sequence
	return in, nil
}

func decodeTxOut(c *cursor) (TxOut, error) {
	var out TxOut
	value, err := c.readI64LE()
	if err != nil {
		return out, err
	}
	scriptLenU64, err := c.readCompactSize()
	if err != nil {
		return out, err
	}
	scriptLen, err := toIntLen(scriptLenU64, "pk_script_bytes")
	if err != nil {
		return out, err
	}
	script, err := c.readExact(scriptLen)
	if err != nil {
		return out, err
	}
	out.Value = value
	out.PkScript = append([]byte(nil), script...)
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

func appendI64le(dst []byte, v int64) []byte {
	uv := uint64(v)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(uv >> (8 * i))
	}
	return append(dst, b[:]...)
}
