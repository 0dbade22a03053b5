package utxo

import (
	"encoding/binary"

	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/txmodel"
)

// encodeOutputs serializes the ordered list of still-spendable outputs for
// one tx_id: count, then each output's value, index, block path, and
// pk_script.
func encodeOutputs(outs []txmodel.TxOut) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(len(outs)))
	for _, o := range outs {
		var head [20]byte
		binary.LittleEndian.PutUint64(head[0:8], uint64(o.Value))
		binary.LittleEndian.PutUint32(head[8:12], o.Index)
		binary.LittleEndian.PutUint32(head[12:16], uint32(len(o.BlockPath)))
		binary.LittleEndian.PutUint32(head[16:20], uint32(len(o.PkScript)))
		b = append(b, head[:]...)
		b = append(b, []byte(o.BlockPath)...)
		b = append(b, o.PkScript...)
	}
	return b
}

func decodeOutputs(txID [32]byte, b []byte) ([]txmodel.TxOut, error) {
	if len(b) < 4 {
		return nil, nodeerr.New(nodeerr.KindInvalidFormat, "utxo entry: truncated count")
	}
	count := binary.LittleEndian.Uint32(b[:4])
	pos := 4
	out := make([]txmodel.TxOut, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(b)-pos < 20 {
			return nil, nodeerr.New(nodeerr.KindInvalidFormat, "utxo entry: truncated header")
		}
		value := int64(binary.LittleEndian.Uint64(b[pos : pos+8]))
		index := binary.LittleEndian.Uint32(b[pos+8 : pos+12])
		pathLen := binary.LittleEndian.Uint32(b[pos+12 : pos+16])
		scriptLen := binary.LittleEndian.Uint32(b[pos+16 : pos+20])
		pos += 20
		if uint32(len(b)-pos) < pathLen+scriptLen {
			return nil, nodeerr.New(nodeerr.KindInvalidFormat, "utxo entry: truncated body")
		}
		path := string(b[pos : pos+int(pathLen)])
		pos += int(pathLen)
		script := append([]byte(nil), b[pos:pos+int(scriptLen)]...)
		pos += int(scriptLen)
		out = append(out, txmodel.TxOut{
			Value:     value,
			PkScript:  script,
			TxID:      txID,
			Index:     index,
			BlockPath: path,
		})
	}
	return out, nil
}
