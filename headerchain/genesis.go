package headerchain

import "github.com/btcnode/node/wire"

// testnetGenesisMerkleRoot is the coinbase tx_id of the well-known genesis
// block, identical across mainnet and testnet3, in internal (wire) byte
// order as it appears in the serialized header.
var testnetGenesisMerkleRoot = [32]byte{
	0x3b, 0xa3, 0xed, 0xfd, 0x7a, 0x7b, 0x12, 0xb2,
	0x7a, 0xc7, 0x2c, 0x3e, 0x67, 0x76, 0x8f, 0x61,
	0x7f, 0xc8, 0x1b, 0xc3, 0x88, 0x8a, 0x51, 0x32,
	0x3a, 0x9f, 0xb8, 0xaa, 0x4b, 0x1e, 0x5e, 0x4a,
}

// Genesis is the testnet genesis header, the seed record written to an
// empty header file before header download begins (spec §4.3 "seed with
// the genesis header if empty", §6 "First record is always the genesis
// header").
var Genesis = wire.BlockHeader{
	Version:       1,
	PrevBlockHash: [32]byte{},
	MerkleRoot:    testnetGenesisMerkleRoot,
	Timestamp:     1296688602,
	Bits:          0x1d00ffff,
	Nonce:         414098458,
}
