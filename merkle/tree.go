// Package merkle builds block Merkle trees and generates/verifies inclusion
// proofs (spec §4.6).
package merkle

import (
	"github.com/btcnode/node/nodeerr"
	"github.com/btcnode/node/wire"
)

// Direction identifies which side of a pairing a node sits on.
type Direction int

const (
	Left Direction = iota
	Right
)

// Tree retains every level so proofs can be generated after the fact (spec
// §4.6 "all levels are retained for proof generation").
type Tree struct {
	levels [][][32]byte
}

// Root returns the single top node, the Merkle root.
func (t *Tree) Root() [32]byte {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Build constructs a Merkle tree from leaves in coinbase-first order (spec
// §3, §4.6): a level with an odd count duplicates its last node before
// pairing; pairs hash as sha256d(left || right).
func Build(leaves [][32]byte) *Tree {
	if len(leaves) == 0 {
		return &Tree{levels: [][][32]byte{{}}}
	}
	level := append([][32]byte(nil), leaves...)
	levels := [][][32]byte{level}
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			var buf [64]byte
			copy(buf[:32], level[i][:])
			copy(buf[32:], level[i+1][:])
			next = append(next, wire.Sha256d(buf[:]))
		}
		levels = append(levels, next)
		level = next
	}
	return &Tree{levels: levels}
}

// ProofStep is one sibling hop in an inclusion proof. Hash is stored in
// display (byte-reversed) order, matching the convention spec §9 flags.
type ProofStep struct {
	Hash      [32]byte
	Direction Direction
}

// Proof is an inclusion proof for one transaction id (spec §4.6).
type Proof struct {
	Leaf  ProofStep
	Steps []ProofStep
}

// ProofForTxID builds the inclusion proof for txID within t, whose leaves
// are leaves (spec §4.6).
func ProofForTxID(t *Tree, leaves [][32]byte, txID [32]byte) (Proof, error) {
	index := -1
	for i, id := range leaves {
		if id == txID {
			index = i
			break
		}
	}
	if index < 0 {
		return Proof{}, nodeerr.New(nodeerr.KindInvalidMerkleTree, "tx_id not found in block")
	}

	leafDirection := Right
	if index%2 == 0 {
		leafDirection = Left
	}
	proof := Proof{
		Leaf: ProofStep{Hash: wire.ReverseBytes32(txID), Direction: leafDirection},
	}

	idx := index
	for lvl := 0; lvl < len(t.levels)-1; lvl++ {
		level := t.levels[lvl]
		if len(level)%2 == 1 {
			level = append(level[:len(level):len(level)], level[len(level)-1])
		}
		var siblingIdx int
		var dir Direction
		if idx%2 == 0 {
			siblingIdx = idx + 1
			dir = Right
		} else {
			siblingIdx = idx - 1
			dir = Left
		}
		proof.Steps = append(proof.Steps, ProofStep{
			Hash:      wire.ReverseBytes32(level[siblingIdx]),
			Direction: dir,
		})
		idx /= 2
	}
	return proof, nil
}

// Verify folds proof from its leaf up, concatenating each sibling on its
// indicated side (after reversing it back to hash order) and hashing with
// sha256d, and reports whether the result equals root (spec §4.6).
func Verify(proof Proof, root [32]byte) bool {
	current := wire.ReverseBytes32(proof.Leaf.Hash)
	for _, step := range proof.Steps {
		sibling := wire.ReverseBytes32(step.Hash)
		var buf [64]byte
		if step.Direction == Right {
			copy(buf[:32], current[:])
			copy(buf[32:], sibling[:])
		} else {
			copy(buf[:32], sibling[:])
			copy(buf[32:], current[:])
		}
		current = wire.Sha256d(buf[:])
	}
	return current == root
}
