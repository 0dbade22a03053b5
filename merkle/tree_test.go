package merkle

import "testing"

func leafHash(n byte) [32]byte {
	var h [32]byte
	h[0] = n
	return h
}

func TestBuildSingleLeafRootIsLeaf(t *testing.T) {
	leaves := [][32]byte{leafHash(1)}
	tree := Build(leaves)
	if tree.Root() != leaves[0] {
		t.Fatal("single-leaf tree root should equal the leaf")
	}
}

func TestBuildOddCountDuplicatesLastLeaf(t *testing.T) {
	leaves := [][32]byte{leafHash(1), leafHash(2), leafHash(3)}
	odd := Build(leaves)

	dup := append(append([][32]byte{}, leaves...), leaves[len(leaves)-1])
	even := Build(dup)

	if odd.Root() != even.Root() {
		t.Fatal("odd-count tree should duplicate its last leaf, matching the explicit duplicate")
	}
}

func TestProofForTxIDVerifiesAgainstRoot(t *testing.T) {
	leaves := [][32]byte{leafHash(1), leafHash(2), leafHash(3), leafHash(4), leafHash(5)}
	tree := Build(leaves)

	for i, id := range leaves {
		proof, err := ProofForTxID(tree, leaves, id)
		if err != nil {
			t.Fatalf("ProofForTxID(%d): %v", i, err)
		}
		if !Verify(proof, tree.Root()) {
			t.Fatalf("proof for leaf %d failed to verify against the root", i)
		}
	}
}

func TestProofForTxIDMissingFails(t *testing.T) {
	leaves := [][32]byte{leafHash(1), leafHash(2)}
	tree := Build(leaves)
	if _, err := ProofForTxID(tree, leaves, leafHash(99)); err == nil {
		t.Fatal("expected InvalidMerkleTree error for absent tx_id")
	}
}
