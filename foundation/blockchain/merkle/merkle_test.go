package merkle_test

import (
	"crypto/sha256"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// data uses the sha256 hashing algorithm for the merkle tree.
type data string

func (d data) Hash() [sha256.Size]byte {
	return sha256.Sum256([]byte(d))
}

// =============================================================================

func Test_Root(t *testing.T) {
	type table struct {
		name   string
		values []data
	}

	tt := []table{
		{name: "one", values: []data{"a"}},
		{name: "even", values: []data{"a", "b", "c", "d"}},
		{name: "odd", values: []data{"a", "b", "c", "d", "e"}},
	}

	t.Log("Given the need to calculate a merkle root.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %d values.", testID, len(tst.values))
			{
				f := func(t *testing.T) {
					tree1 := merkle.NewTree(tst.values)
					tree2 := merkle.NewTree(tst.values)

					if tree1.Root() != tree2.Root() {
						t.Fatalf("\t%s\tTest %d:\tShould get the same root for the same values.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same root for the same values.", success, testID)

					changed := append([]data(nil), tst.values...)
					changed[0] = "z"
					if merkle.NewTree(changed).Root() == tree1.Root() {
						t.Fatalf("\t%s\tTest %d:\tShould get a different root when a value changes.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get a different root when a value changes.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_EmptyTree(t *testing.T) {
	tree := merkle.NewTree[data](nil)

	if tree.Root() != [sha256.Size]byte{} {
		t.Fatalf("\t%s\tShould get a zero root for an empty tree: %s", failed, tree.RootHex())
	}
	t.Logf("\t%s\tShould get a zero root for an empty tree.", success)

	if _, err := tree.Proof(0); err == nil {
		t.Fatalf("\t%s\tShould not be able to get a proof from an empty tree.", failed)
	}
	t.Logf("\t%s\tShould not be able to get a proof from an empty tree.", success)
}

func Test_Proof(t *testing.T) {
	values := []data{"a", "b", "c", "d", "e", "f", "g"}
	tree := merkle.NewTree(values)

	t.Log("Given the need to prove a value is in the tree.")
	{
		for i, value := range values {
			steps, err := tree.Proof(i)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to get a proof: %v", failed, i, err)
			}

			if err := merkle.VerifyProof(value.Hash(), steps, tree.Root()); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to verify the proof for %q: %v", failed, i, value, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to verify the proof for %q.", success, i, value)
		}

		steps, err := tree.Proof(0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to get a proof: %v", failed, err)
		}

		if err := merkle.VerifyProof(data("x").Hash(), steps, tree.Root()); err == nil {
			t.Fatalf("\t%s\tShould not verify a value that is not in the tree.", failed)
		}
		t.Logf("\t%s\tShould not verify a value that is not in the tree.", success)
	}
}
