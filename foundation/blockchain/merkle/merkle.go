// Package merkle provides an implementation of a merkle tree so a block can
// commit to its ordered set of transactions with a single root hash and
// prove the inclusion of any one of them.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable interface {
	Hash() [sha256.Size]byte
}

// Order describes where a proof hash is concatenated while walking up
// the tree.
type Order int

// Set of orders for a proof step.
const (
	Left  Order = 0 // proof hash comes first.
	Right Order = 1 // proof hash comes second.
)

// ProofStep is one level of an inclusion proof.
type ProofStep struct {
	Hash  string `json:"hash"`
	Order Order  `json:"order"`
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits
// the behavior defined by the Hashable interface. Level 0 holds the leaf
// hashes and the last level holds the root.
type Tree[T Hashable] struct {
	values []T
	levels [][][sha256.Size]byte
}

// NewTree constructs a merkle tree over the values in the order provided.
// A tree with no values has a root of all zeros.
func NewTree[T Hashable](values []T) *Tree[T] {
	t := Tree[T]{
		values: append([]T(nil), values...),
	}

	if len(values) == 0 {
		return &t
	}

	leafs := make([][sha256.Size]byte, len(values))
	for i, value := range values {
		leafs[i] = value.Hash()
	}
	t.levels = append(t.levels, leafs)

	// Pair up each level, duplicating the last hash of an odd level, until
	// a single hash remains.
	level := leafs
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([][sha256.Size]byte, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = hashPair(level[i], level[i+1])
		}

		t.levels = append(t.levels, next)
		level = next
	}

	return &t
}

// Values returns a copy of the values the tree was constructed with.
func (t *Tree[T]) Values() []T {
	return append([]T(nil), t.values...)
}

// Root returns the merkle root hash.
func (t *Tree[T]) Root() [sha256.Size]byte {
	if len(t.levels) == 0 {
		return [sha256.Size]byte{}
	}

	return t.levels[len(t.levels)-1][0]
}

// RootHex returns the merkle root hash as a 0x prefixed hex string.
func (t *Tree[T]) RootHex() string {
	root := t.Root()
	return hexutil.Encode(root[:])
}

// Proof returns the set of hashes and the order of concatenating those
// hashes for proving the value at the specified position is in the tree.
//
// Hash the value in question, then for every step concatenate the step hash
// first (Left) or second (Right) with the running hash and hash the result.
// The final hash must match the merkle root.
func (t *Tree[T]) Proof(index int) ([]ProofStep, error) {
	if index < 0 || index >= len(t.values) {
		return nil, fmt.Errorf("index %d out of range, tree has %d values", index, len(t.values))
	}

	var steps []ProofStep
	for _, level := range t.levels[:len(t.levels)-1] {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		switch index % 2 {
		case 0:
			sibling := level[index+1]
			steps = append(steps, ProofStep{Hash: hexutil.Encode(sibling[:]), Order: Right})
		default:
			sibling := level[index-1]
			steps = append(steps, ProofStep{Hash: hexutil.Encode(sibling[:]), Order: Left})
		}

		index /= 2
	}

	return steps, nil
}

// =============================================================================

// VerifyProof walks the proof from the leaf hash and reports whether the
// calculated root matches the specified root.
func VerifyProof(leaf [sha256.Size]byte, steps []ProofStep, root [sha256.Size]byte) error {
	current := leaf

	for i, step := range steps {
		data, err := hexutil.Decode(step.Hash)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		var sibling [sha256.Size]byte
		if len(data) != len(sibling) {
			return fmt.Errorf("step %d: hash has %d bytes", i, len(data))
		}
		copy(sibling[:], data)

		switch step.Order {
		case Left:
			current = hashPair(sibling, current)
		case Right:
			current = hashPair(current, sibling)
		default:
			return fmt.Errorf("step %d: unknown order %d", i, step.Order)
		}
	}

	if !bytes.Equal(current[:], root[:]) {
		return errors.New("calculated root does not match merkle root")
	}

	return nil
}

// hashPair produces the parent hash of two child hashes.
func hashPair(left, right [sha256.Size]byte) [sha256.Size]byte {
	var data [2 * sha256.Size]byte
	copy(data[:sha256.Size], left[:])
	copy(data[sha256.Size:], right[:])

	return sha256.Sum256(data[:])
}
