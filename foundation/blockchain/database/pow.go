package database

import (
	"context"
	"math/big"

	"github.com/ardanlabs/ledger/foundation/blockchain/hashing"
)

// MaxDifficulty is the largest difficulty that can be solved, every bit of
// the digest would have to be zero.
const MaxDifficulty = hashing.Size * 8

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Index      uint64
	PrevHash   string
	Timestamp  uint64
	Difficulty uint
	ProofFloor uint64
	Trans      []Tx
	EvHandler  func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a proof that
// solves the cryptographic POW puzzle. The search can be cancelled with the
// context, in which case no block is returned.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	// Construct the block to be mined.
	nb := NewBlock(args.Index, args.Timestamp, args.Trans, args.ProofFloor, args.PrevHash)

	// Peform the proof of work mining operation.
	if err := nb.performPOW(ctx, args.Difficulty, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a proof is being discovered.
func (b *Block) performPOW(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started: blk[%d]", b.Index)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Index)

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Transactions {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	// The merkle root and the target don't change while searching so they
	// are calculated once.
	hdr := newHeader(*b, b.TransRoot())
	target := Target(difficulty)

	// Loop until we find a solution for the next block or we are cancelled.
	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		digest := hashing.Sum(hdr)
		if !meetsTarget(digest, target) {
			hdr.Proof++
			continue
		}

		b.Proof = hdr.Proof

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: proof[%d]", b.PreviousHash, hashing.ToHex(digest), b.Proof)
		ev("database: PerformPOW: MINING: attempts[%d]", attempts)

		return nil
	}
}

// =============================================================================

// Target returns the value a digest, read as a 256 bit unsigned integer, must
// be below to solve the specified difficulty. Each step of difficulty halves
// the target, which is the same as requiring one more leading zero bit.
func Target(difficulty uint) *big.Int {
	if difficulty > MaxDifficulty {
		return new(big.Int)
	}

	return new(big.Int).Lsh(big.NewInt(1), MaxDifficulty-difficulty)
}

// IsHashSolved checks the digest to make sure it complies with the POW rules.
// The digest must have at least difficulty leading zero bits.
func IsHashSolved(difficulty uint, digest [hashing.Size]byte) bool {
	return meetsTarget(digest, Target(difficulty))
}

func meetsTarget(digest [hashing.Size]byte, target *big.Int) bool {
	return new(big.Int).SetBytes(digest[:]).Cmp(target) < 0
}
