package database

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/hashing"
	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
)

// ErrChainInvalid is returned when a block or a chain fails the structural
// or proof of work checks.
var ErrChainInvalid = errors.New("chain invalid")

// GenesisPrevHash is the previous hash every genesis block carries since
// there is no real predecessor.
const GenesisPrevHash = hashing.ZeroHash

// =============================================================================

// Block represents a group of transactions batched together. A block's hash
// is never stored, it's always calculated from the fields so it can't be
// stale or forged.
type Block struct {
	Index        uint64 `json:"index"`         // Position in the chain, genesis is 0.
	Timestamp    uint64 `json:"timestamp"`     // Unix milliseconds the block was created.
	Transactions []Tx   `json:"transactions"`  // Ordered set of transactions.
	Proof        uint64 `json:"proof"`         // Value identified to solve the hash solution.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block in the chain.
}

// NewBlock constructs a block, placing the transactions into their defined
// order and collapsing duplicates.
func NewBlock(index uint64, timestamp uint64, trans []Tx, proof uint64, prevHash string) Block {
	set := SortTxs(trans)
	if set == nil {
		set = []Tx{}
	}

	return Block{
		Index:        index,
		Timestamp:    timestamp,
		Transactions: set,
		Proof:        proof,
		PreviousHash: prevHash,
	}
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return hashing.ToHex(b.digest())
}

// TransRoot returns the merkle root of the block's transactions.
func (b Block) TransRoot() string {
	return merkle.NewTree(b.Transactions).RootHex()
}

// Tree returns the merkle tree of the block's transactions.
func (b Block) Tree() *merkle.Tree[Tx] {
	return merkle.NewTree(b.Transactions)
}

// digest calculates the hash of the block from its header.
func (b Block) digest() [hashing.Size]byte {
	return hashing.Sum(newHeader(b, b.TransRoot()))
}

// =============================================================================

// header is the canonical form of a block that is hashed. The transactions
// are represented by their merkle root so mining only needs to encode a
// small fixed size value for every proof that is tried.
type header struct {
	Index        uint64 `json:"index"`
	Timestamp    uint64 `json:"timestamp"`
	TransRoot    string `json:"trans_root"`
	Proof        uint64 `json:"proof"`
	PreviousHash string `json:"previous_hash"`
}

func newHeader(b Block, transRoot string) header {
	return header{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		TransRoot:    transRoot,
		Proof:        b.Proof,
		PreviousHash: b.PreviousHash,
	}
}

// =============================================================================

// CompareBlocks orders blocks by index with ties broken by hash. This is only
// used for a deterministic display order.
func CompareBlocks(a, b Block) int {
	if c := cmp.Compare(a.Index, b.Index); c != 0 {
		return c
	}

	return cmp.Compare(a.Hash(), b.Hash())
}

// NextTimestamp returns the timestamp for a block following the specified
// block. Wall clocks can move backwards so the parent's timestamp is used
// as a floor.
func NextTimestamp(prevBlock Block) uint64 {
	now := uint64(time.Now().UTC().UnixMilli())
	return max(now, prevBlock.Timestamp)
}

// =============================================================================

// ValidateBlock takes a block and validates it to be the next block after
// the specified previous block.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint) error {
	nextIndex := previousBlock.Index + 1
	if b.Index != nextIndex {
		return fmt.Errorf("%w: block %d is not the next index, exp %d", ErrChainInvalid, b.Index, nextIndex)
	}

	if prevHash := previousBlock.Hash(); b.PreviousHash != prevHash {
		return fmt.Errorf("%w: block %d parent hash doesn't match, got %s, exp %s", ErrChainInvalid, b.Index, b.PreviousHash, prevHash)
	}

	if b.Timestamp < previousBlock.Timestamp {
		return fmt.Errorf("%w: block %d timestamp %d is before parent timestamp %d", ErrChainInvalid, b.Index, b.Timestamp, previousBlock.Timestamp)
	}

	return b.validateContent(difficulty)
}

// ValidateGenesis validates the block has the fixed shape of a genesis block.
func (b Block) ValidateGenesis(difficulty uint) error {
	if b.Index != 0 {
		return fmt.Errorf("%w: genesis index is %d", ErrChainInvalid, b.Index)
	}

	if b.PreviousHash != GenesisPrevHash {
		return fmt.Errorf("%w: genesis previous hash is %s", ErrChainInvalid, b.PreviousHash)
	}

	if len(b.Transactions) != 0 {
		return fmt.Errorf("%w: genesis has %d transactions", ErrChainInvalid, len(b.Transactions))
	}

	return b.validateContent(difficulty)
}

// validateContent checks the transaction set is a proper ordered set and the
// block hash solves the proof of work puzzle.
func (b Block) validateContent(difficulty uint) error {
	for i := 1; i < len(b.Transactions); i++ {
		if CompareTx(b.Transactions[i-1], b.Transactions[i]) >= 0 {
			return fmt.Errorf("%w: block %d transactions are not an ordered set at position %d", ErrChainInvalid, b.Index, i)
		}
	}

	for _, tx := range b.Transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("%w: block %d: %w", ErrChainInvalid, b.Index, err)
		}
	}

	if !IsHashSolved(difficulty, b.digest()) {
		return fmt.Errorf("%w: block %d hash %s does not solve difficulty %d", ErrChainInvalid, b.Index, b.Hash(), difficulty)
	}

	return nil
}

// ValidateChain checks the entire chain: the genesis shape, the index
// sequence, every previous hash link and every proof. It does not modify
// anything and is used for our own chain and for peer chains alike.
func ValidateChain(blocks []Block, difficulty uint) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: chain is empty", ErrChainInvalid)
	}

	if err := blocks[0].ValidateGenesis(difficulty); err != nil {
		return err
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], difficulty); err != nil {
			return err
		}
	}

	return nil
}
