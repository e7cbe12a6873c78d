// Package database handles the lower level support for maintaining the
// blockchain in memory: transactions, blocks, the proof of work and the
// ordered chain of blocks.
package database

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Database manages the chain of blocks. The chain is never empty, it always
// starts with a genesis block, and it only grows by appending the next
// block or by being replaced as a whole with a longer valid chain.
type Database struct {
	mu         sync.RWMutex
	difficulty uint
	blocks     []Block
}

// New constructs a new database holding only the specified genesis block.
func New(genesis Block, difficulty uint) (*Database, error) {
	if err := genesis.ValidateGenesis(difficulty); err != nil {
		return nil, err
	}

	db := Database{
		difficulty: difficulty,
		blocks:     []Block{genesis},
	}

	return &db, nil
}

// MineGenesis performs the proof of work for a genesis block. The genesis
// block is fully determined by the timestamp, difficulty and proof floor so
// nodes sharing these values share the same genesis block.
func MineGenesis(ctx context.Context, timestamp uint64, difficulty uint, proofFloor uint64, evHandler func(v string, args ...any)) (Block, error) {
	return POW(ctx, POWArgs{
		Index:      0,
		PrevHash:   GenesisPrevHash,
		Timestamp:  timestamp,
		Difficulty: difficulty,
		ProofFloor: proofFloor,
		EvHandler:  evHandler,
	})
}

// Difficulty returns the difficulty every block in this chain must solve.
func (db *Database) Difficulty() uint {
	return db.difficulty
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1]
}

// Length returns the number of blocks in the chain including genesis.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// Blocks returns a copy of the chain in index order.
func (db *Database) Blocks() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return slices.Clone(db.blocks)
}

// GetBlock returns the block at the specified index.
func (db *Database) GetBlock(index uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index >= uint64(len(db.blocks)) {
		return Block{}, fmt.Errorf("block %d not found, chain length %d", index, len(db.blocks))
	}

	return db.blocks[index], nil
}

// Write adds a new block to the end of the chain. The block must be the
// valid next block for the current latest block.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := block.ValidateBlock(db.blocks[len(db.blocks)-1], db.difficulty); err != nil {
		return err
	}

	db.blocks = append(db.blocks, block)

	return nil
}

// Replace swaps the entire chain with the specified chain. The chain must
// be valid and strictly longer than the current chain.
func (db *Database) Replace(blocks []Block) error {
	if err := ValidateChain(blocks, db.difficulty); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if len(blocks) <= len(db.blocks) {
		return fmt.Errorf("%w: chain length %d is not longer than current length %d", ErrChainInvalid, len(blocks), len(db.blocks))
	}

	db.blocks = slices.Clone(blocks)

	return nil
}
