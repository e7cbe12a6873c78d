package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrLockContention is returned when a mined block could not be appended
// because the chain kept changing underneath the miner. The operation is
// safe to retry.
var ErrLockContention = errors.New("chain changed during mining, try again")

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain. It includes every pending transaction,
// an empty mempool produces a block with no transactions.
//
// The proof of work is performed without holding any lock. When the work is
// done the block is only appended if the chain didn't change in the
// meantime, otherwise the work is redone against the new latest block.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// A node shutdown cancels the mining.
	go func() {
		select {
		case <-s.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	for attempt := 1; attempt <= s.maxMiningAttempts; attempt++ {
		if s.isShutdown() {
			return database.Block{}, context.Canceled
		}

		block, appended, err := s.mineAttempt(ctx, attempt)
		if err != nil {
			return database.Block{}, err
		}

		if appended {
			return block, nil
		}
	}

	return database.Block{}, fmt.Errorf("%w: attempts[%d]", ErrLockContention, s.maxMiningAttempts)
}

// mineAttempt performs one snapshot, mine and append cycle. It reports
// false when the chain changed while the proof was being found.
func (s *State) mineAttempt(ctx context.Context, attempt int) (database.Block, bool, error) {
	s.evHandler("state: MineNewBlock: MINING: snapshot: attempt[%d]", attempt)

	var latest database.Block
	var length int
	var trans []database.Tx
	s.mu.RLock()
	{
		latest = s.db.LatestBlock()
		length = s.db.Length()
		trans = s.mempool.Copy()
	}
	s.mu.RUnlock()

	prevHash := latest.Hash()

	s.evHandler("state: MineNewBlock: MINING: perform POW: trans[%d]", len(trans))

	block, err := database.POW(ctx, database.POWArgs{
		Index:      latest.Index + 1,
		PrevHash:   prevHash,
		Timestamp:  database.NextTimestamp(latest),
		Difficulty: s.db.Difficulty(),
		Trans:      trans,
		EvHandler:  s.evHandler,
	})
	if err != nil {
		return database.Block{}, false, err
	}

	s.evHandler("state: MineNewBlock: MINING: update local state")

	s.mu.Lock()
	defer s.mu.Unlock()

	// Someone else changed the chain while we were mining.
	if s.db.Length() != length || s.db.LatestBlock().Hash() != prevHash {
		s.evHandler("state: MineNewBlock: MINING: chain changed: blk[%d] discarded", block.Index)
		return database.Block{}, false, nil
	}

	if err := s.db.Write(block); err != nil {
		return database.Block{}, false, err
	}

	// Only the transactions that made it into the block leave the pool.
	// Anything submitted during the mining stays for the next block.
	s.mempool.Delete(block.Transactions...)

	s.evHandler("state: MineNewBlock: MINING: blk[%d]: hash[%s]: trans[%d]", block.Index, block.Hash(), len(block.Transactions))

	return block, true, nil
}
