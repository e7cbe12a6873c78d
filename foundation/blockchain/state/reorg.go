package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// ReplaceChain swaps the local chain for the specified chain. The chain must
// be valid and strictly longer than the local chain.
func (s *State) ReplaceChain(chain []database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceChain(chain)
}

// replaceChain performs the swap and reconciles the mempool. Transactions
// in local blocks that are dropped and not part of the new chain go back
// into the mempool. Pending transactions already in the new chain are
// removed. The caller must hold the write lock.
func (s *State) replaceChain(chain []database.Block) error {
	s.evHandler("state: replaceChain: started: length[%d]", len(chain))
	defer s.evHandler("state: replaceChain: completed")

	if err := s.ValidateChain(chain); err != nil {
		return err
	}

	old := s.db.Blocks()

	if err := s.db.Replace(chain); err != nil {
		return err
	}

	// Find the first block where the chains differ.
	fork := 0
	for fork < len(old) && old[fork].Hash() == chain[fork].Hash() {
		fork++
	}

	inChain := make(map[database.Tx]struct{})
	for _, block := range chain {
		for _, tx := range block.Transactions {
			inChain[tx] = struct{}{}
		}
	}

	for _, block := range old[fork:] {
		for _, tx := range block.Transactions {
			if _, exists := inChain[tx]; !exists {
				s.evHandler("state: replaceChain: orphaned tx[%s] back to mempool", tx)
				s.mempool.Upsert(tx)
			}
		}
	}

	for _, tx := range s.mempool.Copy() {
		if _, exists := inChain[tx]; exists {
			s.mempool.Delete(tx)
		}
	}

	// Anything being mined now is built on a block that no longer exists.
	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}

	return nil
}
