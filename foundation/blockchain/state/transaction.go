package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SubmitTransaction accepts a transaction for inclusion in a future block.
// Submitting a transaction that is already pending has no effect. The index
// of the block the transaction is expected to be mined into is returned.
func (s *State) SubmitTransaction(tx database.Tx) (uint64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	var next uint64
	s.mu.Lock()
	{
		s.mempool.Upsert(tx)
		next = uint64(s.db.Length())
	}
	s.mu.Unlock()

	s.evHandler("state: SubmitTransaction: tx[%s]: block[%d]", tx, next)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return next, nil
}
