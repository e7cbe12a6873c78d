// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"slices"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents the set of transactions waiting to be mined. The pool
// is a set, adding a transaction that is already pending has no effect.
type Mempool struct {
	pool map[database.Tx]struct{}
	mu   sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{
		pool: make(map[database.Tx]struct{}),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds a transaction to the mempool and returns the size of the pool.
// Adding a transaction already in the pool doesn't change the pool.
func (mp *Mempool) Upsert(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx] = struct{}{}

	return len(mp.pool)
}

// Contains reports if the transaction is pending in the pool.
func (mp *Mempool) Contains(tx database.Tx) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.pool[tx]
	return exists
}

// Delete removes the specified transactions from the mempool. Transactions
// that are not in the pool are ignored.
func (mp *Mempool) Delete(trans ...database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, tx := range trans {
		delete(mp.pool, tx)
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[database.Tx]struct{})
}

// Copy returns the transactions in the pool in their defined order.
func (mp *Mempool) Copy() []database.Tx {
	return mp.PickBest(-1)
}

// PickBest returns the next set of transactions for the next block in their
// defined order. The caller specifies how many transactions they want.
// Pass -1 for all the transactions.
func (mp *Mempool) PickBest(howMany int) []database.Tx {
	mp.mu.RLock()
	trans := make([]database.Tx, 0, len(mp.pool))
	for tx := range mp.pool {
		trans = append(trans, tx)
	}
	mp.mu.RUnlock()

	slices.SortFunc(trans, database.CompareTx)

	if howMany >= 0 && howMany < len(trans) {
		trans = trans[:howMany]
	}

	return trans
}
