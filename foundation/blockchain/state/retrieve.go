package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// ErrNotFound is returned when a requested block or transaction doesn't exist.
var ErrNotFound = errors.New("not found")

// TxProof is the proof a transaction is included in a block.
type TxProof struct {
	Block     uint64
	BlockHash string
	Tx        database.Tx
	Root      string
	Steps     []merkle.ProofStep
}

// =============================================================================

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveDifficulty returns the difficulty every block must solve.
func (s *State) RetrieveDifficulty() uint {
	return s.db.Difficulty()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.LatestBlock()
}

// RetrieveChain returns a copy of the full chain in index order.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Blocks()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.knownPeers.Copy(s.host)
}

// RetrieveTxProof returns the merkle proof for the transaction at the
// specified position of the specified block.
func (s *State) RetrieveTxProof(index uint64, position int) (TxProof, error) {
	block, err := s.db.GetBlock(index)
	if err != nil {
		return TxProof{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	tree := block.Tree()

	steps, err := tree.Proof(position)
	if err != nil {
		return TxProof{}, fmt.Errorf("%w: block %d: %w", ErrNotFound, index, err)
	}

	proof := TxProof{
		Block:     index,
		BlockHash: block.Hash(),
		Tx:        tree.Values()[position],
		Root:      tree.RootHex(),
		Steps:     steps,
	}

	return proof, nil
}
