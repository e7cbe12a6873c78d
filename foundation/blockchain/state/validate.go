package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ValidateChain checks the specified chain against the rules of this ledger.
// Nothing is modified, the chain can belong to this node or to a peer. A
// chain must start from the same genesis block this node was started with.
func (s *State) ValidateChain(chain []database.Block) error {
	if err := database.ValidateChain(chain, s.db.Difficulty()); err != nil {
		return err
	}

	if hash := chain[0].Hash(); hash != s.genesisHash {
		return fmt.Errorf("%w: genesis block %s doesn't match %s", database.ErrChainInvalid, hash, s.genesisHash)
	}

	return nil
}

// IsValidChain reports if the specified chain passes every validation rule.
func (s *State) IsValidChain(chain []database.Block) bool {
	return s.ValidateChain(chain) == nil
}
