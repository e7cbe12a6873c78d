package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"golang.org/x/sync/errgroup"
)

// ErrPeerUnreachable is reported when a peer's chain can't be retrieved.
var ErrPeerUnreachable = errors.New("peer unreachable")

// Resolution is the outcome of resolving conflicts with the known peers.
type Resolution struct {
	Replaced bool
	Chain    []database.Block
}

// =============================================================================

// Resolve implements the consensus rule: the longest valid chain in the
// network wins. Every known peer is asked for its chain, the longest valid
// chain that is longer than ours replaces our chain. Peers that can't be
// reached and chains that are invalid are skipped.
func (s *State) Resolve(ctx context.Context) (Resolution, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	peers := s.RetrieveKnownPeers()
	chains := s.collectChains(ctx, peers)

	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}

	best := s.selectChain(peers, chains)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Our chain could have grown while the peers were being asked.
	if best == nil || len(best) <= s.db.Length() {
		s.evHandler("state: Resolve: our chain is authoritative: length[%d]", s.db.Length())
		return Resolution{Chain: s.db.Blocks()}, nil
	}

	if err := s.replaceChain(best); err != nil {
		return Resolution{}, err
	}

	s.evHandler("state: Resolve: our chain was replaced: length[%d]", s.db.Length())

	return Resolution{Replaced: true, Chain: s.db.Blocks()}, nil
}

// collectChains asks every peer for its chain concurrently. The chain for a
// peer that failed to respond is nil.
func (s *State) collectChains(ctx context.Context, peers []peer.Peer) []*peer.Chain {
	chains := make([]*peer.Chain, len(peers))

	var g errgroup.Group
	g.SetLimit(s.maxFetches)

	for i, pr := range peers {
		i, pr := i, pr
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			chain, err := s.fetcher.FetchChain(ctx, pr)
			if err != nil {
				err = fmt.Errorf("%w: %s: %w", ErrPeerUnreachable, pr, err)
				s.evHandler("state: Resolve: collect: WARNING: %s", err)
				return nil
			}

			chains[i] = &chain
			return nil
		})
	}

	g.Wait()

	return chains
}

// selectChain returns the longest valid chain that is longer than our
// chain or nil. The peers are in host order and a chain only displaces the
// current pick when it's strictly longer, so the choice is deterministic.
func (s *State) selectChain(peers []peer.Peer, chains []*peer.Chain) []database.Block {
	minLength := s.QueryChainLength()

	var best []database.Block
	for i, chain := range chains {
		if chain == nil {
			continue
		}

		if chain.Length != len(chain.Blocks) {
			s.evHandler("state: Resolve: select: %s: reported length[%d] doesn't match blocks[%d]", peers[i], chain.Length, len(chain.Blocks))
			continue
		}

		if len(chain.Blocks) <= max(minLength, len(best)) {
			continue
		}

		if err := s.ValidateChain(chain.Blocks); err != nil {
			s.evHandler("state: Resolve: select: %s: WARNING: %s", peers[i], err)
			continue
		}

		best = chain.Blocks
	}

	return best
}
