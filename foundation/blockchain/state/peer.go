package state

import "github.com/ardanlabs/ledger/foundation/blockchain/peer"

// RegisterPeers adds the specified peers to the set of known peers and
// returns the number of known peers. The node's own host is never added.
func (s *State) RegisterPeers(peers ...peer.Peer) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pr := range peers {
		if pr.Match(s.host) {
			continue
		}

		if s.knownPeers.Add(pr) {
			s.evHandler("state: RegisterPeers: add peer-node %s", pr)
		}
	}

	return s.knownPeers.Count()
}
