package state

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	return s.db.Length()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryPeerCount returns the number of known peers.
func (s *State) QueryPeerCount() int {
	return s.knownPeers.Count()
}
