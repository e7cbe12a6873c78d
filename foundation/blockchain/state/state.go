// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Set of default values used when the configuration doesn't provide them.
const (
	defMaxMiningAttempts    = 5
	defFetchTimeout         = 5 * time.Second
	defMaxConcurrentFetches = 8
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining and consensus.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// ChainFetcher represents the behavior required to ask a peer for its chain.
type ChainFetcher interface {
	FetchChain(ctx context.Context, pr peer.Peer) (peer.Chain, error)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Host                 string
	Genesis              genesis.Genesis
	Difficulty           uint
	MaxMiningAttempts    int
	KnownPeers           *peer.PeerSet
	Fetcher              ChainFetcher
	FetchTimeout         time.Duration
	MaxConcurrentFetches int
	EvHandler            EventHandler
}

// State manages the blockchain database. The mutex guards every operation
// that reads and then modifies more than one of the chain, the mempool and
// the set of known peers so these changes are seen all at once.
type State struct {
	mu                sync.RWMutex
	host              string
	evHandler         EventHandler
	genesis           genesis.Genesis
	genesisHash       string
	maxMiningAttempts int
	fetcher           ChainFetcher
	fetchTimeout      time.Duration
	maxFetches        int
	shut              chan struct{}
	shutOnce          sync.Once

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new blockchain for data management. The genesis block is
// mined from the genesis information so every node configured with the same
// genesis starts with the same block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	difficulty := uint(cfg.Genesis.Difficulty)
	if cfg.Difficulty != 0 {
		difficulty = cfg.Difficulty
	}

	if difficulty > database.MaxDifficulty {
		return nil, fmt.Errorf("difficulty %d is above the max of %d", difficulty, database.MaxDifficulty)
	}

	host := cfg.Host
	if host != "" {
		normalized, err := peer.Normalize(host)
		if err != nil {
			return nil, err
		}
		host = normalized
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defFetchTimeout
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = peer.NewClient(fetchTimeout)
	}

	maxMiningAttempts := cfg.MaxMiningAttempts
	if maxMiningAttempts <= 0 {
		maxMiningAttempts = defMaxMiningAttempts
	}

	maxFetches := cfg.MaxConcurrentFetches
	if maxFetches <= 0 {
		maxFetches = defMaxConcurrentFetches
	}

	ev("state: New: mining genesis block: difficulty[%d]", difficulty)

	genesisBlock, err := database.MineGenesis(context.Background(), cfg.Genesis.Timestamp(), difficulty, cfg.Genesis.ProofFloor, ev)
	if err != nil {
		return nil, err
	}

	db, err := database.New(genesisBlock, difficulty)
	if err != nil {
		return nil, err
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		host:              host,
		evHandler:         ev,
		genesis:           cfg.Genesis,
		genesisHash:       genesisBlock.Hash(),
		maxMiningAttempts: maxMiningAttempts,
		fetcher:           fetcher,
		fetchTimeout:      fetchTimeout,
		maxFetches:        maxFetches,
		shut:              make(chan struct{}),

		knownPeers: knownPeers,
		mempool:    mempool.New(),
		db:         db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down. Any mining in progress is cancelled.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	s.shutOnce.Do(func() {
		close(s.shut)
	})

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// isShutdown is used to test if a shutdown has been signaled.
func (s *State) isShutdown() bool {
	select {
	case <-s.shut:
		return true
	default:
		return false
	}
}
