// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// ErrEmptyChain is returned when the chain has no blocks. The genesis block
// is created on construction so this only happens on a zero value State.
var ErrEmptyChain = errors.New("chain has no blocks")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background consensus resolution.
type Worker interface {
	Shutdown()
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Address    string            // Address credited with the mining reward.
	Host       string            // Host this node is reachable at.
	Genesis    genesis.Genesis   // Genesis settings for the chain.
	KnownPeers *peer.PeerSet     // Node registry used for consensus.
	Fetcher    consensus.Fetcher // Retrieves peer chains, defaults to HTTP.
	EvHandler  EventHandler
}

// State manages the blockchain held in memory.
type State struct {
	address   string
	host      string
	evHandler EventHandler
	genesis   genesis.Genesis

	mu      sync.RWMutex
	chain   []database.Block
	mempool *mempool.Mempool

	knownPeers *peer.PeerSet
	fetcher    consensus.Fetcher

	miningMu     sync.Mutex
	cancelMu     sync.Mutex
	cancelMining context.CancelFunc

	Worker Worker
}

// New constructs a new blockchain for data management. The genesis block
// is created before the state is returned.
func New(cfg Config) (*State, error) {
	if cfg.Address == "" {
		return nil, errors.New("node address is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	var fetcher consensus.Fetcher = consensus.NewHTTPFetcher()
	if cfg.Fetcher != nil {
		fetcher = cfg.Fetcher
	}

	genesisBlock := database.GenesisBlock(cfg.Genesis)
	ev("state: New: genesis block created: blk[%s]", genesisBlock.Hash())

	// Create the State to provide support for managing the blockchain.
	state := State{
		address:   cfg.Address,
		host:      cfg.Host,
		evHandler: ev,
		genesis:   cfg.Genesis,

		chain:   []database.Block{genesisBlock},
		mempool: mempool.New(),

		knownPeers: knownPeers,
		fetcher:    fetcher,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	// Stop any mining operation in flight.
	s.signalCancelMining()

	// Stop all background activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
