package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveAddress returns the address credited with mining rewards.
func (s *State) RetrieveAddress() string {
	return s.address
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// LatestBlock returns a copy of the most recently appended block.
func (s *State) LatestBlock() (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chain) == 0 {
		return database.Block{}, ErrEmptyChain
	}

	latest := s.chain[len(s.chain)-1]
	latest.Transactions = latest.Trans()

	return latest, nil
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return database.CopyChain(s.chain)
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the current status of the node.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.RLock()
	latest := s.chain[len(s.chain)-1]
	s.mu.RUnlock()

	return peer.PeerStatus{
		Address:          s.address,
		LatestBlockHash:  latest.Hash(),
		LatestBlockIndex: latest.Index,
		Pending:          s.mempool.Count(),
		KnownPeers:       s.RetrieveKnownPeers(),
	}
}
