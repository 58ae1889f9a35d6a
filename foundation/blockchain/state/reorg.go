package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Resolve asks the known peers for their chains and replaces the local
// chain with the longest valid chain that is strictly longer. It reports
// whether the chain was replaced along with a copy of the resulting chain.
// Any mining operation in flight is cancelled when the chain is replaced.
func (s *State) Resolve(ctx context.Context) (bool, []database.Block, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	local := s.RetrieveChain()
	result := consensus.Resolve(ctx, local, s.RetrieveKnownPeers(), s.fetcher, s.evHandler)

	if err := ctx.Err(); err != nil {
		return false, local, err
	}

	if !result.Adopted {
		return false, local, nil
	}

	if !s.replaceChain(result.Chain) {
		s.evHandler("state: Resolve: local chain grew during resolution, keeping it")
		return false, s.RetrieveChain(), nil
	}

	s.evHandler("state: Resolve: chain replaced: peer[%s]: length[%d]", result.Peer, len(result.Chain))

	s.signalCancelMining()

	return true, s.RetrieveChain(), nil
}

// replaceChain swaps in the chain while holding the lock. It re-checks the
// length since the local chain may have grown after the candidate was picked.
func (s *State) replaceChain(chain []database.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(chain) <= len(s.chain) {
		return false
	}

	s.chain = database.CopyChain(chain)

	return true
}
