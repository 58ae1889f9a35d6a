package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// RewardSender is the reserved sender address used for mining rewards.
const RewardSender = "0"

// Set of errors returned by MineNewBlock.
var (
	ErrMiningCancelled = errors.New("mining cancelled")
	ErrChainChanged    = errors.New("chain changed while mining")
)

// =============================================================================

// MineNewBlock solves the POW puzzle against the latest block, records the
// mining reward for this node and seals a new block with the pending
// transactions. Only one mining operation runs at a time. The search is
// stopped when the context is cancelled or the chain is replaced.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, time.Duration, error) {
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	start := time.Now()

	// Create a context so mining can be cancelled by consensus.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.setCancelMining(cancel)
	defer s.setCancelMining(nil)

	latest, err := s.LatestBlock()
	if err != nil {
		return database.Block{}, time.Since(start), err
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: lastProof[%d]", latest.Proof)

	// Attempt to solve the POW puzzle. This can be cancelled.
	proof, err := pow.Mine(ctx, latest.Proof, s.evHandler)
	if err != nil {
		return database.Block{}, time.Since(start), fmt.Errorf("%w: %w", ErrMiningCancelled, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The proof was found for a block that may no longer be the latest.
	if current := s.chain[len(s.chain)-1]; current.Hash() != latest.Hash() {
		return database.Block{}, time.Since(start), ErrChainChanged
	}

	s.evHandler("state: MineNewBlock: MINING: record reward: address[%s]", s.address)

	s.recordTransaction(database.NewTx(RewardSender, s.address, s.genesis.MiningReward))
	block := s.sealBlock(proof, "")

	return block, time.Since(start), nil
}

// =============================================================================

// setCancelMining stores the function used to cancel the mining
// operation in flight.
func (s *State) setCancelMining(cancel context.CancelFunc) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()

	s.cancelMining = cancel
}

// signalCancelMining stops the mining operation in flight, if any.
func (s *State) signalCancelMining() {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()

	if s.cancelMining != nil {
		s.evHandler("state: signalCancelMining: cancel mining signaled")
		s.cancelMining()
	}
}
