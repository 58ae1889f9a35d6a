package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/balance"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBlocksByNumber returns the set of blocks based on block numbers. Either
// bound may be QueryLatest, which stands for the current tip. Block numbers
// outside of the chain are ignored.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := uint64(len(s.chain))

	if from == QueryLatest {
		from = latest
	}
	if to > latest {
		to = latest
	}
	if from < 1 {
		from = 1
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		out = append(out, database.CopyChain(s.chain[i-1:i])...)
	}

	return out
}

// QueryBlocksByAddress returns the set of blocks holding a transaction sent
// or received by the address. If the address is empty, all blocks are
// returned.
func (s *State) QueryBlocksByAddress(address string) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []database.Block
	for _, block := range s.chain {
		if address == "" {
			out = append(out, database.CopyChain([]database.Block{block})...)
			continue
		}

		for _, tx := range block.Transactions {
			if tx.Sender == address || tx.Recipient == address {
				out = append(out, database.CopyChain([]database.Block{block})...)
				break
			}
		}
	}

	return out
}

// QueryBalances replays the chain and returns the balance of every address
// seen in a transaction. Pending transactions are not included.
func (s *State) QueryBalances() map[string]int64 {
	sheet := balance.FromChain(s.RetrieveChain(), RewardSender)
	return sheet.Copy()
}
