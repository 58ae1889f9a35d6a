package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// RecordTransaction adds the transaction to the mempool and returns the index
// of the block that will hold it.
func (s *State) RecordTransaction(tx database.Tx) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recordTransaction(tx)
}

// recordTransaction performs the work of RecordTransaction. The caller must
// hold the write lock.
func (s *State) recordTransaction(tx database.Tx) uint64 {
	n := s.mempool.Add(tx)
	s.evHandler("state: RecordTransaction: tx[%s]: pending[%d]", tx, n)

	return s.chain[len(s.chain)-1].Index + 1
}
