package state

import (
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// SealBlock creates the next block from every transaction in the mempool
// and appends it to the chain. When previousHash is empty the hash of the
// latest block is used. The proof is not checked.
func (s *State) SealBlock(proof uint64, previousHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sealBlock(proof, previousHash)
}

// sealBlock performs the work of SealBlock. The caller must hold the
// write lock.
func (s *State) sealBlock(proof uint64, previousHash string) database.Block {
	if previousHash == "" {
		previousHash = s.chain[len(s.chain)-1].Hash()
	}

	trans := s.mempool.Drain()
	block := database.NewBlock(uint64(len(s.chain))+1, time.Now(), trans, proof, previousHash)

	s.chain = append(s.chain, block)

	s.evHandler("state: SealBlock: blk[%d]: hash[%s]: trans[%d]", block.Index, block.Hash(), len(trans))

	return block
}
