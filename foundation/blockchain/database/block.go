package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// EncodingVersion identifies the canonical block encoding. Changing the
// encoding changes the hash of every block ever produced.
//
// Version 1 is JSON with the fields in declaration order. Strings are UTF-8
// and each run of invalid bytes is written as U+FFFD. NewTx and NewBlock
// apply that substitution up front so a stored block never holds bytes that
// its hash doesn't cover.
const EncodingVersion = 1

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Index        uint64 `json:"index"`         // Position in the chain, the genesis block is 1.
	TimeStamp    uint64 `json:"timestamp"`     // Time the block was sealed, in unix seconds.
	Transactions []Tx   `json:"transactions"`  // Transactions in the order they were recorded.
	Proof        uint64 `json:"proof"`         // Value identified to solve the POW puzzle.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block in the chain.
}

// NewBlock constructs a block from a snapshot of the provided transactions.
func NewBlock(index uint64, timeStamp time.Time, trans []Tx, proof uint64, previousHash string) Block {
	return Block{
		Index:        index,
		TimeStamp:    uint64(timeStamp.UTC().Unix()),
		Transactions: normalizeTrans(trans),
		Proof:        proof,
		PreviousHash: previousHash,
	}
}

// GenesisBlock constructs the first block of the chain. There is no parent
// so the previous hash is the zero hash.
func GenesisBlock(gen genesis.Genesis) Block {
	return NewBlock(1, gen.Date, nil, gen.Proof, signature.ZeroHash)
}

// Canonical returns the canonical encoding of the block. The fields are
// always written in the same order and an empty transaction list is written
// as an empty array. This encoding is used for hashing and on the wire.
func (b Block) Canonical() ([]byte, error) {
	type canonical struct {
		Index        uint64 `json:"index"`
		TimeStamp    uint64 `json:"timestamp"`
		Transactions []Tx   `json:"transactions"`
		Proof        uint64 `json:"proof"`
		PreviousHash string `json:"previous_hash"`
	}

	c := canonical(b)
	if c.Transactions == nil {
		c.Transactions = []Tx{}
	}

	return json.Marshal(c)
}

// MarshalJSON implements the json.Marshaler interface so the wire format
// always matches the canonical encoding.
func (b Block) MarshalJSON() ([]byte, error) {
	return b.Canonical()
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	data, err := b.Canonical()
	if err != nil {
		return signature.ZeroHash
	}

	return signature.Hash(data)
}

// Trans returns a copy of the transactions in the block.
func (b Block) Trans() []Tx {
	return copyTrans(b.Transactions)
}

// ValidateBlock checks the block can follow the previous block. The block
// must point at the hash of the previous block and its proof must solve
// the puzzle for the previous block's proof.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: previous hash does match previous block", b.Index)

	prevHash := previousBlock.Hash()
	if b.PreviousHash != prevHash {
		return fmt.Errorf("block %d: previous hash doesn't match, got %s, exp %s", b.Index, b.PreviousHash, prevHash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: proof solves the puzzle", b.Index)

	if !pow.ValidProof(previousBlock.Proof, b.Proof) {
		return fmt.Errorf("block %d: proof %d does not solve the puzzle for %d", b.Index, b.Proof, previousBlock.Proof)
	}

	return nil
}

// =============================================================================

// normalizeTrans returns an independent copy of the transactions in their
// canonical form.
func normalizeTrans(trans []Tx) []Tx {
	cpy := copyTrans(trans)
	for i := range cpy {
		cpy[i] = cpy[i].normalize()
	}

	return cpy
}

// copyTrans returns an independent copy of the transactions.
func copyTrans(trans []Tx) []Tx {
	if trans == nil {
		return nil
	}

	cpy := make([]Tx, len(trans))
	copy(cpy, trans)

	return cpy
}
