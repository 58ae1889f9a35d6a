// Package database handles the blockchain data model: transactions, blocks,
// their canonical encoding and the rules for validating a chain.
package database

import (
	"errors"
	"fmt"
)

// ErrInvalidChain is returned when a chain fails validation.
var ErrInvalidChain = errors.New("invalid chain")

// =============================================================================

// ValidateChain walks the chain from the second block to the last and checks
// each block against its predecessor. A chain with zero or one block is
// valid. Index and timestamp ordering are not checked, the hash linkage is
// what protects the chain.
func ValidateChain(chain []Block, evHandler func(v string, args ...any)) error {
	for i := 1; i < len(chain); i++ {
		if err := chain[i].ValidateBlock(chain[i-1], evHandler); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidChain, err)
		}
	}

	return nil
}

// IsValidChain reports whether the chain passes ValidateChain.
func IsValidChain(chain []Block) bool {
	return ValidateChain(chain, nil) == nil
}

// CopyChain returns a copy of the chain that shares no transaction
// storage with the original.
func CopyChain(chain []Block) []Block {
	cpy := make([]Block, len(chain))
	for i, block := range chain {
		block.Transactions = block.Trans()
		cpy[i] = block
	}

	return cpy
}
