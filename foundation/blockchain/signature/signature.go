// Package signature provides helper functions for handling the blockchain
// digest needs.
package signature

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is used as the previous hash
// of the genesis block since that block has no parent.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns a unique string for the data. The string is the hex encoded
// SHA-256 digest with a 0x prefix.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Digits returns the hex digits of a hash produced by Hash without the
// 0x prefix.
func Digits(hash string) string {
	if len(hash) < 2 || hash[:2] != "0x" {
		return hash
	}
	return hash[2:]
}
