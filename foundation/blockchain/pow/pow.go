// Package pow implements the proof of work puzzle used to seal blocks.
package pow

import (
	"context"
	"strconv"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Difficulty is the number of leading zero hex digits a solution's hash
// must have. It is fixed and not adjusted over time.
const Difficulty = 4

const (
	checkEvery  = 1 << 12   // Attempts between cancellation checks.
	reportEvery = 1_000_000 // Attempts between progress events.
)

// =============================================================================

// ValidProof reports whether proof solves the puzzle for lastProof. The
// puzzle is solved when the hash of the decimal text of lastProof followed
// by the decimal text of proof starts with Difficulty zeros.
func ValidProof(lastProof uint64, proof uint64) bool {
	guess := strconv.AppendUint(nil, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	return isHashSolved(signature.Hash(guess))
}

// Mine searches for the smallest proof that solves the puzzle for lastProof.
// The search starts at 0 and increments by 1 so the same lastProof always
// produces the same proof. The search only stops early when the context is
// cancelled.
func Mine(ctx context.Context, lastProof uint64, ev func(v string, args ...any)) (uint64, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Mine: MINING: started: lastProof[%d]", lastProof)
	defer ev("pow: Mine: MINING: completed")

	var proof uint64
	for {
		if proof%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				ev("pow: Mine: MINING: CANCELLED: attempts[%d]", proof)
				return 0, err
			}
		}

		if proof > 0 && proof%reportEvery == 0 {
			ev("pow: Mine: MINING: attempts[%d]", proof)
		}

		if ValidProof(lastProof, proof) {
			ev("pow: Mine: MINING: SOLVED: lastProof[%d]: proof[%d]: attempts[%d]", lastProof, proof, proof+1)
			return proof, nil
		}

		proof++
	}
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(hash string) bool {
	const match = "0000000000000000"

	digits := signature.Digits(hash)
	if len(digits) != 64 {
		return false
	}

	return digits[:Difficulty] == match[:Difficulty]
}
