// Package consensus implements the longest valid chain rule used to
// reconcile the local chain with the chains reported by peers.
package consensus

import (
	"context"
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// ErrUnreachablePeer is returned when a peer's chain can't be retrieved.
var ErrUnreachablePeer = errors.New("unreachable peer")

// PeerChain is the chain a peer reports along with the length it claims.
type PeerChain struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

// Fetcher retrieves the chain a peer currently holds.
type Fetcher interface {
	FetchChain(ctx context.Context, pr peer.Peer) (PeerChain, error)
}

// FetcherFunc is an adapter to allow a function to be used as a Fetcher.
type FetcherFunc func(ctx context.Context, pr peer.Peer) (PeerChain, error)

// FetchChain calls f(ctx, pr).
func (f FetcherFunc) FetchChain(ctx context.Context, pr peer.Peer) (PeerChain, error) {
	return f(ctx, pr)
}

// Result is the outcome of a resolution.
type Result struct {
	Adopted bool             // A strictly longer valid chain was found.
	Chain   []database.Block // The winning peer chain, or the local chain.
	Peer    peer.Peer        // The peer that reported the winning chain.
}

// =============================================================================

// Resolve asks every peer for its chain and picks the longest chain that is
// strictly longer than the local chain and passes validation. Peers that
// can't be reached or report an invalid chain are skipped. The peers are
// queried concurrently but the results are reduced in the order the peers
// were provided, so the outcome doesn't depend on response timing.
func Resolve(ctx context.Context, local []database.Block, peers []peer.Peer, fetcher Fetcher, evHandler func(v string, args ...any)) Result {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	evHandler("consensus: Resolve: started: local-length[%d]: peers[%d]", len(local), len(peers))
	defer evHandler("consensus: Resolve: completed")

	type response struct {
		pc  PeerChain
		err error
	}

	// Each G writes only to its own index.
	responses := make([]response, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for i, pr := range peers {
		go func(i int, pr peer.Peer) {
			defer wg.Done()

			pc, err := fetcher.FetchChain(ctx, pr)
			responses[i] = response{pc: pc, err: err}
		}(i, pr)
	}

	wg.Wait()

	result := Result{Chain: local}
	maxLength := len(local)

	for i, pr := range peers {
		resp := responses[i]

		if resp.err != nil {
			evHandler("consensus: Resolve: peer[%s]: skipped: %s", pr, resp.err)
			continue
		}

		evHandler("consensus: Resolve: peer[%s]: length[%d]", pr, resp.pc.Length)

		if resp.pc.Length <= maxLength {
			continue
		}

		if resp.pc.Length != len(resp.pc.Chain) {
			evHandler("consensus: Resolve: peer[%s]: skipped: reported length[%d] does not match chain length[%d]", pr, resp.pc.Length, len(resp.pc.Chain))
			continue
		}

		if err := database.ValidateChain(resp.pc.Chain, evHandler); err != nil {
			evHandler("consensus: Resolve: peer[%s]: skipped: %s", pr, err)
			continue
		}

		evHandler("consensus: Resolve: peer[%s]: longest valid chain so far: length[%d]", pr, resp.pc.Length)

		maxLength = resp.pc.Length
		result = Result{
			Adopted: true,
			Chain:   resp.pc.Chain,
			Peer:    pr,
		}
	}

	return result
}
