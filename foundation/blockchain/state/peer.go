package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RegisterPeers adds the peers to the node registry and returns the full
// list of known peers. The worker is signaled to resolve against the new
// peers when at least one was added.
func (s *State) RegisterPeers(peers []peer.Peer) []peer.Peer {
	var added int
	for _, pr := range peers {
		if pr.Match(s.host) {
			continue
		}

		if s.knownPeers.Add(pr) {
			added++
			s.evHandler("state: RegisterPeers: adding peer-node %s", pr)
		}
	}

	if added > 0 && s.Worker != nil {
		s.Worker.SignalResolve()
	}

	return s.RetrieveKnownPeers()
}
