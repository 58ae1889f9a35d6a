package consensus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// HTTPFetcher retrieves peer chains using the peer's GET /chain endpoint.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string // Format string with a %s for the peer host.
}

// FetchTimeout bounds a single chain request so a peer that accepts the
// connection but never answers can't stall a resolution.
const FetchTimeout = 30 * time.Second

// NewHTTPFetcher constructs a fetcher whose requests time out after
// FetchTimeout.
func NewHTTPFetcher() HTTPFetcher {
	return HTTPFetcher{
		Client:  &http.Client{Timeout: FetchTimeout},
		BaseURL: "http://%s",
	}
}

// FetchChain implements the Fetcher interface.
func (f HTTPFetcher) FetchChain(ctx context.Context, pr peer.Peer) (PeerChain, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(f.BaseURL, pr.Host))

	var pc PeerChain
	if err := f.send(ctx, http.MethodGet, url, &pc); err != nil {
		return PeerChain{}, fmt.Errorf("%w: %s: %w", ErrUnreachablePeer, pr, err)
	}

	return pc, nil
}

// send is a helper function to send an HTTP request to a node.
func (f HTTPFetcher) send(ctx context.Context, method string, url string, dataRecv any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: FetchTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
