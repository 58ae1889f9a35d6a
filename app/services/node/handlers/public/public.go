// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Mine solves the proof of work for the next block, credits this node with
// the mining reward and forges the block from the pending transactions.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, duration, err := h.State.MineNewBlock(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrChainChanged), errors.Is(err, state.ErrMiningCancelled):
			return errs.Conflict(err)
		default:
			return err
		}
	}

	metrics.AddBlocksMined()
	h.Log.Infow("mine", "traceid", v.TraceID, "index", block.Index, "proof", block.Proof, "duration", duration)

	resp := mineResponse{
		Message:      "new block forged",
		Index:        block.Index,
		Transactions: block.Trans(),
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NewTransaction adds a new transaction to the pending pool.
func (h Handlers) NewTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(ntx); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	tx := database.NewTx(*ntx.Sender, *ntx.Recipient, *ntx.Amount)
	index := h.State.RecordTransaction(tx)

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx, "index", index)

	resp := txResponse{
		Message: fmt.Sprintf("transaction will be added to block %d", index),
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()
	if trans == nil {
		trans = []database.Tx{}
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Chain returns the full chain held by this node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := consensus.PeerChain{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterNodes adds the specified nodes to the node registry.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var rn registerNodes
	if err := web.Decode(r, &rn); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(rn); err != nil {
		return fmt.Errorf("validating data: %w", err)
	}

	peers := make([]peer.Peer, len(rn.Nodes))
	for i, address := range rn.Nodes {
		pr, err := peer.Parse(address)
		if err != nil {
			return errs.BadRequest(err)
		}
		peers[i] = pr
	}

	known := h.State.RegisterPeers(peers)

	h.Log.Infow("register nodes", "traceid", v.TraceID, "added", len(peers), "total", len(known))

	hosts := make([]string, len(known))
	for i, pr := range known {
		hosts[i] = pr.Host
	}

	resp := registerResponse{
		Message:    "new nodes have been added",
		TotalNodes: hosts,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve runs the consensus algorithm against the known nodes and replaces
// the chain when a longer valid chain is found.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	replaced, chain, err := h.State.Resolve(ctx)
	if err != nil {
		return err
	}

	h.Log.Infow("resolve", "traceid", v.TraceID, "replaced", replaced, "length", len(chain))

	if replaced {
		metrics.AddChainReplacements()

		resp := replacedResponse{
			Message:  "chain replaced",
			NewChain: chain,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	resp := authoritativeResponse{
		Message: "chain authoritative",
		Chain:   chain,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	status := h.State.RetrieveStatus()
	return web.Respond(ctx, w, status, http.StatusOK)
}

// Balances returns the balances computed from the chain. A single address
// can be requested.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	balances := h.State.QueryBalances()
	if address != "" {
		balances = map[string]int64{address: balances[address]}
	}

	latest, err := h.State.LatestBlock()
	if err != nil {
		return err
	}

	resp := balancesResponse{
		LatestBlock: latest.Hash(),
		Pending:     h.State.QueryMempoolLength(),
		Balances:    balances,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAddress returns the blocks holding transactions for the address.
func (h Handlers) BlocksByAddress(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.QueryBlocksByAddress(web.Param(r, "address"))
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlocksByNumber returns the blocks in the specified range. The word latest
// can be used in place of a number.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := blockNumber(web.Param(r, "from"))
	if err != nil {
		return errs.BadRequest(err)
	}

	to, err := blockNumber(web.Param(r, "to"))
	if err != nil {
		return errs.BadRequest(err)
	}

	// The tip isn't known until the chain is read, so only a pair of
	// explicit numbers can be rejected up front.
	if from != state.QueryLatest && to != state.QueryLatest && from > to {
		return errs.NewTrustedf(http.StatusBadRequest, "from %d is greater than to %d", from, to)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

func blockNumber(s string) (uint64, error) {
	if s == "latest" {
		return state.QueryLatest, nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q", s)
	}

	return n, nil
}

// Events handles a web socket that streams node events to a client as JSON.
// The optional source query parameter is a comma separated list of the
// packages to hear from, for example ?source=state,consensus.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	var sources []string
	if src := r.URL.Query().Get("source"); src != "" {
		sources = strings.Split(src, ",")
	}

	ch := h.Evts.Acquire(v.TraceID, sources...)
	defer func() {
		if dropped, err := h.Evts.Release(v.TraceID); err == nil && dropped > 0 {
			h.Log.Infow("events", "traceid", v.TraceID, "dropped", dropped)
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(ev); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
