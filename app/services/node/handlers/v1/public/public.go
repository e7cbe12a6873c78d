// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/hashing"
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

// Mine forges a new block from the pending transactions.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrLockContention):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return errs.NewTrusted(errors.New("mining cancelled"), http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mining: %w", err)
	}

	resp := mineResult{
		Message:      "New block forged",
		Index:        block.Index,
		Transactions: block.Transactions,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	tx, err := database.NewTx(ntx.Sender, ntx.Recipient, *ntx.Amount)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", web.GetTraceID(ctx), "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)

	index, err := h.State.SubmitTransaction(tx)
	if err != nil {
		if errors.Is(err, database.ErrInvalidTransaction) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := message{
		Message: fmt.Sprintf("Transaction added at block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Chain returns the full chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := chainResult{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterNodes adds the set of nodes to the known peers. Either every node
// is valid and all are registered or nothing is registered.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nl nodeList
	if err := web.Decode(r, &nl); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(nl); err != nil {
		return err
	}

	peers, err := peer.ParseAddresses(nl.Nodes)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := registerResult{
		Message:    "New nodes have been added",
		TotalNodes: h.State.RegisterPeers(peers...),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Resolve runs the consensus algorithm against the known peers.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	res, err := h.State.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	if res.Replaced {
		resp := replacedResult{
			Message:  "Our chain was replaced",
			NewChain: res.Chain,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	resp := authoritativeResult{
		Message: "Our chain is authoritative",
		Chain:   res.Chain,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Nodes returns the set of known peers.
func (h Handlers) Nodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	peers := h.State.RetrieveKnownPeers()

	nodes := make([]string, len(peers))
	for i, pr := range peers {
		nodes[i] = pr.Host
	}

	resp := nodesResult{
		Nodes:      nodes,
		TotalNodes: len(nodes),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()

	resp := mempoolResult{
		Transactions: trans,
		Length:       len(trans),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	chain := h.State.RetrieveChain()

	resp := genesisResult{
		Date:       gen.Date.UTC().Format(time.RFC3339),
		Difficulty: h.State.RetrieveDifficulty(),
		ProofFloor: gen.ProofFloor,
		Hash:       chain[0].Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// TxProof returns the merkle proof that the transaction at the position is
// part of the block.
func (h Handlers) TxProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block index: %w", err), http.StatusBadRequest)
	}

	position, err := strconv.Atoi(web.Param(r, "position"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid transaction position: %w", err), http.StatusBadRequest)
	}

	proof, err := h.State.RetrieveTxProof(index, position)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	resp := txProof{
		Block:     proof.Block,
		BlockHash: proof.BlockHash,
		Tx:        proof.Tx,
		TxHash:    hashing.ToHex(proof.Tx.Hash()),
		Root:      proof.Root,
		Proof:     proof.Steps,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}
