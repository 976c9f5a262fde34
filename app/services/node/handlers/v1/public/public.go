// Package public maintains the group of handlers for wallets and explorers.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/business/sys/validate"
	"github.com/libertyswede/nxtnode/business/web/errs"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
	"github.com/libertyswede/nxtnode/foundation/events"
	"github.com/libertyswede/nxtnode/foundation/nameservice"
	"github.com/libertyswede/nxtnode/foundation/web"
)

// maxBlocksPerRequest bounds the range served by a block listing.
const maxBlocksPerRequest = 100

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
	NS    *nameservice.NameService
}

// Status returns where the node is in the chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cd, height := h.State.CumulativeDifficulty()

	resp := status{
		Status:      h.State.Status().String(),
		Network:     h.State.RetrieveGenesis().Network,
		Height:      height,
		Unconfirmed: h.State.QueryMempoolLength(),
		KnownPeers:  len(h.State.RetrieveKnownPeers()),
	}
	if cd != nil {
		resp.CumulativeDifficulty = cd.String()
	}
	if latest := h.State.RetrieveLatestBlock(); latest != nil {
		resp.LatestBlock = latest.ID()
	}
	resp.ConnectedPeers = len(h.State.RetrieveConnectedPeers())

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a signed wallet transaction to the unconfirmed
// pool. The node shares it with its peers.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var wire protocol.Transaction
	if err := web.Decode(r, &wire); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(wire); err != nil {
		return err
	}

	dbTx, err := h.State.ParseTransaction(wire)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tx", "traceid", web.GetTraceID(ctx), "tx", dbTx, "sender", dbTx.SenderID(),
		"recipient", dbTx.RecipientID, "amount", dbTx.AmountNQT, "fee", dbTx.FeeNQT)

	if err := h.State.SubmitTransaction(dbTx); err != nil {
		if errors.Is(err, state.ErrTransactionRejected) || isValidation(err) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("submit: %w", err)
	}

	resp := submitted{
		Transaction: dbTx.ID(),
		FullHash:    signature.Encode(dbTx.FullHash()),
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Account returns the ledger entry of an account.
func (h Handlers) Account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := database.ParseID(web.Param(r, "id"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	info, err := h.State.QueryAccount(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrustedf(http.StatusNotFound, "account %s: %w", id, err)
		}
		return err
	}

	return web.Respond(ctx, w, account{Name: h.NS.Lookup(id), AccountInfo: info}, http.StatusOK)
}

// Names returns the accounts of the local wallet by name.
func (h Handlers) Names(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	names := h.NS.Copy()

	out := make([]name, 0, len(names))
	for id, n := range names {
		out = append(out, name{Account: id, Name: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return web.Respond(ctx, w, out, http.StatusOK)
}

// BlocksByHeight returns the blocks between two heights, inclusive. The
// word "latest" is accepted for either height.
func (h Handlers) BlocksByHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := parseHeight(web.Param(r, "from"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to, err := parseHeight(web.Param(r, "to"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from != state.QueryLatest && to != state.QueryLatest {
		if from > to {
			return errs.NewTrusted(errors.New("from is greater than to"), http.StatusBadRequest)
		}
		if to-from >= maxBlocksPerRequest {
			return errs.NewTrustedf(http.StatusBadRequest, "at most %d blocks per request", maxBlocksPerRequest)
		}
	}

	dbBlocks := h.State.QueryBlocksByHeight(from, to)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		b, err := toBlock(dbBlock)
		if err != nil {
			return err
		}
		blocks[i] = b
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Block returns a block by its id.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := database.ParseID(web.Param(r, "id"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	dbBlock, err := h.State.BlockByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrustedf(http.StatusNotFound, "block %s: %w", id, err)
		}
		return err
	}

	b, err := toBlock(dbBlock)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, b, http.StatusOK)
}

// Transaction returns a transaction from the chain by its id.
func (h Handlers) Transaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := database.ParseID(web.Param(r, "id"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	dbTx, err := h.State.QueryTransaction(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrustedf(http.StatusNotFound, "transaction %s: %w", id, err)
		}
		return err
	}

	t, err := toTx(dbTx)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, t, http.StatusOK)
}

// Alias returns the alias with the name, regardless of case.
func (h Handlers) Alias(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	name := web.Param(r, "name")

	alias, err := h.State.QueryAlias(name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errs.NewTrustedf(http.StatusNotFound, "alias %q: %w", name, err)
		}
		return err
	}

	return web.Respond(ctx, w, alias, http.StatusOK)
}

// Unconfirmed returns the transactions waiting in the pool in the order
// they would be forged.
func (h Handlers) Unconfirmed(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans, err := toTxs(h.State.UnconfirmedTransactions())
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Peers returns the peers known to this node.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := peers{
		Known: h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client. The optional
// topic query parameters limit which events are sent.
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

	ch := h.Evts.Acquire(v.TraceID, r.URL.Query()["topic"]...)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(e); err != nil {
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

// =============================================================================

func parseHeight(s string) (int32, error) {
	if s == "latest" {
		return state.QueryLatest, nil
	}

	h, err := strconv.ParseInt(s, 10, 32)
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid height %q", s)
	}

	return int32(h), nil
}

func isValidation(err error) bool {
	var ve *database.ValidationError
	return errors.As(err, &ve)
}
