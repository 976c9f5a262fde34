package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"go.uber.org/ratelimit"
)

// Errors a request to a peer can fail with.
var (
	// ErrUnavailable means the peer could not be reached or answered with a
	// transport level failure.
	ErrUnavailable = errors.New("peer unavailable")

	// ErrMisbehaving means the peer answered with data that breaks the
	// protocol.
	ErrMisbehaving = errors.New("peer misbehaving")
)

// Observer records the outcome of every request sent to a peer.
type Observer interface {
	Observe(operation string, err error, started time.Time)
}

type noopObserver struct{}

func (noopObserver) Observe(string, error, time.Time) {}

// ClientConfig represents the configuration of the peer client.
type ClientConfig struct {
	Self              protocol.GetInfoRequest
	Timeout           time.Duration
	RequestsPerSecond int
	Observer          Observer
}

// Client sends requests to the peer endpoint of other nodes.
type Client struct {
	self     protocol.GetInfoRequest
	http     *http.Client
	limiter  ratelimit.Limiter
	observer Observer
}

// NewClient constructs a client for talking to peers.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		limiter = ratelimit.New(cfg.RequestsPerSecond)
	}

	observer := cfg.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	self := cfg.Self
	self.Envelope = protocol.NewEnvelope(protocol.RequestGetInfo)

	return &Client{
		self:     self,
		http:     &http.Client{Timeout: timeout},
		limiter:  limiter,
		observer: observer,
	}
}

// GetInfo announces this node and returns what the peer says about itself.
func (c *Client) GetInfo(ctx context.Context, host string) (Info, error) {
	var resp protocol.GetInfoResponse
	if err := c.send(ctx, host, c.self, &resp); err != nil {
		return Info{}, err
	}

	info := Info{
		Application:  resp.Application,
		Version:      resp.Version,
		Platform:     resp.Platform,
		ShareAddress: resp.ShareAddress,
	}

	return info, nil
}

// GetPeers returns the addresses the peer knows.
func (c *Client) GetPeers(ctx context.Context, host string) ([]string, error) {
	var resp protocol.GetPeersResponse
	if err := c.send(ctx, host, protocol.NewEnvelope(protocol.RequestGetPeers), &resp); err != nil {
		return nil, err
	}
	return resp.Peers, nil
}

// GetUnconfirmedTransactions returns the unconfirmed pool of the peer.
func (c *Client) GetUnconfirmedTransactions(ctx context.Context, host string) ([]protocol.Transaction, error) {
	var resp protocol.GetUnconfirmedTransactionsResponse
	if err := c.send(ctx, host, protocol.NewEnvelope(protocol.RequestGetUnconfirmedTransactions), &resp); err != nil {
		return nil, err
	}
	return resp.UnconfirmedTransactions, nil
}

// ProcessBlock pushes a block to the peer.
func (c *Client) ProcessBlock(ctx context.Context, host string, block protocol.Block) (bool, error) {
	req := protocol.ProcessBlockRequest{
		Envelope: protocol.NewEnvelope(protocol.RequestProcessBlock),
		Block:    block,
	}

	var resp protocol.ProcessBlockResponse
	if err := c.send(ctx, host, req, &resp); err != nil {
		return false, err
	}
	return resp.Accepted, nil
}

// ProcessTransactions pushes unconfirmed transactions to the peer.
func (c *Client) ProcessTransactions(ctx context.Context, host string, trans []protocol.Transaction) error {
	req := protocol.ProcessTransactionsRequest{
		Envelope:     protocol.NewEnvelope(protocol.RequestProcessTransactions),
		Transactions: trans,
	}

	return c.send(ctx, host, req, nil)
}

// CumulativeDifficulty returns the strength and height of the peer chain.
func (c *Client) CumulativeDifficulty(ctx context.Context, host string) (*big.Int, int32, error) {
	var resp protocol.GetCumulativeDifficultyResponse
	if err := c.send(ctx, host, protocol.NewEnvelope(protocol.RequestGetCumulativeDifficulty), &resp); err != nil {
		return nil, 0, err
	}

	cd, ok := new(big.Int).SetString(resp.CumulativeDifficulty, 10)
	if !ok || cd.Sign() < 0 {
		return nil, 0, fmt.Errorf("%w: invalid cumulative difficulty %q", ErrMisbehaving, resp.CumulativeDifficulty)
	}

	return cd, resp.BlockchainHeight, nil
}

// MilestoneBlockIDs asks the peer for block ids spread back through its
// chain.
func (c *Client) MilestoneBlockIDs(ctx context.Context, host string, lastBlockID database.ID, lastMilestoneBlockID database.ID) ([]database.ID, bool, error) {
	req := protocol.GetMilestoneBlockIDsRequest{
		Envelope:             protocol.NewEnvelope(protocol.RequestGetMilestoneBlockIDs),
		LastBlockID:          lastBlockID,
		LastMilestoneBlockID: lastMilestoneBlockID,
	}

	var resp protocol.GetMilestoneBlockIDsResponse
	if err := c.send(ctx, host, req, &resp); err != nil {
		return nil, false, err
	}

	if len(resp.MilestoneBlockIDs) > protocol.MaxMilestoneBlockIDs {
		return nil, false, fmt.Errorf("%w: %d milestone block ids", ErrMisbehaving, len(resp.MilestoneBlockIDs))
	}

	return resp.MilestoneBlockIDs, resp.Last, nil
}

// NextBlockIDs asks the peer for the ids following the block.
func (c *Client) NextBlockIDs(ctx context.Context, host string, id database.ID) ([]database.ID, error) {
	req := protocol.BlockIDRequest{
		Envelope: protocol.NewEnvelope(protocol.RequestGetNextBlockIDs),
		BlockID:  id,
	}

	var resp protocol.GetNextBlockIDsResponse
	if err := c.send(ctx, host, req, &resp); err != nil {
		return nil, err
	}

	if len(resp.NextBlockIDs) > protocol.MaxNextBlockIDs {
		return nil, fmt.Errorf("%w: %d next block ids", ErrMisbehaving, len(resp.NextBlockIDs))
	}

	return resp.NextBlockIDs, nil
}

// NextBlocks asks the peer for the blocks following the block.
func (c *Client) NextBlocks(ctx context.Context, host string, id database.ID) ([]protocol.Block, error) {
	req := protocol.BlockIDRequest{
		Envelope: protocol.NewEnvelope(protocol.RequestGetNextBlocks),
		BlockID:  id,
	}

	var resp protocol.GetNextBlocksResponse
	if err := c.send(ctx, host, req, &resp); err != nil {
		return nil, err
	}

	if len(resp.NextBlocks) > protocol.MaxNextBlocks {
		return nil, fmt.Errorf("%w: %d next blocks", ErrMisbehaving, len(resp.NextBlocks))
	}

	return resp.NextBlocks, nil
}

// Remote binds the client to one peer.
func (c *Client) Remote(host string) *Remote {
	return &Remote{client: c, host: host}
}

// =============================================================================

// send is a helper function to send a request to the peer endpoint of a
// node. Failing to reach the peer is reported as ErrUnavailable and an
// answer that can't be understood as ErrMisbehaving.
func (c *Client) send(ctx context.Context, host string, dataSend any, dataRecv any) (err error) {
	operation := "unknown"
	if env, ok := envelopeOf(dataSend); ok {
		operation = env.RequestType
	}

	started := time.Now()
	defer func() {
		c.observer.Observe(operation, err, started)
	}()

	data, err := json.Marshal(dataSend)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://%s/nxt", address(host))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.limiter.Take()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, host, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d: %s", ErrUnavailable, host, resp.StatusCode, bytes.TrimSpace(body))
	}

	var errResp protocol.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return fmt.Errorf("%w: %s: %s", ErrMisbehaving, host, errResp.Error)
	}

	if dataRecv != nil {
		if err := json.Unmarshal(body, dataRecv); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMisbehaving, host, err)
		}
	}

	return nil
}

// envelopeOf extracts the request envelope for labeling metrics.
func envelopeOf(v any) (protocol.Envelope, bool) {
	switch req := v.(type) {
	case protocol.Envelope:
		return req, true
	case protocol.GetInfoRequest:
		return req.Envelope, true
	case protocol.GetMilestoneBlockIDsRequest:
		return req.Envelope, true
	case protocol.BlockIDRequest:
		return req.Envelope, true
	case protocol.ProcessBlockRequest:
		return req.Envelope, true
	case protocol.ProcessTransactionsRequest:
		return req.Envelope, true
	}
	return protocol.Envelope{}, false
}

// =============================================================================

// Remote is one peer seen through the client.
type Remote struct {
	client *Client
	host   string
}

// Host returns the address of the peer.
func (r *Remote) Host() string {
	return r.host
}

// CumulativeDifficulty returns the strength and height of the peer chain.
func (r *Remote) CumulativeDifficulty(ctx context.Context) (*big.Int, int32, error) {
	return r.client.CumulativeDifficulty(ctx, r.host)
}

// MilestoneBlockIDs asks the peer for block ids spread back through its
// chain.
func (r *Remote) MilestoneBlockIDs(ctx context.Context, lastBlockID database.ID, lastMilestoneBlockID database.ID) ([]database.ID, bool, error) {
	return r.client.MilestoneBlockIDs(ctx, r.host, lastBlockID, lastMilestoneBlockID)
}

// NextBlockIDs asks the peer for the ids following the block.
func (r *Remote) NextBlockIDs(ctx context.Context, id database.ID) ([]database.ID, error) {
	return r.client.NextBlockIDs(ctx, r.host, id)
}

// NextBlocks asks the peer for the blocks following the block.
func (r *Remote) NextBlocks(ctx context.Context, id database.ID) ([]protocol.Block, error) {
	return r.client.NextBlocks(ctx, r.host, id)
}
