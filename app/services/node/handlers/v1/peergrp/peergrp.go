// Package peergrp serves the peer endpoint other nodes talk to. Every request
// is a JSON object naming its requestType and is answered with status 200;
// failures are reported in the error field of the answer.
package peergrp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime"

	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/business/sys/validate"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
	"github.com/libertyswede/nxtnode/foundation/web"
)

// Application is the name this node announces to its peers.
const Application = "NRS"

// maxRequestSize bounds the body of a single peer request.
const maxRequestSize = 16 << 20

// Handlers manages the peer endpoint.
type Handlers struct {
	Log     *zap.SugaredLogger
	State   *state.State
	Version string
}

// Dispatch decodes the request type and serves it.
func (h Handlers) Dispatch(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		return h.fail(ctx, w, fmt.Errorf("read request: %w", err))
	}

	var env protocol.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return h.fail(ctx, w, fmt.Errorf("decode request: %w", err))
	}
	if err := validate.Check(env); err != nil {
		return h.fail(ctx, w, err)
	}

	var resp any
	switch env.RequestType {
	case protocol.RequestGetInfo:
		resp, err = h.getInfo(body, r.RemoteAddr)
	case protocol.RequestGetCumulativeDifficulty:
		resp, err = h.getCumulativeDifficulty()
	case protocol.RequestGetMilestoneBlockIDs:
		resp, err = h.getMilestoneBlockIDs(body)
	case protocol.RequestGetNextBlockIDs:
		resp, err = h.getNextBlockIDs(body)
	case protocol.RequestGetNextBlocks:
		resp, err = h.getNextBlocks(body)
	case protocol.RequestGetPeers:
		resp, err = h.getPeers()
	case protocol.RequestGetUnconfirmedTransactions:
		resp, err = h.getUnconfirmedTransactions()
	case protocol.RequestProcessBlock:
		resp, err = h.processBlock(body)
	case protocol.RequestProcessTransactions:
		resp, err = h.processTransactions(body)
	default:
		err = fmt.Errorf("unsupported request type %q", env.RequestType)
	}

	if err != nil {
		return h.fail(ctx, w, fmt.Errorf("%s: %w", env.RequestType, err))
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// fail answers the peer with the error.
func (h Handlers) fail(ctx context.Context, w http.ResponseWriter, err error) error {
	h.Log.Infow("peer request", "traceid", web.GetTraceID(ctx), "ERROR", err)

	return web.Respond(ctx, w, protocol.ErrorResponse{Error: err.Error()}, http.StatusOK)
}

// =============================================================================

func (h Handlers) getInfo(body []byte, remoteAddr string) (any, error) {
	var req protocol.GetInfoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	if host := announcedHost(req, remoteAddr); host != "" && host != h.State.RetrieveHost() {
		h.State.AddKnownPeer(host)
		h.State.MarkPeerConnected(host, peer.Info{
			Application:  req.Application,
			Version:      req.Version,
			Platform:     req.Platform,
			ShareAddress: req.ShareAddress,
		})
	}

	resp := protocol.GetInfoResponse{
		Application:      Application,
		Version:          h.Version,
		Platform:         runtime.GOOS,
		ShareAddress:     true,
		AnnouncedAddress: h.State.RetrieveHost(),
	}

	return resp, nil
}

func (h Handlers) getCumulativeDifficulty() (any, error) {
	cd, height := h.State.CumulativeDifficulty()

	resp := protocol.GetCumulativeDifficultyResponse{
		CumulativeDifficulty: cd.String(),
		BlockchainHeight:     height,
	}

	return resp, nil
}

func (h Handlers) getMilestoneBlockIDs(body []byte) (any, error) {
	var req protocol.GetMilestoneBlockIDsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	ids, last, err := h.State.MilestoneBlockIDs(req.LastBlockID, req.LastMilestoneBlockID)
	if err != nil {
		return nil, err
	}

	resp := protocol.GetMilestoneBlockIDsResponse{
		MilestoneBlockIDs: ids,
		Last:              last,
	}

	return resp, nil
}

func (h Handlers) getNextBlockIDs(body []byte) (any, error) {
	var req protocol.BlockIDRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	ids := h.State.NextBlockIDs(req.BlockID)
	if ids == nil {
		ids = []database.ID{}
	}

	return protocol.GetNextBlockIDsResponse{NextBlockIDs: ids}, nil
}

func (h Handlers) getNextBlocks(body []byte) (any, error) {
	var req protocol.BlockIDRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	dbBlocks := h.State.NextBlocks(req.BlockID)

	blocks := make([]protocol.Block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		b, err := protocol.NewBlock(dbBlock)
		if err != nil {
			return nil, err
		}
		blocks[i] = b
	}

	return protocol.GetNextBlocksResponse{NextBlocks: blocks}, nil
}

func (h Handlers) getPeers() (any, error) {
	hosts := []string{}
	for _, p := range h.State.RetrieveConnectedPeers() {
		if p.Info.ShareAddress {
			hosts = append(hosts, p.Host)
		}
	}

	return protocol.GetPeersResponse{Peers: hosts}, nil
}

func (h Handlers) getUnconfirmedTransactions() (any, error) {
	trans, err := protocol.NewTransactions(h.State.UnconfirmedTransactions())
	if err != nil {
		return nil, err
	}

	return protocol.GetUnconfirmedTransactionsResponse{UnconfirmedTransactions: trans}, nil
}

func (h Handlers) processBlock(body []byte) (any, error) {
	var req protocol.ProcessBlockRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	err := h.State.ProcessBlock(req.Block)
	switch {
	case err == nil:
		return protocol.ProcessBlockResponse{Accepted: true}, nil

	case errors.Is(err, database.ErrBlockOutOfOrder), errors.Is(err, database.ErrBlockNotAccepted):
		h.Log.Infow("peer request", "processBlock", "rejected", "ERROR", err)
		return protocol.ProcessBlockResponse{Accepted: false}, nil
	}

	return nil, err
}

func (h Handlers) processTransactions(body []byte) (any, error) {
	var req protocol.ProcessTransactionsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}

	h.State.ProcessTransactions(req.Transactions)

	return struct{}{}, nil
}

// =============================================================================

// announcedHost returns the address the caller can be reached on. Without an
// announced address the remote ip is used with the default port.
func announcedHost(req protocol.GetInfoRequest, remoteAddr string) string {
	if !req.ShareAddress {
		return ""
	}

	if req.AnnouncedAddress != "" {
		return req.AnnouncedAddress
	}

	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return ""
	}

	return net.JoinHostPort(ip, peer.DefaultPort)
}
