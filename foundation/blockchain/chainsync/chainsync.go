// Package chainsync brings the local chain up to date with a peer that has
// a stronger chain, switching to a fork when the peer's chain diverged.
package chainsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
)

// Errors a sync round reports about the peer.
var (
	// ErrPeerMisbehaving means the peer sent data that breaks the protocol
	// or the rules of the chain. The peer should be blacklisted.
	ErrPeerMisbehaving = peer.ErrMisbehaving

	// ErrPeerUnavailable means the peer could not be reached.
	ErrPeerUnavailable = peer.ErrUnavailable
)

// EventHandler defines a function that is called when events occur during
// a sync round.
type EventHandler func(v string, args ...any)

// Negotiator pulls the blocks a peer has beyond the local chain.
type Negotiator struct {
	chain     Chain
	metrics   Metrics
	evHandler EventHandler
}

// New constructs a negotiator for the chain.
func New(chain Chain, metrics Metrics, evHandler EventHandler) *Negotiator {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Negotiator{
		chain:     chain,
		metrics:   metrics,
		evHandler: ev,
	}
}

// Sync runs one round against the peer. It returns nil when the peer is not
// ahead or once its blocks are applied.
func (n *Negotiator) Sync(ctx context.Context, p Peer) (err error) {
	started := time.Now()
	var pushed int
	defer func() {
		if n.metrics != nil {
			n.metrics.ObserveSync(err, pushed, started)
		}
	}()

	latest := n.chain.LatestBlock()
	if latest == nil {
		return errors.New("local chain has no genesis block")
	}

	peerCD, peerHeight, err := p.CumulativeDifficulty(ctx)
	if err != nil {
		return err
	}

	if peerCD.Cmp(latest.CumulativeDifficulty) <= 0 {
		return nil
	}

	n.evHandler("chainsync: Sync: peer[%s]: ahead: height[%d]: cd[%s]", p.Host(), peerHeight, peerCD)

	genesisID := n.chain.GenesisBlock().ID()

	commonID := genesisID
	if latest.ID() != genesisID {
		var peerHasMore bool
		commonID, peerHasMore, err = n.commonMilestoneBlockID(ctx, p, latest.ID(), genesisID)
		if err != nil {
			return err
		}
		if !peerHasMore {
			return nil
		}
	}

	commonID, err = n.commonBlockID(ctx, p, commonID)
	if err != nil {
		return err
	}

	if commonID == 0 {
		return nil
	}

	common, err := n.chain.BlockByID(commonID)
	if err != nil {
		return err
	}

	if n.chain.LatestBlock().Height-common.Height >= database.MaxRollback {
		n.evHandler("chainsync: Sync: peer[%s]: common block %s too far back", p.Host(), commonID)
		return nil
	}

	fork, pushed, err := n.pullBlocks(ctx, p, commonID)
	if err != nil {
		return err
	}

	if len(fork) == 0 || n.chain.LatestBlock().Height-common.Height >= database.MaxRollback {
		return nil
	}

	n.evHandler("chainsync: Sync: peer[%s]: process fork: blocks[%d]: common[%s]", p.Host(), len(fork), commonID)

	if err := n.chain.ProcessFork(fork, common); err != nil {
		switch {
		case errors.Is(err, database.ErrBlockOutOfOrder):
			n.evHandler("chainsync: Sync: peer[%s]: fork block out of order: %s", p.Host(), err)
			return nil
		case errors.Is(err, database.ErrBlockNotAccepted):
			return fmt.Errorf("%w: %s: %w", ErrPeerMisbehaving, p.Host(), err)
		}
		return err
	}

	return nil
}

// commonMilestoneBlockID walks the milestones of the peer until it names a
// block the local chain has. It also reports whether the peer may have more
// blocks than that.
func (n *Negotiator) commonMilestoneBlockID(ctx context.Context, p Peer, lastBlockID database.ID, genesisID database.ID) (database.ID, bool, error) {
	peerHasMore := true
	var lastMilestoneBlockID database.ID

	for {
		var ids []database.ID
		var last bool
		var err error

		switch lastMilestoneBlockID {
		case 0:
			ids, last, err = p.MilestoneBlockIDs(ctx, lastBlockID, 0)
		default:
			ids, last, err = p.MilestoneBlockIDs(ctx, 0, lastMilestoneBlockID)
		}
		if err != nil {
			return 0, false, err
		}

		if len(ids) == 0 {
			return genesisID, peerHasMore, nil
		}

		if len(ids) > protocol.MaxMilestoneBlockIDs {
			return 0, false, fmt.Errorf("%w: %s: %d milestone block ids", ErrPeerMisbehaving, p.Host(), len(ids))
		}

		if last {
			peerHasMore = false
		}

		for _, id := range ids {
			if n.chain.HasBlock(id) {
				if lastMilestoneBlockID == 0 && len(ids) > 1 {
					peerHasMore = false
				}
				return id, peerHasMore, nil
			}
			lastMilestoneBlockID = id
		}
	}
}

// commonBlockID moves forward from a shared block to the last block both
// chains have. Zero means the peer sent nothing to compare.
func (n *Negotiator) commonBlockID(ctx context.Context, p Peer, commonID database.ID) (database.ID, error) {
	for {
		ids, err := p.NextBlockIDs(ctx, commonID)
		if err != nil {
			return 0, err
		}

		if len(ids) == 0 {
			return 0, nil
		}

		if len(ids) > protocol.MaxNextBlockIDs {
			return 0, fmt.Errorf("%w: %s: %d next block ids", ErrPeerMisbehaving, p.Host(), len(ids))
		}

		for _, id := range ids {
			if !n.chain.HasBlock(id) {
				return commonID, nil
			}
			commonID = id
		}
	}
}

// pullBlocks downloads the blocks after the common block. Blocks extending
// the head are pushed, unknown ones that don't are returned as the fork.
func (n *Negotiator) pullBlocks(ctx context.Context, p Peer, currentID database.ID) ([]*database.Block, int, error) {
	var fork []*database.Block
	var pushed int

	for {
		if err := ctx.Err(); err != nil {
			return fork, pushed, err
		}

		wires, err := p.NextBlocks(ctx, currentID)
		if err != nil {
			return fork, pushed, err
		}

		if len(wires) == 0 {
			return fork, pushed, nil
		}

		for _, wire := range wires {
			block, err := n.chain.ParseBlock(wire)
			if err != nil {
				return fork, pushed, fmt.Errorf("%w: %s: parse block: %w", ErrPeerMisbehaving, p.Host(), err)
			}
			currentID = block.ID()

			switch {
			case n.chain.LatestBlock().ID() == block.PreviousBlockID:
				if err := n.chain.PushBlock(block); err != nil {
					switch {
					case errors.Is(err, database.ErrBlockOutOfOrder):
						n.evHandler("chainsync: pullBlocks: peer[%s]: block %s out of order: %s", p.Host(), block.ID(), err)
						return fork, pushed, nil
					case errors.Is(err, database.ErrBlockNotAccepted):
						return fork, pushed, fmt.Errorf("%w: %s: %w", ErrPeerMisbehaving, p.Host(), err)
					}
					return fork, pushed, err
				}
				pushed++

			case !n.chain.HasBlock(block.ID()):
				fork = append(fork, block)
			}
		}
	}
}
