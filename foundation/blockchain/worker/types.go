package worker

import (
	"context"

	"github.com/libertyswede/nxtnode/foundation/blockchain/chainsync"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// State is the part of the node the background operations drive.
	State interface {
		RetrieveHost() string
		RetrieveKnownPeers() []peer.Peer
		RandomPeer(connected bool) (peer.Peer, bool)
		AddKnownPeer(host string) bool
		MarkPeerConnected(host string, info peer.Info)
		MarkPeerDisconnected(host string)
		BlacklistPeer(host string)
		ProcessTransactions(wire []protocol.Transaction) int
		RemoveExpiredTransactions() []*database.Transaction
		QueryMempoolLength() int
	}

	// PeerClient sends requests to other nodes.
	PeerClient interface {
		GetInfo(ctx context.Context, host string) (peer.Info, error)
		GetPeers(ctx context.Context, host string) ([]string, error)
		GetUnconfirmedTransactions(ctx context.Context, host string) ([]protocol.Transaction, error)
		ProcessBlock(ctx context.Context, host string, block protocol.Block) (bool, error)
		ProcessTransactions(ctx context.Context, host string, trans []protocol.Transaction) error
		Remote(host string) *peer.Remote
	}

	// Syncer pulls the blocks a peer has beyond the local chain.
	Syncer interface {
		Sync(ctx context.Context, p chainsync.Peer) error
	}

	// Metrics records the state of the unconfirmed pool.
	Metrics interface {
		ObserveSize(size int)
		ObserveExpired(count int)
	}
)
