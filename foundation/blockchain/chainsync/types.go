package chainsync

import (
	"context"
	"math/big"
	"time"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Chain is the local blockchain the negotiator brings up to date.
	Chain interface {
		GenesisBlock() *database.Block
		LatestBlock() *database.Block
		HasBlock(id database.ID) bool
		BlockByID(id database.ID) (*database.Block, error)
		ParseBlock(wire protocol.Block) (*database.Block, error)
		PushBlock(block *database.Block) error
		ProcessFork(fork []*database.Block, common *database.Block) error
	}

	// Peer is the remote node blocks are pulled from.
	Peer interface {
		Host() string
		CumulativeDifficulty(ctx context.Context) (*big.Int, int32, error)
		MilestoneBlockIDs(ctx context.Context, lastBlockID database.ID, lastMilestoneBlockID database.ID) ([]database.ID, bool, error)
		NextBlockIDs(ctx context.Context, id database.ID) ([]database.ID, error)
		NextBlocks(ctx context.Context, id database.ID) ([]protocol.Block, error)
	}

	// Metrics records the outcome of every sync round.
	Metrics interface {
		ObserveSync(err error, pushed int, started time.Time)
	}
)
