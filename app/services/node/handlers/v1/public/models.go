package public

import (
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
)

type status struct {
	Status               string      `json:"status"`
	Network              string      `json:"network"`
	Height               int32       `json:"height"`
	LatestBlock          database.ID `json:"latest_block"`
	CumulativeDifficulty string      `json:"cumulative_difficulty"`
	Unconfirmed          int         `json:"unconfirmed"`
	KnownPeers           int         `json:"known_peers"`
	ConnectedPeers       int         `json:"connected_peers"`
}

type account struct {
	Name string `json:"name"`
	database.AccountInfo
}

type name struct {
	Account database.ID `json:"account"`
	Name    string      `json:"name"`
}

type submitted struct {
	Transaction database.ID `json:"transaction"`
	FullHash    string      `json:"full_hash"`
}

type tx struct {
	ID     database.ID `json:"id"`
	Sender database.ID `json:"sender"`
	Height int32       `json:"height,omitempty"`
	protocol.Transaction
}

type block struct {
	ID                   database.ID `json:"id"`
	Height               int32       `json:"height"`
	Generator            database.ID `json:"generator"`
	BaseTarget           int64       `json:"base_target"`
	CumulativeDifficulty string      `json:"cumulative_difficulty"`
	protocol.Block
}

type peers struct {
	Known []peer.Peer `json:"known"`
}

// =============================================================================

func toTx(dbTx *database.Transaction) (tx, error) {
	wire, err := protocol.NewTransaction(dbTx)
	if err != nil {
		return tx{}, err
	}

	return tx{
		ID:          dbTx.ID(),
		Sender:      dbTx.SenderID(),
		Height:      dbTx.Height,
		Transaction: wire,
	}, nil
}

func toTxs(dbTxs []*database.Transaction) ([]tx, error) {
	out := make([]tx, len(dbTxs))
	for i, dbTx := range dbTxs {
		t, err := toTx(dbTx)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func toBlock(dbBlock *database.Block) (block, error) {
	wire, err := protocol.NewBlock(dbBlock)
	if err != nil {
		return block{}, err
	}

	b := block{
		ID:         dbBlock.ID(),
		Height:     dbBlock.Height,
		Generator:  dbBlock.GeneratorID(),
		BaseTarget: dbBlock.BaseTarget,
		Block:      wire,
	}
	if dbBlock.CumulativeDifficulty != nil {
		b.CumulativeDifficulty = dbBlock.CumulativeDifficulty.String()
	}

	return b, nil
}
