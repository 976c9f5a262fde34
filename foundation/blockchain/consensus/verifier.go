package consensus

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
)

// Chain is the view of the blockchain the verifier checks blocks against.
type Chain interface {
	LatestBlock() *database.Block
	HasBlock(id database.ID) bool
	QueryAccount(id database.ID) (*database.Account, bool)
	TransactionsChecksum() []byte
}

// Verifier runs the block level checks in order, stopping at the first
// failure.
type Verifier struct {
	chain       Chain
	eras        genesis.Eras
	checkpoints map[int32]hexutil.Bytes
	evHandler   func(v string, args ...any)
}

// NewVerifier constructs a verifier for the chain described by the genesis.
func NewVerifier(chain Chain, gen genesis.Genesis, evHandler func(v string, args ...any)) *Verifier {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	return &Verifier{
		chain:       chain,
		eras:        gen.Eras,
		checkpoints: gen.Checkpoints,
		evHandler:   evHandler,
	}
}

// Version returns the block version required on top of the height.
func (v *Verifier) Version(height int32) int32 {
	switch {
	case height < v.eras.TransparentForgingBlock:
		return 1
	case height < v.eras.NQTBlock:
		return 2
	}
	return 3
}

// Verify checks the block may extend the current chain head at the current
// epoch time now.
func (v *Verifier) Verify(block *database.Block, now int32) error {
	previous := v.chain.LatestBlock()
	if previous == nil {
		return database.OutOfOrderf("no chain to extend")
	}

	if block.PreviousBlockID != previous.ID() {
		return database.OutOfOrderf("previous block id doesn't match")
	}

	if exp := v.Version(previous.Height); block.Version != exp {
		return database.NotAcceptedf("invalid version %d", block.Version)
	}

	if checksum, exists := v.checkpoints[previous.Height]; exists {
		if !bytes.Equal(v.chain.TransactionsChecksum(), checksum) {
			v.evHandler("consensus: Verify: checksum failed at block %d", previous.Height)
			return database.NotAcceptedf("checksum failed")
		}
		v.evHandler("consensus: Verify: checksum passed at block %d", previous.Height)
	}

	if block.Version != 1 && !bytes.Equal(previous.Hash(), block.PreviousBlockHash) {
		return database.NotAcceptedf("previous block hash doesn't match")
	}

	if block.Timestamp > now+15 || block.Timestamp <= previous.Timestamp {
		return database.OutOfOrderf("invalid timestamp: %d current time is %d, previous block timestamp is %d", block.Timestamp, now, previous.Timestamp)
	}

	if block.ID() == 0 || v.chain.HasBlock(block.ID()) {
		return database.NotAcceptedf("duplicate block or invalid id")
	}

	generator, _ := v.chain.QueryAccount(block.GeneratorID())

	if !VerifyGenerationSignature(block, previous, generator) {
		return database.NotAcceptedf("generation signature verification failed")
	}

	if !VerifyBlockSignature(block, generator, previous.Height+1) {
		return database.NotAcceptedf("block signature verification failed")
	}

	return nil
}
