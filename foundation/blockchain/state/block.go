package state

import (
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/consensus"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
)

// genesisGenerationSignature is the generation signature of the first block.
var genesisGenerationSignature = make([]byte, 64)

// AddGenesisBlockIfNeeded builds the first block from the genesis allocations
// when the chain is empty. The block is applied and stored without being
// verified.
func (s *State) AddGenesisBlockIfNeeded() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.LatestBlock() != nil {
		return nil
	}

	block, err := s.genesisBlock()
	if err != nil {
		return err
	}

	s.evHandler("state: AddGenesisBlockIfNeeded: blk[%s]: trans[%d]", block.ID(), len(block.Transactions))

	consensus.BaseTarget(nil, block)
	block.ConnectTransactions()

	if err := s.db.LoadBlock(block); err != nil {
		return err
	}

	if err := s.applyReplayed(block); err != nil {
		return fmt.Errorf("apply genesis block: %w", err)
	}

	if err := s.db.WriteBlock(block); err != nil {
		return err
	}

	s.status.Store(int32(Synced))

	return nil
}

// genesisBlock constructs the first block of the configured network.
func (s *State) genesisBlock() (*database.Block, error) {
	return NewGenesisBlock(s.genesis)
}

// NewGenesisBlock constructs the first block from the signed allocations of
// the genesis file. The block carries the signature recorded in the file.
func NewGenesisBlock(gen genesis.Genesis) (*database.Block, error) {
	creator := gen.CreatorPublicKey

	trans := make([]*database.Transaction, len(gen.Allocations))
	for i, alloc := range gen.Allocations {
		tx := database.Transaction{
			Kind:            database.KindOrdinaryPayment,
			SenderPublicKey: creator,
			RecipientID:     database.ID(alloc.Recipient),
			AmountNQT:       alloc.AmountNQT,
			Signature:       alloc.Signature,
		}

		if err := tx.Seal(creator, false); err != nil {
			return nil, fmt.Errorf("genesis allocation %d: %w", i, err)
		}
		trans[i] = &tx
	}

	block, err := database.NewBlock(database.BlockArgs{
		Version:             -1,
		Transactions:        trans,
		GeneratorPublicKey:  creator,
		GenerationSignature: genesisGenerationSignature,
	})
	if err != nil {
		return nil, fmt.Errorf("genesis block: %w", err)
	}

	block.BlockSignature = gen.BlockSignature
	block.Seal()

	return block, nil
}

// =============================================================================

// ParseBlock converts a block received from a peer. The transaction layout
// follows the current height of the chain.
func (s *State) ParseBlock(wire protocol.Block) (*database.Block, error) {
	return wire.ToBlock(s.dispatcher, s.db.CreatorPublicKey(), s.db.UseNQT())
}

// ProcessBlock takes a block pushed by a peer and adds it to the chain when
// it extends the current head. An accepted block is relayed to the peers.
func (s *State) ProcessBlock(wire protocol.Block) error {
	block, err := s.ParseBlock(wire)
	if err != nil {
		return database.NotAcceptedf("%v", err)
	}

	latest := s.db.LatestBlock()
	if latest == nil || block.PreviousBlockID != latest.ID() {
		return database.OutOfOrderf("block %s does not extend the head", block.ID())
	}

	if err := s.PushBlock(block); err != nil {
		return err
	}

	if s.Worker != nil {
		s.Worker.SignalShareBlock(block)
	}

	return nil
}

// PushBlock verifies the block against the head of the chain and, if that
// passes, applies and stores it.
func (s *State) PushBlock(block *database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pushBlock(block)
}

// pushBlock performs the push with the writer lock held.
func (s *State) pushBlock(block *database.Block) error {
	s.evHandler("state: pushBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.PreviousBlockID, block.ID(), len(block.Transactions))
	defer s.evHandler("state: pushBlock: completed: newBlk[%s]", block.ID())

	previous := s.db.LatestBlock()
	if previous == nil {
		return database.OutOfOrderf("no genesis block")
	}

	now := s.now()

	if err := s.verifier.Verify(block, now); err != nil {
		return err
	}

	if err := s.verifyTransactions(block, previous, now); err != nil {
		return err
	}

	block.Height = previous.Height + 1
	consensus.BaseTarget(previous, block)
	block.ConnectTransactions()

	if err := s.db.LoadBlock(block); err != nil {
		return err
	}

	if err := s.applyBlock(block); err != nil {
		return fmt.Errorf("apply block %s: %w", block.ID(), err)
	}

	if err := s.db.WriteBlock(block); err != nil {
		return err
	}

	s.mempool.DeleteBlock(block)

	return nil
}

// applyBlock credits the generator and applies every transaction of a block
// that is already the head of the chain.
func (s *State) applyBlock(block *database.Block) error {
	for _, o := range s.observers {
		o.BeforeApply(block)
	}

	generator := s.db.GetOrCreateAccount(block.GeneratorID())
	if err := generator.ApplyPublicKey(block.GeneratorPublicKey, block.Height); err != nil {
		return fmt.Errorf("generator %s: %w", generator.ID, err)
	}

	if err := generator.AddToBoth(block.TotalFeeNQT); err != nil {
		return err
	}
	generator.AddToForged(block.TotalFeeNQT)

	for _, tx := range block.Transactions {
		sender := s.db.GetOrCreateAccount(tx.SenderID())
		if err := sender.ApplyPublicKey(tx.SenderPublicKey, tx.Height); err != nil {
			return fmt.Errorf("sender of %s: %w", tx, err)
		}

		recipient := s.db.GetOrCreateAccount(tx.RecipientID)

		if err := s.dispatcher.Apply(tx, sender, recipient); err != nil {
			return err
		}
	}

	for _, o := range s.observers {
		o.AfterApply(block)
	}

	return nil
}
