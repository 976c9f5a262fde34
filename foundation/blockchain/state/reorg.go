package state

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/libertyswede/nxtnode/foundation/blockchain/consensus"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// ErrForkTooDeep is returned when switching to a fork would roll back more
// blocks than allowed.
var ErrForkTooDeep = errors.New("fork is deeper than the maximum rollback")

// ErrRestoreFailed is returned when the chain could not be put back after a
// rejected fork. The ledger no longer matches the best known chain.
var ErrRestoreFailed = errors.New("restoring the chain after a rejected fork failed")

// ProcessFork switches the chain to the fork blocks following the common
// block when they end with a higher cumulative difficulty. A fork that does
// not beat the head is discarded before anything is rolled back. If a fork
// block is rejected and the blocks pushed so far do not beat the old head,
// the original chain is restored. The error from pushing a fork block is
// returned so the peer that sent it can be punished.
func (s *State) ProcessFork(fork []*database.Block, common *database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	head := s.db.LatestBlock()
	if head == nil {
		return ErrNotSynced
	}

	if head.Height-common.Height >= database.MaxRollback {
		return fmt.Errorf("%w: head %d, common %d", ErrForkTooDeep, head.Height, common.Height)
	}

	originalCD := head.CumulativeDifficulty

	forkCD := forkDifficulty(fork, common)
	if forkCD.Cmp(originalCD) <= 0 {
		s.evHandler("state: ProcessFork: discarded: common[%s]: forkCD[%s]: headCD[%s]", common.ID(), forkCD, originalCD)
		return nil
	}

	s.evHandler("state: ProcessFork: started: common[%s]: height[%d]: forkBlocks[%d]", common.ID(), common.Height, len(fork))
	defer s.evHandler("state: ProcessFork: completed")

	popped, err := s.popOffTo(common)
	if err != nil {
		s.evHandler("state: ProcessFork: pop off: ERROR: %s", err)
		if rerr := s.restore(popped); rerr != nil {
			return fmt.Errorf("%w: %v", ErrRestoreFailed, rerr)
		}
		return err
	}

	var forkErr error
	var pushed int
	for _, block := range fork {
		if block.PreviousBlockID != s.db.LatestBlock().ID() {
			continue
		}

		if err := s.pushBlock(block); err != nil {
			s.evHandler("state: ProcessFork: push fork block[%s]: ERROR: %s", block.ID(), err)
			forkErr = err
			break
		}
		pushed++
	}

	if pushed > 0 && s.db.LatestBlock().CumulativeDifficulty.Cmp(originalCD) > 0 {
		s.evHandler("state: ProcessFork: switched: blocks[%d]: head[%s]", pushed, s.db.LatestBlock().ID())
		return forkErr
	}

	s.evHandler("state: ProcessFork: restoring original chain: blocks[%d]", len(popped))

	if _, err := s.popOffTo(common); err != nil {
		return fmt.Errorf("%w: pop fork blocks: %v", ErrRestoreFailed, err)
	}
	if err := s.restore(popped); err != nil {
		return fmt.Errorf("%w: %v", ErrRestoreFailed, err)
	}

	return forkErr
}

// forkDifficulty returns the cumulative difficulty the fork reaches when its
// blocks are chained on the common block. Blocks not linking to the chain
// built so far are skipped, the same way ProcessFork skips them.
func forkDifficulty(fork []*database.Block, common *database.Block) *big.Int {
	previous := &database.Block{
		Timestamp:            common.Timestamp,
		BaseTarget:           common.BaseTarget,
		CumulativeDifficulty: common.CumulativeDifficulty,
	}
	previousID := common.ID()

	for _, block := range fork {
		if block.PreviousBlockID != previousID {
			continue
		}

		next := &database.Block{
			Timestamp:       block.Timestamp,
			PreviousBlockID: block.PreviousBlockID,
		}
		consensus.BaseTarget(previous, next)

		previous = next
		previousID = block.ID()
	}

	if previous.CumulativeDifficulty == nil {
		return new(big.Int)
	}
	return previous.CumulativeDifficulty
}

// PopOffTo rolls the chain back until the block is the head. It returns the
// removed blocks, latest first.
func (s *State) PopOffTo(block *database.Block) ([]*database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.popOffTo(block)
}

// popOffTo performs the roll back with the writer lock held. When a block
// can't be popped the blocks removed so far are returned with the error.
func (s *State) popOffTo(block *database.Block) ([]*database.Block, error) {
	if !s.db.HasBlock(block.ID()) {
		return nil, fmt.Errorf("block %s is not in the chain", block.ID())
	}

	var popped []*database.Block
	for s.db.LatestBlock().ID() != block.ID() {
		b, err := s.popLastBlock()
		if err != nil {
			return popped, err
		}
		popped = append(popped, b)
	}

	return popped, nil
}

// popLastBlock removes the head of the chain and reverses its effect on the
// ledger. The transactions go back to the mempool.
func (s *State) popLastBlock() (*database.Block, error) {
	block := s.db.LatestBlock()
	if block.Height == 0 {
		return nil, errors.New("cannot pop off the genesis block")
	}

	for _, tx := range block.Transactions {
		if err := s.dispatcher.CheckUndo(tx); err != nil {
			return nil, fmt.Errorf("block %s: %w", block.ID(), err)
		}
	}

	if _, err := s.db.RemoveLatestBlock(); err != nil {
		return nil, err
	}

	generator := s.db.GetOrCreateAccount(block.GeneratorID())
	generator.UndoPublicKey(block.Height)
	if err := generator.AddToBoth(-block.TotalFeeNQT); err != nil {
		return nil, fmt.Errorf("generator of %s: %w", block.ID(), err)
	}
	generator.AddToForged(-block.TotalFeeNQT)

	for i := len(block.Transactions) - 1; i >= 0; i-- {
		tx := block.Transactions[i]
		sender := s.db.GetOrCreateAccount(tx.SenderID())
		recipient := s.db.GetOrCreateAccount(tx.RecipientID)

		if err := s.dispatcher.Undo(tx, sender, recipient); err != nil {
			return nil, err
		}

		if err := s.dispatcher.UndoUnconfirmed(tx, sender); err != nil {
			return nil, err
		}

		sender.UndoPublicKey(tx.Height)
	}

	block.DisconnectTransactions()

	for _, tx := range block.Transactions {
		if _, err := s.mempool.Upsert(tx); err != nil {
			s.evHandler("state: popLastBlock: mempool: tx[%s]: ERROR: %s", tx, err)
		}
	}

	s.evHandler("state: popLastBlock: blk[%s]: height[%d]", block.ID(), block.Height)

	return block, nil
}

// restore pushes back blocks removed by popOffTo, oldest first.
func (s *State) restore(popped []*database.Block) error {
	for i := len(popped) - 1; i >= 0; i-- {
		if err := s.pushBlock(popped[i]); err != nil {
			s.evHandler("state: restore: blk[%s]: ERROR: %s", popped[i].ID(), err)
			return fmt.Errorf("re-push block %s: %w", popped[i].ID(), err)
		}
	}
	return nil
}
