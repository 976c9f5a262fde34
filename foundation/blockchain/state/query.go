package state

import (
	"math/big"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = int32(^uint32(0) >> 1)

// Limits for answering chain sync requests.
const (
	milestoneLimit     = 10
	maxMilestoneJump   = 1440
	unknownBlockJump   = 10
	maxNextBlockIDs    = 1440
	maxNextBlocks      = 1440
	maxNextBlocksBytes = 1 << 20
)

// =============================================================================

// LatestBlock returns the head of the chain, nil before the genesis block.
func (s *State) LatestBlock() *database.Block {
	return s.db.LatestBlock()
}

// GenesisBlock returns the first block, nil before it is added.
func (s *State) GenesisBlock() *database.Block {
	block, err := s.db.BlockAtHeight(0)
	if err != nil {
		return nil
	}
	return block
}

// HasBlock reports whether the block is part of the chain.
func (s *State) HasBlock(id database.ID) bool {
	return s.db.HasBlock(id)
}

// BlockByID returns the block with the specified id.
func (s *State) BlockByID(id database.ID) (*database.Block, error) {
	return s.db.BlockByID(id)
}

// CumulativeDifficulty returns the difficulty and height of the head.
func (s *State) CumulativeDifficulty() (*big.Int, int32) {
	latest := s.db.LatestBlock()
	if latest == nil {
		return new(big.Int), 0
	}
	return new(big.Int).Set(latest.CumulativeDifficulty), latest.Height
}

// MilestoneBlockIDs returns block ids spread back through the chain so a peer
// can locate the last block both chains share. When the peer names a block
// this node knows, that block alone is returned and last reports whether it
// is the head.
func (s *State) MilestoneBlockIDs(lastBlockID database.ID, lastMilestoneBlockID database.ID) ([]database.ID, bool, error) {
	latest := s.db.LatestBlock()
	if latest == nil {
		return nil, false, ErrNotSynced
	}

	if lastBlockID != 0 {
		if lastBlockID == latest.ID() {
			return []database.ID{lastBlockID}, true, nil
		}
		if s.db.HasBlock(lastBlockID) {
			return []database.ID{lastBlockID}, false, nil
		}
	}

	var height, jump int32
	switch {
	case lastMilestoneBlockID != 0:
		block, err := s.db.BlockByID(lastMilestoneBlockID)
		if err != nil {
			return nil, false, err
		}
		height = block.Height
		jump = min(maxMilestoneJump, max(latest.Height-height, 1))
		height = max(height-jump, 0)

	case lastBlockID != 0:
		height = latest.Height
		jump = unknownBlockJump

	default:
		return nil, false, database.NotAcceptedf("either last block id or last milestone block id is required")
	}

	var ids []database.ID
	for limit := milestoneLimit; height > 0 && limit > 0; limit-- {
		block, err := s.db.BlockAtHeight(height)
		if err != nil {
			return nil, false, err
		}
		ids = append(ids, block.ID())
		height -= jump
	}

	return ids, false, nil
}

// NextBlockIDs returns the ids of the blocks following the specified block.
func (s *State) NextBlockIDs(id database.ID) []database.ID {
	blocks := s.db.BlocksAfter(id, maxNextBlockIDs)

	ids := make([]database.ID, len(blocks))
	for i, block := range blocks {
		ids[i] = block.ID()
	}

	return ids
}

// NextBlocks returns the blocks following the specified block, stopping
// before the response grows past a megabyte.
func (s *State) NextBlocks(id database.ID) []*database.Block {
	blocks := s.db.BlocksAfter(id, maxNextBlocks)

	var size int
	for i, block := range blocks {
		size += len(block.Bytes()) + int(block.PayloadLength)
		if size > maxNextBlocksBytes {
			return blocks[:i]
		}
	}

	return blocks
}

// =============================================================================

// QueryAccount returns a copy of the account from the database.
func (s *State) QueryAccount(id database.ID) (database.AccountInfo, error) {
	account, exists := s.db.QueryAccount(id)
	if !exists {
		return database.AccountInfo{}, database.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return account.Info(), nil
}

// QueryAccounts returns a copy of every account ordered by id.
func (s *State) QueryAccounts() []database.AccountInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.db.Accounts()

	infos := make([]database.AccountInfo, len(accounts))
	for i, account := range accounts {
		infos[i] = account.Info()
	}

	return infos
}

// QueryAlias returns the alias with the specified name.
func (s *State) QueryAlias(name string) (database.Alias, error) {
	alias, exists := s.db.AliasByName(name)
	if !exists {
		return database.Alias{}, database.ErrNotFound
	}
	return alias, nil
}

// QueryTransaction returns a transaction from the chain.
func (s *State) QueryTransaction(id database.ID) (*database.Transaction, error) {
	return s.db.TransactionByID(id)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// UnconfirmedTransactions returns the transactions waiting in the mempool in
// the order they would be forged.
func (s *State) UnconfirmedTransactions() []*database.Transaction {
	return s.mempool.PickBest(-1)
}

// QueryBlocksByHeight returns the set of blocks between the heights,
// inclusive.
func (s *State) QueryBlocksByHeight(from int32, to int32) []*database.Block {
	latest := s.db.LatestBlock()
	if latest == nil {
		return nil
	}

	if from == QueryLatest {
		from = latest.Height
		to = from
	}
	if to == QueryLatest || to > latest.Height {
		to = latest.Height
	}

	var out []*database.Block
	for i := from; i <= to; i++ {
		block, err := s.db.BlockAtHeight(i)
		if err != nil {
			s.evHandler("state: QueryBlocksByHeight: ERROR: %s", err)
			return nil
		}
		out = append(out, block)
	}

	return out
}

// QueryBlocksByAccount returns the blocks forged by the account or carrying
// one of its transactions.
func (s *State) QueryBlocksByAccount(id database.ID) []*database.Block {
	latest := s.db.LatestBlock()
	if latest == nil {
		return nil
	}

	var out []*database.Block
	for h := int32(0); h <= latest.Height; h++ {
		block, err := s.db.BlockAtHeight(h)
		if err != nil {
			break
		}

		if block.GeneratorID() == id {
			out = append(out, block)
			continue
		}

		for _, tx := range block.Transactions {
			if tx.SenderID() == id || tx.RecipientID == id {
				out = append(out, block)
				break
			}
		}
	}

	return out
}
