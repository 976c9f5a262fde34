// Package mempool maintains the pool of unconfirmed transactions waiting to
// be included in a block.
package mempool

import (
	"errors"
	"sync"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/mempool/selector"
)

// Mempool represents a cache of transactions keyed by transaction id.
type Mempool struct {
	pool     map[database.ID]*database.Transaction
	mu       sync.RWMutex
	selectFn selector.Func
}

// New constructs a new mempool using the default sort strategy.
func New() (*Mempool, error) {
	return NewWithStrategy(selector.StrategyFee)
}

// NewWithStrategy constructs a new mempool with specified sort strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[database.ID]*database.Transaction),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Contains reports whether the transaction is in the pool.
func (mp *Mempool) Contains(id database.ID) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.pool[id]
	return exists
}

// Upsert adds or replaces a transaction in the mempool.
func (mp *Mempool) Upsert(tx *database.Transaction) (int, error) {
	if tx.ID() == 0 {
		return 0, errors.New("transaction is not sealed")
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx.ID()] = tx

	return len(mp.pool), nil
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(tx *database.Transaction) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, tx.ID())
}

// DeleteBlock removes every transaction included in the block.
func (mp *Mempool) DeleteBlock(block *database.Block) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, tx := range block.Transactions {
		delete(mp.pool, tx.ID())
	}
}

// RemoveExpired drops the transactions whose deadline passed before now and
// returns them.
func (mp *Mempool) RemoveExpired(now int32) []*database.Transaction {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var expired []*database.Transaction
	for id, tx := range mp.pool {
		if tx.Expiration() < now {
			expired = append(expired, tx)
			delete(mp.pool, id)
		}
	}

	return expired
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[database.ID]*database.Transaction)
}

// PickBest uses the configured sort strategy to return the next set
// of transactions for the next block. Pass -1 for all the transactions.
func (mp *Mempool) PickBest(howMany int) []*database.Transaction {

	// Group the transactions by sender.
	m := make(map[database.ID][]*database.Transaction)
	mp.mu.RLock()
	{
		if howMany == -1 {
			howMany = len(mp.pool)
		}

		for _, tx := range mp.pool {
			m[tx.SenderID()] = append(m[tx.SenderID()], tx)
		}
	}
	mp.mu.RUnlock()

	return mp.selectFn(m, howMany)
}
