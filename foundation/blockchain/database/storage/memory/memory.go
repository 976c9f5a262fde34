// Package memory implements the ability to read and write blocks to memory
// using a slice.
package memory

import (
	"fmt"
	"sync"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// Memory represents the serialization implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified database block and stores it in memory.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(blockData.Height) != len(m.blocks) {
		return fmt.Errorf("block at height %d is out of order, holding %d blocks", blockData.Height, len(m.blocks))
	}

	m.blocks = append(m.blocks, blockData)

	return nil
}

// GetBlock returns the block stored at the specified height.
func (m *Memory) GetBlock(height int32) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if height < 0 || int(height) >= len(m.blocks) {
		return database.BlockData{}, fmt.Errorf("block at height %d: %w", height, database.ErrNotFound)
	}

	return m.blocks[height], nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Truncate removes every block stored above the specified height.
func (m *Memory) Truncate(height int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(height)+1 < len(m.blocks) {
		m.blocks = m.blocks[:height+1]
	}

	return nil
}

// Reset will clear out the blockchain.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the blocks in memory. This implements the database Iterator
// interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current int32   // Current block height being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.eoc {
		return database.BlockData{}, database.ErrEndOfChain
	}

	blockData, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
		return database.BlockData{}, database.ErrEndOfChain
	}

	mi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
