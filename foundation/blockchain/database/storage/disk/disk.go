// Package disk implements the ability to read and write blocks to disk
// writing each block to a separate file named by height.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"sync"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// Disk represents the serialization implementation for reading and storing
// blocks in their own separate files on disk. This implements the database.Storage
// interface.
type Disk struct {
	mu     sync.RWMutex
	dbPath string
	height int32 // Height of the last block written, -1 when empty.
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	d := Disk{dbPath: dbPath, height: -1}
	for {
		_, err := os.Stat(d.getPath(d.height + 1))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return nil, err
		}
		d.height++
	}

	return &d, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new block and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified database blocks and stores it on disk in a
// file labeled with the block height.
func (d *Disk) Write(blockData database.BlockData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if blockData.Height != d.height+1 {
		return fmt.Errorf("block at height %d is out of order, last stored %d", blockData.Height, d.height)
	}

	// Marshal the block for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(blockData, "", "  ")
	if err != nil {
		return err
	}

	// Create a new file for this block and name it based on the block height.
	f, err := os.OpenFile(d.getPath(blockData.Height), os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	// Write the new block to disk.
	if _, err := f.Write(data); err != nil {
		return err
	}

	d.height = blockData.Height
	return nil
}

// GetBlock searches the blockchain on disk to locate and return the
// contents of the specified block by height.
func (d *Disk) GetBlock(height int32) (database.BlockData, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	// Open the block file for the specified height.
	f, err := os.OpenFile(d.getPath(height), os.O_RDONLY, 0600)
	if err != nil {
		return database.BlockData{}, err
	}
	defer f.Close()

	// Decode the contents of the block.
	var blockData database.BlockData
	if err := json.NewDecoder(f).Decode(&blockData); err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (d *Disk) ForEach() database.Iterator {
	return &DiskIterator{disk: d}
}

// Truncate removes every block stored above the specified height.
func (d *Disk) Truncate(height int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for ; d.height > height; d.height-- {
		if err := os.Remove(d.getPath(d.height)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Reset will clear out the blockchain on disk.
func (d *Disk) Reset() error {
	return d.Truncate(-1)
}

// getPath forms the path to the specified block.
func (d *Disk) getPath(height int32) string {
	name := strconv.FormatInt(int64(height), 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// DiskIterator represents the iteration implementation for walking
// through and reading blocks on disk. This implements the database
// Iterator interface.
type DiskIterator struct {
	disk    *Disk // Access to the storage API.
	current int32 // Current block height being iterated over.
	eoc     bool  // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from disk.
func (di *DiskIterator) Next() (database.BlockData, error) {
	if di.eoc {
		return database.BlockData{}, database.ErrEndOfChain
	}

	blockData, err := di.disk.GetBlock(di.current)
	if errors.Is(err, fs.ErrNotExist) {
		di.eoc = true
		return database.BlockData{}, database.ErrEndOfChain
	}
	di.current++

	return blockData, err
}

// Done returns the end of chain value.
func (di *DiskIterator) Done() bool {
	return di.eoc
}
