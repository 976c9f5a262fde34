// Package database handles all the lower level support for maintaining the
// blockchain on disk and maintaining an in memory database of account,
// alias and lease information.
package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(height int32) (BlockData, error)
	ForEach() Iterator
	Truncate(height int32) error
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// DatabaseIterator walks the stored blocks converting them to blocks.
type DatabaseIterator struct {
	iterator         Iterator
	creatorPublicKey []byte
	nqtBlock         int32
}

// Next retrieves the next block from storage.
func (di *DatabaseIterator) Next() (*Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return nil, err
	}

	return ToBlock(blockData, di.creatorPublicKey, di.nqtBlock)
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// =============================================================================

// Database manages the blocks of the chain and the accounts, aliases and
// leases derived from them.
type Database struct {
	mu sync.RWMutex

	genesis   genesis.Genesis
	creatorID ID

	chain        []*Block
	blockIDs     map[ID]*Block
	transactions map[ID]*Transaction
	fullHashes   map[string]*Transaction

	accounts map[ID]*Account
	aliases  map[string]*Alias
	aliasIDs map[ID]*Alias
	leasing  map[ID]struct{}

	storage Storage
}

// New constructs an empty database for the genesis. Blocks are added as the
// chain is replayed from storage.
func New(genesis genesis.Genesis, storage Storage) (*Database, error) {
	if storage == nil {
		return nil, errors.New("storage is required")
	}

	db := Database{
		genesis:   genesis,
		creatorID: PublicKeyToAccountID(genesis.CreatorPublicKey),
		storage:   storage,
	}
	db.clear()

	return &db, nil
}

func (db *Database) clear() {
	db.chain = nil
	db.blockIDs = make(map[ID]*Block)
	db.transactions = make(map[ID]*Transaction)
	db.fullHashes = make(map[string]*Transaction)
	db.accounts = make(map[ID]*Account)
	db.aliases = make(map[string]*Alias)
	db.aliasIDs = make(map[ID]*Alias)
	db.leasing = make(map[ID]struct{})
}

// Close closes the open blocks database.
func (db *Database) Close() {
	db.storage.Close()
}

// Reset re-initializes the database back to an empty chain.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Reset(); err != nil {
		return err
	}

	db.clear()
	return nil
}

// ResetState drops the derived account state while keeping the stored
// blocks, so the chain can be replayed.
func (db *Database) ResetState() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.clear()
}

// =============================================================================

// Genesis returns the genesis the database was constructed with.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// Eras returns the protocol upgrade heights.
func (db *Database) Eras() genesis.Eras {
	return db.genesis.Eras
}

// CreatorID returns the account of the genesis creator.
func (db *Database) CreatorID() ID {
	return db.creatorID
}

// CreatorPublicKey returns the public key of the genesis creator.
func (db *Database) CreatorPublicKey() []byte {
	return db.genesis.CreatorPublicKey
}

// Height returns the height of the latest block, 0 for an empty chain.
func (db *Database) Height() int32 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.chain) == 0 {
		return 0
	}
	return db.chain[len(db.chain)-1].Height
}

// UseNQT reports whether a transaction not yet in a block uses the NQT
// layout.
func (db *Database) UseNQT() bool {
	return db.Height() >= db.genesis.Eras.NQTBlock
}

// LatestBlock returns the latest block or nil for an empty chain.
func (db *Database) LatestBlock() *Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.chain) == 0 {
		return nil
	}
	return db.chain[len(db.chain)-1]
}

// HasBlock reports whether the block is part of the chain.
func (db *Database) HasBlock(id ID) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, exists := db.blockIDs[id]
	return exists
}

// BlockByID returns the block with the specified id.
func (db *Database) BlockByID(id ID) (*Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	block, exists := db.blockIDs[id]
	if !exists {
		return nil, fmt.Errorf("block %s: %w", id, ErrNotFound)
	}
	return block, nil
}

// BlockAtHeight returns the block at the specified height.
func (db *Database) BlockAtHeight(height int32) (*Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if height < 0 || int(height) >= len(db.chain) {
		return nil, fmt.Errorf("block at height %d: %w", height, ErrNotFound)
	}
	return db.chain[height], nil
}

// BlocksAfter returns up to limit blocks following the specified block.
func (db *Database) BlocksAfter(id ID, limit int) []*Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	block, exists := db.blockIDs[id]
	if !exists {
		return nil
	}

	from := int(block.Height) + 1
	to := min(from+limit, len(db.chain))
	if from >= to {
		return nil
	}

	return append([]*Block(nil), db.chain[from:to]...)
}

// AddBlock stores the block and makes it the latest block of the chain.
func (db *Database) AddBlock(block *Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if int(block.Height) != len(db.chain) {
		return fmt.Errorf("block %s: height %d does not extend chain of %d blocks", block.ID(), block.Height, len(db.chain))
	}

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return fmt.Errorf("write block %s: %w", block.ID(), err)
	}

	db.index(block)
	return nil
}

// WriteBlock persists a block that was already indexed with LoadBlock.
func (db *Database) WriteBlock(block *Block) error {
	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return fmt.Errorf("write block %s: %w", block.ID(), err)
	}
	return nil
}

// LoadBlock indexes a block without writing it. Blocks replayed from storage
// and blocks being applied ahead of persisting go through here.
func (db *Database) LoadBlock(block *Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if int(block.Height) != len(db.chain) {
		return fmt.Errorf("block %s: height %d does not extend chain of %d blocks", block.ID(), block.Height, len(db.chain))
	}

	db.index(block)
	return nil
}

func (db *Database) index(block *Block) {
	db.chain = append(db.chain, block)
	db.blockIDs[block.ID()] = block
	for _, tx := range block.Transactions {
		db.transactions[tx.ID()] = tx
		db.fullHashes[string(tx.FullHash())] = tx
	}
}

// RemoveLatestBlock drops the latest block from storage and the indexes.
// The genesis block can not be removed.
func (db *Database) RemoveLatestBlock() (*Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.chain) < 2 {
		return nil, errors.New("cannot remove the genesis block")
	}

	block := db.chain[len(db.chain)-1]
	if err := db.storage.Truncate(block.Height - 1); err != nil {
		return nil, fmt.Errorf("truncate block %s: %w", block.ID(), err)
	}

	db.chain = db.chain[:len(db.chain)-1]
	delete(db.blockIDs, block.ID())
	for _, tx := range block.Transactions {
		delete(db.transactions, tx.ID())
		delete(db.fullHashes, string(tx.FullHash()))
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the stored blocks
// starting with the genesis block.
func (db *Database) ForEach() DatabaseIterator {
	return DatabaseIterator{
		iterator:         db.storage.ForEach(),
		creatorPublicKey: db.genesis.CreatorPublicKey,
		nqtBlock:         db.genesis.Eras.NQTBlock,
	}
}

// =============================================================================

// HasTransaction reports whether the transaction is part of the chain.
func (db *Database) HasTransaction(id ID) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, exists := db.transactions[id]
	return exists
}

// TransactionByID returns the confirmed transaction with the specified id.
func (db *Database) TransactionByID(id ID) (*Transaction, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tx, exists := db.transactions[id]
	if !exists {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return tx, nil
}

// TransactionByFullHash returns the confirmed transaction with the specified
// full hash.
func (db *Database) TransactionByFullHash(fullHash []byte) (*Transaction, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tx, exists := db.fullHashes[string(fullHash)]
	if !exists {
		return nil, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	return tx, nil
}

// =============================================================================

// QueryAccount returns the account with the specified id.
func (db *Database) QueryAccount(id ID) (*Account, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	account, exists := db.accounts[id]
	return account, exists
}

// GetOrCreateAccount returns the account, creating it at the current height
// when it has not been seen before.
func (db *Database) GetOrCreateAccount(id ID) *Account {
	height := db.Height()

	db.mu.Lock()
	defer db.mu.Unlock()

	if account, exists := db.accounts[id]; exists {
		return account
	}

	account := NewAccount(id, height, db)
	db.accounts[id] = account
	return account
}

// Accounts returns the accounts ordered by id.
func (db *Database) Accounts() []*Account {
	db.mu.RLock()
	defer db.mu.RUnlock()

	accounts := make([]*Account, 0, len(db.accounts))
	for _, account := range db.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	return accounts
}

// TransactionsChecksum hashes the bytes of every transaction in the chain in
// the order they were stored.
func (db *Database) TransactionsChecksum() []byte {
	db.mu.RLock()
	defer db.mu.RUnlock()

	hasher := signature.NewHasher()
	for _, block := range db.chain {
		for _, tx := range block.Transactions {
			hasher.Write(tx.Bytes())
		}
	}

	return hasher.Sum()
}
