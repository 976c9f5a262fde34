// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/libertyswede/nxtnode/foundation/blockchain/consensus"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/mempool"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
	"github.com/libertyswede/nxtnode/foundation/blockchain/txtype"
)

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for syncing, peer updates, and sharing.
type Worker interface {
	Shutdown()
	SignalShareTx(tx *database.Transaction)
	SignalShareBlock(block *database.Block)
}

// BlockObserver is notified around the application of every block.
type BlockObserver interface {
	BeforeApply(block *database.Block)
	AfterApply(block *database.Block)
}

// Status is the lifecycle phase of the node.
type Status int32

// Set of lifecycle phases.
const (
	AwaitingGenesis Status = iota
	Synced
)

// String implements the fmt.Stringer interface.
func (s Status) String() string {
	if s == Synced {
		return "synced"
	}
	return "awaiting genesis"
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Host           string
	Genesis        genesis.Genesis
	Storage        database.Storage
	SelectStrategy string
	KnownPeers     *peer.PeerSet
	EvHandler      EventHandler

	// Now returns the current epoch time. The wall clock is used when nil.
	Now func() int32
}

// State manages the blockchain database.
type State struct {
	mu        sync.Mutex
	host      string
	evHandler EventHandler
	now       func() int32
	status    atomic.Int32

	knownPeers *peer.PeerSet
	genesis    genesis.Genesis
	mempool    *mempool.Mempool
	db         *database.Database
	dispatcher *txtype.Dispatcher
	verifier   *consensus.Verifier
	observers  []BlockObserver

	Worker Worker
}

// New constructs a new blockchain for data management. Every block found in
// storage is replayed to rebuild the ledger.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	now := cfg.Now
	if now == nil {
		now = func() int32 { return database.EpochTime(time.Now()) }
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet(0)
	}

	// Access the storage for the blockchain.
	db, err := database.New(cfg.Genesis, cfg.Storage)
	if err != nil {
		return nil, err
	}

	// Construct a mempool with the specified sort strategy.
	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = "fee"
	}
	mempool, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		host:      cfg.Host,
		evHandler: ev,
		now:       now,

		knownPeers: knownPeers,
		genesis:    cfg.Genesis,
		mempool:    mempool,
		db:         db,
		dispatcher: txtype.New(db),
		verifier:   consensus.NewVerifier(db, cfg.Genesis, ev),
	}

	state.Subscribe(database.NewLeaseTracker(db))
	state.Subscribe(eventObserver{ev: ev})

	if err := state.replay(); err != nil {
		return nil, err
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Make sure the database file is properly closed.
	defer func() {
		s.db.Close()
	}()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Subscribe adds an observer notified around every applied block. Observers
// run in the order they subscribed.
func (s *State) Subscribe(observer BlockObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, observer)
}

// Status returns the lifecycle phase of the node.
func (s *State) Status() Status {
	return Status(s.status.Load())
}

// Now returns the current epoch time.
func (s *State) Now() int32 {
	return s.now()
}

// =============================================================================

// replay rebuilds the ledger from the blocks in storage.
func (s *State) replay() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: replay: started")

	var count int
	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}

		if err := s.db.LoadBlock(block); err != nil {
			return fmt.Errorf("replay: %w", err)
		}

		if err := s.applyReplayed(block); err != nil {
			return fmt.Errorf("replay block %s at height %d: %w", block.ID(), block.Height, err)
		}
		count++
	}

	if count > 0 {
		s.status.Store(int32(Synced))
	}

	s.evHandler("state: replay: completed: blocks[%d]", count)

	return nil
}

// applyReplayed reserves and applies every transaction of a block that was
// accepted before, without verifying it again.
func (s *State) applyReplayed(block *database.Block) error {
	for _, tx := range block.Transactions {
		sender := s.db.GetOrCreateAccount(tx.SenderID())

		applied, err := s.dispatcher.ApplyUnconfirmed(tx, sender)
		if err != nil {
			return err
		}
		if !applied {
			return &database.TransactionNotAcceptedError{Tx: tx, Err: database.ErrDoubleSpending}
		}
	}

	return s.applyBlock(block)
}

// =============================================================================

// eventObserver publishes every applied block as a viewer event.
type eventObserver struct {
	ev EventHandler
}

// BeforeApply implements the BlockObserver interface.
func (eo eventObserver) BeforeApply(block *database.Block) {}

// AfterApply implements the BlockObserver interface.
func (eo eventObserver) AfterApply(block *database.Block) {
	eo.ev(`viewer: block: {"id":%q,"height":%d,"timestamp":%d,"generator":%q,"transactions":%d,"total_amount_nqt":%d,"total_fee_nqt":%d}`,
		block.ID(), block.Height, block.Timestamp, block.GeneratorID(), len(block.Transactions), block.TotalAmountNQT, block.TotalFeeNQT)
}

// =============================================================================

// ErrNotSynced is returned for requests that need a chain to exist.
var ErrNotSynced = errors.New("node has no genesis block")
