// Package worker implements peer updates, chain syncing, and transaction
// sharing for the blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
)

// Config represents the intervals and limits of the background operations.
type Config struct {
	PeerInterval        time.Duration
	SyncInterval        time.Duration
	UnconfirmedInterval time.Duration
	MaxConnectedPeers   int
}

func (cfg *Config) setDefaults() {
	if cfg.PeerInterval == 0 {
		cfg.PeerInterval = 20 * time.Second
	}
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = time.Second
	}
	if cfg.UnconfirmedInterval == 0 {
		cfg.UnconfirmedInterval = 5 * time.Second
	}
	if cfg.MaxConnectedPeers == 0 {
		cfg.MaxConnectedPeers = 20
	}
}

// =============================================================================

// Worker manages the background workflows for the blockchain.
type Worker struct {
	state     State
	client    PeerClient
	syncer    Syncer
	metrics   Metrics
	cfg       Config
	evHandler state.EventHandler
	fatal     func(err error)

	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
	shut         chan struct{}
	txSharing    chan *database.Transaction
	blockSharing chan *database.Block
}

// New constructs a worker. The fatal function is called when the block
// pull hits a fault the node can not recover from.
func New(st State, client PeerClient, syncer Syncer, metrics Metrics, cfg Config, evHandler state.EventHandler, fatal func(err error)) *Worker {
	cfg.setDefaults()

	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		state:        st,
		client:       client,
		syncer:       syncer,
		metrics:      metrics,
		cfg:          cfg,
		evHandler:    ev,
		fatal:        fatal,
		ctx:          ctx,
		cancel:       cancel,
		shut:         make(chan struct{}),
		txSharing:    make(chan *database.Transaction, maxTxShareRequests),
		blockSharing: make(chan *database.Block, maxBlockShareRequests),
	}
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, client PeerClient, syncer Syncer, metrics Metrics, cfg Config, evHandler state.EventHandler, fatal func(err error)) *Worker {
	w := New(st, client, syncer, metrics, cfg, evHandler, fatal)

	// Register this worker with the state package.
	st.Worker = w

	w.Start()

	return w
}

// Start connects to the known peers and starts the operational G's.
func (w *Worker) Start() {

	// Update this node before starting any support G's.
	w.runPeersOperation()

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.syncOperations,
		w.unconfirmedOperations,
		w.shareOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: cancel requests")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalShareTx signals a share transaction operation. If
// maxTxShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalShareTx(tx *database.Transaction) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// SignalShareBlock signals a share block operation. If
// maxBlockShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalShareBlock(block *database.Block) {
	select {
	case w.blockSharing <- block:
		w.evHandler("worker: SignalShareBlock: share block signaled")
	default:
		w.evHandler("worker: SignalShareBlock: queue full, block won't be shared.")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// tick runs the operation every interval until shutdown.
func (w *Worker) tick(name string, interval time.Duration, op func()) {
	w.evHandler("worker: %s: G started", name)
	defer w.evHandler("worker: %s: G completed", name)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.isShutdown() {
				op()
			}
		case <-w.shut:
			w.evHandler("worker: %s: received shut signal", name)
			return
		}
	}
}
