package worker

import (
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
)

// maxTxShareRequests represents the max number of pending tx network share
// requests that can be outstanding before share requests are dropped. To keep
// this simple, a buffered channel of this arbitrary number is being used. If
// the channel does become full, requests for new transactions to be shared
// will not be accepted.
const maxTxShareRequests = 100

// maxBlockShareRequests is the same bound for relaying accepted blocks.
const maxBlockShareRequests = 10

// =============================================================================

// shareOperations handles sharing new transactions and blocks.
func (w *Worker) shareOperations() {
	w.evHandler("worker: shareOperations: G started")
	defer w.evHandler("worker: shareOperations: G completed")

	for {
		select {
		case tx := <-w.txSharing:
			if !w.isShutdown() {
				w.runShareTxOperation(tx)
			}
		case block := <-w.blockSharing:
			if !w.isShutdown() {
				w.runShareBlockOperation(block)
			}
		case <-w.shut:
			w.evHandler("worker: shareOperations: received shut signal")
			return
		}
	}
}

// runShareTxOperation shares a new transaction with the connected peers.
func (w *Worker) runShareTxOperation(tx *database.Transaction) {
	w.evHandler("worker: runShareTxOperation: started")
	defer w.evHandler("worker: runShareTxOperation: completed")

	wire, err := protocol.NewTransaction(tx)
	if err != nil {
		w.evHandler("worker: runShareTxOperation: ERROR: %s", err)
		return
	}
	trans := []protocol.Transaction{wire}

	for _, peer := range w.state.RetrieveKnownPeers() {
		if !peer.Connected {
			continue
		}

		if err := w.client.ProcessTransactions(w.ctx, peer.Host, trans); err != nil {
			w.evHandler("worker: runShareTxOperation: %s: WARNING: %s", peer.Host, err)
		}
	}
}

// runShareBlockOperation relays an accepted block to the connected peers.
func (w *Worker) runShareBlockOperation(block *database.Block) {
	w.evHandler("worker: runShareBlockOperation: started: blk[%s]", block.ID())
	defer w.evHandler("worker: runShareBlockOperation: completed")

	wire, err := protocol.NewBlock(block)
	if err != nil {
		w.evHandler("worker: runShareBlockOperation: ERROR: %s", err)
		return
	}

	for _, peer := range w.state.RetrieveKnownPeers() {
		if !peer.Connected {
			continue
		}

		if _, err := w.client.ProcessBlock(w.ctx, peer.Host, wire); err != nil {
			w.evHandler("worker: runShareBlockOperation: %s: WARNING: %s", peer.Host, err)
		}
	}
}
