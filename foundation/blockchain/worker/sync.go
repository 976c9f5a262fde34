package worker

import (
	"context"
	"errors"

	"github.com/libertyswede/nxtnode/foundation/blockchain/chainsync"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
)

// syncOperations handles pulling blocks from the peers.
func (w *Worker) syncOperations() {
	w.tick("syncOperations", w.cfg.SyncInterval, w.runSyncOperation)
}

// runSyncOperation runs one sync round against a random connected peer.
func (w *Worker) runSyncOperation() {
	peer, ok := w.state.RandomPeer(true)
	if !ok {
		return
	}

	err := w.syncer.Sync(w.ctx, w.client.Remote(peer.Host))

	switch {
	case err == nil:

	case errors.Is(err, context.Canceled):

	case errors.Is(err, chainsync.ErrPeerMisbehaving):
		w.evHandler("worker: runSyncOperation: %s: blacklisting: %s", peer.Host, err)
		w.state.BlacklistPeer(peer.Host)

	case errors.Is(err, chainsync.ErrPeerUnavailable):
		w.evHandler("worker: runSyncOperation: %s: disconnecting: %s", peer.Host, err)
		w.state.MarkPeerDisconnected(peer.Host)

	case errors.Is(err, database.ErrUndoNotSupported), errors.Is(err, state.ErrForkTooDeep):
		w.evHandler("worker: runSyncOperation: %s: WARNING: %s", peer.Host, err)

	default:
		w.evHandler("worker: runSyncOperation: %s: FATAL: %s", peer.Host, err)
		if w.fatal != nil {
			w.fatal(err)
		}
	}
}
