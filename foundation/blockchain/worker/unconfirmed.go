package worker

// unconfirmedOperations handles the unconfirmed pool.
func (w *Worker) unconfirmedOperations() {
	w.tick("unconfirmedOperations", w.cfg.UnconfirmedInterval, w.runUnconfirmedOperation)
}

// runUnconfirmedOperation drops expired transactions and pulls the pool of
// a random connected peer.
func (w *Worker) runUnconfirmedOperation() {
	expired := w.state.RemoveExpiredTransactions()
	if len(expired) > 0 {
		w.evHandler("worker: runUnconfirmedOperation: expired[%d]", len(expired))
	}

	if peer, ok := w.state.RandomPeer(true); ok {
		trans, err := w.client.GetUnconfirmedTransactions(w.ctx, peer.Host)
		switch {
		case err != nil:
			w.evHandler("worker: runUnconfirmedOperation: %s: ERROR: %s", peer.Host, err)
			w.state.MarkPeerDisconnected(peer.Host)

		default:
			if added := w.state.ProcessTransactions(trans); added > 0 {
				w.evHandler("worker: runUnconfirmedOperation: %s: added[%d]", peer.Host, added)
			}
		}
	}

	if w.metrics != nil {
		w.metrics.ObserveExpired(len(expired))
		w.metrics.ObserveSize(w.state.QueryMempoolLength())
	}
}
