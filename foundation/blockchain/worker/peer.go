package worker

// peerOperations handles finding new peers.
func (w *Worker) peerOperations() {
	w.tick("peerOperations", w.cfg.PeerInterval, w.runPeersOperation)
}

// runPeersOperation connects to the known peers and learns new ones from
// a connected peer.
func (w *Worker) runPeersOperation() {
	w.evHandler("worker: runPeersOperation: started")
	defer w.evHandler("worker: runPeersOperation: completed")

	var connected int
	for _, peer := range w.state.RetrieveKnownPeers() {
		if !peer.BlacklistedAt.IsZero() {
			continue
		}

		if peer.Connected {
			connected++
			continue
		}

		if connected >= w.cfg.MaxConnectedPeers {
			continue
		}

		info, err := w.client.GetInfo(w.ctx, peer.Host)
		if err != nil {
			w.evHandler("worker: runPeersOperation: getInfo: %s: ERROR: %s", peer.Host, err)
			w.state.MarkPeerDisconnected(peer.Host)
			continue
		}

		w.state.MarkPeerConnected(peer.Host, info)
		connected++
	}

	peer, ok := w.state.RandomPeer(true)
	if !ok {
		return
	}

	hosts, err := w.client.GetPeers(w.ctx, peer.Host)
	if err != nil {
		w.evHandler("worker: runPeersOperation: getPeers: %s: ERROR: %s", peer.Host, err)
		w.state.MarkPeerDisconnected(peer.Host)
		return
	}

	w.addNewPeers(hosts)
}

// addNewPeers takes the list of known peers and makes sure they are included
// in the nodes list of know peers.
func (w *Worker) addNewPeers(hosts []string) {
	for _, host := range hosts {
		if host == w.state.RetrieveHost() {
			continue
		}

		if w.state.AddKnownPeer(host) {
			w.evHandler("worker: runPeersOperation: addNewPeers: adding peer-node %s", host)
		}
	}
}
