package state

import (
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
)

// AddKnownPeer provides the ability to add a new peer.
func (s *State) AddKnownPeer(host string) bool {
	if host == s.host {
		return false
	}
	return s.knownPeers.Add(host)
}

// RemoveKnownPeer drops the peer from the known set.
func (s *State) RemoveKnownPeer(host string) {
	s.knownPeers.Remove(host)
}

// MarkPeerConnected records the details a peer returned about itself.
func (s *State) MarkPeerConnected(host string, info peer.Info) {
	s.knownPeers.MarkConnected(host, info)
}

// MarkPeerDisconnected records that the peer stopped answering.
func (s *State) MarkPeerDisconnected(host string) {
	s.knownPeers.MarkDisconnected(host)
}

// BlacklistPeer stops talking to a peer that sent invalid data.
func (s *State) BlacklistPeer(host string) {
	s.evHandler("state: BlacklistPeer: host[%s]", host)
	s.knownPeers.Blacklist(host)
}

// RemoveExpiredTransactions drops the mempool transactions whose deadline
// passed.
func (s *State) RemoveExpiredTransactions() []*database.Transaction {
	return s.mempool.RemoveExpired(s.now())
}
