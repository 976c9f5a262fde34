package state

import (
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns the current latest block.
func (s *State) RetrieveLatestBlock() *database.Block {
	return s.db.LatestBlock()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []*database.Transaction {
	return s.mempool.PickBest(-1)
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveConnectedPeers retrieves the peers currently exchanging data with
// this node.
func (s *State) RetrieveConnectedPeers() []peer.Peer {
	var connected []peer.Peer
	for _, p := range s.knownPeers.Copy(s.host) {
		if p.Connected {
			connected = append(connected, p)
		}
	}
	return connected
}

// RandomPeer picks a known peer that is not blacklisted.
func (s *State) RandomPeer(connected bool) (peer.Peer, bool) {
	return s.knownPeers.Random(connected)
}
