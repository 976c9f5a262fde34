// Package peer maintains the peer related information such as the set
// of know peers and their status.
package peer

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultPort is the port peers listen on when the address names none.
const DefaultPort = "7874"

// Info is what a peer tells about itself when asked.
type Info struct {
	Application  string `json:"application"`
	Version      string `json:"version"`
	Platform     string `json:"platform"`
	ShareAddress bool   `json:"share_address"`
}

// Peer represents information about a Node in the network.
type Peer struct {
	Host          string    `json:"host"`
	Info          Info      `json:"info"`
	Connected     bool      `json:"connected"`
	BlacklistedAt time.Time `json:"blacklisted_at,omitzero"`
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu              sync.RWMutex
	set             map[string]*Peer
	blacklistPeriod time.Duration
	now             func() time.Time
}

// NewPeerSet constructs a new info set to manage node peer information. A
// blacklisted peer is ignored until the period ends, forever when it is zero.
func NewPeerSet(blacklistPeriod time.Duration) *PeerSet {
	return &PeerSet{
		set:             make(map[string]*Peer),
		blacklistPeriod: blacklistPeriod,
		now:             time.Now,
	}
}

// Add adds a new node to the set. This machine on the peer port is refused.
func (ps *PeerSet) Add(host string) bool {
	host = strings.TrimSpace(host)
	if !valid(host) {
		return false
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.set[host]; exists {
		return false
	}

	peer := New(host)
	ps.set[host] = &peer
	return true
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(host string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, host)
}

// Copy returns a list of the known peers, ordered by host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for _, peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, *peer)
		}
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].Host < peers[j].Host })

	return peers
}

// MarkConnected records the peer answered with its details.
func (ps *PeerSet) MarkConnected(host string, info Info) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	peer, exists := ps.set[host]
	if !exists {
		return
	}

	peer.Info = info
	peer.Connected = true
}

// MarkDisconnected records the peer stopped answering.
func (ps *PeerSet) MarkDisconnected(host string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if peer, exists := ps.set[host]; exists {
		peer.Connected = false
	}
}

// Blacklist marks the peer as sending invalid data. It is disconnected and
// skipped by Random until the blacklist period ends.
func (ps *PeerSet) Blacklist(host string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if peer, exists := ps.set[host]; exists {
		peer.Connected = false
		peer.BlacklistedAt = ps.now()
	}
}

// IsBlacklisted reports whether the peer is currently blacklisted. An
// expired blacklisting is cleared.
func (ps *PeerSet) IsBlacklisted(host string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	peer, exists := ps.set[host]
	if !exists {
		return false
	}

	return ps.blacklisted(peer)
}

// Random picks one peer that is not blacklisted. When connected is true only
// connected peers qualify.
func (ps *PeerSet) Random(connected bool) (Peer, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	var candidates []*Peer
	for _, peer := range ps.set {
		if ps.blacklisted(peer) || (connected && !peer.Connected) {
			continue
		}
		candidates = append(candidates, peer)
	}

	if len(candidates) == 0 {
		return Peer{}, false
	}

	return *candidates[rand.Intn(len(candidates))], true
}

// blacklisted must be called with the lock held.
func (ps *PeerSet) blacklisted(peer *Peer) bool {
	if peer.BlacklistedAt.IsZero() {
		return false
	}

	if ps.blacklistPeriod > 0 && ps.now().Sub(peer.BlacklistedAt) >= ps.blacklistPeriod {
		peer.BlacklistedAt = time.Time{}
		return false
	}

	return true
}

// =============================================================================

// valid refuses empty hosts and this machine on the peer port. Loopback
// addresses on other ports stay usable for local clusters.
func valid(host string) bool {
	if host == "" {
		return false
	}

	name, port := host, DefaultPort
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.HasSuffix(host, "]") {
		name, port = host[:i], host[i+1:]
	}

	switch strings.Trim(name, "[]") {
	case "":
		return false
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return port != DefaultPort
	}

	return true
}

// address adds the default port when the host names none.
func address(host string) string {
	if strings.Contains(host, ":") && !strings.HasSuffix(host, "]") {
		return host
	}
	return host + ":" + DefaultPort
}
