package database

import (
	"math"
	"sort"
)

// Lease describes the delegation of an account's effective balance to a
// lessee for a range of heights, plus at most one queued lease.
type Lease struct {
	CurrentFrom   int32
	CurrentTo     int32
	CurrentLessee ID
	NextFrom      int32
	NextTo        int32
	NextLessee    ID

	lessors map[ID]struct{}
}

// LeaseInfo is a read only copy of a lease.
type LeaseInfo struct {
	CurrentFrom   int32 `json:"current_from,omitempty"`
	CurrentTo     int32 `json:"current_to,omitempty"`
	CurrentLessee ID    `json:"current_lessee,omitempty"`
	NextFrom      int32 `json:"next_from,omitempty"`
	NextTo        int32 `json:"next_to,omitempty"`
	NextLessee    ID    `json:"next_lessee,omitempty"`
	Lessors       []ID  `json:"lessors,omitempty"`
}

func newLease() Lease {
	return Lease{
		CurrentFrom: math.MaxInt32,
		NextFrom:    math.MaxInt32,
		lessors:     make(map[ID]struct{}),
	}
}

// Lessors returns the accounts currently leasing to this account.
func (l *Lease) Lessors() []ID {
	ids := make([]ID, 0, len(l.lessors))
	for id := range l.lessors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (l *Lease) info() LeaseInfo {
	info := LeaseInfo{Lessors: l.Lessors()}
	if l.CurrentFrom != math.MaxInt32 {
		info.CurrentFrom = l.CurrentFrom
		info.CurrentTo = l.CurrentTo
		info.CurrentLessee = l.CurrentLessee
	}
	if l.NextFrom != math.MaxInt32 {
		info.NextFrom = l.NextFrom
		info.NextTo = l.NextTo
		info.NextLessee = l.NextLessee
	}
	return info
}

// schedule starts a lease at the height or queues one behind the current
// lease.
func (l *Lease) schedule(height int32, period int16, lessee ID) {
	if l.CurrentFrom == math.MaxInt32 {
		l.CurrentFrom = height
		l.CurrentTo = height + int32(period)
		l.CurrentLessee = lessee
		l.NextFrom = math.MaxInt32
		return
	}

	l.NextFrom = max(height, l.CurrentTo)
	l.NextTo = l.NextFrom + int32(period)
	l.NextLessee = lessee
}

// =============================================================================

// LeaseEffectiveBalance delegates the lessor's stake to the lessee starting
// EffectiveBalanceConfirmations blocks after the current height.
func (db *Database) LeaseEffectiveBalance(lessorID ID, lesseeID ID, period int16) {
	lessee, exists := db.QueryAccount(lesseeID)
	if !exists || lessee.PublicKey() == nil {
		return
	}

	lessor, exists := db.QueryAccount(lessorID)
	if !exists {
		return
	}

	db.mu.Lock()
	db.leasing[lessorID] = struct{}{}
	db.mu.Unlock()

	lessor.Lease.schedule(db.Height()+EffectiveBalanceConfirmations, period, lesseeID)
}

// startLease registers the lessor with its current lessee.
func (db *Database) startLease(lessor *Account) {
	if lessee, exists := db.QueryAccount(lessor.Lease.CurrentLessee); exists {
		lessee.Lease.lessors[lessor.ID] = struct{}{}
	}
}

// stopLease ends the current lease and promotes the queued one.
func (db *Database) stopLease(lessor *Account, height int32) {
	l := &lessor.Lease

	if lessee, exists := db.QueryAccount(l.CurrentLessee); exists {
		delete(lessee.Lease.lessors, lessor.ID)
	}

	// CurrentTo is kept so the account leaves the leasing set one
	// confirmation window later.
	if l.NextFrom == math.MaxInt32 {
		l.CurrentFrom = math.MaxInt32
		l.CurrentLessee = 0
		return
	}

	l.CurrentFrom = l.NextFrom
	l.CurrentTo = l.NextTo
	l.CurrentLessee = l.NextLessee
	l.NextFrom = math.MaxInt32
	l.NextTo = 0
	l.NextLessee = 0

	if l.CurrentFrom == height {
		db.startLease(lessor)
	}
}

// =============================================================================

// LeaseTracker activates and expires leases as blocks are applied.
type LeaseTracker struct {
	db *Database
}

// NewLeaseTracker constructs a tracker for the accounts in the database.
func NewLeaseTracker(db *Database) *LeaseTracker {
	return &LeaseTracker{db: db}
}

// BeforeApply implements the block observer interface.
func (lt *LeaseTracker) BeforeApply(block *Block) {}

// AfterApply starts and stops the leases scheduled at the block height.
func (lt *LeaseTracker) AfterApply(block *Block) {
	db := lt.db
	height := block.Height

	db.mu.RLock()
	ids := make([]ID, 0, len(db.leasing))
	for id := range db.leasing {
		ids = append(ids, id)
	}
	db.mu.RUnlock()

	for _, id := range ids {
		lessor, exists := db.QueryAccount(id)
		if !exists {
			continue
		}

		l := &lessor.Lease
		switch height {
		case l.CurrentFrom:
			db.startLease(lessor)

		case l.CurrentTo:
			db.stopLease(lessor, height)

		case l.CurrentTo + EffectiveBalanceConfirmations:
			db.mu.Lock()
			delete(db.leasing, id)
			db.mu.Unlock()
		}
	}
}
