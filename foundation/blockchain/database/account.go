package database

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

// Account represents information stored in the database for an individual
// account.
type Account struct {
	ID        ID
	Height    int32 // Height the account was first seen at.
	publicKey []byte
	keyHeight int32

	Balance
	Lease Lease
}

// NewAccount constructs an account first seen at the specified height.
func NewAccount(id ID, height int32, chain Chain) *Account {
	return &Account{
		ID:     id,
		Height: height,
		Balance: Balance{
			accountID: id,
			chain:     chain,
		},
		Lease: newLease(),
	}
}

// PublicKeyToAccountID converts the public key to an account id.
func PublicKeyToAccountID(publicKey []byte) ID {
	return ID(signature.AccountID(publicKey))
}

// PublicKey returns the key bound to the account, nil until it is confirmed
// by a block.
func (a *Account) PublicKey() []byte {
	if a.keyHeight == -1 {
		return nil
	}
	return a.publicKey
}

// KeyHeight returns the height the public key was bound at. -1 means the key
// was seen but not yet confirmed.
func (a *Account) KeyHeight() int32 {
	return a.keyHeight
}

// SetAndVerifyPublicKey binds the key to the account or checks it matches
// the bound key. A different key may only replace the bound one when it is
// offered at a strictly earlier height, which happens when blocks are popped.
func (a *Account) SetAndVerifyPublicKey(key []byte, height int32) bool {
	switch {
	case a.publicKey == nil:
		a.publicKey = bytes.Clone(key)
		a.keyHeight = -1
		return true

	case bytes.Equal(a.publicKey, key):
		return true

	case a.keyHeight == -1:
		return false

	case a.keyHeight > height:
		a.publicKey = bytes.Clone(key)
		a.keyHeight = height
		return true
	}

	return false
}

// ApplyPublicKey confirms the key at the height of the block that uses it.
func (a *Account) ApplyPublicKey(key []byte, height int32) error {
	if !a.SetAndVerifyPublicKey(key, height) {
		return errors.New("generator public key mismatch")
	}

	if a.publicKey == nil {
		return errors.New("public key has not been set for account")
	}

	if a.keyHeight == -1 || a.keyHeight > height {
		a.keyHeight = height
	}

	return nil
}

// UndoPublicKey releases a key confirmed by a block that is being popped.
func (a *Account) UndoPublicKey(height int32) {
	if a.keyHeight == height {
		a.keyHeight = -1
	}
}

// EffectiveBalance returns the stake of the account in whole coins.
func (a *Account) EffectiveBalance() int64 {
	chain := a.chain
	height := chain.Height()
	eras := chain.Eras()

	// Keys revealed recently carry no stake.
	if height >= eras.TransparentForgingBlock6 {
		if a.PublicKey() == nil || height-a.keyHeight <= EffectiveBalanceConfirmations {
			return 0
		}
	}

	if height < eras.TransparentForgingBlock3 && a.Height < eras.TransparentForgingBlock2 {
		if a.Height == 0 {
			return a.confirmed / OneNxt
		}

		if height-a.Height < EffectiveBalanceConfirmations {
			return 0
		}

		var received int64
		if last := chain.LatestBlock(); last != nil {
			for _, tx := range last.Transactions {
				if tx.RecipientID == a.ID {
					received += tx.AmountNQT
				}
			}
		}

		return (a.confirmed - received) / OneNxt
	}

	lessors := a.lessorsGuaranteedBalance()
	if height < a.Lease.CurrentFrom {
		own, _ := a.GuaranteedBalance(EffectiveBalanceConfirmations)
		return (own + lessors) / OneNxt
	}

	return lessors / OneNxt
}

// lessorsGuaranteedBalance sums the stake leased to this account.
func (a *Account) lessorsGuaranteedBalance() int64 {
	var total int64
	for id := range a.Lease.lessors {
		lessor, exists := a.chain.QueryAccount(id)
		if !exists {
			continue
		}

		gb, _ := lessor.GuaranteedBalance(EffectiveBalanceConfirmations)
		total += gb
	}

	return total
}

// =============================================================================

// AccountInfo is a read only copy of an account.
type AccountInfo struct {
	ID               ID                  `json:"account"`
	Height           int32               `json:"height"`
	PublicKey        hexutil.Bytes       `json:"public_key,omitempty"`
	KeyHeight        int32               `json:"key_height"`
	BalanceNQT       int64               `json:"balance_nqt"`
	UnconfirmedNQT   int64               `json:"unconfirmed_balance_nqt"`
	ForgedNQT        int64               `json:"forged_balance_nqt"`
	EffectiveBalance int64               `json:"effective_balance_nxt"`
	Guaranteed       []GuaranteedBalance `json:"guaranteed_balances"`
	Lease            LeaseInfo           `json:"lease"`
}

// Info returns a copy of the account state.
func (a *Account) Info() AccountInfo {
	return AccountInfo{
		ID:               a.ID,
		Height:           a.Height,
		PublicKey:        bytes.Clone(a.PublicKey()),
		KeyHeight:        a.keyHeight,
		BalanceNQT:       a.confirmed,
		UnconfirmedNQT:   a.unconfirmed,
		ForgedNQT:        a.forged,
		EffectiveBalance: a.EffectiveBalance(),
		Guaranteed:       a.History(),
		Lease:            a.Lease.info(),
	}
}
