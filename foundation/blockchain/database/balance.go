package database

import (
	"sort"

	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
)

// Chain is the view of the blockchain an account needs to maintain its
// balance history.
type Chain interface {
	Height() int32
	Eras() genesis.Eras
	CreatorID() ID
	LatestBlock() *Block
	QueryAccount(id ID) (*Account, bool)
}

// GuaranteedBalance is the balance an account held at a height.
type GuaranteedBalance struct {
	Height  int32 `json:"height"`
	Balance int64 `json:"balance"`
	Dirty   bool  `json:"dirty"`
}

// Balance tracks the confirmed, unconfirmed and forged amounts of an account
// in NQT. Mutation is not synchronized, callers apply and pop blocks one at a
// time.
type Balance struct {
	accountID   ID
	chain       Chain
	confirmed   int64
	unconfirmed int64
	forged      int64
	guaranteed  []GuaranteedBalance
}

// Confirmed returns the confirmed balance.
func (b *Balance) Confirmed() int64 {
	return b.confirmed
}

// Unconfirmed returns the balance minus everything pending.
func (b *Balance) Unconfirmed() int64 {
	return b.unconfirmed
}

// Forged returns the total fees collected forging blocks.
func (b *Balance) Forged() int64 {
	return b.forged
}

// History returns a copy of the guaranteed balance entries.
func (b *Balance) History() []GuaranteedBalance {
	return append([]GuaranteedBalance(nil), b.guaranteed...)
}

// AddToConfirmed applies the delta to the confirmed balance.
func (b *Balance) AddToConfirmed(amount int64) error {
	b.confirmed += amount
	if err := b.addToGuaranteed(amount); err != nil {
		return err
	}
	return b.check()
}

// AddToUnconfirmed applies the delta to the unconfirmed balance.
func (b *Balance) AddToUnconfirmed(amount int64) error {
	if amount == 0 {
		return nil
	}

	b.unconfirmed += amount
	return b.check()
}

// AddToBoth applies the delta to the confirmed and unconfirmed balances.
func (b *Balance) AddToBoth(amount int64) error {
	b.confirmed += amount
	b.unconfirmed += amount
	if err := b.addToGuaranteed(amount); err != nil {
		return err
	}
	return b.check()
}

// AddToForged applies the delta to the forged balance.
func (b *Balance) AddToForged(amount int64) {
	b.forged += amount
}

// GuaranteedBalance returns the balance the account held at least the
// specified number of confirmations ago.
func (b *Balance) GuaranteedBalance(confirmations int32) (int64, error) {
	height := b.chain.Height()
	if confirmations >= height {
		return 0, nil
	}

	if confirmations < 0 || confirmations > MaxTrackedBalanceConfirmations {
		return 0, ErrConfirmationsOutOfRange
	}

	if len(b.guaranteed) == 0 {
		return 0, nil
	}

	target := height - confirmations
	i := sort.Search(len(b.guaranteed), func(i int) bool {
		return b.guaranteed[i].Height > target
	}) - 1
	if i < 0 {
		return 0, nil
	}

	for b.guaranteed[i].Dirty && i > 0 {
		i--
	}

	gb := b.guaranteed[i]
	if gb.Dirty || gb.Balance < 0 {
		return 0, nil
	}

	return gb.Balance, nil
}

// check enforces the balance invariants. The genesis creator is exempt
// since it funds every seed allocation.
func (b *Balance) check() error {
	if b.accountID == b.chain.CreatorID() {
		return nil
	}

	fail := func(reason string) error {
		return &DoubleSpendingError{
			AccountID:   b.accountID,
			Confirmed:   b.confirmed,
			Unconfirmed: b.unconfirmed,
			Reason:      reason,
		}
	}

	switch {
	case b.confirmed < 0:
		return fail("negative balance")
	case b.unconfirmed < 0:
		return fail("negative unconfirmed balance")
	case b.unconfirmed > b.confirmed:
		return fail("unconfirmed balance exceeds balance")
	}

	return nil
}

// addToGuaranteed keeps the guaranteed balance history in step with a
// change to the confirmed balance at the current chain height.
func (b *Balance) addToGuaranteed(amount int64) error {
	height := b.chain.Height()
	eras := b.chain.Eras()
	count := len(b.guaranteed)

	// A last entry above the chain height means its block is being popped.
	if count > 0 && b.guaranteed[count-1].Height > height {
		if amount > 0 {
			for i := range b.guaranteed {
				b.guaranteed[i].Balance += amount
			}
		}
		b.guaranteed[count-1].Dirty = true
		return nil
	}

	floor := height - MaxTrackedBalanceConfirmations
	trimTo := 0

	for i := range b.guaranteed {
		gb := &b.guaranteed[i]

		if gb.Height < floor && i < count-1 && b.guaranteed[i+1].Height >= floor {
			trimTo = i
			switch {
			case height >= eras.TransparentForgingBlock4 && height < eras.TransparentForgingBlock5:
				gb.Balance += amount
			case height >= eras.TransparentForgingBlock5 && amount < 0:
				gb.Balance += amount
			}
			continue
		}

		if amount < 0 {
			gb.Balance += amount
		}
	}

	if trimTo > 0 {
		b.guaranteed = b.guaranteed[trimTo:]
	}

	count = len(b.guaranteed)
	switch {
	case count == 0 || b.guaranteed[count-1].Height < height:
		b.guaranteed = append(b.guaranteed, GuaranteedBalance{Height: height, Balance: b.confirmed})

	case b.guaranteed[count-1].Height == height:
		b.guaranteed[count-1].Balance = b.confirmed
		b.guaranteed[count-1].Dirty = false

	default:
		return ErrGuaranteedBalanceCorrupt
	}

	return nil
}
