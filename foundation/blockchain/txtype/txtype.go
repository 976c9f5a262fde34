// Package txtype dispatches the validation and ledger effects of a
// transaction on its type and subtype.
package txtype

import (
	"encoding/json"
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
)

// Ledger is the account, alias and lease state the transaction kinds act
// on.
type Ledger interface {
	Eras() genesis.Eras
	CreatorID() database.ID
	QueryAccount(id database.ID) (*database.Account, bool)
	AliasByName(name string) (database.Alias, bool)
	SetAlias(account *database.Account, tx *database.Transaction, name string, uri string, timestamp int32)
	RemoveAlias(name string)
	LeaseEffectiveBalance(lessorID database.ID, lesseeID database.ID, period int16)
}

// Duplicates collects the claims already made by the transactions of one
// block, per kind.
type Duplicates map[database.TxKind]map[string]struct{}

// claim records the key for the kind and reports whether it was already
// claimed.
func (d Duplicates) claim(kind database.TxKind, key string) bool {
	keys, exists := d[kind]
	if !exists {
		keys = make(map[string]struct{})
		d[kind] = keys
	}

	if _, exists := keys[key]; exists {
		return true
	}
	keys[key] = struct{}{}
	return false
}

// handler is the behavior table of one transaction kind. A nil hook has no
// effect.
type handler struct {
	loadJSON         func(raw json.RawMessage) (database.Attachment, error)
	validate         func(tx *database.Transaction) error
	applyUnconfirmed func(tx *database.Transaction, sender *database.Account) bool
	apply            func(tx *database.Transaction, sender *database.Account, recipient *database.Account) error
	undoUnconfirmed  func(tx *database.Transaction, sender *database.Account)
	undo             func(tx *database.Transaction, sender *database.Account, recipient *database.Account) error
	checkUndo        func(tx *database.Transaction) error
	isDuplicate      func(tx *database.Transaction, duplicates Duplicates) bool
}

// =============================================================================

// Dispatcher routes each transaction to the handler of its kind.
type Dispatcher struct {
	ledger   Ledger
	handlers map[database.TxKind]handler
}

// New constructs a dispatcher over the closed set of supported kinds.
func New(ledger Ledger) *Dispatcher {
	d := Dispatcher{ledger: ledger}

	d.handlers = map[database.TxKind]handler{
		database.KindOrdinaryPayment:         d.ordinaryPayment(),
		database.KindArbitraryMessage:        d.arbitraryMessage(),
		database.KindAliasAssignment:         d.aliasAssignment(),
		database.KindEffectiveBalanceLeasing: d.effectiveBalanceLeasing(),
	}

	return &d
}

// Supported reports whether the kind is known.
func (d *Dispatcher) Supported(kind database.TxKind) bool {
	_, exists := d.handlers[kind]
	return exists
}

func (d *Dispatcher) handler(kind database.TxKind) (handler, error) {
	h, exists := d.handlers[kind]
	if !exists {
		return handler{}, database.NewValidationError("unknown transaction kind %s", kind)
	}
	return h, nil
}

// LoadAttachment reads the attachment of the kind from its JSON form.
func (d *Dispatcher) LoadAttachment(kind database.TxKind, raw json.RawMessage) (database.Attachment, error) {
	h, err := d.handler(kind)
	if err != nil {
		return nil, err
	}

	if h.loadJSON == nil {
		return nil, nil
	}

	attachment, err := h.loadJSON(raw)
	if err != nil {
		return nil, database.NewValidationError("invalid %s attachment: %v", kind, err)
	}
	return attachment, nil
}

// Validate checks the kind specific rules of the transaction.
func (d *Dispatcher) Validate(tx *database.Transaction) error {
	h, err := d.handler(tx.Kind)
	if err != nil {
		return err
	}

	if h.loadJSON != nil && tx.Attachment == nil {
		return database.NewValidationError("missing %s attachment", tx.Kind)
	}

	if h.validate == nil {
		return nil
	}
	return h.validate(tx)
}

// IsDuplicate reports whether the transaction claims something another
// transaction of the same block already claimed.
func (d *Dispatcher) IsDuplicate(tx *database.Transaction, duplicates Duplicates) bool {
	h, err := d.handler(tx.Kind)
	if err != nil || h.isDuplicate == nil {
		return false
	}
	return h.isDuplicate(tx, duplicates)
}

// =============================================================================

// ApplyUnconfirmed reserves the amount, fee and pool deposit from the
// unconfirmed balance of the sender. It returns false when the sender can not
// cover them, leaving the balance untouched.
func (d *Dispatcher) ApplyUnconfirmed(tx *database.Transaction, sender *database.Account) (bool, error) {
	h, err := d.handler(tx.Kind)
	if err != nil {
		return false, err
	}

	total := tx.AmountNQT + tx.FeeNQT
	if d.usePoolDeposit(tx) {
		total += d.ledger.Eras().UnconfirmedPoolDepositNQT
	}

	if sender.Unconfirmed() < total && !tx.IsGenesis(d.ledger.CreatorID()) {
		return false, nil
	}

	if err := sender.AddToUnconfirmed(-total); err != nil {
		return false, err
	}

	if h.applyUnconfirmed != nil && !h.applyUnconfirmed(tx, sender) {
		if err := sender.AddToUnconfirmed(total); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

// UndoUnconfirmed releases what ApplyUnconfirmed reserved.
func (d *Dispatcher) UndoUnconfirmed(tx *database.Transaction, sender *database.Account) error {
	h, err := d.handler(tx.Kind)
	if err != nil {
		return err
	}

	total := tx.AmountNQT + tx.FeeNQT
	if d.usePoolDeposit(tx) {
		total += d.ledger.Eras().UnconfirmedPoolDepositNQT
	}

	if err := sender.AddToUnconfirmed(total); err != nil {
		return err
	}

	if h.undoUnconfirmed != nil {
		h.undoUnconfirmed(tx, sender)
	}
	return nil
}

// Apply debits the sender, returns the pool deposit and applies the kind
// specific effect.
func (d *Dispatcher) Apply(tx *database.Transaction, sender *database.Account, recipient *database.Account) error {
	h, err := d.handler(tx.Kind)
	if err != nil {
		return err
	}

	if err := sender.AddToConfirmed(-(tx.AmountNQT + tx.FeeNQT)); err != nil {
		return fmt.Errorf("apply %s: %w", tx, err)
	}

	if d.usePoolDeposit(tx) {
		if err := sender.AddToUnconfirmed(d.ledger.Eras().UnconfirmedPoolDepositNQT); err != nil {
			return fmt.Errorf("apply %s: %w", tx, err)
		}
	}

	if h.apply == nil {
		return nil
	}
	return h.apply(tx, sender, recipient)
}

// CheckUndo reports ErrUndoNotSupported when the transaction can not be
// undone, without changing anything.
func (d *Dispatcher) CheckUndo(tx *database.Transaction) error {
	h, err := d.handler(tx.Kind)
	if err != nil {
		return err
	}

	if h.checkUndo == nil {
		return nil
	}
	return h.checkUndo(tx)
}

// Undo reverses Apply.
func (d *Dispatcher) Undo(tx *database.Transaction, sender *database.Account, recipient *database.Account) error {
	h, err := d.handler(tx.Kind)
	if err != nil {
		return err
	}

	if h.checkUndo != nil {
		if err := h.checkUndo(tx); err != nil {
			return err
		}
	}

	if err := sender.AddToConfirmed(tx.AmountNQT + tx.FeeNQT); err != nil {
		return fmt.Errorf("undo %s: %w", tx, err)
	}

	if d.usePoolDeposit(tx) {
		if err := sender.AddToUnconfirmed(-d.ledger.Eras().UnconfirmedPoolDepositNQT); err != nil {
			return fmt.Errorf("undo %s: %w", tx, err)
		}
	}

	if h.undo == nil {
		return nil
	}
	return h.undo(tx, sender, recipient)
}

// usePoolDeposit reports whether the sender leaves a deposit while the
// transaction is unconfirmed.
func (d *Dispatcher) usePoolDeposit(tx *database.Transaction) bool {
	return tx.ReferencedTransactionFullHash != nil && tx.Timestamp > d.ledger.Eras().ReferencedTransactionFullHashBlockTimestamp
}
