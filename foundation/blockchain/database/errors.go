package database

import (
	"errors"
	"fmt"
)

// Set of errors the consensus rules produce.
var (
	ErrBlockNotAccepted         = errors.New("block not accepted")
	ErrBlockOutOfOrder          = errors.New("block out of order")
	ErrDoubleSpending           = errors.New("double spending")
	ErrUndoNotSupported         = errors.New("undo not supported")
	ErrConfirmationsOutOfRange  = errors.New("number of confirmations out of range")
	ErrGuaranteedBalanceCorrupt = errors.New("guaranteed balance history is corrupt")
	ErrNotFound                 = errors.New("not found")
)

// NotAcceptedf constructs an error for a block that is permanently rejected.
func NotAcceptedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBlockNotAccepted, fmt.Sprintf(format, args...))
}

// OutOfOrderf constructs an error for a block that may only be premature.
// It matches both ErrBlockOutOfOrder and ErrBlockNotAccepted.
func OutOfOrderf(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrBlockOutOfOrder, ErrBlockNotAccepted, fmt.Sprintf(format, args...))
}

// =============================================================================

// TransactionNotAcceptedError rejects a transaction and the block holding it.
type TransactionNotAcceptedError struct {
	Tx  *Transaction
	Err error
}

// Error implements the error interface.
func (e *TransactionNotAcceptedError) Error() string {
	return fmt.Sprintf("transaction %s not accepted: %v", e.Tx.ID(), e.Err)
}

// Unwrap allows both the block rejection and the cause to be matched.
func (e *TransactionNotAcceptedError) Unwrap() []error {
	return []error{ErrBlockNotAccepted, e.Err}
}

// ValidationError is a semantic violation in a transaction attachment.
type ValidationError struct {
	Reason string
}

// NewValidationError constructs a validation error.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Reason
}

// DoubleSpendingError reports a broken balance invariant on an account.
type DoubleSpendingError struct {
	AccountID   ID
	Confirmed   int64
	Unconfirmed int64
	Reason      string
}

// Error implements the error interface.
func (e *DoubleSpendingError) Error() string {
	return fmt.Sprintf("double spending: account %s: %s: confirmed[%d] unconfirmed[%d]", e.AccountID, e.Reason, e.Confirmed, e.Unconfirmed)
}

// Is matches the double spending sentinel.
func (e *DoubleSpendingError) Is(target error) bool {
	return target == ErrDoubleSpending
}
