package state

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
	"github.com/libertyswede/nxtnode/foundation/blockchain/txtype"
)

// Limits on the chain of referenced transactions.
const (
	maxReferencedAge   = 60 * 60 * 24 * 60
	maxReferencedDepth = 10
)

// expirationExemptHeight is the one height whose block carries expired
// transactions.
const expirationExemptHeight = 303

// ErrTransactionRejected is returned for an unconfirmed transaction that
// can not enter the pool.
var ErrTransactionRejected = errors.New("transaction rejected")

// =============================================================================

// unconfirmedScope tracks the transactions provisionally reserved while a
// block is verified. Whatever is still tracked when the scope is released
// gets its reservation undone.
type unconfirmedScope struct {
	dispatcher *txtype.Dispatcher
	applied    []*database.Transaction
	senders    []*database.Account
}

// apply reserves the transaction and tracks it on success.
func (us *unconfirmedScope) apply(tx *database.Transaction, sender *database.Account) (bool, error) {
	applied, err := us.dispatcher.ApplyUnconfirmed(tx, sender)
	if err != nil || !applied {
		return false, err
	}

	us.applied = append(us.applied, tx)
	us.senders = append(us.senders, sender)
	return true, nil
}

// commit keeps every reservation made so far.
func (us *unconfirmedScope) commit() {
	us.applied = nil
	us.senders = nil
}

// release undoes the reservations that were not committed, newest first.
func (us *unconfirmedScope) release() error {
	var errs []error
	for i := len(us.applied) - 1; i >= 0; i-- {
		if err := us.dispatcher.UndoUnconfirmed(us.applied[i], us.senders[i]); err != nil {
			errs = append(errs, err)
		}
	}
	us.commit()

	return errors.Join(errs...)
}

// =============================================================================

// verifyTransactions checks every transaction of the block against the chain
// and the block totals. On success the unconfirmed balances keep the
// reservations of the block, otherwise they are left untouched.
func (s *State) verifyTransactions(block *database.Block, previous *database.Block, now int32) (err error) {
	scope := unconfirmedScope{dispatcher: s.dispatcher}
	defer func() {
		if rerr := scope.release(); rerr != nil && err == nil {
			err = fmt.Errorf("release unconfirmed: %w", rerr)
		}
	}()

	duplicates := txtype.Duplicates{}
	hasher := signature.NewHasher()

	var amount, fee int64
	var length int

	for _, tx := range block.Transactions {
		if err := s.verifyTransaction(tx, block, previous, now, duplicates); err != nil {
			return err
		}

		sender, _ := s.db.QueryAccount(tx.SenderID())

		applied, err := scope.apply(tx, sender)
		if err != nil {
			return &database.TransactionNotAcceptedError{Tx: tx, Err: err}
		}
		if !applied {
			return &database.TransactionNotAcceptedError{Tx: tx, Err: database.ErrDoubleSpending}
		}

		data := tx.Bytes()
		hasher.Write(data)
		length += len(data)
		amount += tx.AmountNQT
		fee += tx.FeeNQT
	}

	if amount != block.TotalAmountNQT || fee != block.TotalFeeNQT {
		return database.NotAcceptedf("total amount or fee don't match transaction totals")
	}

	if length > database.MaxPayloadLength {
		return database.NotAcceptedf("payload length %d exceeds the maximum", length)
	}

	if !bytes.Equal(hasher.Sum(), block.PayloadHash) {
		return database.NotAcceptedf("payload hash doesn't match")
	}

	scope.commit()

	return nil
}

// verifyTransaction runs the per transaction checks in order.
func (s *State) verifyTransaction(tx *database.Transaction, block *database.Block, previous *database.Block, now int32, duplicates txtype.Duplicates) error {
	reject := func(format string, args ...any) error {
		return &database.TransactionNotAcceptedError{Tx: tx, Err: fmt.Errorf(format, args...)}
	}

	if tx.Timestamp > now+15 || tx.Timestamp > block.Timestamp+15 ||
		(tx.Expiration() < block.Timestamp && previous.Height != expirationExemptHeight) {
		return reject("invalid transaction timestamp %d, current time is %d, block timestamp is %d", tx.Timestamp, now, block.Timestamp)
	}

	if tx.ID() == 0 {
		return reject("invalid transaction id")
	}

	if s.db.HasTransaction(tx.ID()) {
		return reject("transaction is already in the blockchain")
	}

	if !s.hasReferencedTransactions(tx, previous) {
		return reject("missing or invalid referenced transaction %x", tx.ReferencedTransactionFullHash)
	}

	if !s.verifySignature(tx) {
		return reject("signature verification failed at height %d", previous.Height)
	}

	if s.dispatcher.IsDuplicate(tx, duplicates) {
		return reject("transaction is a duplicate")
	}

	if err := s.dispatcher.Validate(tx); err != nil {
		return &database.TransactionNotAcceptedError{Tx: tx, Err: err}
	}

	return nil
}

// hasReferencedTransactions checks the referenced transaction exists. Once
// full hashes are in use, the whole chain of references must be stored and
// end within the age and depth limits.
func (s *State) hasReferencedTransactions(tx *database.Transaction, previous *database.Block) bool {
	if tx.ReferencedTransactionFullHash == nil {
		return true
	}

	if previous.Height < s.genesis.Eras.ReferencedTransactionFullHashBlock {
		return s.db.HasTransaction(tx.ReferencedTransactionID())
	}

	timestamp := tx.Timestamp
	for count := 0; ; count++ {
		if tx.ReferencedTransactionFullHash == nil {
			return timestamp-tx.Timestamp < maxReferencedAge && count < maxReferencedDepth
		}

		ref, err := s.db.TransactionByFullHash(tx.ReferencedTransactionFullHash)
		if err != nil {
			return false
		}
		tx = ref
	}
}

// verifySignature checks the sender signed the transaction and binds the
// sender key to the account.
func (s *State) verifySignature(tx *database.Transaction) bool {
	account, exists := s.db.QueryAccount(tx.SenderID())
	if !exists || tx.Signature == nil {
		return false
	}

	if !signature.Verify(tx.Signature, tx.UnsignedBytes(), tx.SenderPublicKey, tx.UseNQT()) {
		return false
	}

	return account.SetAndVerifyPublicKey(tx.SenderPublicKey, tx.Height)
}

// =============================================================================

// ParseTransaction converts a transaction received from a peer or a wallet.
// The layout follows the current height of the chain.
func (s *State) ParseTransaction(wire protocol.Transaction) (*database.Transaction, error) {
	return wire.ToTransaction(s.dispatcher, s.db.CreatorPublicKey(), s.db.UseNQT())
}

// SubmitTransaction accepts a transaction from a wallet into the pool and
// shares it with the peers.
func (s *State) SubmitTransaction(tx *database.Transaction) error {
	if err := s.validateUnconfirmed(tx); err != nil {
		return err
	}

	if _, err := s.mempool.Upsert(tx); err != nil {
		return err
	}

	if s.Worker != nil {
		s.Worker.SignalShareTx(tx)
	}

	return nil
}

// ProcessTransactions accepts transactions sent by a peer into the pool.
// Invalid transactions are skipped. It returns how many were added.
func (s *State) ProcessTransactions(wire []protocol.Transaction) int {
	var added int
	for _, wtx := range wire {
		tx, err := s.ParseTransaction(wtx)
		if err != nil {
			s.evHandler("state: ProcessTransactions: parse: ERROR: %s", err)
			continue
		}

		if s.mempool.Contains(tx.ID()) {
			continue
		}

		if err := s.validateUnconfirmed(tx); err != nil {
			s.evHandler("state: ProcessTransactions: tx[%s]: %s", tx, err)
			continue
		}

		if _, err := s.mempool.Upsert(tx); err != nil {
			continue
		}
		added++
	}

	return added
}

// validateUnconfirmed checks a transaction may wait in the pool. Nothing
// in the ledger is changed.
func (s *State) validateUnconfirmed(tx *database.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reject := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrTransactionRejected, tx, fmt.Sprintf(format, args...))
	}

	now := s.now()
	if tx.Timestamp > now+15 || tx.Expiration() < now {
		return reject("invalid timestamp %d, current time is %d", tx.Timestamp, now)
	}

	if s.db.HasTransaction(tx.ID()) {
		return reject("already in the blockchain")
	}

	if !signature.Verify(tx.Signature, tx.UnsignedBytes(), tx.SenderPublicKey, tx.UseNQT()) {
		return reject("signature verification failed")
	}

	sender, exists := s.db.QueryAccount(tx.SenderID())
	if !exists {
		return reject("unknown sender account")
	}

	if key := sender.PublicKey(); key != nil && !bytes.Equal(key, tx.SenderPublicKey) {
		return reject("sender public key mismatch")
	}

	if sender.Unconfirmed() < tx.AmountNQT+tx.FeeNQT {
		return reject("not enough funds")
	}

	if err := s.dispatcher.Validate(tx); err != nil {
		return reject("%v", err)
	}

	return nil
}
