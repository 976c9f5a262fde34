package database

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

// Transaction is a signed transfer of value or data from a sender. It
// records the block it was connected to once it is in the chain.
type Transaction struct {
	Kind                          TxKind
	Timestamp                     int32
	Deadline                      int16
	SenderPublicKey               []byte
	RecipientID                   ID
	AmountNQT                     int64
	FeeNQT                        int64
	ReferencedTransactionFullHash []byte
	Signature                     []byte
	Attachment                    Attachment

	BlockID        ID
	Height         int32
	BlockTimestamp int32

	nqt      bool
	id       ID
	fullHash []byte
	senderID ID
}

// Seal validates the fields of the transaction and derives its identity
// from the byte layout selected by nqt.
func (tx *Transaction) Seal(creatorPublicKey []byte, nqt bool) error {
	if len(tx.SenderPublicKey) != signature.PublicKeyLength {
		return NewValidationError("invalid sender public key length %d", len(tx.SenderPublicKey))
	}

	if tx.ReferencedTransactionFullHash != nil && len(tx.ReferencedTransactionFullHash) != signature.HashLength {
		return NewValidationError("invalid referenced transaction full hash length")
	}

	if tx.Timestamp == 0 && bytes.Equal(tx.SenderPublicKey, creatorPublicKey) {
		if tx.Deadline != 0 || tx.FeeNQT != 0 {
			return NewValidationError("invalid genesis transaction deadline or fee")
		}
	} else if tx.Deadline < 1 || tx.FeeNQT < OneNxt {
		return NewValidationError("invalid transaction deadline %d or fee %d", tx.Deadline, tx.FeeNQT)
	}

	if tx.FeeNQT > MaxBalanceNQT || tx.AmountNQT < 0 || tx.AmountNQT > MaxBalanceNQT {
		return NewValidationError("invalid transaction amount %d or fee %d", tx.AmountNQT, tx.FeeNQT)
	}

	if tx.Attachment != nil && tx.Attachment.Kind() != tx.Kind {
		return NewValidationError("attachment %s does not match transaction %s", tx.Attachment.Kind(), tx.Kind)
	}

	if tx.BlockID == 0 {
		tx.Height = unconnectedHeight
	}

	tx.nqt = nqt
	tx.senderID = PublicKeyToAccountID(tx.SenderPublicKey)

	hash := signature.Hash(tx.Bytes())
	tx.fullHash = hash
	tx.id = ID(signature.ToID(hash))

	return nil
}

// Sign signs the transaction with the sender key and reseals it.
func (tx *Transaction) Sign(creatorPublicKey []byte, privateKey []byte, nqt bool) error {
	if len(privateKey) != 64 {
		return errors.New("invalid private key")
	}

	tx.Signature = nil
	tx.nqt = nqt
	tx.Signature = signature.Sign(tx.UnsignedBytes(), privateKey)

	return tx.Seal(creatorPublicKey, nqt)
}

// ID returns the identifier derived from the transaction bytes.
func (tx *Transaction) ID() ID {
	return tx.id
}

// FullHash returns the hash of the transaction bytes.
func (tx *Transaction) FullHash() []byte {
	return tx.fullHash
}

// SenderID returns the account owning the sender public key.
func (tx *Transaction) SenderID() ID {
	return tx.senderID
}

// UseNQT reports whether the transaction uses the NQT byte layout.
func (tx *Transaction) UseNQT() bool {
	return tx.nqt
}

// Expiration returns the timestamp after which the transaction is invalid.
func (tx *Transaction) Expiration() int32 {
	return tx.Timestamp + int32(tx.Deadline)*60
}

// ReferencedTransactionID returns the id of the referenced transaction.
func (tx *Transaction) ReferencedTransactionID() ID {
	if tx.ReferencedTransactionFullHash == nil {
		return 0
	}
	return ID(signature.ToID(tx.ReferencedTransactionFullHash))
}

// IsGenesis reports whether the transaction is a seed allocation.
func (tx *Transaction) IsGenesis(creatorID ID) bool {
	return tx.Timestamp == 0 && tx.senderID == creatorID
}

// String implements the fmt.Stringer interface.
func (tx *Transaction) String() string {
	return fmt.Sprintf("%s:%s", tx.Kind, tx.id)
}

// Size returns the length of the transaction bytes.
func (tx *Transaction) Size() int {
	return len(tx.Bytes())
}

// Bytes returns the byte form used for hashing and signing.
func (tx *Transaction) Bytes() []byte {
	return tx.encode(false)
}

// UnsignedBytes returns the byte form with the signature zeroed, which is
// what the sender signs.
func (tx *Transaction) UnsignedBytes() []byte {
	return tx.encode(true)
}

func (tx *Transaction) encode(zeroSignature bool) []byte {
	b := make([]byte, 0, 160)

	b = append(b, tx.Kind.Type, tx.Kind.Subtype)
	b = binary.LittleEndian.AppendUint32(b, uint32(tx.Timestamp))
	b = binary.LittleEndian.AppendUint16(b, uint16(tx.Deadline))
	b = append(b, fixed(tx.SenderPublicKey, signature.PublicKeyLength)...)
	b = binary.LittleEndian.AppendUint64(b, uint64(tx.RecipientID))

	if tx.nqt {
		b = binary.LittleEndian.AppendUint64(b, uint64(tx.AmountNQT))
		b = binary.LittleEndian.AppendUint64(b, uint64(tx.FeeNQT))
		b = append(b, fixed(tx.ReferencedTransactionFullHash, signature.HashLength)...)
	} else {
		b = binary.LittleEndian.AppendUint32(b, uint32(tx.AmountNQT/OneNxt))
		b = binary.LittleEndian.AppendUint32(b, uint32(tx.FeeNQT/OneNxt))
		b = binary.LittleEndian.AppendUint64(b, uint64(tx.ReferencedTransactionID()))
	}

	if zeroSignature {
		b = append(b, make([]byte, signature.SignatureLength)...)
	} else {
		b = append(b, fixed(tx.Signature, signature.SignatureLength)...)
	}

	if tx.Attachment != nil {
		b = append(b, tx.Attachment.Bytes()...)
	}

	return b
}

// fixed returns the value padded or cut to the specified length.
func fixed(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}
