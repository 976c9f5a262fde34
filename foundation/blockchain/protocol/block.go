package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// AttachmentLoader reads an attachment from its JSON form.
type AttachmentLoader interface {
	LoadAttachment(kind database.TxKind, raw json.RawMessage) (database.Attachment, error)
}

// =============================================================================

// Transaction is the wire form of a transaction.
type Transaction struct {
	Type                          uint8           `json:"type"`
	Subtype                       uint8           `json:"subtype"`
	Timestamp                     int32           `json:"timestamp"`
	Deadline                      int16           `json:"deadline"`
	SenderPublicKey               Hex             `json:"senderPublicKey" validate:"len=32"`
	Recipient                     database.ID     `json:"recipient"`
	AmountNQT                     int64           `json:"amountNQT"`
	FeeNQT                        int64           `json:"feeNQT"`
	ReferencedTransactionFullHash Hex             `json:"referencedTransactionFullHash,omitempty"`
	Signature                     Hex             `json:"signature" validate:"len=64"`
	Attachment                    json.RawMessage `json:"attachment,omitempty"`
}

// NewTransaction constructs the wire form of the transaction.
func NewTransaction(tx *database.Transaction) (Transaction, error) {
	var attachment json.RawMessage
	if tx.Attachment != nil {
		data, err := json.Marshal(tx.Attachment)
		if err != nil {
			return Transaction{}, fmt.Errorf("attachment of %s: %w", tx, err)
		}
		attachment = data
	}

	return Transaction{
		Type:                          tx.Kind.Type,
		Subtype:                       tx.Kind.Subtype,
		Timestamp:                     tx.Timestamp,
		Deadline:                      tx.Deadline,
		SenderPublicKey:               tx.SenderPublicKey,
		Recipient:                     tx.RecipientID,
		AmountNQT:                     tx.AmountNQT,
		FeeNQT:                        tx.FeeNQT,
		ReferencedTransactionFullHash: tx.ReferencedTransactionFullHash,
		Signature:                     tx.Signature,
		Attachment:                    attachment,
	}, nil
}

// NewTransactions constructs the wire form of each transaction.
func NewTransactions(trans []*database.Transaction) ([]Transaction, error) {
	out := make([]Transaction, len(trans))
	for i, tx := range trans {
		wtx, err := NewTransaction(tx)
		if err != nil {
			return nil, err
		}
		out[i] = wtx
	}

	return out, nil
}

// ToTransaction parses and seals the transaction. The byte layout is
// selected by nqt.
func (t Transaction) ToTransaction(loader AttachmentLoader, creatorPublicKey []byte, nqt bool) (*database.Transaction, error) {
	kind := database.TxKind{Type: t.Type, Subtype: t.Subtype}

	attachment, err := loader.LoadAttachment(kind, t.Attachment)
	if err != nil {
		return nil, err
	}

	tx := database.Transaction{
		Kind:                          kind,
		Timestamp:                     t.Timestamp,
		Deadline:                      t.Deadline,
		SenderPublicKey:               t.SenderPublicKey,
		RecipientID:                   t.Recipient,
		AmountNQT:                     t.AmountNQT,
		FeeNQT:                        t.FeeNQT,
		ReferencedTransactionFullHash: t.ReferencedTransactionFullHash,
		Signature:                     t.Signature,
		Attachment:                    attachment,
	}

	if err := tx.Seal(creatorPublicKey, nqt); err != nil {
		return nil, err
	}

	return &tx, nil
}

// =============================================================================

// Block is the wire form of a block.
type Block struct {
	Version             int32         `json:"version"`
	Timestamp           int32         `json:"timestamp"`
	PreviousBlock       database.ID   `json:"previousBlock,omitempty"`
	TotalAmountNQT      int64         `json:"totalAmountNQT"`
	TotalFeeNQT         int64         `json:"totalFeeNQT"`
	PayloadLength       int32         `json:"payloadLength"`
	PayloadHash         Hex           `json:"payloadHash"`
	GeneratorPublicKey  Hex           `json:"generatorPublicKey"`
	GenerationSignature Hex           `json:"generationSignature"`
	PreviousBlockHash   Hex           `json:"previousBlockHash,omitempty"`
	BlockSignature      Hex           `json:"blockSignature"`
	Transactions        []Transaction `json:"transactions"`
}

// NewBlock constructs the wire form of the block.
func NewBlock(block *database.Block) (Block, error) {
	trans, err := NewTransactions(block.Transactions)
	if err != nil {
		return Block{}, fmt.Errorf("block %s: %w", block.ID(), err)
	}

	return Block{
		Version:             block.Version,
		Timestamp:           block.Timestamp,
		PreviousBlock:       block.PreviousBlockID,
		TotalAmountNQT:      block.TotalAmountNQT,
		TotalFeeNQT:         block.TotalFeeNQT,
		PayloadLength:       block.PayloadLength,
		PayloadHash:         block.PayloadHash,
		GeneratorPublicKey:  block.GeneratorPublicKey,
		GenerationSignature: block.GenerationSignature,
		PreviousBlockHash:   block.PreviousBlockHash,
		BlockSignature:      block.BlockSignature,
		Transactions:        trans,
	}, nil
}

// ToBlock parses and seals the block and its transactions. The block is not
// connected to the chain.
func (b Block) ToBlock(loader AttachmentLoader, creatorPublicKey []byte, nqt bool) (*database.Block, error) {
	if len(b.Transactions) > database.MaxNumberOfTransactions {
		return nil, database.NewValidationError("too many transactions: %d", len(b.Transactions))
	}

	trans := make([]*database.Transaction, len(b.Transactions))
	for i, wtx := range b.Transactions {
		tx, err := wtx.ToTransaction(loader, creatorPublicKey, nqt)
		if err != nil {
			return nil, fmt.Errorf("tx %d: %w", i, err)
		}
		trans[i] = tx
	}

	block := database.Block{
		Version:             b.Version,
		Timestamp:           b.Timestamp,
		PreviousBlockID:     b.PreviousBlock,
		PreviousBlockHash:   b.PreviousBlockHash,
		TotalAmountNQT:      b.TotalAmountNQT,
		TotalFeeNQT:         b.TotalFeeNQT,
		PayloadLength:       b.PayloadLength,
		PayloadHash:         b.PayloadHash,
		GeneratorPublicKey:  b.GeneratorPublicKey,
		GenerationSignature: b.GenerationSignature,
		BlockSignature:      b.BlockSignature,
		Transactions:        trans,
	}
	block.Seal()

	return &block, nil
}
