package database

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

// Block represents a group of transactions forged by one account.
type Block struct {
	Version             int32
	Timestamp           int32
	PreviousBlockID     ID
	PreviousBlockHash   []byte
	TotalAmountNQT      int64
	TotalFeeNQT         int64
	PayloadLength       int32
	PayloadHash         []byte
	GeneratorPublicKey  []byte
	GenerationSignature []byte
	BlockSignature      []byte
	Transactions        []*Transaction

	Height               int32
	BaseTarget           int64
	CumulativeDifficulty *big.Int

	id          ID
	hash        []byte
	generatorID ID
}

// BlockArgs holds what is needed to forge a new block.
type BlockArgs struct {
	Version             int32
	Timestamp           int32
	Previous            *Block
	Transactions        []*Transaction
	GeneratorPublicKey  []byte
	GenerationSignature []byte
}

// NewBlock constructs an unsigned block over the transactions, which are
// ordered by id.
func NewBlock(args BlockArgs) (*Block, error) {
	if len(args.Transactions) > MaxNumberOfTransactions {
		return nil, fmt.Errorf("too many transactions: %d", len(args.Transactions))
	}

	trans := append([]*Transaction(nil), args.Transactions...)
	sort.SliceStable(trans, func(i, j int) bool {
		return trans[i].ID() < trans[j].ID()
	})

	var amount, fee int64
	var length int
	hasher := signature.NewHasher()
	for _, tx := range trans {
		data := tx.Bytes()
		hasher.Write(data)
		length += len(data)
		amount += tx.AmountNQT
		fee += tx.FeeNQT
	}

	if length > MaxPayloadLength {
		return nil, fmt.Errorf("payload too large: %d", length)
	}

	block := Block{
		Version:              args.Version,
		Timestamp:            args.Timestamp,
		TotalAmountNQT:       amount,
		TotalFeeNQT:          fee,
		PayloadLength:        int32(length),
		PayloadHash:          hasher.Sum(),
		GeneratorPublicKey:   args.GeneratorPublicKey,
		GenerationSignature:  args.GenerationSignature,
		Transactions:         trans,
		CumulativeDifficulty: new(big.Int),
	}

	if args.Previous != nil {
		block.PreviousBlockID = args.Previous.ID()
		block.Height = args.Previous.Height + 1
		if block.Version > 1 {
			block.PreviousBlockHash = args.Previous.Hash()
		}
	}

	block.Seal()

	return &block, nil
}

// Sign signs the block with the generator key and reseals it.
func (b *Block) Sign(privateKey ed25519.PrivateKey) {
	b.BlockSignature = nil
	data := b.Bytes()
	b.BlockSignature = signature.Sign(data[:len(data)-signature.SignatureLength], privateKey)
	b.Seal()
}

// Seal derives the block identity from its bytes.
func (b *Block) Seal() {
	hash := signature.Hash(b.Bytes())
	b.hash = hash
	b.id = ID(signature.ToID(hash))
	b.generatorID = PublicKeyToAccountID(b.GeneratorPublicKey)
}

// ID returns the identifier derived from the block bytes.
func (b *Block) ID() ID {
	return b.id
}

// Hash returns the hash of the block bytes.
func (b *Block) Hash() []byte {
	return b.hash
}

// GeneratorID returns the account that forged the block.
func (b *Block) GeneratorID() ID {
	return b.generatorID
}

// ConnectTransactions stamps the block identity on its transactions.
func (b *Block) ConnectTransactions() {
	for _, tx := range b.Transactions {
		tx.BlockID = b.id
		tx.Height = b.Height
		tx.BlockTimestamp = b.Timestamp
	}
}

// DisconnectTransactions clears the block identity from its transactions.
func (b *Block) DisconnectTransactions() {
	for _, tx := range b.Transactions {
		tx.BlockID = 0
		tx.Height = unconnectedHeight
		tx.BlockTimestamp = 0
	}
}

// Bytes returns the byte form used for hashing and signing.
func (b *Block) Bytes() []byte {
	buf := make([]byte, 0, 232)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.Version))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.Timestamp))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(b.PreviousBlockID))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b.Transactions)))

	if b.Version < 3 {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(b.TotalAmountNQT/OneNxt))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(b.TotalFeeNQT/OneNxt))
	} else {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(b.TotalAmountNQT))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(b.TotalFeeNQT))
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.PayloadLength))
	buf = append(buf, fixed(b.PayloadHash, signature.HashLength)...)
	buf = append(buf, fixed(b.GeneratorPublicKey, signature.PublicKeyLength)...)
	buf = append(buf, b.GenerationSignature...)

	if b.Version > 1 {
		buf = append(buf, fixed(b.PreviousBlockHash, signature.HashLength)...)
	}

	buf = append(buf, fixed(b.BlockSignature, signature.SignatureLength)...)

	return buf
}

// =============================================================================

// BlockData represents what is serialized to disk.
type BlockData struct {
	Height               int32         `json:"height"`
	Version              int32         `json:"version"`
	Timestamp            int32         `json:"timestamp"`
	PreviousBlockID      ID            `json:"previous_block"`
	PreviousBlockHash    hexutil.Bytes `json:"previous_block_hash,omitempty"`
	TotalAmountNQT       int64         `json:"total_amount_nqt"`
	TotalFeeNQT          int64         `json:"total_fee_nqt"`
	PayloadLength        int32         `json:"payload_length"`
	PayloadHash          hexutil.Bytes `json:"payload_hash"`
	GeneratorPublicKey   hexutil.Bytes `json:"generator_public_key"`
	GenerationSignature  hexutil.Bytes `json:"generation_signature"`
	BlockSignature       hexutil.Bytes `json:"block_signature"`
	BaseTarget           int64         `json:"base_target"`
	CumulativeDifficulty *hexutil.Big  `json:"cumulative_difficulty"`
	Transactions         []TxData      `json:"transactions"`
}

// TxData represents a transaction as it is serialized to disk.
type TxData struct {
	Type                          uint8         `json:"type"`
	Subtype                       uint8         `json:"subtype"`
	Timestamp                     int32         `json:"timestamp"`
	Deadline                      int16         `json:"deadline"`
	SenderPublicKey               hexutil.Bytes `json:"sender_public_key"`
	RecipientID                   ID            `json:"recipient"`
	AmountNQT                     int64         `json:"amount_nqt"`
	FeeNQT                        int64         `json:"fee_nqt"`
	ReferencedTransactionFullHash hexutil.Bytes `json:"referenced_transaction_full_hash,omitempty"`
	Signature                     hexutil.Bytes `json:"signature"`
	Attachment                    hexutil.Bytes `json:"attachment,omitempty"`
}

// NewBlockData constructs block data from a block.
func NewBlockData(block *Block) BlockData {
	trans := make([]TxData, len(block.Transactions))
	for i, tx := range block.Transactions {
		var attachment []byte
		if tx.Attachment != nil {
			attachment = tx.Attachment.Bytes()
		}

		trans[i] = TxData{
			Type:                          tx.Kind.Type,
			Subtype:                       tx.Kind.Subtype,
			Timestamp:                     tx.Timestamp,
			Deadline:                      tx.Deadline,
			SenderPublicKey:               tx.SenderPublicKey,
			RecipientID:                   tx.RecipientID,
			AmountNQT:                     tx.AmountNQT,
			FeeNQT:                        tx.FeeNQT,
			ReferencedTransactionFullHash: tx.ReferencedTransactionFullHash,
			Signature:                     tx.Signature,
			Attachment:                    attachment,
		}
	}

	cd := block.CumulativeDifficulty
	if cd == nil {
		cd = new(big.Int)
	}

	return BlockData{
		Height:               block.Height,
		Version:              block.Version,
		Timestamp:            block.Timestamp,
		PreviousBlockID:      block.PreviousBlockID,
		PreviousBlockHash:    block.PreviousBlockHash,
		TotalAmountNQT:       block.TotalAmountNQT,
		TotalFeeNQT:          block.TotalFeeNQT,
		PayloadLength:        block.PayloadLength,
		PayloadHash:          block.PayloadHash,
		GeneratorPublicKey:   block.GeneratorPublicKey,
		GenerationSignature:  block.GenerationSignature,
		BlockSignature:       block.BlockSignature,
		BaseTarget:           block.BaseTarget,
		CumulativeDifficulty: (*hexutil.Big)(new(big.Int).Set(cd)),
		Transactions:         trans,
	}
}

// ToBlock converts the stored data back into a connected block. The NQT
// layout of each transaction follows the height it was stored at.
func ToBlock(blockData BlockData, creatorPublicKey []byte, nqtBlock int32) (*Block, error) {
	nqt := blockData.Height > nqtBlock

	trans := make([]*Transaction, len(blockData.Transactions))
	for i, td := range blockData.Transactions {
		kind := TxKind{Type: td.Type, Subtype: td.Subtype}

		attachment, err := ParseAttachment(kind, td.Attachment)
		if err != nil {
			return nil, fmt.Errorf("block %d: tx %d: %w", blockData.Height, i, err)
		}

		tx := Transaction{
			Kind:                          kind,
			Timestamp:                     td.Timestamp,
			Deadline:                      td.Deadline,
			SenderPublicKey:               td.SenderPublicKey,
			RecipientID:                   td.RecipientID,
			AmountNQT:                     td.AmountNQT,
			FeeNQT:                        td.FeeNQT,
			ReferencedTransactionFullHash: td.ReferencedTransactionFullHash,
			Signature:                     td.Signature,
			Attachment:                    attachment,
		}
		if err := tx.Seal(creatorPublicKey, nqt); err != nil {
			return nil, fmt.Errorf("block %d: tx %d: %w", blockData.Height, i, err)
		}
		trans[i] = &tx
	}

	cd := new(big.Int)
	if blockData.CumulativeDifficulty != nil {
		cd.Set(blockData.CumulativeDifficulty.ToInt())
	}

	block := Block{
		Version:              blockData.Version,
		Timestamp:            blockData.Timestamp,
		PreviousBlockID:      blockData.PreviousBlockID,
		PreviousBlockHash:    blockData.PreviousBlockHash,
		TotalAmountNQT:       blockData.TotalAmountNQT,
		TotalFeeNQT:          blockData.TotalFeeNQT,
		PayloadLength:        blockData.PayloadLength,
		PayloadHash:          blockData.PayloadHash,
		GeneratorPublicKey:   blockData.GeneratorPublicKey,
		GenerationSignature:  blockData.GenerationSignature,
		BlockSignature:       blockData.BlockSignature,
		Transactions:         trans,
		Height:               blockData.Height,
		BaseTarget:           blockData.BaseTarget,
		CumulativeDifficulty: cd,
	}

	block.Seal()
	block.ConnectTransactions()

	return &block, nil
}

// ErrEndOfChain is returned by iterators walking past the last block.
var ErrEndOfChain = errors.New("end of chain")
