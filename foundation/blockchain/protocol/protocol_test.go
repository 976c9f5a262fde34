package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
	"github.com/libertyswede/nxtnode/foundation/blockchain/txtype"
)

func signedBlock(t *testing.T) *database.Block {
	t.Helper()

	key := signature.KeyFromSeed("sender")

	payment := database.Transaction{
		Kind:            database.KindOrdinaryPayment,
		Timestamp:       1000,
		Deadline:        60,
		SenderPublicKey: signature.PublicKey(key),
		RecipientID:     database.ID(-5),
		AmountNQT:       12 * database.OneNxt,
		FeeNQT:          database.OneNxt,
	}
	require.NoError(t, payment.Sign(nil, key, true))

	alias := database.Transaction{
		Kind:            database.KindAliasAssignment,
		Timestamp:       1001,
		Deadline:        60,
		SenderPublicKey: signature.PublicKey(key),
		RecipientID:     7,
		FeeNQT:          database.OneNxt,
		Attachment:      database.AliasAttachment{Name: "Gopher", URI: "https://go.dev"},
	}
	require.NoError(t, alias.Sign(nil, key, true))

	message := database.Transaction{
		Kind:            database.KindArbitraryMessage,
		Timestamp:       1002,
		Deadline:        60,
		SenderPublicKey: signature.PublicKey(key),
		RecipientID:     7,
		FeeNQT:          database.OneNxt,
		Attachment:      database.MessageAttachment{Message: []byte{0xca, 0xfe}},
	}
	require.NoError(t, message.Sign(nil, key, true))

	previous, err := database.NewBlock(database.BlockArgs{
		Version:             3,
		Timestamp:           900,
		GeneratorPublicKey:  signature.PublicKey(key),
		GenerationSignature: signature.Hash([]byte("previous")),
	})
	require.NoError(t, err)

	block, err := database.NewBlock(database.BlockArgs{
		Version:             3,
		Timestamp:           1010,
		Previous:            previous,
		Transactions:        []*database.Transaction{&payment, &alias, &message},
		GeneratorPublicKey:  signature.PublicKey(key),
		GenerationSignature: signature.Hash([]byte("generation")),
	})
	require.NoError(t, err)
	block.Sign(key)

	return block
}

func TestBlockRoundTrip(t *testing.T) {
	block := signedBlock(t)

	wire, err := protocol.NewBlock(block)
	require.NoError(t, err)

	data, err := json.Marshal(wire)
	require.NoError(t, err)

	var got protocol.Block
	require.NoError(t, json.Unmarshal(data, &got))

	parsed, err := got.ToBlock(txtype.New(nil), nil, true)
	require.NoError(t, err)

	assert.Equal(t, block.ID(), parsed.ID())
	assert.Equal(t, block.Bytes(), parsed.Bytes())
	require.Len(t, parsed.Transactions, 3)
	for i, tx := range parsed.Transactions {
		assert.Equal(t, block.Transactions[i].ID(), tx.ID())
		assert.Equal(t, block.Transactions[i].Attachment, tx.Attachment)
	}
}

func TestWireFormat(t *testing.T) {
	block := signedBlock(t)

	wire, err := protocol.NewBlock(block)
	require.NoError(t, err)

	data, err := json.Marshal(protocol.ProcessBlockRequest{
		Envelope: protocol.NewEnvelope(protocol.RequestProcessBlock),
		Block:    wire,
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "processBlock", fields["requestType"])
	assert.Equal(t, block.PreviousBlockID.String(), fields["previousBlock"])
	assert.Equal(t, signature.Encode(block.PayloadHash)[2:], fields["payloadHash"])

	trans := fields["transactions"].([]any)
	require.Len(t, trans, 3)

	var recipients []any
	for _, tx := range trans {
		recipients = append(recipients, tx.(map[string]any)["recipient"])
	}
	assert.Contains(t, recipients, "18446744073709551611")
}

func TestHex(t *testing.T) {
	var h protocol.Hex
	require.NoError(t, h.UnmarshalText([]byte("00ff10")))
	assert.Equal(t, protocol.Hex{0x00, 0xff, 0x10}, h)

	text, err := h.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "00ff10", string(text))

	require.NoError(t, h.UnmarshalText(nil))
	assert.Nil(t, h)

	assert.Error(t, h.UnmarshalText([]byte("0xff")))
}

func TestUnknownKind(t *testing.T) {
	wire := protocol.Transaction{Type: 9, Subtype: 9, Deadline: 1, FeeNQT: database.OneNxt, SenderPublicKey: make([]byte, 32)}

	_, err := wire.ToTransaction(txtype.New(nil), nil, true)
	assert.Error(t, err)
}
