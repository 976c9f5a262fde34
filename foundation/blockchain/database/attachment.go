package database

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// TxKind is the type and subtype pair that selects transaction behavior.
type TxKind struct {
	Type    uint8 `json:"type"`
	Subtype uint8 `json:"subtype"`
}

// Set of transaction kinds the node understands.
var (
	KindOrdinaryPayment         = TxKind{Type: 0, Subtype: 0}
	KindArbitraryMessage        = TxKind{Type: 1, Subtype: 0}
	KindAliasAssignment         = TxKind{Type: 1, Subtype: 1}
	KindEffectiveBalanceLeasing = TxKind{Type: 4, Subtype: 0}
)

// String implements the fmt.Stringer interface.
func (k TxKind) String() string {
	switch k {
	case KindOrdinaryPayment:
		return "OrdinaryPayment"
	case KindArbitraryMessage:
		return "ArbitraryMessage"
	case KindAliasAssignment:
		return "AliasAssignment"
	case KindEffectiveBalanceLeasing:
		return "EffectiveBalanceLeasing"
	}
	return fmt.Sprintf("Unknown(%d:%d)", k.Type, k.Subtype)
}

// =============================================================================

// Attachment is the kind specific payload appended to a transaction.
type Attachment interface {
	Kind() TxKind
	Bytes() []byte
}

// MessageAttachment carries an arbitrary message.
type MessageAttachment struct {
	Message []byte
}

// MarshalJSON implements the json.Marshaler interface. The message is
// presented as hex.
func (a MessageAttachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string `json:"message"`
	}{
		Message: hex.EncodeToString(a.Message),
	})
}

// Kind implements the Attachment interface.
func (MessageAttachment) Kind() TxKind { return KindArbitraryMessage }

// Bytes implements the Attachment interface.
func (a MessageAttachment) Bytes() []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(a.Message)))
	return append(b, a.Message...)
}

// AliasAttachment assigns a name to the sender.
type AliasAttachment struct {
	Name string `json:"alias"`
	URI  string `json:"uri"`
}

// Kind implements the Attachment interface.
func (AliasAttachment) Kind() TxKind { return KindAliasAssignment }

// Bytes implements the Attachment interface.
func (a AliasAttachment) Bytes() []byte {
	b := []byte{byte(len(a.Name))}
	b = append(b, a.Name...)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(a.URI)))
	return append(b, a.URI...)
}

// LeasingAttachment leases the sender's effective balance to the recipient.
type LeasingAttachment struct {
	Period int16 `json:"period"`
}

// Kind implements the Attachment interface.
func (LeasingAttachment) Kind() TxKind { return KindEffectiveBalanceLeasing }

// Bytes implements the Attachment interface.
func (a LeasingAttachment) Bytes() []byte {
	return binary.LittleEndian.AppendUint16(nil, uint16(a.Period))
}

// =============================================================================

// ParseAttachment reads the attachment of the specified kind from its byte
// form.
func ParseAttachment(kind TxKind, data []byte) (Attachment, error) {
	switch kind {
	case KindOrdinaryPayment:
		if len(data) != 0 {
			return nil, NewValidationError("payment carries %d attachment bytes", len(data))
		}
		return nil, nil

	case KindArbitraryMessage:
		if len(data) < 4 {
			return nil, NewValidationError("message attachment is truncated")
		}
		n := int(int32(binary.LittleEndian.Uint32(data)))
		if n < 0 || n > MaxArbitraryMessageLength {
			return nil, NewValidationError("invalid arbitrary message length: %d", n)
		}
		if len(data) != 4+n {
			return nil, NewValidationError("message attachment length mismatch")
		}
		return MessageAttachment{Message: append([]byte(nil), data[4:]...)}, nil

	case KindAliasAssignment:
		if len(data) < 1 {
			return nil, NewValidationError("alias attachment is truncated")
		}
		n := int(data[0])
		if n > 3*MaxAliasLength || len(data) < 1+n+2 {
			return nil, NewValidationError("invalid alias name length: %d", n)
		}
		name := string(data[1 : 1+n])
		rest := data[1+n:]
		u := int(binary.LittleEndian.Uint16(rest))
		if u > 3*MaxAliasURILength || len(rest) != 2+u {
			return nil, NewValidationError("invalid alias uri length: %d", u)
		}
		return AliasAttachment{Name: name, URI: string(rest[2:])}, nil

	case KindEffectiveBalanceLeasing:
		if len(data) != 2 {
			return nil, NewValidationError("leasing attachment must be 2 bytes")
		}
		return LeasingAttachment{Period: int16(binary.LittleEndian.Uint16(data))}, nil
	}

	return nil, NewValidationError("unknown transaction kind %s", kind)
}
