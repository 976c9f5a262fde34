package txtype

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

func (d *Dispatcher) arbitraryMessage() handler {
	return handler{
		loadJSON: func(raw json.RawMessage) (database.Attachment, error) {
			var v struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}

			message, err := hex.DecodeString(v.Message)
			if err != nil {
				return nil, err
			}
			return database.MessageAttachment{Message: message}, nil
		},

		validate: func(tx *database.Transaction) error {
			attachment, ok := tx.Attachment.(database.MessageAttachment)
			if !ok {
				return database.NewValidationError("invalid arbitrary message attachment")
			}

			if tx.AmountNQT != 0 || len(attachment.Message) > database.MaxArbitraryMessageLength {
				return database.NewValidationError("invalid arbitrary message for transaction %s", tx.ID())
			}
			return nil
		},
	}
}

// =============================================================================

func (d *Dispatcher) aliasAssignment() handler {
	return handler{
		loadJSON: func(raw json.RawMessage) (database.Attachment, error) {
			var v struct {
				Alias string `json:"alias"`
				URI   string `json:"uri"`
			}
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}

			return database.AliasAttachment{Name: strings.TrimSpace(v.Alias), URI: strings.TrimSpace(v.URI)}, nil
		},

		validate: func(tx *database.Transaction) error {
			attachment, ok := tx.Attachment.(database.AliasAttachment)
			if !ok {
				return database.NewValidationError("invalid alias assignment attachment")
			}

			nameLength := utf8.RuneCountInString(attachment.Name)
			if tx.RecipientID != d.ledger.CreatorID() || tx.AmountNQT != 0 ||
				nameLength == 0 || nameLength > database.MaxAliasLength ||
				utf8.RuneCountInString(attachment.URI) > database.MaxAliasURILength {
				return database.NewValidationError("invalid alias assignment: %s", attachment.Name)
			}

			normalized := strings.ToLower(attachment.Name)
			for _, c := range normalized {
				if !strings.ContainsRune(database.AliasAlphabet, c) {
					return database.NewValidationError("invalid alias name: %s", normalized)
				}
			}

			if alias, exists := d.ledger.AliasByName(normalized); exists {
				owner, exists := d.ledger.QueryAccount(alias.AccountID)
				if !exists || string(owner.PublicKey()) != string(tx.SenderPublicKey) {
					return database.NewValidationError("alias already owned by another account: %s", normalized)
				}
			}

			return nil
		},

		apply: func(tx *database.Transaction, sender *database.Account, recipient *database.Account) error {
			attachment := tx.Attachment.(database.AliasAttachment)
			d.ledger.SetAlias(sender, tx, attachment.Name, attachment.URI, tx.BlockTimestamp)
			return nil
		},

		checkUndo: func(tx *database.Transaction) error {
			attachment := tx.Attachment.(database.AliasAttachment)

			alias, exists := d.ledger.AliasByName(attachment.Name)
			if !exists || alias.ID != tx.ID() {
				return fmt.Errorf("reversal of alias assignment %s: %w", attachment.Name, database.ErrUndoNotSupported)
			}
			return nil
		},

		undo: func(tx *database.Transaction, sender *database.Account, recipient *database.Account) error {
			attachment := tx.Attachment.(database.AliasAttachment)
			d.ledger.RemoveAlias(attachment.Name)
			return nil
		},

		isDuplicate: func(tx *database.Transaction, duplicates Duplicates) bool {
			attachment := tx.Attachment.(database.AliasAttachment)
			return duplicates.claim(tx.Kind, strings.ToLower(attachment.Name))
		},
	}
}
