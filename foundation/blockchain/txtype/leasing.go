package txtype

import (
	"encoding/json"
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// leaseToUnrevealedKey is the one historical lease accepted to a recipient
// without a public key.
const leaseToUnrevealedKey database.ID = 5081403377391821646

func (d *Dispatcher) effectiveBalanceLeasing() handler {
	return handler{
		loadJSON: func(raw json.RawMessage) (database.Attachment, error) {
			var v struct {
				Period int16 `json:"period"`
			}
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return database.LeasingAttachment{Period: v.Period}, nil
		},

		validate: func(tx *database.Transaction) error {
			attachment, ok := tx.Attachment.(database.LeasingAttachment)
			if !ok {
				return database.NewValidationError("invalid effective balance leasing attachment")
			}

			recipient, exists := d.ledger.QueryAccount(tx.RecipientID)

			switch {
			case tx.RecipientID == tx.SenderID(),
				tx.AmountNQT != 0,
				attachment.Period < database.MinLeasingPeriod,
				!exists,
				recipient.PublicKey() == nil && tx.ID() != leaseToUnrevealedKey:
				return database.NewValidationError("invalid effective balance leasing for transaction %s", tx.ID())
			}

			return nil
		},

		apply: func(tx *database.Transaction, sender *database.Account, recipient *database.Account) error {
			attachment := tx.Attachment.(database.LeasingAttachment)
			d.ledger.LeaseEffectiveBalance(sender.ID, recipient.ID, attachment.Period)
			return nil
		},

		checkUndo: func(tx *database.Transaction) error {
			return fmt.Errorf("reversal of effective balance leasing %s: %w", tx.ID(), database.ErrUndoNotSupported)
		},
	}
}
