package txtype

import (
	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

func (d *Dispatcher) ordinaryPayment() handler {
	return handler{
		validate: func(tx *database.Transaction) error {
			if tx.AmountNQT <= 0 || tx.AmountNQT >= database.MaxBalanceNQT {
				return database.NewValidationError("invalid ordinary payment")
			}
			return nil
		},

		apply: func(tx *database.Transaction, sender *database.Account, recipient *database.Account) error {
			return recipient.AddToBoth(tx.AmountNQT)
		},

		undo: func(tx *database.Transaction, sender *database.Account, recipient *database.Account) error {
			return recipient.AddToBoth(-tx.AmountNQT)
		},
	}
}
