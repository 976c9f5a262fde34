package selector

import (
	"sort"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// feeSelect returns transactions with the best fee while keeping the
// transactions of each sender in timestamp order.
var feeSelect = func(m map[database.ID][]*database.Transaction, howMany int) []*database.Transaction {
	if howMany == -1 {
		howMany = 0
		for _, trans := range m {
			howMany += len(trans)
		}
	}

	// Sort the transactions per sender by timestamp.
	senders := make([]database.ID, 0, len(m))
	for sender := range m {
		senders = append(senders, sender)
		if len(m[sender]) > 1 {
			sort.Sort(byTimestamp(m[sender]))
		}
	}
	sort.Slice(senders, func(i, j int) bool { return senders[i] < senders[j] })

	// Pick the first transaction in the slice for each sender. Each iteration
	// represents a new row of selections. Keep doing that until all the
	// transactions have been selected.
	var rows [][]*database.Transaction
	for {
		var row []*database.Transaction
		for _, sender := range senders {
			if len(m[sender]) > 0 {
				row = append(row, m[sender][0])
				m[sender] = m[sender][1:]
			}
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}

	// Sort each row by fee and keep pulling transactions from each row until
	// the amount is fulfilled or there are no more transactions.
	final := []*database.Transaction{}
	for _, row := range rows {
		sort.Sort(byFee(row))

		need := howMany - len(final)
		if len(row) >= need {
			final = append(final, row[:need]...)
			break
		}
		final = append(final, row...)
	}

	return final
}
