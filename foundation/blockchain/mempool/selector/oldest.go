package selector

import (
	"sort"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// oldestSelect returns the transactions that have waited the longest.
var oldestSelect = func(m map[database.ID][]*database.Transaction, howMany int) []*database.Transaction {
	var final []*database.Transaction
	for _, trans := range m {
		final = append(final, trans...)
	}
	sort.Sort(byTimestamp(final))

	if howMany >= 0 && len(final) > howMany {
		final = final[:howMany]
	}

	return final
}
