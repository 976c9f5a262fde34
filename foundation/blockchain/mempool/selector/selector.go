// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

// List of different select strategies.
const (
	StrategyFee    = "fee"
	StrategyOldest = "oldest"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyFee:    feeSelect,
	StrategyOldest: oldestSelect,
}

// Func defines a function that takes a pool of transactions grouped by
// sender and selects howMany of them in an order based on the functions
// strategy. All selector functions MUST keep the transactions of a sender in
// timestamp order. Receiving -1 for howMany must return all the transactions
// in the strategies ordering.
type Func func(transactions map[database.ID][]*database.Transaction, howMany int) []*database.Transaction

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// byTimestamp provides sorting support by the transaction timestamp value.
type byTimestamp []*database.Transaction

// Len returns the number of transactions in the list.
func (bt byTimestamp) Len() int {
	return len(bt)
}

// Less sorts the list by timestamp in ascending order, falling back on the
// id so the order is stable across nodes.
func (bt byTimestamp) Less(i, j int) bool {
	if bt[i].Timestamp != bt[j].Timestamp {
		return bt[i].Timestamp < bt[j].Timestamp
	}
	return bt[i].ID() < bt[j].ID()
}

// Swap moves transactions in the order of the timestamp value.
func (bt byTimestamp) Swap(i, j int) {
	bt[i], bt[j] = bt[j], bt[i]
}

// =============================================================================

// byFee provides sorting support by the transaction fee value.
type byFee []*database.Transaction

// Len returns the number of transactions in the list.
func (bf byFee) Len() int {
	return len(bf)
}

// Less sorts the list by fee in descending order to pick the transactions
// that pay the forger the most. Older transactions win a tie.
func (bf byFee) Less(i, j int) bool {
	if bf[i].FeeNQT != bf[j].FeeNQT {
		return bf[i].FeeNQT > bf[j].FeeNQT
	}
	return byTimestamp(bf).Less(i, j)
}

// Swap moves transactions in the order of the fee value.
func (bf byFee) Swap(i, j int) {
	bf[i], bf[j] = bf[j], bf[i]
}
