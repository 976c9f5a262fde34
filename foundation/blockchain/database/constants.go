package database

import (
	"math"
	"time"
)

// Protocol constants shared by every network.
const (
	OneNxt         int64 = 100_000_000
	MaxBalanceNxt  int64 = 1_000_000_000
	MaxBalanceNQT        = MaxBalanceNxt * OneNxt
	EpochBeginning int64 = 1385294400000 // unix milliseconds of timestamp zero.

	MaxNumberOfTransactions = 255
	MaxPayloadLength        = MaxNumberOfTransactions * 160

	InitialBaseTarget int64 = 153722867
	MaxBaseTarget           = MaxBalanceNxt * InitialBaseTarget

	MaxAliasLength            = 100
	MaxAliasURILength         = 1000
	MaxArbitraryMessageLength = 1000
	AliasAlphabet             = "0123456789abcdefghijklmnopqrstuvwxyz"

	// MaxTrackedBalanceConfirmations bounds the guaranteed balance history.
	MaxTrackedBalanceConfirmations = 2881

	// EffectiveBalanceConfirmations is the depth stake is measured at.
	EffectiveBalanceConfirmations = 1440

	// MaxRollback is the deepest reorganization a node accepts.
	MaxRollback = 720

	// MinLeasingPeriod is the shortest balance lease in blocks.
	MinLeasingPeriod = 1440

	// unconnectedHeight is the height of a transaction not in a block yet.
	unconnectedHeight = math.MaxInt32
)

// EpochTime converts the wall clock into seconds since the network epoch.
func EpochTime(t time.Time) int32 {
	return int32((t.UnixMilli() - EpochBeginning + 500) / 1000)
}
