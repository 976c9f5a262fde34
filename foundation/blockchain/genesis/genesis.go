// Package genesis maintains access to the genesis file and the protocol
// upgrade heights of the network it describes.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Set of networks a genesis file can describe.
const (
	Mainnet = "mainnet"
	Testnet = "testnet"
)

// Eras holds the heights at which protocol upgrades activate.
type Eras struct {
	TransparentForgingBlock  int32 `json:"transparent_forging_block"`
	TransparentForgingBlock2 int32 `json:"transparent_forging_block_2"`
	TransparentForgingBlock3 int32 `json:"transparent_forging_block_3"`
	TransparentForgingBlock4 int32 `json:"transparent_forging_block_4"`
	TransparentForgingBlock5 int32 `json:"transparent_forging_block_5"`
	TransparentForgingBlock6 int32 `json:"transparent_forging_block_6"`
	TransparentForgingBlock7 int32 `json:"transparent_forging_block_7"`
	NQTBlock                 int32 `json:"nqt_block"`

	ReferencedTransactionFullHashBlock          int32 `json:"referenced_transaction_full_hash_block"`
	ReferencedTransactionFullHashBlockTimestamp int32 `json:"referenced_transaction_full_hash_block_timestamp"`

	UnconfirmedPoolDepositNQT int64 `json:"unconfirmed_pool_deposit_nqt"`
}

// MainnetEras returns the upgrade heights of the main network.
func MainnetEras() Eras {
	return Eras{
		TransparentForgingBlock:                     30000,
		TransparentForgingBlock2:                    47000,
		TransparentForgingBlock3:                    51000,
		TransparentForgingBlock4:                    64000,
		TransparentForgingBlock5:                    67000,
		TransparentForgingBlock6:                    130000,
		TransparentForgingBlock7:                    math.MaxInt32,
		NQTBlock:                                    132000,
		ReferencedTransactionFullHashBlock:          140000,
		ReferencedTransactionFullHashBlockTimestamp: 15134204,
		UnconfirmedPoolDepositNQT:                   100 * 100_000_000,
	}
}

// TestnetEras returns the upgrade heights of the test network.
func TestnetEras() Eras {
	eras := MainnetEras()
	eras.TransparentForgingBlock6 = 75000
	eras.TransparentForgingBlock7 = 75000
	eras.NQTBlock = 76500
	eras.ReferencedTransactionFullHashBlock = 78000
	eras.ReferencedTransactionFullHashBlockTimestamp = 13031352
	eras.UnconfirmedPoolDepositNQT = 50 * 100_000_000

	return eras
}

// =============================================================================

// Allocation is one seed transfer from the genesis creator.
type Allocation struct {
	Recipient uint64        `json:"recipient,string"`
	AmountNQT int64         `json:"amount_nqt"`
	Signature hexutil.Bytes `json:"signature"`
}

// Genesis represents the genesis file.
type Genesis struct {
	Date             time.Time               `json:"date"`
	Network          string                  `json:"network"`
	CreatorPublicKey hexutil.Bytes           `json:"creator_public_key"`
	BlockSignature   hexutil.Bytes           `json:"block_signature"`
	Eras             Eras                    `json:"eras"`
	Checkpoints      map[int32]hexutil.Bytes `json:"checkpoints,omitempty"` // height -> checksum of all transactions up to it.
	Allocations      []Allocation            `json:"allocations"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.setDefaults(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Save writes the genesis file to the specified path.
func Save(path string, genesis Genesis) error {
	data, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// setDefaults fills the upgrade heights from the network when the file
// does not override them.
func (g *Genesis) setDefaults() error {
	if len(g.CreatorPublicKey) != 32 {
		return errors.New("genesis creator public key must be 32 bytes")
	}

	if g.Eras != (Eras{}) {
		return nil
	}

	switch g.Network {
	case "", Mainnet:
		g.Eras = MainnetEras()
	case Testnet:
		g.Eras = TestnetEras()
	default:
		return fmt.Errorf("unknown network %q", g.Network)
	}

	return nil
}
