package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
)

func genesisCmd(log *zap.SugaredLogger) *cobra.Command {
	var (
		creator string
		allocs  []string
		network string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Create a signed genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := NewGenesis(creator, network, allocs)
			if err != nil {
				return err
			}

			if err := genesis.Save(out, gen); err != nil {
				return fmt.Errorf("save genesis: %w", err)
			}

			block, err := state.NewGenesisBlock(gen)
			if err != nil {
				return err
			}

			log.Infow("genesis", "status", "written", "path", out, "block", block.ID(), "allocations", len(gen.Allocations))
			fmt.Fprintf(cmd.OutOrStdout(), "Genesis block: %s\n", block.ID())

			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "Secret phrase of the genesis creator.")
	cmd.Flags().StringArrayVar(&allocs, "alloc", nil, "Allocation as <secret-or-account-id>=<nxt>, repeatable.")
	cmd.Flags().StringVar(&network, "network", genesis.Mainnet, "Network the genesis file describes.")
	cmd.Flags().StringVar(&out, "out", "zblock/genesis.json", "Path to write the genesis file to.")
	cmd.MarkFlagRequired("creator")

	return cmd
}

// NewGenesis builds a genesis description for the network with every
// allocation and the genesis block signed by the creator.
func NewGenesis(creator string, network string, allocs []string) (genesis.Genesis, error) {
	if creator == "" {
		return genesis.Genesis{}, errors.New("creator secret is required")
	}
	if len(allocs) == 0 {
		return genesis.Genesis{}, errors.New("at least one allocation is required")
	}

	var eras genesis.Eras
	switch network {
	case genesis.Mainnet:
		eras = genesis.MainnetEras()
	case genesis.Testnet:
		eras = genesis.TestnetEras()
	default:
		return genesis.Genesis{}, fmt.Errorf("unknown network %q", network)
	}

	key := signature.KeyFromSeed(creator)
	pub := signature.PublicKey(key)

	gen := genesis.Genesis{
		Date:             time.Now().UTC().Truncate(time.Second),
		Network:          network,
		CreatorPublicKey: pub,
		Eras:             eras,
	}

	for _, alloc := range allocs {
		recipient, amount, err := parseAllocation(alloc)
		if err != nil {
			return genesis.Genesis{}, err
		}

		tx := database.Transaction{
			Kind:            database.KindOrdinaryPayment,
			SenderPublicKey: pub,
			RecipientID:     recipient,
			AmountNQT:       amount,
		}
		if err := tx.Sign(pub, key, false); err != nil {
			return genesis.Genesis{}, fmt.Errorf("sign allocation %q: %w", alloc, err)
		}

		gen.Allocations = append(gen.Allocations, genesis.Allocation{
			Recipient: uint64(recipient),
			AmountNQT: amount,
			Signature: tx.Signature,
		})
	}

	block, err := state.NewGenesisBlock(gen)
	if err != nil {
		return genesis.Genesis{}, err
	}
	block.Sign(key)
	gen.BlockSignature = block.BlockSignature

	return gen, nil
}

// parseAllocation splits <secret-or-account-id>=<nxt>. A numeric recipient
// is an account id, anything else is the secret phrase of the recipient.
func parseAllocation(alloc string) (database.ID, int64, error) {
	who, coins, ok := strings.Cut(alloc, "=")
	if !ok || who == "" {
		return 0, 0, fmt.Errorf("invalid allocation %q", alloc)
	}

	nxt, err := strconv.ParseInt(coins, 10, 64)
	if err != nil || nxt <= 0 || nxt > database.MaxBalanceNxt {
		return 0, 0, fmt.Errorf("invalid allocation amount %q", coins)
	}

	recipient, err := database.ParseID(who)
	if err != nil {
		recipient = database.PublicKeyToAccountID(signature.PublicKey(signature.KeyFromSeed(who)))
	}

	return recipient, nxt * database.OneNxt, nil
}
