// Package commands contains the admin tool commands.
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database/storage/disk"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
)

// Execute builds the command tree and runs the command named on the
// command line.
func Execute(build string, log *zap.SugaredLogger, out io.Writer) error {
	root := NewRoot(build, log, out)
	return root.Execute()
}

// NewRoot constructs the admin command tree writing its output to out.
func NewRoot(build string, log *zap.SugaredLogger, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administrative tasks for an nxtnode",
		Version:       build,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		genesisCmd(log),
		blocksCmd(log),
		balancesCmd(log),
	)

	return root
}

// chainFlags are shared by the commands reading a stored chain.
type chainFlags struct {
	dbPath      string
	genesisPath string
}

func (cf *chainFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cf.dbPath, "db", "zblock/blocks/", "Path to the block storage of the node.")
	cmd.Flags().StringVar(&cf.genesisPath, "genesis", "zblock/genesis.json", "Path to the genesis file.")
}

// open replays the stored chain into a state. An empty storage receives
// the genesis block the same way a starting node writes it.
func (cf *chainFlags) open(log *zap.SugaredLogger) (*state.State, error) {
	gen, err := genesis.Load(cf.genesisPath)
	if err != nil {
		return nil, fmt.Errorf("load genesis: %w", err)
	}

	storage, err := disk.New(cf.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	ev := func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	st, err := state.New(state.Config{
		Genesis:   gen,
		Storage:   storage,
		EvHandler: ev,
	})
	if err != nil {
		return nil, err
	}

	if err := st.AddGenesisBlockIfNeeded(); err != nil {
		st.Shutdown()
		return nil, fmt.Errorf("genesis block: %w", err)
	}

	return st, nil
}
