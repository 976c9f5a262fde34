package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
)

func blocksCmd(log *zap.SugaredLogger) *cobra.Command {
	var cf chainFlags
	var from, to int32

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Print the stored blocks between two heights",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cf.open(log)
			if err != nil {
				return err
			}
			defer st.Shutdown()

			if to < 0 {
				to = state.QueryLatest
			}

			out := cmd.OutOrStdout()
			for _, block := range st.QueryBlocksByHeight(from, to) {
				fmt.Fprintf(out, "Height: %-8d ID: %-20s Generator: %-20s Txs: %-3d Fee: %-6d Time: %s\n",
					block.Height, block.ID(), block.GeneratorID(), len(block.Transactions),
					block.TotalFeeNQT/database.OneNxt, blockTime(block).Format(time.RFC3339))
			}

			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().Int32Var(&from, "from", 0, "First height to print.")
	cmd.Flags().Int32Var(&to, "to", -1, "Last height to print, the head when negative.")

	return cmd
}

func blockTime(block *database.Block) time.Time {
	return time.UnixMilli(database.EpochBeginning + int64(block.Timestamp)*1000).UTC()
}
