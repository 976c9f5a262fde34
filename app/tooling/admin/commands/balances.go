package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/nameservice"
)

func balancesCmd(log *zap.SugaredLogger) *cobra.Command {
	var cf chainFlags
	var account string
	var accountsPath string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Replay the stored chain and print the account balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cf.open(log)
			if err != nil {
				return err
			}
			defer st.Shutdown()

			only, err := database.ParseID(account)
			if err != nil {
				return err
			}

			ns, err := nameservice.New(accountsPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if latest := st.RetrieveLatestBlock(); latest != nil {
				fmt.Fprintf(out, "Latest Block: %s  Height: %d\n\n", latest.ID(), latest.Height)
			}

			for _, info := range st.QueryAccounts() {
				if only != 0 && info.ID != only {
					continue
				}
				fmt.Fprintf(out, "Account: %-20s  Name: %-20s  Balance: %d  Unconfirmed: %d  Effective: %d\n",
					info.ID, ns.Lookup(info.ID), info.BalanceNQT, info.UnconfirmedNQT, info.EffectiveBalance)
			}

			return nil
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVar(&account, "account", "", "Only print this account.")
	cmd.Flags().StringVar(&accountsPath, "accounts", "zblock/accounts/", "Path to the wallet key files used to name accounts.")

	return cmd
}
