package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balances of the wallet account",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	privateKey, err := loadKey()
	if err != nil {
		return err
	}

	accountID := database.PublicKeyToAccountID(signature.PublicKey(privateKey))
	fmt.Println("For Account:", accountID)

	var info database.AccountInfo
	if err := call(http.MethodGet, "/v1/accounts/"+accountID.String(), nil, &info); err != nil {
		return err
	}

	fmt.Println("Balance:            ", nxt(info.BalanceNQT))
	fmt.Println("Unconfirmed Balance:", nxt(info.UnconfirmedNQT))
	fmt.Println("Effective Balance:  ", info.EffectiveBalance)
	fmt.Println("Forged:             ", nxt(info.ForgedNQT))

	return nil
}

// nxt formats an amount in NQT as whole coins.
func nxt(nqt int64) string {
	sign := ""
	if nqt < 0 {
		sign = "-"
		nqt = -nqt
	}
	return fmt.Sprintf("%s%d.%08d", sign, nqt/database.OneNxt, nqt%database.OneNxt)
}
