package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the account id and public key of the wallet",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	privateKey, err := loadKey()
	if err != nil {
		return err
	}

	publicKey := signature.PublicKey(privateKey)

	fmt.Println("Account:   ", database.PublicKeyToAccountID(publicKey))
	fmt.Println("Public Key:", signature.Encode(publicKey))

	return nil
}
