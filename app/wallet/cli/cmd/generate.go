package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key and store it in the key file",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	if err := saveKey(privateKey); err != nil {
		return err
	}

	fmt.Println("Key File:", getPrivateKeyPath())
	fmt.Println("Account: ", database.PublicKeyToAccountID(signature.PublicKey(privateKey)))

	return nil
}
