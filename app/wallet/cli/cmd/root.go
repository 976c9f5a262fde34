// Package cmd contains the wallet commands.
package cmd

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

var (
	accountName string
	accountPath string
	secret      string
	nodeURL     string
)

const keyExtension = ".key"

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with key files.")
	rootCmd.PersistentFlags().StringVarP(&secret, "secret", "s", "", "Secret phrase to derive the key from instead of a key file.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:7876", "Url of the node public API.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "A simple wallet for the nxtnode network",
	SilenceUsage: true,
}

// Execute runs the wallet command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	name := accountName
	if !strings.HasSuffix(name, keyExtension) {
		name += keyExtension
	}

	return filepath.Join(accountPath, name)
}

// loadKey returns the key derived from the secret phrase, or the one held
// in the key file as a hex encoded seed.
func loadKey() (ed25519.PrivateKey, error) {
	if secret != "" {
		return signature.KeyFromSeed(secret), nil
	}

	content, err := os.ReadFile(getPrivateKeyPath())
	if err != nil {
		return nil, err
	}

	seed, err := hexutil.Decode(strings.TrimSpace(string(content)))
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", getPrivateKeyPath(), err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key file %s: seed must be %d bytes", getPrivateKeyPath(), ed25519.SeedSize)
	}

	return ed25519.NewKeyFromSeed(seed), nil
}

func saveKey(privateKey ed25519.PrivateKey) error {
	if err := os.MkdirAll(accountPath, 0700); err != nil {
		return err
	}

	path := getPrivateKeyPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %s already exists", path)
	}

	return os.WriteFile(path, []byte(hexutil.Encode(privateKey.Seed())+"\n"), 0600)
}
