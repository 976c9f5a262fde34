// Package nameservice reads the zblock/accounts folder and creates a name
// service lookup for the local wallet accounts.
package nameservice

import (
	"crypto/ed25519"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

// keyExt is the extension of the seed files the wallet writes.
const keyExt = ".key"

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[database.ID]string
}

// New constructs a name service with the accounts of every key file found
// under root. A missing root yields an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.ID]string),
	}

	if _, err := os.Stat(root); os.IsNotExist(err) {
		return &ns, nil
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != keyExt {
			return nil
		}

		content, err := os.ReadFile(fileName)
		if err != nil {
			return err
		}

		seed, err := hexutil.Decode(strings.TrimSpace(string(content)))
		if err != nil || len(seed) != ed25519.SeedSize {
			return fmt.Errorf("key file %s: invalid seed", fileName)
		}

		publicKey := signature.PublicKey(ed25519.NewKeyFromSeed(seed))
		id := database.PublicKeyToAccountID(publicKey)
		ns.accounts[id] = strings.TrimSuffix(path.Base(fileName), keyExt)

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account, or the account id
// when the account has no name.
func (ns *NameService) Lookup(id database.ID) string {
	name, exists := ns.accounts[id]
	if !exists {
		return id.String()
	}
	return name
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[database.ID]string {
	cpy := make(map[database.ID]string, len(ns.accounts))
	for id, name := range ns.accounts {
		cpy[id] = name
	}
	return cpy
}
