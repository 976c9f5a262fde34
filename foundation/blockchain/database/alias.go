package database

import "strings"

// Alias binds a case insensitive name to an account and a uri.
type Alias struct {
	ID        ID     `json:"id"` // Transaction that first assigned the alias.
	AccountID ID     `json:"account"`
	Name      string `json:"name"`
	URI       string `json:"uri"`
	Timestamp int32  `json:"timestamp"`
}

// AliasByName looks up an alias regardless of case.
func (db *Database) AliasByName(name string) (Alias, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	alias, exists := db.aliases[strings.ToLower(name)]
	if !exists {
		return Alias{}, false
	}
	return *alias, true
}

// AliasByID looks up an alias by the transaction that assigned it.
func (db *Database) AliasByID(id ID) (Alias, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	alias, exists := db.aliasIDs[id]
	if !exists {
		return Alias{}, false
	}
	return *alias, true
}

// SetAlias assigns the alias to the sender of the transaction. An existing
// alias keeps its owner and id and only takes the new uri and timestamp.
func (db *Database) SetAlias(account *Account, tx *Transaction, name string, uri string, timestamp int32) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := strings.ToLower(name)
	if alias, exists := db.aliases[key]; exists {
		alias.URI = uri
		alias.Timestamp = timestamp
		return
	}

	alias := Alias{
		ID:        tx.ID(),
		AccountID: account.ID,
		Name:      name,
		URI:       uri,
		Timestamp: timestamp,
	}
	db.aliases[key] = &alias
	db.aliasIDs[alias.ID] = &alias
}

// RemoveAlias deletes the alias regardless of case.
func (db *Database) RemoveAlias(name string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := strings.ToLower(name)
	alias, exists := db.aliases[key]
	if !exists {
		return
	}

	delete(db.aliases, key)
	delete(db.aliasIDs, alias.ID)
}
