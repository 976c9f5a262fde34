package database

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies accounts, blocks and transactions. It is a signed 64 bit
// value presented everywhere outside the node as unsigned.
type ID int64

// ParseID converts the unsigned decimal form back into an ID.
func ParseID(s string) (ID, error) {
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}

	return ID(v), nil
}

// String implements the fmt.Stringer interface.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// MarshalJSON implements the json.Marshaler interface.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	v, err := ParseID(s)
	if err != nil {
		return err
	}

	*id = v
	return nil
}
