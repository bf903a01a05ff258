package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRecord is returned by the Validate methods when a decoded record misses a required field or holds
// a value outside its domain.
var ErrInvalidRecord = errors.New("invalid record")

// ID identifies novels and chapters. Catalogs in the wild use both JSON numbers and strings for ids, so both
// decode to the same textual form and compare by equality.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}
