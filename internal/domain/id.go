package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque server identifier. The API is inconsistent about sending
// ids as numbers or strings, so both decode; all-digit ids encode back as
// JSON numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) numeric() bool {
	if id == "" || len(id) > 18 || (len(id) > 1 && id[0] == '0') {
		return false
	}
	_, err := strconv.ParseUint(string(id), 10, 64)
	return err == nil
}
