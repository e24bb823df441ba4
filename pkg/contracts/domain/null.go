package domain

import (
	"encoding/json"
)

// NullString is a string that may be missing, as left behind by an unmatched left join
type NullString struct {
	String string
	Valid  bool
}

// NewNullString returns a valid NullString holding s
func NewNullString(s string) NullString {
	return NullString{String: s, Valid: true}
}

// ValueOr returns the string when valid and fallback otherwise
func (n NullString) ValueOr(fallback string) string {
	if !n.Valid {
		return fallback
	}
	return n.String
}

// MarshalJSON encodes a missing value as null
func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.String)
}

// UnmarshalJSON decodes null as a missing value
func (n *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullString{}
		return nil
	}
	if err := json.Unmarshal(data, &n.String); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
