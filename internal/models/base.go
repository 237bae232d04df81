package models

import (
	"encoding/hex"
	"fmt"
)

// EUI64 represents an 8-byte Extended Unique Identifier
type EUI64 [8]byte

// ParseEUI64 parses a 16-character hex string into an EUI64
func ParseEUI64(s string) (EUI64, error) {
	var eui EUI64
	if len(s) != 16 {
		return eui, fmt.Errorf("invalid EUI64 length")
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return eui, err
	}

	copy(eui[:], b)
	return eui, nil
}

// String returns hex string representation
func (e EUI64) String() string {
	return hex.EncodeToString(e[:])
}

// MarshalJSON implements json.Marshaler
func (e EUI64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (e *EUI64) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid EUI64 format")
	}

	parsed, err := ParseEUI64(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}

	*e = parsed
	return nil
}
