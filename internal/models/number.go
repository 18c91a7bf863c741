package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawNumber holds a numeric field exactly as it arrived, whether the JSON
// value was a string ("1.234,56", "x2") or a number (12.5). Extraction output
// is noisy, so conversion to float is left to the numeric package and the raw
// text is preserved for fingerprinting.
type RawNumber string

// UnmarshalJSON accepts a JSON string, number, or null.
func (n *RawNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*n = RawNumber(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = RawNumber(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// MarshalJSON writes the raw text back out as a JSON string, or null when
// empty so round-tripped records look like the originals.
func (n RawNumber) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(n))
}

func (n RawNumber) String() string { return string(n) }
