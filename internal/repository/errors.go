package repository

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrMalformedRow marks a row whose stored columns could not be decoded.
	ErrMalformedRow = errors.New("malformed row")
	// ErrStatusConflict is returned when a conditional status change found
	// no row in an allowed state.
	ErrStatusConflict = errors.New("status conflict")
)

// decodeTags reads a JSONB array of strings. NULL columns are coalesced to
// '[]' in SQL so an empty input never reaches here from the queries below.
func decodeTags(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
