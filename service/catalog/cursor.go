package catalog

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCursor is returned for cursors that do not decode or that were
// issued for a different ordering.
var ErrInvalidCursor = errors.New("catalog: invalid cursor")

type cursor struct {
	SortKey string      `json:"k"`
	Reverse bool        `json:"r,omitempty"`
	Value   interface{} `json:"v,omitempty"`
	ID      uint        `json:"id"`
}

func encodeCursor(c cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (cursor, error) {
	var c cursor
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.ID == 0 {
		return c, fmt.Errorf("%w: missing id", ErrInvalidCursor)
	}
	return c, nil
}

// keysetValue converts a decoded cursor value back into the column's type.
func keysetValue(column string, v interface{}) (interface{}, error) {
	switch column {
	case columnCreatedAt:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: created_at is not a timestamp", ErrInvalidCursor)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		return t.UTC(), nil
	case columnEntityID:
		return nil, nil
	default:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not numeric", ErrInvalidCursor, column)
		}
		return f, nil
	}
}
