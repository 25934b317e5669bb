package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price is a monetary amount that decodes from a JSON number or a numeric string.
type Price struct {
	Value float64
	Set   bool
}

// NewPrice returns a set price.
func NewPrice(v float64) Price {
	return Price{Value: v, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*p = NewPrice(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			*p = Price{}
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !IsFinite(f) {
			return fmt.Errorf("price %q is not numeric", v)
		}
		*p = NewPrice(f)
	default:
		return fmt.Errorf("price must be a number or numeric string")
	}
	return nil
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Set {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}
