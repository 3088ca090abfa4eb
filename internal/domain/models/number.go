package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Num is a nullable number decoded permissively from backend payloads.
// Numbers, numeric strings, blanks and null are all accepted; anything that
// does not yield a finite value decodes to null instead of failing.
type Num struct {
	Value float64
	Valid bool
}

// NumOf returns a set Num.
func NumOf(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}
	}
	return Num{Value: v, Valid: true}
}

// ParseNum coerces an arbitrary decoded JSON value into a Num.
func ParseNum(value any) Num {
	switch v := value.(type) {
	case nil:
		return Num{}
	case Num:
		return v
	case float64:
		return NumOf(v)
	case float32:
		return NumOf(float64(v))
	case int:
		return NumOf(float64(v))
	case int64:
		return NumOf(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Num{}
		}
		return NumOf(f)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		s = strings.TrimPrefix(s, "$")
		if s == "" {
			return Num{}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Num{}
		}
		return NumOf(f)
	default:
		return ParseNum(fmt.Sprint(v))
	}
}

// Ptr returns the value as a pointer, nil when unset.
func (n Num) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// UnmarshalJSON never fails; malformed input becomes null.
func (n *Num) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Num{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		*n = Num{}
		return nil
	}
	*n = ParseNum(raw)
	return nil
}

// MarshalJSON encodes null for unset values.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// String renders the number for logs and spreadsheet cells.
func (n Num) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
