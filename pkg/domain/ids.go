package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies donors and donations. Identifiers arriving as text are
// normalized once at ingress so every comparison happens on integers.
type ID int

// ParseID converts a textual identifier such as "5" or " 5 " into an ID.
func ParseID(raw string) (ID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", raw, err)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// UnmarshalJSON accepts both numeric and string encodings, so {"donorId":5}
// and {"donorId":"5"} decode to the same ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	if v, err := n.Int64(); err == nil {
		if int64(int(v)) != v {
			return fmt.Errorf("decode id: %s out of range", n)
		}
		*id = ID(v)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
	if math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return fmt.Errorf("decode id: %s out of range", n)
	}
	*id = ID(int(f))
	return nil
}
