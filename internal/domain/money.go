package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount as sent by the server. It decodes from a JSON
// number, a numeric string or null, without passing through float64.
type Money struct {
	d decimal.Decimal
}

// MoneyFromFloat is for literals and tests; amounts from the wire never
// pass through float64.
func MoneyFromFloat(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}
	}
	return Money{d: decimal.NewFromFloat(f)}
}

func MoneyFromInt(n int64) Money {
	return Money{d: decimal.NewFromInt(n)}
}

// ParseMoney reads a decimal string such as "12.30". Blank is zero.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{d: d}, nil
}

func (m Money) Add(o Money) Money {
	return Money{d: m.d.Add(o.d)}
}

// Mul scales by a line quantity.
func (m Money) Mul(quantity int) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (m Money) Equal(o Money) bool {
	return m.d.Equal(o.d)
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) String() string {
	return m.d.StringFixed(2)
}

// MarshalJSON writes a bare JSON number, the shape the server uses.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode money: %w", err)
		}
		parsed, err := ParseMoney(s)
		if err != nil {
			parsed = Money{}
		}
		*m = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	*m = Money{d: d}
	return nil
}

// FormatMoney renders a value with exactly two decimal digits. Anything that
// is not a finite number (nil, garbage strings, NaN) renders as "0.00".
// Formatting an already formatted string yields the same string.
func FormatMoney(v any) string {
	var m Money
	switch n := v.(type) {
	case nil:
		return "0.00"
	case Money:
		m = n
	case float64:
		m = MoneyFromFloat(n)
	case float32:
		m = MoneyFromFloat(float64(n))
	case int:
		m = MoneyFromInt(int64(n))
	case int32:
		m = MoneyFromInt(int64(n))
	case int64:
		m = MoneyFromInt(n)
	case json.Number:
		parsed, err := ParseMoney(string(n))
		if err != nil {
			return "0.00"
		}
		m = parsed
	case string:
		parsed, err := ParseMoney(n)
		if err != nil {
			return "0.00"
		}
		m = parsed
	default:
		return "0.00"
	}
	return m.String()
}
