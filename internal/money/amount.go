package money

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount is a request field that accepts either a JSON number or a string
// such as "42.50" or "$1,200".
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ErrInvalidAmount
		}
		d, err := ParseAmount(s)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	d, err := parseDecimal(string(trimmed))
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}
