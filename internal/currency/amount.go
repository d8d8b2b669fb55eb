package currency

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is the monetary field type used by every persisted record.
//
// In the database it is an exact NUMERIC. Over JSON it is written as a plain
// fixed two-digit string ("1234.56") and read from either a JSON number or any
// text Parse understands, so clients may send 1234.56 or "1.234,56".
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// Fixed returns the plain two-digit representation, e.g. "920.00".
func (a Amount) Fixed() string {
	return a.StringFixed(2)
}

// BRL returns the currency-formatted representation, e.g. "R$ 920,00".
func (a Amount) BRL() string {
	return Format(a.Decimal)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.Fixed() + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return fmt.Errorf("currency: invalid amount text %s: %w", raw, err)
		}
		a.Decimal = Parse(text)
		return nil
	}

	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return fmt.Errorf("currency: invalid amount %s: %w", raw, err)
	}
	a.Decimal = d
	return nil
}

// Scan reads a NUMERIC column. Database text is already a plain decimal and
// must not go through the BRL text rules.
func (a *Amount) Scan(value any) error {
	if value == nil {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.Scan(value)
}

func (a Amount) Value() (driver.Value, error) {
	return a.Decimal.StringFixed(2), nil
}
