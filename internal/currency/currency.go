// Package currency converts between Brazilian Real text ("R$ 1.234,56") and
// exact decimal values.
//
// Parsing is deliberately lenient: it never fails, and anything it cannot make
// sense of becomes zero. Text without a comma is read as a count of cents, so
// "1234" is 12.34 and not 1234.00. Forms typed digit by digit depend on this.
//
// Text parsing keeps only digits and separators, so a minus sign is dropped.
// Format keeps the sign, which means Parse(Format(-x)) is +x: only
// non-negative amounts survive a round trip through text. Numbers and decimals
// passed to Parse keep their sign.
package currency

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "R$"

// Parse coerces v into an exact decimal.
//
// Decimals pass through unchanged, numbers are converted directly and text is
// read with the BRL rules described in the package doc. Empty, nil and
// unparsable input yield zero.
func Parse(v any) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case *decimal.Decimal:
		if t == nil {
			return decimal.Zero
		}
		return *t
	case Amount:
		return t.Decimal
	case *Amount:
		if t == nil {
			return decimal.Zero
		}
		return t.Decimal
	case int:
		return decimal.NewFromInt(int64(t))
	case int32:
		return decimal.NewFromInt32(t)
	case int64:
		return decimal.NewFromInt(t)
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat32(t)
	case float64:
		return fromFloat(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		return parseText(t)
	case []byte:
		return parseText(string(t))
	case fmt.Stringer:
		return parseText(t.String())
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parseText(s string) decimal.Decimal {
	clean := strings.TrimLeft(keepNumeric(s), "0")
	if clean == "" {
		return decimal.Zero
	}

	sep := strings.LastIndex(clean, ",")
	if sep < 0 {
		digits := strings.ReplaceAll(clean, ".", "")
		if digits == "" {
			return decimal.Zero
		}
		cents, err := decimal.NewFromString(digits)
		if err != nil {
			return decimal.Zero
		}
		return cents.Shift(-2)
	}

	intPart := strings.NewReplacer(".", "", ",", "").Replace(clean[:sep])
	if intPart == "" {
		intPart = "0"
	}
	frac := clean[sep+1:]
	if frac == "" {
		frac = "0"
	}

	d, err := decimal.NewFromString(intPart + "." + frac)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func keepNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders d as "R$ 1.234,56": two fraction digits rounded half away
// from zero, periods between thousands and a comma before the cents.
func Format(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")
	return Symbol + " " + sign + groupThousands(intPart) + "," + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
