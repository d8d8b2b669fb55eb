package currency

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "digits only are cents", in: "1234", want: "12.34"},
		{name: "zero", in: "0", want: "0"},
		{name: "empty", in: "", want: "0"},
		{name: "grouped with comma", in: "1.234,56", want: "1234.56"},
		{name: "currency symbol", in: "R$ 1.234,56", want: "1234.56"},
		{name: "leading zeros", in: "000,50", want: "0.5"},
		{name: "cents with symbol", in: "R$ 0,50", want: "0.5"},
		{name: "millions", in: "1.234.567,89", want: "1234567.89"},
		{name: "periods without comma are cents", in: "1.234", want: "12.34"},
		{name: "single fraction digit", in: "10,5", want: "10.5"},
		{name: "trailing comma", in: "12,", want: "12"},
		{name: "no digits", in: "abc", want: "0"},
		{name: "only separators", in: ".,.", want: "0"},
		{name: "malformed fraction", in: "1,2.3", want: "0"},
		{name: "minus sign is stripped", in: "-5,00", want: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			assert.True(t, got.Equal(dec(tt.want)), "Parse(%q) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestParseNonText(t *testing.T) {
	d := dec("1234.56")

	assert.True(t, Parse(d).Equal(d))
	assert.True(t, Parse(&d).Equal(d))
	assert.True(t, Parse(NewAmount(d)).Equal(d))
	assert.True(t, Parse(12.5).Equal(dec("12.5")))
	assert.True(t, Parse(float32(0.25)).Equal(dec("0.25")))
	assert.True(t, Parse(42).Equal(dec("42")))
	assert.True(t, Parse(int64(-7)).Equal(dec("-7")))
	assert.True(t, Parse(json.Number("99.90")).Equal(dec("99.9")))
	assert.True(t, Parse([]byte("1,00")).Equal(dec("1")))
	assert.True(t, Parse(nil).IsZero())
	assert.True(t, Parse((*decimal.Decimal)(nil)).IsZero())
	assert.True(t, Parse(math.NaN()).IsZero())
	assert.True(t, Parse(math.Inf(1)).IsZero())
	assert.True(t, Parse(struct{}{}).IsZero())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1234.56", want: "R$ 1.234,56"},
		{in: "0", want: "R$ 0,00"},
		{in: "0.5", want: "R$ 0,50"},
		{in: "999", want: "R$ 999,00"},
		{in: "1000", want: "R$ 1.000,00"},
		{in: "1234567.891", want: "R$ 1.234.567,89"},
		{in: "0.005", want: "R$ 0,01"},
		{in: "-1234.5", want: "R$ -1.234,50"},
		{in: "-0.001", want: "R$ 0,00"},
		{in: "100000", want: "R$ 100.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(dec(tt.in)))
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	values := []string{"1234.56", "0.01", "10", "987654321.09", "0.1", "1000000"}

	for _, v := range values {
		x := dec(v)
		text := Format(x)
		got := Parse(text)
		assert.True(t, got.Equal(x), "round trip of %s through %q gave %s", v, text, got)
	}
}

func TestFormatParseDropsSign(t *testing.T) {
	for _, v := range []string{"-1234.5", "-0.01", "-10"} {
		x := dec(v)
		text := Format(x)
		assert.Contains(t, text, "-")
		assert.True(t, Parse(text).Equal(x.Neg()), "Parse(%q) should be %s", text, x.Neg())
	}
}

func TestAmountJSON(t *testing.T) {
	t.Run("marshal fixed string", func(t *testing.T) {
		b, err := json.Marshal(NewAmount(dec("920")))
		require.NoError(t, err)
		assert.Equal(t, `"920.00"`, string(b))
	})

	t.Run("number", func(t *testing.T) {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(`1234.56`), &a))
		assert.True(t, a.Equal(dec("1234.56")))
	})

	t.Run("brl text", func(t *testing.T) {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(`"R$ 1.234,56"`), &a))
		assert.True(t, a.Equal(dec("1234.56")))
	})

	t.Run("cents text", func(t *testing.T) {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(`"1234"`), &a))
		assert.True(t, a.Equal(dec("12.34")))
	})

	t.Run("null", func(t *testing.T) {
		a := NewAmount(dec("5"))
		require.NoError(t, json.Unmarshal([]byte(`null`), &a))
		assert.True(t, a.IsZero())
	})

	t.Run("invalid token", func(t *testing.T) {
		var a Amount
		assert.Error(t, json.Unmarshal([]byte(`true`), &a))
	})

	t.Run("inside struct", func(t *testing.T) {
		var row struct {
			Valor Amount `json:"valor"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"valor": 100.1}`), &row))
		assert.Equal(t, "100.10", row.Valor.Fixed())
		assert.Equal(t, "R$ 100,10", row.Valor.BRL())
	})
}

func TestAmountSQL(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan([]byte("1234.56")))
	assert.True(t, a.Equal(dec("1234.56")), "database text must not use the cents rule")

	require.NoError(t, a.Scan(nil))
	assert.True(t, a.IsZero())

	require.NoError(t, a.Scan("0.10"))
	v, err := a.Value()
	require.NoError(t, err)
	assert.Equal(t, "0.10", v)
}
