package filings

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// flexNumber is a nullable numeric field that tolerates the formats
// filings expose in practice: plain JSON numbers, quoted numbers with
// thousands separators ("1,234,567.89"), and empty/dash placeholders.
type flexNumber struct {
	val *float64
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	s := string(data)
	if s[0] == '"' {
		s = strings.Trim(s, `"`)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "N/A" {
		return nil
	}

	// Accounting-style parentheses mark negatives.
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		// Unparseable values degrade to nil rather than failing the
		// whole statement.
		return nil
	}
	if negative {
		d = d.Neg()
	}

	v, _ := d.Float64()
	f.val = &v
	return nil
}

func (f flexNumber) value() *float64 {
	return f.val
}
