package currency

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Code is a display currency code. All stored monetary values are kept in
// the canonical currency (COP); a Code only matters at render time.
type Code string

const (
	COP Code = "COP"
	EUR Code = "EUR"
	USD Code = "USD"
)

// Conversion rates out of COP: 1 USD = 4000 COP, 1 EUR = 4300 COP.
var rates = map[Code]float64{
	COP: 1.0,
	USD: 1.0 / 4000.0,
	EUR: 1.0 / 4300.0,
}

var symbols = map[Code]string{
	COP: "$",
	USD: "$",
	EUR: "€",
}

// Rate returns the COP→code conversion factor. Unknown codes fall back to
// the identity rate rather than erroring.
func Rate(code Code) float64 {
	if r, ok := rates[code]; ok {
		return r
	}
	return 1.0
}

// Symbol returns the display symbol for code, "$" for unknown codes.
func Symbol(code Code) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return "$"
}

// Supported reports whether code has an entry in the rate table.
func Supported(code Code) bool {
	_, ok := rates[code]
	return ok
}

// Parse normalizes a user-entered currency code.
func Parse(s string) (Code, bool) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	return code, Supported(code)
}

// Convert converts a canonical (COP) amount into the display currency.
func Convert(amountCOP float64, code Code) float64 {
	return amountCOP * Rate(code)
}

// Format converts a canonical amount and renders it with symbol, grouped
// two-decimal value and trailing code, e.g. 10000 COP as USD → "$ 2.50 USD".
func Format(amountCOP float64, code Code) string {
	return fmt.Sprintf("%s %s %s", Symbol(code), humanize.FormatFloat("#,###.##", Convert(amountCOP, code)), code)
}
