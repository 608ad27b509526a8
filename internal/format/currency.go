package format

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultCurrency = "AUD"

var symbols = map[string]string{
	"AUD": "$",
	"NZD": "NZ$",
	"USD": "US$",
	"EUR": "€",
	"GBP": "£",
}

var printer = message.NewPrinter(language.English)

// Currency renders amount with grouping and two decimals, e.g. "$1,234.50".
// Unknown or empty codes fall back to AUD.
func Currency(amount float64, code string) string {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		unit = currency.AUD
	}

	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	return sign + symbol + printer.Sprintf("%.2f", amount)
}
