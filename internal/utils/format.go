package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// FormatHumanReadable форматирует сумму в короткий вид для дашборда:
// "1,23 mln PLN", "500,00 tys. PLN", "12,50 PLN".
func FormatHumanReadable(amount decimal.Decimal, currency string) string {
	if amount.IsZero() {
		return "0,00 " + currency
	}

	negative := amount.IsNegative()
	value := amount.Abs()

	var suffix string
	switch {
	case value.GreaterThanOrEqual(billion):
		value = value.Div(billion)
		suffix = "mld"
	case value.GreaterThanOrEqual(million):
		value = value.Div(million)
		suffix = "mln"
	case value.GreaterThanOrEqual(thousand):
		value = value.Div(thousand)
		suffix = "tys."
	}

	formatted := strings.Replace(value.StringFixed(2), ".", ",", 1)
	if negative {
		formatted = "-" + formatted
	}

	if suffix == "" {
		return formatted + " " + currency
	}
	return formatted + " " + suffix + " " + currency
}
