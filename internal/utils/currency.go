package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale - число знаков после запятой в денежных колонках NUMERIC(15,2).
const MoneyScale = 2

// NormalizeCurrency приводит код валюты к верхнему регистру и убирает пробелы.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCurrency проверяет, что код состоит из трёх латинских букв (ISO 4217).
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// HasMoneyScale сообщает, хранится ли сумма без округления.
// Незначащие нули не мешают: "1.500" допустимо, "0.005" нет.
func HasMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyScale))
}
