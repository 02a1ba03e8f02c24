package validator

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
	leadingNumber = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)`)
)

// ParsePrice извлекает число из введенной цены
// Удаляет все символы, кроме цифр и точки, затем читает начальное число,
// так что "$5.15" дает 5.15, а "1.2.3" дает 1.2
func ParsePrice(input string) (decimal.Decimal, bool) {
	cleaned := nonPriceChars.ReplaceAllString(input, "")
	number := leadingNumber.FindString(cleaned)
	if number == "" {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(strings.TrimSuffix(number, "."))
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// CanonicalPrice форматирует цену как "$" + два знака после точки
// Округление половины идет от нуля: 5.155 -> $5.16
func CanonicalPrice(value decimal.Decimal) string {
	return "$" + value.StringFixed(2)
}
