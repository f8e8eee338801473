package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Los montos se muestran con separador de miles y dos decimales (1,234.50),
// el formato de los recibos en Kenia.
var printer = message.NewPrinter(language.English)

// Amount formatea un monto para humanos: "1,234.50".
func Amount(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Format antepone la moneda: "KES 1,234.50". Sin moneda equivale a Amount.
func Format(d decimal.Decimal, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return Amount(d)
	}
	return currency + " " + Amount(d)
}

// Percent formatea un porcentaje ya multiplicado por 100: "12.5%".
func Percent(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.Round(1).InexactFloat64(), number.MaxFractionDigits(1))) + "%"
}
