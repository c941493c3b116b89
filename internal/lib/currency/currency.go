// Package currency converts stored minor units (cents) into the display
// forms the dashboard uses.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MinorUnitExponent is the number of decimal places between the stored
// minor unit and the major unit (cents -> dollars).
const MinorUnitExponent = 2

var printer = message.NewPrinter(language.AmericanEnglish)

// ToMajor converts minor units to major units: 125000 -> 1250.
func ToMajor(cents int64) decimal.Decimal {
	return decimal.New(cents, -MinorUnitExponent)
}

// Format renders minor units as an en-US dollar string, the same shape
// as Intl.NumberFormat("en-US", {style: "currency", currency: "USD"}):
//
//	0       -> "$0.00"
//	5000    -> "$50.00"
//	125000  -> "$1,250.00"
//	-1999   -> "-$19.99"
//
// The dollars are grouped by the en-US printer as an integer and the
// cents come from the decimal's fixed string, so no float is involved.
func Format(cents int64) string {
	amount := ToMajor(cents)

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	_, frac, _ := strings.Cut(amount.StringFixed(MinorUnitExponent), ".")

	return sign + "$" + printer.Sprintf("%d", amount.IntPart()) + "." + frac
}
