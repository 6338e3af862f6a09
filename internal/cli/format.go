package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money renders a decimal amount as a localized EUR string, e.g. "€12.50".
// The decimal is rounded to cents here and nowhere earlier.
func Money(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.EUR).Display()
}

// SignedMoney renders profit-like amounts with an explicit sign and the
// matching profit or loss color.
func SignedMoney(d decimal.Decimal) string {
	s := Money(d.Abs())
	if d.IsNegative() {
		return LossStyle.Render("-" + s)
	}
	return ProfitStyle.Render("+" + s)
}

// Percent renders a ratio metric with two fraction digits.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
