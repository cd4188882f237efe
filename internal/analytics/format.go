package analytics

import "github.com/shopspring/decimal"

// CurrencySymbol is the single fixed currency symbol; no locale handling
const CurrencySymbol = "$"

// Round2 rounds to 2 decimal places, half away from zero
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatCurrency renders an amount as a fixed-point currency string, e.g. "$1500.00"
func FormatCurrency(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(2)
}

// FormatPercent renders an already percent-scaled value as an integer
// percentage string, e.g. 50.4 -> "50%"
func FormatPercent(pct decimal.Decimal) string {
	return pct.Round(0).String() + "%"
}

// FormatChange renders a Change, using "n/a" for the not-applicable sentinel
func FormatChange(c Change) string {
	if !c.OK {
		return "n/a"
	}
	if c.Value.IsPositive() {
		return "+" + FormatPercent(c.Value)
	}
	return FormatPercent(c.Value)
}
