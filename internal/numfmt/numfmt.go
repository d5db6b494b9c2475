// Package numfmt formats figures for display with English digit grouping.
package numfmt

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number formats v with the given number of decimals, e.g. 1234.5 -> "1,234.5".
func Number(v float64, decimals int) string {
	return printer.Sprintf("%."+strconv.Itoa(decimals)+"f", v)
}

func Percent(v float64, decimals int) string {
	return Number(v, decimals) + "%"
}

func TWh(v float64) string {
	return Number(v, 1) + " TWh"
}

// Signed is Number with an explicit plus sign for non-negative values.
func Signed(v float64, decimals int) string {
	if v >= 0 {
		return "+" + Number(v, decimals)
	}
	return Number(v, decimals)
}

// Int formats an integer with grouping, e.g. 12000 -> "12,000".
func Int(n int) string {
	return printer.Sprintf("%d", n)
}
