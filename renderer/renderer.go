// Package renderer turns accounting results into markdown reports for
// the terminal.
package renderer

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
)

// usd formats a value as US dollars with the conventional separators.
func usd(v float64) string {
	return money.NewFromFloat(v, money.USD).Display()
}

// signedUSD is usd with an explicit sign, "-" for an exact zero.
func signedUSD(v float64) string {
	if v == 0 {
		return "-"
	}
	if v > 0 {
		return "+" + usd(v)
	}
	return usd(v)
}

// pct formats a percentage with an explicit sign.
func pct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// day formats a unix timestamp as a UTC calendar day.
func day(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}
