package renderer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
)

// HoldingsMarkdown renders every open position with its latest price,
// trailing changes and unrealized P&L. Assets with no activity are left
// out entirely.
func HoldingsMarkdown(assets []atlas.Asset, indexes map[uuid.UUID]*atlas.PriceIndex, ledger *atlas.Ledger, now int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")
	fmt.Fprintln(&b, "| Symbol | Type | Quantity | Price | Value | 24h | 7d | Unrealized | % |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")

	for _, a := range assets {
		if a.Deleted() {
			continue
		}
		s := ledger.Summarize(a.ID)
		if s.Empty() || !s.Held() {
			continue
		}

		price, value := "-", "-"
		change24, change7 := "-", "-"
		unrealized, upct := "-", "-"
		if index := indexes[a.ID]; index != nil {
			if latest, ok := index.Latest(); ok {
				price = usd(latest.Close)
				value = usd(s.NetQuantity.InexactFloat64() * latest.Close)
				if u, ok := s.Unrealized(latest.Close); ok {
					unrealized = signedUSD(u.PnL)
					upct = pct(u.Pct)
				}
			}
			if c, ok := index.ChangeSincePrevClose(); ok {
				change24 = pct(c)
			}
			if c, ok := index.ChangeOverWindow(7, now); ok {
				change7 = pct(c)
			}
		}

		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			a.Symbol, a.Type, s.NetQuantity, price, value, change24, change7, unrealized, upct)
	}
	return b.String()
}

// RealizedMarkdown renders the realized P&L of every asset that has both
// buys and sells. Without any qualifying position the table is replaced
// by a short note.
func RealizedMarkdown(assets []atlas.Asset, ledger *atlas.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Realized P&L\n\n")

	var rows int
	var table strings.Builder
	fmt.Fprintln(&table, "| Symbol | Sold | Avg Sell | Cost of Sold | Proceeds | P&L | % |")
	fmt.Fprintln(&table, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, a := range assets {
		if a.Deleted() {
			continue
		}
		r, ok := ledger.Summarize(a.ID).Realized()
		if !ok {
			continue
		}
		rows++
		fmt.Fprintf(&table, "| %s | %s | %s | %s | %s | %s | %s |\n",
			a.Symbol, r.SoldQuantity,
			usd(r.AvgSellPrice.InexactFloat64()),
			usd(r.CostOfSold.InexactFloat64()),
			usd(r.Proceeds.InexactFloat64()),
			signedUSD(r.PnL.InexactFloat64()),
			pct(r.Pct))
	}

	if rows == 0 {
		fmt.Fprintln(&b, "No realized positions yet.")
		return b.String()
	}
	b.WriteString(table.String())
	return b.String()
}
