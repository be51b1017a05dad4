package renderer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
)

// TransactionsMarkdown renders the live ledger entries, oldest first.
// Snapshots with no known date show a dash instead of a day.
func TransactionsMarkdown(ledger *atlas.Ledger, symbols map[uuid.UUID]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| Date | Asset | Type | Quantity | Price | Flow | ID |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|:---|")

	for tx := range ledger.All() {
		when := "-"
		if tx.Time.Known() {
			when = day(tx.Time.Unix())
		}
		symbol := symbols[tx.AssetID]
		if symbol == "" {
			symbol = tx.AssetID.String()
		}
		price, flow := "-", "-"
		if tx.Type != atlas.Snapshot {
			price = usd(tx.PriceUSD.InexactFloat64())
			flow = usd(tx.Flow().InexactFloat64())
		}
		locked := ""
		if tx.Locked() {
			locked = " 🔒"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s%s |\n",
			when, symbol, tx.Type, tx.Quantity, price, flow, tx.ID, locked)
	}
	return b.String()
}
