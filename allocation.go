package atlas

import (
	"sort"

	"github.com/google/uuid"
)

// palette is the fixed cycle of segment colors. An asset's color depends
// only on its rank by AddedAt, so it stays stable across price moves and
// across sessions.
var palette = [...]string{
	"#3b82f6",
	"#a855f7",
	"#f59e0b",
	"#10b981",
	"#f43f5e",
	"#06b6d4",
	"#fb923c",
	"#8b5cf6",
	"#84cc16",
	"#ec4899",
	"#14b8a6",
	"#f97316",
}

// AssetColor returns the chart color for an asset given the full set of
// live assets it belongs to.
func AssetColor(asset Asset, all []Asset) string {
	ranked := make([]Asset, 0, len(all))
	for _, a := range all {
		if !a.Deleted() {
			ranked = append(ranked, a)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].AddedAt < ranked[j].AddedAt })
	for i, a := range ranked {
		if a.ID == asset.ID {
			return palette[i%len(palette)]
		}
	}
	return palette[0]
}

// AllocationSegment is one asset's share of current portfolio value.
type AllocationSegment struct {
	AssetID uuid.UUID `json:"asset_id"`
	Symbol  string    `json:"symbol"`
	Value   float64   `json:"value"`
	Pct     float64   `json:"pct"`
	Color   string    `json:"color"`
}

// Allocation breaks the portfolio's current value down per asset. Only
// long positions contribute: an asset with nonpositive net quantity, or
// no latest price, is skipped, and percentages are taken over the sum of
// the included values so they always total 100. Returns nil when nothing
// qualifies.
func Allocation(assets []Asset, indexes map[uuid.UUID]*PriceIndex, ledger *Ledger) []AllocationSegment {
	segments := make([]AllocationSegment, 0, len(assets))
	var total float64
	for _, a := range assets {
		if a.Deleted() {
			continue
		}
		index := indexes[a.ID]
		if index == nil {
			continue
		}
		latest, ok := index.Latest()
		if !ok {
			continue
		}
		qty := ledger.Summarize(a.ID).NetQuantity.InexactFloat64()
		if qty <= 0 {
			continue
		}
		value := qty * latest.Close
		total += value
		segments = append(segments, AllocationSegment{
			AssetID: a.ID,
			Symbol:  a.Symbol,
			Value:   value,
			Color:   AssetColor(a, assets),
		})
	}
	if len(segments) == 0 || total <= 0 {
		return nil
	}
	for i := range segments {
		segments[i].Pct = segments[i].Value / total * 100
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Value > segments[j].Value })
	return segments
}
