package atlas

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Range selects how far back a chart-shaped series reaches.
type Range string

const (
	Range7D  Range = "7d"
	Range30D Range = "30d"
	Range90D Range = "90d"
	Range1Y  Range = "1y"
	Range5Y  Range = "5y"
	RangeAll Range = "all"
)

// ParseRange parses a range selector.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case Range7D, Range30D, Range90D, Range1Y, Range5Y, RangeAll:
		return Range(s), nil
	default:
		return "", fmt.Errorf("unknown range: %q (want 7d, 30d, 90d, 1y, 5y or all)", s)
	}
}

// days returns the range width in days, 0 for the full history.
func (r Range) days() int {
	switch r {
	case Range7D:
		return 7
	case Range30D:
		return 30
	case Range90D:
		return 90
	case Range1Y:
		return 365
	case Range5Y:
		return 5 * 365
	default:
		return 0
	}
}

// Start returns the first timestamp included in the range ending at now,
// 0 for the full history.
func (r Range) Start(now int64) int64 {
	d := r.days()
	if d == 0 {
		return 0
	}
	return now - int64(d)*86400
}

// ValuePoint is the total portfolio value at one sample timestamp.
type ValuePoint struct {
	TS    int64   `json:"ts"`
	Value float64 `json:"value"`
}

// PortfolioValues aligns every asset's price series and ledger onto a
// common timestamp grid and returns the forward-filled portfolio value
// series over the given range.
//
// The grid is the union of all price timestamps, restricted to the range,
// across assets that have at least one live transaction. At each sample T
// an asset contributes qty(T) times its last known close at or before T;
// assets whose series starts after T contribute nothing. Samples where no
// asset reports a price are dropped entirely rather than emitted as zero,
// a zero there would be a misleading drop-to-zero artifact.
func PortfolioValues(indexes map[uuid.UUID]*PriceIndex, ledger *Ledger, r Range, now int64) []ValuePoint {
	start := r.Start(now)
	held := ledger.AssetIDs()

	// Collect the per-asset restricted series and the union grid.
	type series struct {
		id    uuid.UUID
		index *PriceIndex
	}
	var assets []series
	grid := make(map[int64]bool)
	for id, index := range indexes {
		if !held[id] || index == nil {
			continue
		}
		restricted := index.Since(start)
		if restricted.Len() == 0 {
			continue
		}
		assets = append(assets, series{id: id, index: restricted})
		for _, p := range restricted.Points() {
			grid[p.TS] = true
		}
	}
	if len(grid) == 0 {
		return nil
	}
	// Accumulation order must not depend on map iteration order, float
	// sums are sensitive to it.
	sort.Slice(assets, func(i, j int) bool {
		return bytes.Compare(assets[i].id[:], assets[j].id[:]) < 0
	})

	samples := make([]int64, 0, len(grid))
	for ts := range grid {
		samples = append(samples, ts)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	values := make([]ValuePoint, 0, len(samples))
	for _, ts := range samples {
		var total float64
		var priced bool
		for _, a := range assets {
			close, ok := a.index.CloseAsOf(ts)
			if !ok {
				continue
			}
			qty := ledger.QuantityAt(a.id, ts)
			total += qty.InexactFloat64() * close
			priced = true
		}
		if priced {
			values = append(values, ValuePoint{TS: ts, Value: total})
		}
	}
	return values
}
