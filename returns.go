package atlas

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// ReturnPoint is the portfolio's capital-normalized return percentage at
// one sample timestamp.
type ReturnPoint struct {
	TS  int64   `json:"ts"`
	Pct float64 `json:"pct"`
}

// ReturnSeries computes the return-percentage series over the full
// available history; display ranges are a pure post-hoc slice (see
// FilterReturns). At each sample T:
//
//	capital(T) = net capital deployed (buy flows minus sell flows)
//	value(T)   = sum of qty(T) x forward-filled close(T), over assets
//	             that produce a price
//	return(T)  = (value(T)/capital(T) - 1) x 100
//
// A sample is emitted only when capital(T) is strictly positive, a
// nonpositive denominator makes the percentage undefined, and only when
// at least one asset reports a price. Recomputing with identical inputs
// yields identical output.
func ReturnSeries(indexes map[uuid.UUID]*PriceIndex, ledger *Ledger, now int64) []ReturnPoint {
	held := ledger.AssetIDs()

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
		assets = append(assets, series{id: id, index: index})
		for _, p := range index.Points() {
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
		if ts <= now {
			samples = append(samples, ts)
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	out := make([]ReturnPoint, 0, len(samples))
	for _, ts := range samples {
		capital := ledger.CapitalAt(ts).InexactFloat64()
		if capital <= 0 {
			continue
		}

		var value float64
		var priced bool
		for _, a := range assets {
			close, ok := a.index.CloseAsOf(ts)
			if !ok {
				continue
			}
			value += ledger.QuantityAt(a.id, ts).InexactFloat64() * close
			priced = true
		}
		if !priced {
			continue
		}

		out = append(out, ReturnPoint{TS: ts, Pct: (value/capital - 1) * 100})
	}
	return out
}

// FilterReturns slices a return series to samples with TS >= start. With
// start 0 the series is returned unchanged.
func FilterReturns(series []ReturnPoint, start int64) []ReturnPoint {
	if start <= 0 {
		return series
	}
	i := sort.Search(len(series), func(i int) bool { return series[i].TS >= start })
	return series[i:]
}
