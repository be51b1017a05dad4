package atlas

import (
	"sort"

	"github.com/google/uuid"
)

// PricePoint is one observation of an asset's market price. Close is
// mandatory; the other OHLCV fields are optional and fall back to the
// close for display.
type PricePoint struct {
	AssetID uuid.UUID `json:"asset_id"`
	TS      int64     `json:"ts"`
	Open    *float64  `json:"open"`
	High    *float64  `json:"high"`
	Low     *float64  `json:"low"`
	Close   float64   `json:"close"`
	Volume  *float64  `json:"volume"`
}

// Candle returns the point's OHLC values with missing fields replaced by
// the close.
func (p PricePoint) Candle() (open, high, low, close float64) {
	open, high, low, close = p.Close, p.Close, p.Close, p.Close
	if p.Open != nil {
		open = *p.Open
	}
	if p.High != nil {
		high = *p.High
	}
	if p.Low != nil {
		low = *p.Low
	}
	return
}

// PriceIndex holds one asset's price points sorted ascending by
// timestamp, with fast "last known close at or before T" lookup. That
// lookup is the forward-fill primitive: gaps in the series, weekends or
// provider outages, are bridged by carrying the last known close forward,
// never interpolated.
//
// The index is immutable after construction; engines receive it as a
// read-only snapshot per computation.
type PriceIndex struct {
	points []PricePoint
}

// NewPriceIndex builds an index from an unordered point collection. The
// input slice is copied and sorted once.
func NewPriceIndex(points []PricePoint) *PriceIndex {
	sorted := make([]PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS < sorted[j].TS })
	return &PriceIndex{points: sorted}
}

// Len returns the number of points in the index.
func (x *PriceIndex) Len() int { return len(x.points) }

// Points returns the sorted points backing the index. Callers must not
// mutate the returned slice.
func (x *PriceIndex) Points() []PricePoint { return x.points }

// Latest returns the most recent point, or false on an empty index.
func (x *PriceIndex) Latest() (PricePoint, bool) {
	if len(x.points) == 0 {
		return PricePoint{}, false
	}
	return x.points[len(x.points)-1], true
}

// Earliest returns the oldest point, or false on an empty index.
func (x *PriceIndex) Earliest() (PricePoint, bool) {
	if len(x.points) == 0 {
		return PricePoint{}, false
	}
	return x.points[0], true
}

// CloseAsOf returns the close of the rightmost point with TS <= ts, or
// false when the target predates all data. Binary search, O(log n).
func (x *PriceIndex) CloseAsOf(ts int64) (float64, bool) {
	// sort.Search finds the first point strictly after ts; the answer is
	// the point just before it.
	i := sort.Search(len(x.points), func(i int) bool { return x.points[i].TS > ts })
	if i == 0 {
		return 0, false
	}
	return x.points[i-1].Close, true
}

// Since returns the sub-index restricted to points with TS >= ts. The
// backing array is shared, not copied.
func (x *PriceIndex) Since(ts int64) *PriceIndex {
	i := sort.Search(len(x.points), func(i int) bool { return x.points[i].TS >= ts })
	return &PriceIndex{points: x.points[i:]}
}

// ChangeOverWindow returns the percentage change of the close over the
// trailing daysBack days before now. It requires at least two points in
// the window and a nonzero first close; otherwise the change is absent.
func (x *PriceIndex) ChangeOverWindow(daysBack int, now int64) (float64, bool) {
	w := x.Since(now - int64(daysBack)*86400).points
	if len(w) < 2 {
		return 0, false
	}
	first, last := w[0].Close, w[len(w)-1].Close
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

// ChangeSincePrevClose returns the percentage change between the two most
// recent closes, the day-over-day move of a daily series.
func (x *PriceIndex) ChangeSincePrevClose() (float64, bool) {
	n := len(x.points)
	if n < 2 {
		return 0, false
	}
	prev, last := x.points[n-2].Close, x.points[n-1].Close
	if prev == 0 {
		return 0, false
	}
	return (last - prev) / prev * 100, true
}
