package atlas

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingSummary is the derived accounting state of one asset. It is
// recomputed on demand from the ledger and never persisted, so it cannot
// go stale.
type HoldingSummary struct {
	TotalBought      decimal.Decimal // sum of buy quantities
	TotalSold        decimal.Decimal // sum of sell quantities
	TotalSoldValue   decimal.Decimal // sum of sell quantity x price
	SnapshotQuantity decimal.Decimal // sum of snapshot quantities
	TotalCostBasis   decimal.Decimal // sum of buy quantity x price
	NetQuantity      decimal.Decimal // bought - sold + snapshots
	AvgCostPerUnit   decimal.Decimal // cost basis / bought, zero if nothing bought
}

// Summarize accumulates the holding summary for one asset in a single
// pass over its live ledger entries. Buys feed the cost basis, sells feed
// the proceeds, snapshots only adjust quantity: they represent holdings
// of unknown provenance and have no cost-basis effect.
func (l *Ledger) Summarize(assetID uuid.UUID) HoldingSummary {
	var s HoldingSummary
	s.TotalBought = decimal.Zero
	s.TotalSold = decimal.Zero
	s.TotalSoldValue = decimal.Zero
	s.SnapshotQuantity = decimal.Zero
	s.TotalCostBasis = decimal.Zero

	for tx := range l.Entries(assetID) {
		switch tx.Type {
		case Buy:
			s.TotalBought = s.TotalBought.Add(tx.Quantity)
			s.TotalCostBasis = s.TotalCostBasis.Add(tx.Flow())
		case Sell:
			s.TotalSold = s.TotalSold.Add(tx.Quantity)
			s.TotalSoldValue = s.TotalSoldValue.Add(tx.Flow())
		case Snapshot:
			s.SnapshotQuantity = s.SnapshotQuantity.Add(tx.Quantity)
		}
	}

	s.NetQuantity = s.TotalBought.Sub(s.TotalSold).Add(s.SnapshotQuantity)
	s.AvgCostPerUnit = decimal.Zero
	if s.TotalBought.IsPositive() {
		s.AvgCostPerUnit = s.TotalCostBasis.Div(s.TotalBought)
	}
	return s
}

// Empty reports whether the summary reflects no activity at all.
func (s HoldingSummary) Empty() bool {
	return s.TotalBought.IsZero() && s.TotalSold.IsZero() && s.SnapshotQuantity.IsZero()
}

// Held reports whether the asset has a nonzero open position.
func (s HoldingSummary) Held() bool { return !s.NetQuantity.IsZero() }

// Short reports a pure short position: sells with no buys at all.
func (s HoldingSummary) Short() bool {
	return s.TotalBought.IsZero() && s.TotalSold.IsPositive()
}

// RealizedPnL is the profit locked in by completed sales, valued against
// the average cost of all buys.
type RealizedPnL struct {
	SoldQuantity decimal.Decimal
	AvgSellPrice decimal.Decimal
	CostOfSold   decimal.Decimal
	Proceeds     decimal.Decimal
	PnL          decimal.Decimal
	Pct          float64
}

// Realized returns the realized P&L of the position. It is defined only
// when both sales and buys exist: a pure short or a pure unsold long
// yields no realized figure, absent rather than zero. That is a deliberate
// limit of the average-cost model used here.
func (s HoldingSummary) Realized() (RealizedPnL, bool) {
	if !s.TotalSold.IsPositive() || !s.TotalBought.IsPositive() {
		return RealizedPnL{}, false
	}
	r := RealizedPnL{
		SoldQuantity: s.TotalSold,
		AvgSellPrice: s.TotalSoldValue.Div(s.TotalSold),
		CostOfSold:   s.TotalSold.Mul(s.AvgCostPerUnit),
		Proceeds:     s.TotalSoldValue,
	}
	r.PnL = r.Proceeds.Sub(r.CostOfSold)
	if r.CostOfSold.IsPositive() {
		r.Pct = r.PnL.Div(r.CostOfSold).InexactFloat64() * 100
	}
	return r, true
}

// UnrealizedPnL is the paper profit of the open position at a current
// price, against its cost basis (long) or its short proceeds (short).
type UnrealizedPnL struct {
	CurrentValue      float64
	CurrentlyInvested float64 // long basis; zero for a pure short
	ShortProceeds     float64 // short basis; zero for a long
	PnL               float64
	Pct               float64
	Short             bool
}

// Unrealized returns the unrealized P&L of the open position at the given
// current price. It is absent when the position is flat or when there is
// no holding at all.
func (s HoldingSummary) Unrealized(currentPrice float64) (UnrealizedPnL, bool) {
	if s.Empty() || !s.Held() {
		return UnrealizedPnL{}, false
	}
	netQty := s.NetQuantity.InexactFloat64()

	if s.Short() {
		// Pure short: value is negative, profit comes from price decline
		// below the collected proceeds.
		proceeds := s.TotalSoldValue.InexactFloat64()
		u := UnrealizedPnL{
			CurrentValue:  netQty * currentPrice,
			ShortProceeds: proceeds,
			Short:         true,
		}
		u.PnL = u.CurrentValue + proceeds
		if proceeds != 0 {
			u.Pct = u.PnL / proceeds * 100
		}
		return u, true
	}

	if !s.TotalBought.IsPositive() {
		// Snapshot-only holding: no basis to measure against.
		return UnrealizedPnL{}, false
	}

	invested := s.NetQuantity.Mul(s.AvgCostPerUnit).InexactFloat64()
	u := UnrealizedPnL{
		CurrentValue:      netQty * currentPrice,
		CurrentlyInvested: invested,
	}
	u.PnL = u.CurrentValue - invested
	if invested != 0 {
		u.Pct = u.PnL / invested * 100
	}
	return u, true
}
