package atlas

import (
	"testing"
)

func TestSummarize_LongPosition(t *testing.T) {
	ledger := newTestLedger(t, buy(t, btcID, 10, 100, 1000))
	s := ledger.Summarize(btcID)

	if !s.NetQuantity.Equal(Q(10)) {
		t.Errorf("NetQuantity = %s, want 10", s.NetQuantity)
	}
	if !s.AvgCostPerUnit.Equal(Q(100)) {
		t.Errorf("AvgCostPerUnit = %s, want 100", s.AvgCostPerUnit)
	}
	if !s.TotalCostBasis.Equal(Q(1000)) {
		t.Errorf("TotalCostBasis = %s, want 1000", s.TotalCostBasis)
	}

	u, ok := s.Unrealized(150)
	if !ok {
		t.Fatal("Unrealized() absent, want present")
	}
	if !eq(u.PnL, 500) || !eq(u.Pct, 50) {
		t.Errorf("Unrealized at 150 = %+v, want PnL 500 Pct 50", u)
	}
	if _, ok := s.Realized(); ok {
		t.Error("Realized() present with no sales, want absent")
	}
}

func TestSummarize_PartialSale(t *testing.T) {
	ledger := newTestLedger(t,
		buy(t, btcID, 10, 100, 1000),
		sell(t, btcID, 4, 150, 2000),
	)
	s := ledger.Summarize(btcID)

	if !s.TotalBought.Equal(Q(10)) || !s.TotalSold.Equal(Q(4)) {
		t.Errorf("bought/sold = %s/%s, want 10/4", s.TotalBought, s.TotalSold)
	}
	if !s.TotalSoldValue.Equal(Q(600)) {
		t.Errorf("TotalSoldValue = %s, want 600", s.TotalSoldValue)
	}

	r, ok := s.Realized()
	if !ok {
		t.Fatal("Realized() absent, want present")
	}
	if !r.CostOfSold.Equal(Q(400)) {
		t.Errorf("CostOfSold = %s, want 400", r.CostOfSold)
	}
	if !r.PnL.Equal(Q(200)) || !eq(r.Pct, 50) {
		t.Errorf("Realized = %+v, want PnL 200 Pct 50", r)
	}

	u, ok := s.Unrealized(160)
	if !ok {
		t.Fatal("Unrealized() absent, want present")
	}
	if !eq(u.CurrentlyInvested, 600) || !eq(u.CurrentValue, 960) {
		t.Errorf("invested/value = %v/%v, want 600/960", u.CurrentlyInvested, u.CurrentValue)
	}
	if !eq(u.PnL, 360) || !eq(u.Pct, 60) {
		t.Errorf("Unrealized = %+v, want PnL 360 Pct 60", u)
	}
}

func TestSummarize_PureShort(t *testing.T) {
	ledger := newTestLedger(t, sell(t, btcID, 5, 200, 1000))
	s := ledger.Summarize(btcID)

	if !s.NetQuantity.Equal(Q(-5)) {
		t.Errorf("NetQuantity = %s, want -5", s.NetQuantity)
	}
	if !s.Short() {
		t.Error("Short() = false, want true")
	}
	if _, ok := s.Realized(); ok {
		t.Error("Realized() present for pure short, want absent")
	}

	u, ok := s.Unrealized(150)
	if !ok {
		t.Fatal("Unrealized() absent, want present")
	}
	if !u.Short {
		t.Error("Unrealized.Short = false, want true")
	}
	if !eq(u.CurrentValue, -750) || !eq(u.PnL, 250) {
		t.Errorf("Unrealized = %+v, want value -750 PnL 250", u)
	}
}

func TestSummarize_SnapshotOnly(t *testing.T) {
	ledger := newTestLedger(t, snapshot(t, btcID, 3, UnknownTime()))
	s := ledger.Summarize(btcID)

	if !s.NetQuantity.Equal(Q(3)) {
		t.Errorf("NetQuantity = %s, want 3", s.NetQuantity)
	}
	if !s.TotalCostBasis.IsZero() {
		t.Errorf("TotalCostBasis = %s, want 0 (snapshots carry no cost)", s.TotalCostBasis)
	}
	if _, ok := s.Unrealized(100); ok {
		t.Error("Unrealized() present for snapshot-only holding, want absent")
	}
	if _, ok := s.Realized(); ok {
		t.Error("Realized() present for snapshot-only holding, want absent")
	}
}

func TestSummarize_Properties(t *testing.T) {
	ledger := newTestLedger(t,
		buy(t, btcID, 1.5, 30000, 1000),
		buy(t, btcID, 0.5, 40000, 2000),
		sell(t, btcID, 0.75, 45000, 3000),
		snapshot(t, btcID, 0.25, At(4000)),
	)
	s := ledger.Summarize(btcID)

	net := s.TotalBought.Sub(s.TotalSold).Add(s.SnapshotQuantity)
	if !s.NetQuantity.Equal(net) {
		t.Errorf("NetQuantity = %s, want bought-sold+snapshots = %s", s.NetQuantity, net)
	}
	if !eq(s.AvgCostPerUnit.Mul(s.TotalBought).InexactFloat64(), s.TotalCostBasis.InexactFloat64()) {
		t.Errorf("avg x bought = %s, want cost basis %s", s.AvgCostPerUnit.Mul(s.TotalBought), s.TotalCostBasis)
	}
}

func TestSummarize_FlatPosition(t *testing.T) {
	ledger := newTestLedger(t,
		buy(t, btcID, 10, 100, 1000),
		sell(t, btcID, 10, 150, 2000),
	)
	s := ledger.Summarize(btcID)
	if s.Held() {
		t.Error("Held() = true for flat position, want false")
	}
	if _, ok := s.Unrealized(200); ok {
		t.Error("Unrealized() present for flat position, want absent")
	}
	if r, ok := s.Realized(); !ok || !r.PnL.Equal(Q(500)) {
		t.Errorf("Realized() = %+v ok=%v, want PnL 500", r, ok)
	}
}
