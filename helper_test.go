package atlas

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	btcID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	ethID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	aaplID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// Q is a helper for tests to build a quantity from a const.
func Q(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func buy(t *testing.T, asset uuid.UUID, qty, price float64, ts int64) Transaction {
	t.Helper()
	tx, err := NewTransaction(asset, Buy, Q(qty), Q(price), At(ts), "", ts)
	if err != nil {
		t.Fatalf("NewTransaction(buy) error = %v", err)
	}
	return tx
}

func sell(t *testing.T, asset uuid.UUID, qty, price float64, ts int64) Transaction {
	t.Helper()
	tx, err := NewTransaction(asset, Sell, Q(qty), Q(price), At(ts), "", ts)
	if err != nil {
		t.Fatalf("NewTransaction(sell) error = %v", err)
	}
	return tx
}

func snapshot(t *testing.T, asset uuid.UUID, qty float64, at TxTime) Transaction {
	t.Helper()
	tx, err := NewTransaction(asset, Snapshot, Q(qty), decimal.Zero, at, "", 1)
	if err != nil {
		t.Fatalf("NewTransaction(snapshot) error = %v", err)
	}
	return tx
}

func newTestLedger(t *testing.T, txs ...Transaction) *Ledger {
	t.Helper()
	ledger := NewLedger()
	if err := ledger.Append(txs...); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return ledger
}

func pt(asset uuid.UUID, ts int64, close float64) PricePoint {
	return PricePoint{AssetID: asset, TS: ts, Close: close}
}

func index(pts ...PricePoint) *PriceIndex { return NewPriceIndex(pts) }

// eq compares floats with the tolerance used throughout the tests.
func eq(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
