package atlas

import (
	"errors"
	"testing"
)

func TestLedger_AppendOrders(t *testing.T) {
	ledger := newTestLedger(t,
		buy(t, btcID, 1, 100, 3000),
		snapshot(t, ethID, 2, UnknownTime()),
		buy(t, btcID, 1, 100, 1000),
	)
	var got []int64
	for tx := range ledger.All() {
		got = append(got, tx.Time.Unix())
	}
	want := []int64{0, 1000, 3000}
	if len(got) != len(want) {
		t.Fatalf("All() yielded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d at ts %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLedger_AppendRejectsInvalid(t *testing.T) {
	ledger := NewLedger()
	bad := buy(t, btcID, 1, 100, 1000)
	bad.Quantity = Q(-1)
	if err := ledger.Append(bad); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Append(invalid) error = %v, want ErrInvalidQuantity", err)
	}
	if ledger.Len() != 0 {
		t.Errorf("Len() = %d after rejected append, want 0", ledger.Len())
	}
}

func TestLedger_AppendRejectsDuplicateID(t *testing.T) {
	tx := buy(t, btcID, 1, 100, 1000)

	// Duplicate within one batch.
	ledger := NewLedger()
	if err := ledger.Append(tx, tx); err == nil {
		t.Error("Append(tx, tx) error = nil, want duplicate id error")
	}
	if ledger.Len() != 0 {
		t.Errorf("Len() = %d after rejected append, want 0", ledger.Len())
	}

	// Duplicate of an already appended entry.
	ledger = newTestLedger(t, tx)
	if err := ledger.Append(tx); err == nil {
		t.Error("Append(existing) error = nil, want duplicate id error")
	}
	if ledger.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ledger.Len())
	}
}

func TestLedger_UpdateIsAtomic(t *testing.T) {
	tx := buy(t, btcID, 10, 100, 1000)
	ledger := newTestLedger(t, tx)

	// A patch that fails validation must leave the entry untouched.
	bad := Q(-5)
	err := ledger.Update(tx.ID, TxUpdate{Quantity: &bad}, false)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("Update(invalid) error = %v, want ErrInvalidQuantity", err)
	}
	got, err := ledger.Get(tx.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Quantity.Equal(Q(10)) {
		t.Errorf("Quantity = %s after failed update, want 10", got.Quantity)
	}

	ok := Q(7)
	if err := ledger.Update(tx.ID, TxUpdate{Quantity: &ok}, false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ = ledger.Get(tx.ID)
	if !got.Quantity.Equal(Q(7)) {
		t.Errorf("Quantity = %s, want 7", got.Quantity)
	}
}

func TestLedger_LockBlocksEditAndDelete(t *testing.T) {
	tx := buy(t, btcID, 10, 100, 1000)
	ledger := newTestLedger(t, tx)
	if err := ledger.Lock(tx.ID, 5000); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	qty := Q(5)
	err := ledger.Update(tx.ID, TxUpdate{Quantity: &qty}, false)
	var locked *LockedTransactionError
	if !errors.As(err, &locked) {
		t.Fatalf("Update(locked) error = %v, want LockedTransactionError", err)
	}
	if locked.ID != tx.ID {
		t.Errorf("LockedTransactionError.ID = %s, want %s", locked.ID, tx.ID)
	}
	if err := ledger.SoftDelete(tx.ID, 6000, false); !errors.As(err, &locked) {
		t.Errorf("SoftDelete(locked) error = %v, want LockedTransactionError", err)
	}

	// Explicit override bypasses the lock.
	if err := ledger.Update(tx.ID, TxUpdate{Quantity: &qty}, true); err != nil {
		t.Errorf("Update(locked, override) error = %v", err)
	}

	if err := ledger.Unlock(tx.ID); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := ledger.SoftDelete(tx.ID, 6000, false); err != nil {
		t.Errorf("SoftDelete(unlocked) error = %v", err)
	}
}

func TestLedger_SoftDeleteHidesEntry(t *testing.T) {
	keep := buy(t, btcID, 10, 100, 1000)
	gone := buy(t, btcID, 5, 100, 2000)
	ledger := newTestLedger(t, keep, gone)
	if err := ledger.SoftDelete(gone.ID, 3000, false); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	if !ledger.QuantityAt(btcID, 9000).Equal(Q(10)) {
		t.Errorf("QuantityAt() = %s after soft delete, want 10", ledger.QuantityAt(btcID, 9000))
	}
	var total int
	for range ledger.Everything() {
		total++
	}
	if total != 2 {
		t.Errorf("Everything() yielded %d, want 2 (deleted entries retained)", total)
	}
	if _, err := ledger.Get(gone.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestLedger_QuantityAt(t *testing.T) {
	ledger := newTestLedger(t,
		buy(t, btcID, 10, 100, 1000),
		sell(t, btcID, 4, 150, 2000),
		snapshot(t, btcID, 3, At(3000)),
		snapshot(t, ethID, 7, UnknownTime()),
	)
	checks := []struct {
		ts   int64
		want float64
	}{
		{500, 0},
		{1000, 10},
		{2500, 6},
		{3000, 9},
	}
	for _, c := range checks {
		if got := ledger.QuantityAt(btcID, c.ts); !got.Equal(Q(c.want)) {
			t.Errorf("QuantityAt(btc, %d) = %s, want %v", c.ts, got, c.want)
		}
	}
	// Unknown-dated snapshots are in effect at every instant.
	if got := ledger.QuantityAt(ethID, -1); !got.Equal(Q(7)) {
		t.Errorf("QuantityAt(eth, -1) = %s, want 7", got)
	}
}

func TestLedger_CapitalAt(t *testing.T) {
	ledger := newTestLedger(t,
		buy(t, btcID, 1, 100, 1000),
		sell(t, btcID, 1, 120, 2000),
		snapshot(t, ethID, 5, At(1500)),
	)
	checks := []struct {
		ts   int64
		want float64
	}{
		{500, 0},
		{1500, 100},  // snapshots never move capital
		{2000, -20},  // proceeds exceeded the basis
	}
	for _, c := range checks {
		if got := ledger.CapitalAt(c.ts); !got.Equal(Q(c.want)) {
			t.Errorf("CapitalAt(%d) = %s, want %v", c.ts, got, c.want)
		}
	}
}
