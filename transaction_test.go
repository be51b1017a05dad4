package atlas

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTxTime_At(t *testing.T) {
	if got := At(1000); !got.Known() || got.Unix() != 1000 {
		t.Errorf("At(1000) = %v, want known 1000", got)
	}
	// Zero is the legacy wire sentinel for an unknown date.
	if got := At(0); got.Known() {
		t.Errorf("At(0) = %v, want unknown", got)
	}
	if UnknownTime().Known() {
		t.Error("UnknownTime().Known() = true, want false")
	}
}

func TestTxTime_InEffectAt(t *testing.T) {
	tests := []struct {
		name string
		time TxTime
		ts   int64
		want bool
	}{
		{"known before query", At(1000), 2000, true},
		{"known at query", At(1000), 1000, true},
		{"known after query", At(3000), 2000, false},
		{"unknown always in effect", UnknownTime(), 0, true},
		{"unknown in effect in the past", UnknownTime(), -5000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.time.InEffectAt(tt.ts); got != tt.want {
				t.Errorf("InEffectAt(%d) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestTxTime_Before(t *testing.T) {
	if !UnknownTime().Before(At(1)) {
		t.Error("unknown should sort before any known time")
	}
	if At(1).Before(UnknownTime()) {
		t.Error("known time should not sort before unknown")
	}
	if !At(1000).Before(At(2000)) {
		t.Error("At(1000).Before(At(2000)) = false, want true")
	}
	if UnknownTime().Before(UnknownTime()) {
		t.Error("unknown should not sort before unknown")
	}
}

func TestTxTime_JSON(t *testing.T) {
	for _, tm := range []TxTime{At(1700000000), UnknownTime()} {
		data, err := json.Marshal(tm)
		if err != nil {
			t.Fatalf("Marshal(%v) error = %v", tm, err)
		}
		var got TxTime
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if got != tm {
			t.Errorf("round trip of %v = %v", tm, got)
		}
	}
	// Unknown marshals as the 0 sentinel for wire compatibility.
	data, _ := json.Marshal(UnknownTime())
	if string(data) != "0" {
		t.Errorf("Marshal(UnknownTime()) = %s, want 0", data)
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		typ     TxType
		qty     float64
		price   float64
		wantErr error
	}{
		{"valid buy", Buy, 10, 100, nil},
		{"valid sell", Sell, 4, 150, nil},
		{"valid snapshot without price", Snapshot, 2, 0, nil},
		{"zero quantity", Buy, 0, 100, ErrInvalidQuantity},
		{"negative quantity", Sell, -1, 100, ErrInvalidQuantity},
		{"zero price on buy", Buy, 10, 0, ErrInvalidPrice},
		{"negative price on sell", Sell, 10, -5, ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(btcID, tt.typ, Q(tt.qty), Q(tt.price), At(1000), "", 1000)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTransaction() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransaction_Flow(t *testing.T) {
	tx := buy(t, btcID, 10, 150, 1000)
	if !tx.Flow().Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Flow() = %s, want 1500", tx.Flow())
	}
}

func TestParseTxType(t *testing.T) {
	for _, s := range []string{"buy", "sell", "snapshot"} {
		if _, err := ParseTxType(s); err != nil {
			t.Errorf("ParseTxType(%q) error = %v", s, err)
		}
	}
	if _, err := ParseTxType("dividend"); err == nil {
		t.Error("ParseTxType(dividend) error = nil, want error")
	}
}
