package atlas

import "testing"

func TestPriceIndex_CloseAsOf(t *testing.T) {
	x := index(
		pt(btcID, 1000, 10),
		pt(btcID, 3000, 12),
	)
	tests := []struct {
		name   string
		ts     int64
		want   float64
		wantOK bool
	}{
		{"exact hit", 1000, 10, true},
		{"gap forward-fills", 2000, 10, true},
		{"after last point", 9000, 12, true},
		{"before first point", 500, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := x.CloseAsOf(tt.ts)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("CloseAsOf(%d) = %v, %v, want %v, %v", tt.ts, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPriceIndex_CloseAsOfMonotonic(t *testing.T) {
	x := index(
		pt(btcID, 100, 1),
		pt(btcID, 200, 2),
		pt(btcID, 500, 3),
		pt(btcID, 900, 4),
	)
	var last float64
	for ts := int64(100); ts <= 1000; ts += 50 {
		got, ok := x.CloseAsOf(ts)
		if !ok {
			t.Fatalf("CloseAsOf(%d) absent", ts)
		}
		if got < last {
			t.Fatalf("CloseAsOf(%d) = %v went backwards from %v", ts, got, last)
		}
		last = got
	}
}

func TestPriceIndex_SortsUnorderedInput(t *testing.T) {
	x := index(
		pt(btcID, 3000, 12),
		pt(btcID, 1000, 10),
		pt(btcID, 2000, 11),
	)
	if got, _ := x.Earliest(); got.TS != 1000 {
		t.Errorf("Earliest().TS = %d, want 1000", got.TS)
	}
	if got, _ := x.Latest(); got.TS != 3000 {
		t.Errorf("Latest().TS = %d, want 3000", got.TS)
	}
}

func TestPriceIndex_Since(t *testing.T) {
	x := index(
		pt(btcID, 1000, 10),
		pt(btcID, 2000, 11),
		pt(btcID, 3000, 12),
	)
	if got := x.Since(1500).Len(); got != 2 {
		t.Errorf("Since(1500).Len() = %d, want 2", got)
	}
	if got := x.Since(0).Len(); got != 3 {
		t.Errorf("Since(0).Len() = %d, want 3", got)
	}
	// A series restricted to a late start has no memory of earlier points.
	if _, ok := x.Since(1500).CloseAsOf(1500); ok {
		t.Error("CloseAsOf before restricted start should be absent")
	}
}

func TestPriceIndex_ChangeOverWindow(t *testing.T) {
	now := int64(100 * 86400)
	x := index(
		pt(btcID, now-6*86400, 100),
		pt(btcID, now-3*86400, 110),
		pt(btcID, now, 120),
	)

	got, ok := x.ChangeOverWindow(7, now)
	if !ok || !eq(got, 20) {
		t.Errorf("ChangeOverWindow(7) = %v, %v, want 20, true", got, ok)
	}

	// A single point in the window is not a change.
	if _, ok := x.ChangeOverWindow(1, now); ok {
		t.Error("ChangeOverWindow(1) present with one point, want absent")
	}

	// A zero first close would divide by zero.
	z := index(pt(btcID, now-86400, 0), pt(btcID, now, 50))
	if _, ok := z.ChangeOverWindow(7, now); ok {
		t.Error("ChangeOverWindow with zero base present, want absent")
	}
}

func TestPriceIndex_ChangeSincePrevClose(t *testing.T) {
	// Daily candles land one point per day, so the day-over-day change is
	// the step between the two most recent closes, wherever they fall.
	x := index(
		pt(btcID, 86400, 100),
		pt(btcID, 2*86400, 110),
		pt(btcID, 3*86400, 132),
	)
	got, ok := x.ChangeSincePrevClose()
	if !ok || !eq(got, 20) {
		t.Errorf("ChangeSincePrevClose() = %v, %v, want 20, true", got, ok)
	}

	if _, ok := index(pt(btcID, 86400, 100)).ChangeSincePrevClose(); ok {
		t.Error("ChangeSincePrevClose with one point present, want absent")
	}

	z := index(pt(btcID, 86400, 0), pt(btcID, 2*86400, 50))
	if _, ok := z.ChangeSincePrevClose(); ok {
		t.Error("ChangeSincePrevClose with zero base present, want absent")
	}
}

func TestPricePoint_Candle(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	full := PricePoint{Open: f(9), High: f(13), Low: f(8), Close: 12}
	o, h, l, c := full.Candle()
	if o != 9 || h != 13 || l != 8 || c != 12 {
		t.Errorf("Candle() = %v %v %v %v, want 9 13 8 12", o, h, l, c)
	}

	// Close-only points synthesize a flat candle.
	flat := PricePoint{Close: 12}
	o, h, l, c = flat.Candle()
	if o != 12 || h != 12 || l != 12 || c != 12 {
		t.Errorf("Candle() = %v %v %v %v, want all 12", o, h, l, c)
	}
}
