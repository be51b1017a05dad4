package cmd

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
)

func TestParseWhen(t *testing.T) {
	fallback := atlas.UnknownTime()

	if got, err := parseWhen("", fallback); err != nil || got != fallback {
		t.Errorf("parseWhen(\"\") = %v, %v, want fallback", got, err)
	}

	got, err := parseWhen("2026-08-01", fallback)
	if err != nil {
		t.Fatalf("parseWhen(day) error = %v", err)
	}
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Unix()
	if got.Unix() != want {
		t.Errorf("parseWhen(day) = %d, want %d", got.Unix(), want)
	}

	if got, err := parseWhen("1700000000", fallback); err != nil || got.Unix() != 1700000000 {
		t.Errorf("parseWhen(unix) = %v, %v, want 1700000000", got, err)
	}

	if _, err := parseWhen("yesterday", fallback); err == nil {
		t.Error("parseWhen(garbage) error = nil, want error")
	}
}

func TestSaveDecodePrices(t *testing.T) {
	dir := t.TempDir()
	old := *pricesDir
	*pricesDir = dir
	t.Cleanup(func() { *pricesDir = old })

	id := uuid.New()
	asset, err := atlas.NewAsset("btc", "Bitcoin", atlas.Crypto, "USD", 1)
	if err != nil {
		t.Fatalf("NewAsset() error = %v", err)
	}
	asset.ID = id

	first := []atlas.PricePoint{
		{AssetID: id, TS: 86400, Close: 100},
		{AssetID: id, TS: 2 * 86400, Close: 110},
	}
	if err := SavePrices(id, first); err != nil {
		t.Fatalf("SavePrices() error = %v", err)
	}

	// A second save overlaps one day and extends another; the overlap is
	// replaced, not duplicated.
	second := []atlas.PricePoint{
		{AssetID: id, TS: 2 * 86400, Close: 115},
		{AssetID: id, TS: 3 * 86400, Close: 120},
	}
	if err := SavePrices(id, second); err != nil {
		t.Fatalf("SavePrices() error = %v", err)
	}

	indexes, err := DecodePrices([]atlas.Asset{asset})
	if err != nil {
		t.Fatalf("DecodePrices() error = %v", err)
	}
	index := indexes[id]
	if index == nil {
		t.Fatal("DecodePrices() has no index for the asset")
	}
	if index.Len() != 3 {
		t.Fatalf("index.Len() = %d, want 3", index.Len())
	}
	if got, ok := index.CloseAsOf(2 * 86400); !ok || got != 115 {
		t.Errorf("CloseAsOf(day 2) = %v, %v, want 115 (newer observation wins)", got, ok)
	}
}

func TestFindAsset(t *testing.T) {
	a, err := atlas.NewAsset("btc", "Bitcoin", atlas.Crypto, "USD", 1)
	if err != nil {
		t.Fatalf("NewAsset() error = %v", err)
	}
	gone, err := atlas.NewAsset("eth", "Ethereum", atlas.Crypto, "USD", 1)
	if err != nil {
		t.Fatalf("NewAsset() error = %v", err)
	}
	gone.Delete(10)
	assets := []atlas.Asset{a, gone}

	if got, err := findAsset(assets, "bTc"); err != nil || got.ID != a.ID {
		t.Errorf("findAsset(bTc) = %v, %v, want the BTC asset", got, err)
	}
	if _, err := findAsset(assets, "eth"); err == nil {
		t.Error("findAsset(deleted) error = nil, want error")
	}
	if _, err := findAsset(assets, "xmr"); err == nil {
		t.Error("findAsset(missing) error = nil, want error")
	}
}
