package atlas

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
)

// Collaborator contracts. The core computes over already-materialized
// collections; where those come from (disk, network, tests) is the
// caller's concern.

// AssetProvider resolves user-entered symbols to tradable assets.
type AssetProvider interface {
	// Resolve looks a symbol up and returns the matching asset metadata,
	// or ErrNotFound when the symbol is unknown upstream.
	Resolve(ctx context.Context, symbol string, typ AssetType) (Asset, error)
}

// PriceProvider fetches price data for an asset.
type PriceProvider interface {
	// Fetch returns the daily price points for an asset since the given
	// unix timestamp, oldest first. A zero since asks for the full
	// available history. Implementations may serve cached data.
	Fetch(ctx context.Context, asset Asset, since int64) ([]PricePoint, error)
	// Current returns the live spot price in USD.
	Current(ctx context.Context, asset Asset) (float64, error)
}

// TransactionProvider yields the live ledger entries of one asset in
// chronological order. *Ledger is the canonical implementation.
type TransactionProvider interface {
	Entries(assetID uuid.UUID) iter.Seq[Transaction]
}

// Clock abstracts "now" so valuation and returns can be computed against
// a fixed instant in tests.
type Clock interface {
	Now() int64
}

// SystemClock is the Clock used outside of tests.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }
