package atlas

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AssetType is a typed string identifying the kind of tracked asset.
type AssetType string

const (
	Stock     AssetType = "stock"
	Crypto    AssetType = "crypto"
	Commodity AssetType = "commodity"
)

// ParseAssetType parses a string into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	switch AssetType(strings.ToLower(s)) {
	case Stock:
		return Stock, nil
	case Crypto:
		return Crypto, nil
	case Commodity:
		return Commodity, nil
	default:
		return "", fmt.Errorf("unknown asset type: %q", s)
	}
}

// Asset identifies one tracked instrument. Assets are immutable once
// registered, except for soft deletion and undeletion.
type Asset struct {
	ID       uuid.UUID `json:"id"`
	Symbol   string    `json:"symbol"`
	Name     string    `json:"name"`
	Type     AssetType `json:"asset_type"`
	Currency string    `json:"currency"`
	AddedAt  int64     `json:"added_at"`
	// DeletedAt is the soft-deletion timestamp, zero while the asset is live.
	DeletedAt int64 `json:"deleted_at,omitempty"`
}

// NewAsset registers a new asset with a fresh ID.
func NewAsset(symbol, name string, typ AssetType, currency string, addedAt int64) (Asset, error) {
	if symbol == "" {
		return Asset{}, fmt.Errorf("asset symbol is missing")
	}
	if _, err := ParseAssetType(string(typ)); err != nil {
		return Asset{}, err
	}
	if currency == "" {
		currency = "USD"
	}
	return Asset{
		ID:       uuid.New(),
		Symbol:   strings.ToUpper(symbol),
		Name:     name,
		Type:     typ,
		Currency: currency,
		AddedAt:  addedAt,
	}, nil
}

// Deleted reports whether the asset has been soft-deleted.
func (a Asset) Deleted() bool { return a.DeletedAt != 0 }

// Delete marks the asset as deleted at the given time. Deleting an already
// deleted asset keeps the original deletion time.
func (a *Asset) Delete(at int64) {
	if a.DeletedAt == 0 {
		a.DeletedAt = at
	}
}

// Undelete restores a soft-deleted asset.
func (a *Asset) Undelete() { a.DeletedAt = 0 }
