package atlas

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxType is a typed string identifying the kind of ledger entry.
type TxType string

const (
	// Buy adds quantity at a known price, contributing to cost basis.
	Buy TxType = "buy"
	// Sell removes quantity at a known price, contributing to proceeds.
	Sell TxType = "sell"
	// Snapshot records quantity of unknown provenance: it adjusts holdings
	// without any cost-basis or capital impact.
	Snapshot TxType = "snapshot"
)

// ParseTxType parses a string into a TxType.
func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	case Snapshot:
		return Snapshot, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// Validation failures rejected at ingestion, before a transaction enters
// the ledger.
var (
	ErrInvalidQuantity = errors.New("transaction quantity must be strictly positive")
	ErrInvalidPrice    = errors.New("transaction price must be strictly positive")
	ErrNotFound        = errors.New("transaction not found")
)

// LockedTransactionError is returned when a mutation targets a locked
// transaction without an explicit override.
type LockedTransactionError struct {
	ID uuid.UUID
}

func (e *LockedTransactionError) Error() string {
	return fmt.Sprintf("transaction %s is locked", e.ID)
}

// TxTime is the moment a transaction took effect. The zero value is
// Unknown: the transaction occurred at or before the start of recorded
// history and is therefore in effect at every sample timestamp. This
// replaces the ts=0 sentinel of the stored format, which collides with
// the legitimate timestamp domain.
type TxTime struct {
	ts    int64
	known bool
}

// At returns a known transaction time. A zero ts still means Unknown,
// preserving the stored-format convention.
func At(ts int64) TxTime {
	if ts == 0 {
		return TxTime{}
	}
	return TxTime{ts: ts, known: true}
}

// UnknownTime returns the "occurred before recorded history" time.
func UnknownTime() TxTime { return TxTime{} }

// Known reports whether the time is an actual timestamp.
func (t TxTime) Known() bool { return t.known }

// Unix returns the unix timestamp, or 0 for an unknown time.
func (t TxTime) Unix() int64 {
	if !t.known {
		return 0
	}
	return t.ts
}

// InEffectAt reports whether a transaction with this time is in effect at
// sample timestamp ts. Unknown times are always in effect.
func (t TxTime) InEffectAt(ts int64) bool { return !t.known || t.ts <= ts }

// Before reports whether this time sorts before o. Unknown times sort
// before every known time.
func (t TxTime) Before(o TxTime) bool {
	if t.known != o.known {
		return !t.known
	}
	return t.ts < o.ts
}

func (t TxTime) String() string {
	if !t.known {
		return "unknown"
	}
	return fmt.Sprintf("%d", t.ts)
}

// MarshalJSON encodes the time as a unix timestamp, 0 for Unknown.
func (t TxTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Unix())
}

// UnmarshalJSON decodes a unix timestamp, mapping 0 back to Unknown.
func (t *TxTime) UnmarshalJSON(b []byte) error {
	var ts int64
	if err := json.Unmarshal(b, &ts); err != nil {
		return err
	}
	*t = At(ts)
	return nil
}

// Transaction is one ledger entry. Quantity is always strictly positive;
// the sign of its effect on holdings is encoded by Type, never by a
// negative quantity.
type Transaction struct {
	ID       uuid.UUID       `json:"id"`
	AssetID  uuid.UUID       `json:"asset_id"`
	Type     TxType          `json:"tx_type"`
	Quantity decimal.Decimal `json:"quantity"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	Time     TxTime          `json:"ts"`
	Notes    string          `json:"notes,omitempty"`

	CreatedAt int64 `json:"created_at"`
	// DeletedAt and LockedAt are soft state, zero while unset.
	DeletedAt int64 `json:"deleted_at,omitempty"`
	LockedAt  int64 `json:"locked_at,omitempty"`
}

// NewTransaction builds and validates a ledger entry with a fresh ID.
func NewTransaction(assetID uuid.UUID, typ TxType, quantity, priceUSD decimal.Decimal, at TxTime, notes string, createdAt int64) (Transaction, error) {
	tx := Transaction{
		ID:        uuid.New(),
		AssetID:   assetID,
		Type:      typ,
		Quantity:  quantity,
		PriceUSD:  priceUSD,
		Time:      at,
		Notes:     notes,
		CreatedAt: createdAt,
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Validate checks the ingestion-time invariants.
func (tx Transaction) Validate() error {
	if _, err := ParseTxType(string(tx.Type)); err != nil {
		return err
	}
	if !tx.Quantity.IsPositive() {
		return fmt.Errorf("invalid %s of %s: %w", tx.Type, tx.Quantity, ErrInvalidQuantity)
	}
	if tx.Type != Snapshot && !tx.PriceUSD.IsPositive() {
		return fmt.Errorf("invalid %s at %s: %w", tx.Type, tx.PriceUSD, ErrInvalidPrice)
	}
	return nil
}

// Deleted reports whether the entry is soft-deleted. Deleted entries are
// excluded from every computation but retained for audit and undo.
func (tx Transaction) Deleted() bool { return tx.DeletedAt != 0 }

// Locked reports whether the entry is protected from casual edit/delete.
func (tx Transaction) Locked() bool { return tx.LockedAt != 0 }

// Flow is the transaction's capital flow in USD: quantity times price.
// Snapshots flow nothing, their price is conventionally zero.
func (tx Transaction) Flow() decimal.Decimal {
	return tx.Quantity.Mul(tx.PriceUSD)
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s @ %s (ts %s)", tx.Type, tx.Quantity, tx.PriceUSD, tx.Time)
}
