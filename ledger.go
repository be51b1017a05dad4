package atlas

import (
	"fmt"
	"iter"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the validated, ordered record of transactions across all
// assets. Transactions are always kept in chronological order; entries
// with an unknown time sort before every dated entry.
//
// The ledger exclusively owns its transactions: accountants and engines
// only ever read. All mutating operations are total, they either succeed
// or fail with a specific error kind, never applying a partial effect.
type Ledger struct {
	transactions []Transaction
	index        map[uuid.UUID]int // transaction ID to slice position
}

var _ TransactionProvider = (*Ledger)(nil)

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[uuid.UUID]int)}
}

// Len returns the number of entries, deleted ones included.
func (l *Ledger) Len() int { return len(l.transactions) }

// Get returns the live entry with the given id. Soft-deleted entries are
// not found; Everything is the audit path.
func (l *Ledger) Get(id uuid.UUID) (Transaction, error) {
	i, ok := l.index[id]
	if !ok || l.transactions[i].Deleted() {
		return Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.transactions[i], nil
}

// Append validates entries and adds them to the ledger, maintaining the
// chronological order.
func (l *Ledger) Append(txs ...Transaction) error {
	seen := make(map[uuid.UUID]bool, len(txs))
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		if _, dup := l.index[tx.ID]; dup || seen[tx.ID] {
			return fmt.Errorf("duplicate transaction id %s", tx.ID)
		}
		seen[tx.ID] = true
	}
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
	return nil
}

// TxUpdate carries the fields of an entry that an update may change. Nil
// fields are left untouched.
type TxUpdate struct {
	Type     *TxType
	Quantity *decimal.Decimal
	PriceUSD *decimal.Decimal
	Time     *TxTime
	Notes    *string
}

// Update applies a patch to an entry. It fails with ErrNotFound for
// unknown or deleted entries and with LockedTransactionError for locked
// entries unless override is set. The patched entry is re-validated
// before the ledger is touched.
func (l *Ledger) Update(id uuid.UUID, patch TxUpdate, override bool) error {
	i, err := l.mutable(id, override)
	if err != nil {
		return err
	}

	tx := l.transactions[i]
	if patch.Type != nil {
		tx.Type = *patch.Type
	}
	if patch.Quantity != nil {
		tx.Quantity = *patch.Quantity
	}
	if patch.PriceUSD != nil {
		tx.PriceUSD = *patch.PriceUSD
	}
	if patch.Time != nil {
		tx.Time = *patch.Time
	}
	if patch.Notes != nil {
		tx.Notes = *patch.Notes
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	l.transactions[i] = tx
	l.stableSort()
	return nil
}

// SoftDelete marks an entry as deleted at the given time. The entry stays
// in the ledger for audit and undo but is excluded from every
// computation. Locked entries require override.
func (l *Ledger) SoftDelete(id uuid.UUID, at int64, override bool) error {
	i, err := l.mutable(id, override)
	if err != nil {
		return err
	}
	l.transactions[i].DeletedAt = at
	return nil
}

// Lock protects an entry from casual edit and delete. The lock is an
// enforced contract: every mutation without override fails against it.
func (l *Ledger) Lock(id uuid.UUID, at int64) error {
	i, ok := l.index[id]
	if !ok || l.transactions[i].Deleted() {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	l.transactions[i].LockedAt = at
	return nil
}

// Unlock removes the edit protection from an entry.
func (l *Ledger) Unlock(id uuid.UUID) error {
	i, ok := l.index[id]
	if !ok || l.transactions[i].Deleted() {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	l.transactions[i].LockedAt = 0
	return nil
}

// mutable locates a live entry and enforces the locking contract.
func (l *Ledger) mutable(id uuid.UUID, override bool) (int, error) {
	i, ok := l.index[id]
	if !ok || l.transactions[i].Deleted() {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if l.transactions[i].Locked() && !override {
		return 0, &LockedTransactionError{ID: id}
	}
	return i, nil
}

// Entries returns an iterator over the live entries for one asset, in
// chronological order.
func (l *Ledger) Entries(assetID uuid.UUID) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if tx.Deleted() || tx.AssetID != assetID {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// All returns an iterator over every live entry in chronological order.
func (l *Ledger) All() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if tx.Deleted() {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// Everything returns an iterator over every entry, deleted ones included.
// It exists for persistence and audit, not for accounting.
func (l *Ledger) Everything() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// AssetIDs returns the set of assets that have at least one live entry.
func (l *Ledger) AssetIDs() map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool)
	for tx := range l.All() {
		ids[tx.AssetID] = true
	}
	return ids
}

// QuantityAt computes the asset's holding quantity in effect at sample
// timestamp ts: buys and snapshots add, sells subtract. This is the
// single authoritative qty(T) used by the valuation and return engines.
func (l *Ledger) QuantityAt(assetID uuid.UUID, ts int64) decimal.Decimal {
	qty := decimal.Zero
	for tx := range l.Entries(assetID) {
		if !tx.Time.InEffectAt(ts) {
			continue
		}
		switch tx.Type {
		case Sell:
			qty = qty.Sub(tx.Quantity)
		default: // buy, snapshot
			qty = qty.Add(tx.Quantity)
		}
	}
	return qty
}

// CapitalAt computes the net capital deployed across the whole portfolio
// at sample timestamp ts: buy flows add, sell flows subtract. Snapshots
// have no capital impact, their acquisition price is unknown. Note this
// differs from cost basis in that it includes the proceeds of sales.
func (l *Ledger) CapitalAt(ts int64) decimal.Decimal {
	capital := decimal.Zero
	for tx := range l.All() {
		if !tx.Time.InEffectAt(ts) {
			continue
		}
		switch tx.Type {
		case Buy:
			capital = capital.Add(tx.Flow())
		case Sell:
			capital = capital.Sub(tx.Flow())
		}
	}
	return capital
}

// stableSort sorts the ledger by transaction time. The sort is stable, so
// entries at the same instant keep their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Time.Before(l.transactions[j].Time)
	})
	if l.index == nil {
		l.index = make(map[uuid.UUID]int, len(l.transactions))
	}
	for i, tx := range l.transactions {
		l.index[tx.ID] = i
	}
}
