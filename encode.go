package atlas

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeLedger persists every transaction, deleted ones included, to w in
// JSONL format, one transaction per line in ledger order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for tx := range ledger.Everything() {
		data, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction %s: %w", tx.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write transaction: %w", err)
		}
	}
	return nil
}

// DecodeLedger reads transactions from a stream of JSONL data and returns
// a sorted Ledger. Empty lines are skipped. Deleted transactions are kept
// so an encode/decode round trip is lossless.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(line, &tx); err != nil {
			return nil, fmt.Errorf("could not decode transaction line %q: %w", string(line), err)
		}
		ledger.transactions = append(ledger.transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	ledger.stableSort()
	return ledger, nil
}

// EncodeAssets persists assets to w in JSONL format.
func EncodeAssets(w io.Writer, assets []Asset) error {
	for _, a := range assets {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal asset %s: %w", a.Symbol, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write asset: %w", err)
		}
	}
	return nil
}

// DecodeAssets reads assets from a stream of JSONL data.
func DecodeAssets(r io.Reader) ([]Asset, error) {
	var assets []Asset
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var a Asset
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("could not decode asset line %q: %w", string(line), err)
		}
		assets = append(assets, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return assets, nil
}
