// Package cmd implements the CLI application to track a multi-asset
// portfolio.
package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
)

// Commands is the list of subcommands a main package registers.
var Commands = []subcommands.Command{
	&addAssetCmd{},
	&rmAssetCmd{},
	&searchCmd{},
	&buyCmd{},
	&sellCmd{},
	&snapshotCmd{},
	&editCmd{},
	&rmCmd{},
	&lockCmd{},
	&unlockCmd{},
	&txCmd{},
	&holdingCmd{},
	&realizedCmd{},
	&historyCmd{},
	&returnsCmd{},
	&allocationCmd{},
	&fetchCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var assetsFile = flag.String("assets-file", "assets.jsonl", "Path to the assets file (JSONL format)")
var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file (JSONL format)")
var pricesDir = flag.String("prices-dir", ".prices", "Path to the folder holding per-asset price history")

// clock is swapped for a fixed one in tests.
var clock atlas.Clock = atlas.SystemClock{}

// DecodeAssets loads the assets file, tolerating its absence.
func DecodeAssets() ([]atlas.Asset, error) {
	f, err := os.Open(*assetsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening assets file %q: %w", *assetsFile, err)
	}
	defer f.Close()
	return atlas.DecodeAssets(f)
}

// SaveAssets rewrites the assets file.
func SaveAssets(assets []atlas.Asset) error {
	f, err := os.Create(*assetsFile)
	if err != nil {
		return fmt.Errorf("creating assets file %q: %w", *assetsFile, err)
	}
	defer f.Close()
	return atlas.EncodeAssets(f, assets)
}

// DecodeLedger loads the ledger file, tolerating its absence.
func DecodeLedger() (*atlas.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return atlas.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return atlas.DecodeLedger(f)
}

// SaveLedger rewrites the ledger file.
func SaveLedger(ledger *atlas.Ledger) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return fmt.Errorf("creating ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return atlas.EncodeLedger(f, ledger)
}

// priceFile is where one asset's history lives.
func priceFile(id uuid.UUID) string {
	return filepath.Join(*pricesDir, id.String()+".jsonl")
}

// DecodePrices loads every stored price series, one index per asset.
func DecodePrices(assets []atlas.Asset) (map[uuid.UUID]*atlas.PriceIndex, error) {
	indexes := make(map[uuid.UUID]*atlas.PriceIndex, len(assets))
	for _, a := range assets {
		points, err := decodePriceFile(priceFile(a.ID))
		if err != nil {
			return nil, fmt.Errorf("prices for %s: %w", a.Symbol, err)
		}
		if len(points) > 0 {
			indexes[a.ID] = atlas.NewPriceIndex(points)
		}
	}
	return indexes, nil
}

func decodePriceFile(file string) ([]atlas.PricePoint, error) {
	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []atlas.PricePoint
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p atlas.PricePoint
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("could not decode price line %q: %w", string(line), err)
		}
		points = append(points, p)
	}
	return points, scanner.Err()
}

// SavePrices merges newly fetched points into an asset's stored history,
// newer observations of the same day winning, and rewrites its file.
func SavePrices(id uuid.UUID, points []atlas.PricePoint) error {
	existing, err := decodePriceFile(priceFile(id))
	if err != nil {
		return err
	}
	byTS := make(map[int64]atlas.PricePoint, len(existing)+len(points))
	for _, p := range existing {
		byTS[p.TS] = p
	}
	for _, p := range points {
		byTS[p.TS] = p
	}
	merged := make([]atlas.PricePoint, 0, len(byTS))
	for _, p := range byTS {
		merged = append(merged, p)
	}
	index := atlas.NewPriceIndex(merged)

	if err := os.MkdirAll(*pricesDir, 0755); err != nil {
		return err
	}
	f, err := os.Create(priceFile(id))
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, p := range index.Points() {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return w.Flush()
}

// findAsset resolves a symbol to a live asset, case-insensitively.
func findAsset(assets []atlas.Asset, symbol string) (atlas.Asset, error) {
	for _, a := range assets {
		if a.Deleted() {
			continue
		}
		if strings.EqualFold(a.Symbol, symbol) {
			return a, nil
		}
	}
	return atlas.Asset{}, fmt.Errorf("asset %q: %w", symbol, atlas.ErrNotFound)
}

// symbolsByID builds the id-to-symbol lookup the renderer wants.
func symbolsByID(assets []atlas.Asset) map[uuid.UUID]string {
	m := make(map[uuid.UUID]string, len(assets))
	for _, a := range assets {
		m[a.ID] = a.Symbol
	}
	return m
}

// parseWhen accepts a calendar day or a raw unix timestamp. An empty
// string maps to the fallback.
func parseWhen(s string, fallback atlas.TxTime) (atlas.TxTime, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return atlas.At(t.Unix()), nil
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return atlas.TxTime{}, fmt.Errorf("cannot parse %q as a date (want 2006-01-02 or a unix timestamp)", s)
	}
	return atlas.At(ts), nil
}

// parseID parses a transaction id argument.
func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid transaction id %q: %w", s, err)
	}
	return id, nil
}
