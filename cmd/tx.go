package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/atlasapp/atlas"
	"github.com/atlasapp/atlas/renderer"
)

// recordTx loads the books, appends one transaction and saves them. The
// shared tail of the buy, sell and snapshot commands.
func recordTx(symbol string, typ atlas.TxType, qty, price float64, when atlas.TxTime, notes string) subcommands.ExitStatus {
	assets, err := DecodeAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	asset, err := findAsset(assets, symbol)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	tx, err := atlas.NewTransaction(asset.ID, typ,
		decimal.NewFromFloat(qty), decimal.NewFromFloat(price),
		when, notes, clock.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if err := ledger.Append(tx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s %s\n", tx.Type, tx.ID)
	return subcommands.ExitSuccess
}

type buyCmd struct {
	asset string
	qty   float64
	price float64
	date  string
	notes string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase" }
func (*buyCmd) Usage() string {
	return `atl buy -asset <symbol> -qty <quantity> -price <price> [-date <day>]

  Records a buy. Quantity and price must be strictly positive; the price
  is per unit, in USD.

Usage Examples:
$ atl buy -asset BTC -qty 0.5 -price 64000 -date 2026-08-01
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Asset symbol (required)")
	f.Float64Var(&c.qty, "qty", 0, "Quantity bought (required)")
	f.Float64Var(&c.price, "price", 0, "Price per unit in USD (required)")
	f.StringVar(&c.date, "date", "", "Day of the trade; defaults to today")
	f.StringVar(&c.notes, "notes", "", "Free-form note")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	when, err := parseWhen(c.date, atlas.At(clock.Now()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return recordTx(c.asset, atlas.Buy, c.qty, c.price, when, c.notes)
}

type sellCmd struct {
	asset string
	qty   float64
	price float64
	date  string
	notes string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale" }
func (*sellCmd) Usage() string {
	return `atl sell -asset <symbol> -qty <quantity> -price <price> [-date <day>]

  Records a sale. Selling more than was bought is allowed and produces a
  short position.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Asset symbol (required)")
	f.Float64Var(&c.qty, "qty", 0, "Quantity sold (required)")
	f.Float64Var(&c.price, "price", 0, "Price per unit in USD (required)")
	f.StringVar(&c.date, "date", "", "Day of the trade; defaults to today")
	f.StringVar(&c.notes, "notes", "", "Free-form note")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	when, err := parseWhen(c.date, atlas.At(clock.Now()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return recordTx(c.asset, atlas.Sell, c.qty, c.price, when, c.notes)
}

type snapshotCmd struct {
	asset string
	qty   float64
	date  string
	notes string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record holdings of unknown provenance" }
func (*snapshotCmd) Usage() string {
	return `atl snapshot -asset <symbol> -qty <quantity> [-date <day>]

  Records quantity you already hold without a known acquisition price.
  Snapshots adjust holdings but never the cost basis. Without -date the
  entry has no date and counts from the beginning of time.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Asset symbol (required)")
	f.Float64Var(&c.qty, "qty", 0, "Quantity held (required)")
	f.StringVar(&c.date, "date", "", "Day the holding was observed; defaults to unknown")
	f.StringVar(&c.notes, "notes", "", "Free-form note")
}

func (c *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	when, err := parseWhen(c.date, atlas.UnknownTime())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return recordTx(c.asset, atlas.Snapshot, c.qty, 0, when, c.notes)
}

type txCmd struct{}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list all transactions in the ledger" }
func (*txCmd) Usage() string {
	return `atl tx

  Lists the live transactions in chronological order, with their ids for
  use with edit, rm, lock and unlock.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	assets, err := DecodeAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.TransactionsMarkdown(ledger, symbolsByID(assets)))
	return subcommands.ExitSuccess
}
