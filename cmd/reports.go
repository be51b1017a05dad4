package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/atlasapp/atlas"
	"github.com/atlasapp/atlas/renderer"
)

// loadBooks loads assets, ledger and stored prices in one go, the common
// prelude of every report command.
func loadBooks() ([]atlas.Asset, *atlas.Ledger, map[uuid.UUID]*atlas.PriceIndex, error) {
	assets, err := DecodeAssets()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading assets: %w", err)
	}
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading ledger: %w", err)
	}
	indexes, err := DecodePrices(assets)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading prices: %w", err)
	}
	return assets, ledger, indexes, nil
}

type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "report all open positions" }
func (*holdingCmd) Usage() string {
	return `atl holding

  Shows every open position with its latest price, trailing changes and
  unrealized P&L, derived on the fly from the ledger.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	assets, ledger, indexes, err := loadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingsMarkdown(assets, indexes, ledger, clock.Now()))
	return subcommands.ExitSuccess
}

type realizedCmd struct{}

func (*realizedCmd) Name() string     { return "realized" }
func (*realizedCmd) Synopsis() string { return "report realized P&L per asset" }
func (*realizedCmd) Usage() string {
	return `atl realized

  Shows the realized P&L of every asset with both buys and sells, valued
  against the average cost of all buys.
`
}

func (c *realizedCmd) SetFlags(f *flag.FlagSet) {}

func (c *realizedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.RealizedMarkdown(assets, ledger))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	rng string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "report the portfolio value over time" }
func (*historyCmd) Usage() string {
	return `atl history [-range <range>]

  Shows the total portfolio value series over the selected range, with
  prices forward-filled across gaps. See "atl topic ranges".
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rng, "range", "all", "Range: 7d, 30d, 90d, 1y, 5y or all")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := atlas.ParseRange(c.rng)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	_, ledger, indexes, err := loadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	values := atlas.PortfolioValues(indexes, ledger, r, clock.Now())
	printMarkdown(renderer.HistoryMarkdown(values, r))
	return subcommands.ExitSuccess
}

type returnsCmd struct {
	rng string
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "report the return percentage over time" }
func (*returnsCmd) Usage() string {
	return `atl returns [-range <range>]

  Shows the capital-normalized return series. The series is computed over
  the full history and the range only selects which samples are shown, so
  percentages stay anchored at the true invested capital.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rng, "range", "all", "Range: 7d, 30d, 90d, 1y, 5y or all")
}

func (c *returnsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := atlas.ParseRange(c.rng)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	_, ledger, indexes, err := loadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	now := clock.Now()
	series := atlas.ReturnSeries(indexes, ledger, now)
	series = atlas.FilterReturns(series, r.Start(now))
	printMarkdown(renderer.ReturnsMarkdown(series, r))
	return subcommands.ExitSuccess
}

type allocationCmd struct{}

func (*allocationCmd) Name() string     { return "allocation" }
func (*allocationCmd) Synopsis() string { return "report each asset's share of the portfolio" }
func (*allocationCmd) Usage() string {
	return `atl allocation

  Shows each long position's share of the current portfolio value. Short
  positions are excluded from the breakdown.
`
}

func (c *allocationCmd) SetFlags(f *flag.FlagSet) {}

func (c *allocationCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	assets, ledger, indexes, err := loadBooks()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AllocationMarkdown(atlas.Allocation(assets, indexes, ledger)))
	return subcommands.ExitSuccess
}
