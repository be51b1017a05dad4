package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/atlasapp/atlas"
	"github.com/atlasapp/atlas/pricefeed"
)

type addAssetCmd struct {
	symbol   string
	name     string
	typ      string
	currency string
	resolve  bool
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "add a new asset to track" }
func (*addAssetCmd) Usage() string {
	return `atl add-asset -symbol <symbol> -type <type> [-name <name>] [-resolve]

  Adds a new asset to the assets file:
  - symbol: the ticker symbol (e.g. "BTC", "AAPL"). Must be unique.
  - type: one of crypto, stock, commodity.
  - name: a display name; looked up online with -resolve when omitted.

Usage Examples:
$ atl add-asset -symbol BTC -type crypto -name Bitcoin
$ atl add-asset -symbol AAPL -type stock -resolve
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Asset ticker symbol (required)")
	f.StringVar(&c.name, "name", "", "Asset display name")
	f.StringVar(&c.typ, "type", "", "Asset type: crypto, stock or commodity (required)")
	f.StringVar(&c.currency, "currency", "USD", "Asset quote currency")
	f.BoolVar(&c.resolve, "resolve", false, "Look the symbol up online to fill in the name")
}

func (c *addAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.typ == "" {
		fmt.Fprintln(os.Stderr, "Error: -symbol and -type flags are required.")
		return subcommands.ExitUsageError
	}
	typ, err := atlas.ParseAssetType(c.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	assets, err := DecodeAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, a := range assets {
		if !a.Deleted() && strings.EqualFold(a.Symbol, c.symbol) {
			fmt.Fprintf(os.Stderr, "Error: asset %s already exists.\n", a.Symbol)
			return subcommands.ExitFailure
		}
	}

	var asset atlas.Asset
	if c.resolve {
		asset, err = pricefeed.NewService().Resolve(ctx, c.symbol, typ)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", c.symbol, err)
			return subcommands.ExitFailure
		}
	} else {
		asset, err = atlas.NewAsset(c.symbol, c.name, typ, c.currency, clock.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}

	assets = append(assets, asset)
	if err := SaveAssets(assets); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving assets: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %s (%s) %s\n", asset.Symbol, asset.Type, asset.ID)
	return subcommands.ExitSuccess
}

type rmAssetCmd struct {
	restore bool
}

func (*rmAssetCmd) Name() string     { return "rm-asset" }
func (*rmAssetCmd) Synopsis() string { return "remove an asset (soft delete)" }
func (*rmAssetCmd) Usage() string {
	return `atl rm-asset [-restore] <symbol>

  Soft deletes an asset: it disappears from every report but its history
  stays on disk. With -restore a previously removed asset comes back.
`
}

func (c *rmAssetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.restore, "restore", false, "Restore a removed asset instead of removing")
}

func (c *rmAssetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is expected.")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)

	assets, err := DecodeAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}

	for i := range assets {
		if !strings.EqualFold(assets[i].Symbol, symbol) {
			continue
		}
		if c.restore {
			if !assets[i].Deleted() {
				continue
			}
			assets[i].Undelete()
			fmt.Printf("Restored %s\n", assets[i].Symbol)
		} else {
			if assets[i].Deleted() {
				continue
			}
			assets[i].Delete(clock.Now())
			fmt.Printf("Removed %s\n", assets[i].Symbol)
		}
		if err := SaveAssets(assets); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving assets: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: no matching asset %q.\n", symbol)
	return subcommands.ExitFailure
}

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search symbols across market data services" }
func (*searchCmd) Usage() string {
	return `atl search <query>

  Searches crypto and stock symbols across the configured market data
  services and prints the best matches.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one query is expected.")
		return subcommands.ExitUsageError
	}

	matches, err := pricefeed.NewService().Search(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(matches) == 0 {
		fmt.Println("No matches.")
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Matches\n\n")
	fmt.Fprintln(&b, "| Symbol | Name | Type | Source | Exchange |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|")
	for _, m := range matches {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", m.Symbol, m.Name, m.Type, m.Provider, m.Exchange)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
