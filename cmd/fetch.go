package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/atlasapp/atlas/docs"
	"github.com/atlasapp/atlas/pricefeed"
)

type fetchCmd struct {
	asset string
	full  bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch price history from market data services" }
func (*fetchCmd) Usage() string {
	return `atl fetch [-asset <symbol>] [-full]

  Updates the stored price history of every live asset (or a single one
  with -asset). By default only days after the last stored point are
  requested; -full refetches the whole history.

  Stock and commodity prices require the ` + pricefeed.TwelveDataKeyEnv + `
  environment variable.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Only fetch this asset")
	f.BoolVar(&c.full, "full", false, "Refetch the full history instead of the tail")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	assets, err := DecodeAssets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}
	indexes, err := DecodePrices(assets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}

	service := pricefeed.NewService()
	var failures int
	var fetched int
	for _, a := range assets {
		if a.Deleted() {
			continue
		}
		if c.asset != "" && !strings.EqualFold(a.Symbol, c.asset) {
			continue
		}
		fetched++

		var since int64
		if !c.full {
			if index := indexes[a.ID]; index != nil {
				if latest, ok := index.Latest(); ok {
					since = latest.TS
				}
			}
		}

		points, err := service.Fetch(ctx, a, since)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", a.Symbol, err)
			failures++
			continue
		}
		if err := SavePrices(a.ID, points); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving prices for %s: %v\n", a.Symbol, err)
			failures++
			continue
		}
		fmt.Printf("Fetched %d points for %s\n", len(points), a.Symbol)
	}

	if c.asset != "" && fetched == 0 {
		fmt.Fprintf(os.Stderr, "Error: no matching asset %q.\n", c.asset)
		return subcommands.ExitFailure
	}
	if failures > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `atl topic [<topic>...]

  Shows documentation for the given topics, or the topic index when none
  is given. "atl topic '*'" prints everything.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
