package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/atlasapp/atlas"
)

type editCmd struct {
	qty   float64
	price float64
	typ   string
	date  string
	notes string
	force bool
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit a recorded transaction" }
func (*editCmd) Usage() string {
	return `atl edit [-qty <q>] [-price <p>] [-type <t>] [-date <day>] [-notes <n>] [-force] <transaction-id>

  Patches the given fields of a transaction; unset flags leave their
  field untouched. Editing a locked entry requires -force.

Usage Examples:
$ atl edit -price 64100 3f1d...
$ atl edit -force -qty 2 3f1d...
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.qty, "qty", 0, "New quantity")
	f.Float64Var(&c.price, "price", 0, "New price per unit in USD")
	f.StringVar(&c.typ, "type", "", "New type: buy, sell or snapshot")
	f.StringVar(&c.date, "date", "", "New day, or \"unknown\"")
	f.StringVar(&c.notes, "notes", "", "New note")
	f.BoolVar(&c.force, "force", false, "Edit even if the entry is locked")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one transaction id is expected.")
		return subcommands.ExitUsageError
	}
	id, err := parseID(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	var patch atlas.TxUpdate
	visited := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { visited[fl.Name] = true })
	if visited["qty"] {
		q := decimal.NewFromFloat(c.qty)
		patch.Quantity = &q
	}
	if visited["price"] {
		p := decimal.NewFromFloat(c.price)
		patch.PriceUSD = &p
	}
	if visited["type"] {
		typ, err := atlas.ParseTxType(c.typ)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
		patch.Type = &typ
	}
	if visited["date"] {
		var when atlas.TxTime
		if c.date == "unknown" {
			when = atlas.UnknownTime()
		} else {
			when, err = parseWhen(c.date, atlas.UnknownTime())
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return subcommands.ExitUsageError
			}
		}
		patch.Time = &when
	}
	if visited["notes"] {
		patch.Notes = &c.notes
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Update(id, patch, c.force); err != nil {
		var locked *atlas.LockedTransactionError
		if errors.As(err, &locked) {
			fmt.Fprintf(os.Stderr, "Error: %v. Re-run with -force to edit anyway.\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated %s\n", id)
	return subcommands.ExitSuccess
}

type rmCmd struct {
	force bool
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove a transaction (soft delete)" }
func (*rmCmd) Usage() string {
	return `atl rm [-force] <transaction-id>

  Soft deletes a transaction: it disappears from every computation but
  stays in the ledger file. Removing a locked entry requires -force.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Remove even if the entry is locked")
}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one transaction id is expected.")
		return subcommands.ExitUsageError
	}
	id, err := parseID(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.SoftDelete(id, clock.Now(), c.force); err != nil {
		var locked *atlas.LockedTransactionError
		if errors.As(err, &locked) {
			fmt.Fprintf(os.Stderr, "Error: %v. Re-run with -force to remove anyway.\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %s\n", id)
	return subcommands.ExitSuccess
}

type lockCmd struct{}

func (*lockCmd) Name() string     { return "lock" }
func (*lockCmd) Synopsis() string { return "protect a transaction from edits" }
func (*lockCmd) Usage() string {
	return `atl lock <transaction-id>

  Locks a transaction, typically after reconciling it against a broker
  statement. Locked entries refuse edit and rm unless -force is given.
`
}

func (c *lockCmd) SetFlags(f *flag.FlagSet) {}

func (c *lockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return setLock(f, true)
}

type unlockCmd struct{}

func (*unlockCmd) Name() string     { return "unlock" }
func (*unlockCmd) Synopsis() string { return "remove the edit protection from a transaction" }
func (*unlockCmd) Usage() string {
	return `atl unlock <transaction-id>
`
}

func (c *unlockCmd) SetFlags(f *flag.FlagSet) {}

func (c *unlockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return setLock(f, false)
}

func setLock(f *flag.FlagSet, lock bool) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one transaction id is expected.")
		return subcommands.ExitUsageError
	}
	id, err := parseID(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if lock {
		err = ledger.Lock(id, clock.Now())
	} else {
		err = ledger.Unlock(id)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := SaveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if lock {
		fmt.Printf("Locked %s\n", id)
	} else {
		fmt.Printf("Unlocked %s\n", id)
	}
	return subcommands.ExitSuccess
}
