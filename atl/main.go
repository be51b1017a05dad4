package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/atlasapp/atlas/cmd"
)

func main() {
	completion()

	// API keys live in a .env next to the books; a missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: could not load .env: %v", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion wires shell completion; it exits early when invoked by the
// shell's completion machinery and is a no-op otherwise.
func completion() {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	root := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"assets-file": predict.Files("*.jsonl"),
			"ledger-file": predict.Files("*.jsonl"),
			"prices-dir":  predict.Dirs("*"),
		},
	}
	root.Complete("atl")
}
