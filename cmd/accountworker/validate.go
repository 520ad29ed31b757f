package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
	"github.com/dmitrymomot/accountworker/svc/account"
)

var validateCmd = &cli.Command{
	Name:      "validate",
	Aliases:   []string{"lint"},
	Usage:     "Validate a YAML transition table definition",
	ArgsUsage: "FILE",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Also require the definition to match the built-in account table",
		},
	},
	Action: validateAction,
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("definition file path required")
	}
	path := cmd.Args().First()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open definition: %w", err)
	}
	defer f.Close()

	def, err := statemachine.ParseDefinition(f)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	table, err := def.Table()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if cmd.Bool("strict") {
		if err := matchAccountTable(def, table); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "Definition %s is valid: %d transitions, %d states, %d actions\n",
		path, len(table.Transitions()), len(table.States()), len(table.Actions()))
	return err
}

// matchAccountTable checks that def describes exactly the account lifecycle.
func matchAccountTable(def *statemachine.Definition, table *statemachine.Table) error {
	if def.Initial != "" && def.Initial != account.InitialStatus.String() {
		return fmt.Errorf("initial state %q, want %q", def.Initial, account.InitialStatus)
	}

	want := account.Transitions()
	if got := len(table.Transitions()); got != len(want) {
		return fmt.Errorf("definition has %d transitions, want %d", got, len(want))
	}
	for _, w := range want {
		got, ok := table.Lookup(w.From, w.Event)
		if !ok {
			return fmt.Errorf("missing transition %s on %s", w.From.Name(), w.Event.Name())
		}
		if got.To.Name() != w.To.Name() || got.Action != w.Action {
			return fmt.Errorf("transition %s on %s goes to %s via %s, want %s via %s",
				w.From.Name(), w.Event.Name(), got.To.Name(), got.Action, w.To.Name(), w.Action)
		}
	}
	return nil
}
