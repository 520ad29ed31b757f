package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/accountworker/pkg/statemachine"
	"github.com/dmitrymomot/accountworker/svc/account"
)

var tableCmd = &cli.Command{
	Name:  "table",
	Usage: "Print the account transition table",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "Export the table as a YAML definition",
		},
	},
	Action: tableAction,
}

func tableAction(_ context.Context, cmd *cli.Command) error {
	table, err := account.NewTable()
	if err != nil {
		return err
	}

	if cmd.Bool("yaml") {
		return statemachine.NewDefinition(account.InitialStatus, table).Encode(cmd.Root().Writer)
	}

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FROM\tEVENT\tTO\tACTION")
	for _, tr := range table.Transitions() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tr.From.Name(), tr.Event.Name(), tr.To.Name(), tr.Action)
	}
	return w.Flush()
}
