package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

var statusCmd = &cli.Command{
	Name:      "status",
	Usage:     "Print the stored status of an account",
	ArgsUsage: "ACCOUNT_ID",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "history",
			Usage: "Also print the commands applied to the account",
		},
	},
	Action: statusAction,
}

func statusAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("account id required")
	}
	id, err := uuid.Parse(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	svc, st, err := openService(ctx, appFrom(ctx))
	if err != nil {
		return err
	}
	defer st.close()

	acc, err := svc.Account(ctx, id)
	if err != nil {
		return fmt.Errorf("load account %s: %w", id, err)
	}

	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", acc.ID)
	fmt.Fprintf(w, "status\t%s\n", acc.Status)
	if acc.Email != "" {
		fmt.Fprintf(w, "email\t%s\n", acc.Email)
	}
	fmt.Fprintf(w, "updated\t%s\n", acc.UpdatedAt.Format(time.RFC3339))

	if cmd.Bool("history") {
		history, err := svc.History(ctx, id)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		fmt.Fprintln(w)
		for _, h := range history {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.AppliedAt.Format(time.RFC3339), h.Action, h.EventType, h.EventID)
		}
	}

	return w.Flush()
}
