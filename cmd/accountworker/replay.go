package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/accountworker/svc/account"
)

var replayCmd = &cli.Command{
	Name:      "replay",
	Usage:     "Rebuild an account status from an event log without running commands",
	ArgsUsage: "[FILE]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Aliases:  []string{"a"},
			Usage:    "Account `ID` to rebuild",
			Required: true,
		},
	},
	Action: replayAction,
}

func replayAction(ctx context.Context, cmd *cli.Command) error {
	a := appFrom(ctx)

	accountID, err := uuid.Parse(cmd.String("account"))
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	r, err := openSource(cmd.Args().First(), cmd.Root().Reader)
	if err != nil {
		return err
	}
	defer r.Close()

	var events []account.Event
	err = decodeEvents(r, func(_ int, e account.Event) error {
		if e.AccountID == accountID {
			events = append(events, e)
		}
		return nil
	})
	if err != nil {
		return err
	}

	svc, st, err := openService(ctx, a)
	if err != nil {
		return err
	}
	defer st.close()

	status, err := svc.Replay(ctx, accountID, events)
	if err != nil {
		return fmt.Errorf("replay account %s: %w", accountID, err)
	}

	_, err = fmt.Fprintf(cmd.Root().Writer, "%s %s (%d events)\n", accountID, status, len(events))
	return err
}
