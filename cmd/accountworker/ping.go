package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

var pingCmd = &cli.Command{
	Name:  "ping",
	Usage: "Check that the configured store is reachable",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		a := appFrom(ctx)

		st, err := openStore(ctx, a.cfg, a.log)
		if err != nil {
			return fmt.Errorf("open %s store: %w", a.cfg.StoreDriver, err)
		}
		defer st.close()

		if err := st.health(ctx); err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.Root().Writer, "%s store is healthy\n", a.cfg.StoreDriver)
		return err
	},
}
