package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/accountworker/pkg/config"
	"github.com/dmitrymomot/accountworker/pkg/logger"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "accountworker",
		Version: Version,
		Usage:   "Drive account lifecycle events through the account state machine",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load environment variables from `FILE` before reading configuration",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			runCmd,
			replayCmd,
			statusCmd,
			tableCmd,
			validateCmd,
			migrateCmd,
			pingCmd,
			versionCmd,
		},
	}
}

// setup loads configuration and the logger once for every subcommand.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if files := cmd.StringSlice("env-file"); len(files) > 0 {
		if err := config.LoadEnv(files...); err != nil {
			return ctx, err
		}
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return ctx, fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger(cfg, cmd.Root().ErrWriter)
	logger.SetAsDefault(log)

	return context.WithValue(ctx, appKey{}, &app{cfg: cfg, log: log}), nil
}

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print the version information",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		_, err := fmt.Fprintf(cmd.Root().Writer, "accountworker version %s\n", cmd.Root().Version)
		return err
	},
}
