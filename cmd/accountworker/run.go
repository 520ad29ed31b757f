package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/accountworker/pkg/logger"
	"github.com/dmitrymomot/accountworker/pkg/partition"
	"github.com/dmitrymomot/accountworker/svc/account"
)

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "Apply JSON event logs to the account store",
	ArgsUsage: "[FILE...]",
	Description: "Reads JSON-encoded account events from each FILE in the order given (or stdin when none or \"-\" is given).\n" +
		"Events of the same account are applied in input order across all files; different accounts are handled in parallel.",
	Action: runAction,
}

type runStats struct {
	submitted atomic.Int64
	handled   atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	a := appFrom(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, runIDKey{}, uuid.NewString())

	svc, st, err := openService(ctx, a)
	if err != nil {
		return err
	}
	defer st.close()

	if err := st.health(ctx); err != nil {
		return fmt.Errorf("store is not healthy: %w", err)
	}

	var stats runStats
	pool := partition.New(
		partition.WithLanes(a.cfg.PartitionLanes),
		partition.WithBuffer(a.cfg.PartitionBuffer),
		partition.WithLogger(a.log.With(logger.Component("partition"))),
	)
	if err := pool.Start(ctx); err != nil {
		return err
	}

	sources := cmd.Args().Slice()
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	// One reader walks the sources in order and one submitter hands events
	// to the pool, so per-account order follows input order across files.
	events := make(chan account.Event, a.cfg.PartitionBuffer)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		for _, src := range sources {
			if err := read(gctx, src, cmd, events, &stats); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for e := range events {
			if err := submit(gctx, e, pool, svc, &stats); err != nil {
				return err
			}
		}
		return nil
	})
	feedErr := g.Wait()
	stopErr := pool.Stop()

	_, _ = fmt.Fprintf(cmd.Root().Writer, "submitted=%d handled=%d rejected=%d failed=%d\n",
		stats.submitted.Load(), stats.handled.Load(), stats.rejected.Load(), stats.failed.Load())

	return errors.Join(feedErr, stopErr)
}

// read decodes src and sends valid events downstream. Malformed events are
// counted and skipped.
func read(ctx context.Context, src string, cmd *cli.Command, out chan<- account.Event, stats *runStats) error {
	r, err := openSource(src, cmd.Root().Reader)
	if err != nil {
		return err
	}
	defer r.Close()

	return decodeEvents(r, func(_ int, e account.Event) error {
		if err := e.Validate(); err != nil {
			stats.rejected.Add(1)
			appFrom(ctx).log.WarnContext(ctx, "skipping malformed event",
				slog.String("source", src),
				logger.EventID(e.ID),
				logger.Error(err))
			return nil
		}

		select {
		case out <- e:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

func submit(ctx context.Context, e account.Event, pool *partition.Pool, svc *account.Service, stats *runStats) error {
	err := pool.Submit(ctx, e.AccountID.String(), func(ctx context.Context) error {
		_, err := svc.Handle(ctx, e)
		switch {
		case account.IsInvalidTransition(err):
			stats.rejected.Add(1)
		case err != nil:
			stats.failed.Add(1)
		default:
			stats.handled.Add(1)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("submit event %s: %w", e.ID, err)
	}
	stats.submitted.Add(1)
	return nil
}
