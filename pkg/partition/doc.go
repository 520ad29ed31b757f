// Package partition provides a keyed worker pool that serialises jobs per key.
//
// Each key is hashed with xxhash onto one of a fixed number of lanes. A lane is
// a buffered channel drained by a single goroutine, so jobs for the same key
// run strictly in submission order while unrelated keys proceed in parallel.
// This is the ordering model an event consumer needs when events for one
// entity must be applied sequentially.
//
// # Usage
//
//	pool := partition.New(partition.WithLanes(8), partition.WithLogger(log))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(pool.Run(ctx))
//
//	_ = pool.Submit(ctx, accountID.String(), func(ctx context.Context) error {
//	    _, err := svc.Handle(ctx, event)
//	    return err
//	})
//
// Job failures and panics never stop a lane; they are logged and passed to the
// optional ErrorHandler. Stop drains already queued jobs before returning.
package partition
