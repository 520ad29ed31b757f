package partition

import "errors"

var (
	// ErrNotStarted is returned when submitting to a pool that is not running.
	ErrNotStarted = errors.New("partition pool not started")

	// ErrAlreadyStarted is returned by Start on a running pool.
	ErrAlreadyStarted = errors.New("partition pool already started")

	// ErrStopping is returned when submitting while the pool drains.
	ErrStopping = errors.New("partition pool is stopping")

	// ErrEmptyKey is returned when a job is submitted without a partition key.
	ErrEmptyKey = errors.New("partition key cannot be empty")

	// ErrNilJob is returned when submitting a nil job.
	ErrNilJob = errors.New("job cannot be nil")
)
