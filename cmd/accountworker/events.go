package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrymomot/accountworker/svc/account"
)

// openSource opens a file, or returns stdin for "-".
func openSource(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return f, nil
}

// decodeEvents streams JSON-encoded events from r, one value at a time, and
// stops at the first error returned by fn.
func decodeEvents(r io.Reader, fn func(n int, e account.Event) error) error {
	dec := json.NewDecoder(r)
	for n := 0; ; n++ {
		var e account.Event
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode event %d: %w", n, err)
		}
		if err := fn(n, e); err != nil {
			return err
		}
	}
}
