package worker

import (
	"context"
)

// Worker is the interface every background worker implements.
type Worker interface {
	// Start runs the worker loop until stopped or the context ends.
	Start(ctx context.Context) error

	// Stop signals the worker to finish its current batch and exit.
	Stop() error

	// Name returns the worker name.
	Name() string
}
