package importer

import (
	"errors"
	"fmt"

	"github.com/belowtools/below-import/internal/run"
)

// Failure classes for the import pipeline.
// Use errors.Is() to check for these errors in calling code.
// Every class is fatal; none are retried.
var (
	// ErrTransfer is returned when copying a staged export into the
	// Prometheus container fails.
	ErrTransfer = errors.New("importer: transfer into container failed")

	// ErrLoad is returned when promtool fails to create TSDB blocks
	// from a staged export.
	ErrLoad = errors.New("importer: block creation failed")

	// ErrRestart is returned when the final Prometheus restart fails.
	// This is the least damaging class: all data is already loaded and
	// only the visibility side effect is missing.
	ErrRestart = errors.New("importer: prometheus restart failed")
)

// ExportError reports a below dump that exited non-zero.
type ExportError struct {
	// Category is the metric category being dumped.
	Category string

	// Err is the underlying failure, usually a *run.ExitError.
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("dumping %s: %v", e.Category, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Stderr returns the exporter's captured diagnostic output, if any.
func (e *ExportError) Stderr() string {
	var exitErr *run.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.Stderr
	}
	return ""
}
