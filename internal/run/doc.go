// Package run provides synchronous execution of external commands.
//
// The importer's entire interaction with the outside world is shelling
// out: the below exporter, the container runtime, and promtool inside
// the Prometheus container. This package narrows that interaction to a
// single Runner interface (argv plus an optional stdout sink in; exit
// status plus captured stderr out) so pipeline logic can be exercised
// with a fake runner instead of real processes.
//
// Execution is blocking and has no timeout of its own; a hung external
// process blocks the caller until its context is cancelled.
package run
