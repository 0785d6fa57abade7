// Package importer moves historical below telemetry into Prometheus.
//
// For each of the seven fixed metric categories, the pipeline asks the
// below exporter to dump a time-bounded slice in OpenMetrics format
// into a temporary file, copies that file into the compose-managed
// Prometheus container, and materialises it as a TSDB block with
// promtool. After all categories are loaded the Prometheus service is
// restarted once so the new blocks become queryable.
//
// Execution is strictly sequential and fail-fast: any step's failure
// aborts the whole run, already-loaded categories stay loaded, and
// nothing is retried. Imports are operator-driven and re-runnable from
// scratch, so the design trades resilience for simplicity.
package importer
