package importer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/belowtools/below-import/internal/infrastructure/config"
	"github.com/belowtools/below-import/internal/run"
)

// Categories is the fixed, ordered list of metric categories below can
// dump independently. The pipeline imports them in exactly this order.
var Categories = []string{
	"cgroup",
	"disk",
	"iface",
	"network",
	"process",
	"system",
	"transport",
}

// SourceHost is the source sentinel meaning "import from the live
// host's below store" rather than from an archived snapshot. Matched
// case-insensitively.
const SourceHost = "host"

// Request describes one import run. It is constructed once from
// external input and immutable thereafter.
type Request struct {
	// Source is either SourceHost or a filesystem path to a snapshot.
	Source string

	// Begin and End are human-readable time expressions resolved by
	// below's own time parser; the pipeline passes them through opaque.
	Begin string
	End   string
}

// FromHost reports whether the request targets the live host.
func (r Request) FromHost() bool {
	return strings.EqualFold(r.Source, SourceHost)
}

// SnapshotPath returns the absolute snapshot path for a non-host
// source.
func (r Request) SnapshotPath() (string, error) {
	abs, err := filepath.Abs(r.Source)
	if err != nil {
		return "", fmt.Errorf("resolving snapshot path %q: %w", r.Source, err)
	}
	return abs, nil
}

// Exporter invokes below to dump one category of telemetry in
// OpenMetrics format.
type Exporter struct {
	exporter config.ExporterConfig
	runtime  string
	runner   run.Runner
	logger   Logger
}

// NewExporter creates an Exporter.
func NewExporter(cfg *config.Config, runner run.Runner, logger Logger) *Exporter {
	return &Exporter{
		exporter: cfg.Exporter,
		runtime:  cfg.Runtime.Binary,
		runner:   runner,
		logger:   logger,
	}
}

// Dump asks below to export one category of req's time range into sink.
//
// A non-zero exit from the exporter is returned as a *ExportError
// carrying the category and the captured diagnostic text. An image pull
// failure is equally fatal but reported as a plain wrapped error, since
// no exporter diagnostic exists yet.
func (e *Exporter) Dump(ctx context.Context, req Request, category string, sink io.Writer) error {
	var snapshot string
	if !req.FromHost() {
		var err error
		snapshot, err = req.SnapshotPath()
		if err != nil {
			return err
		}
	}

	argv, err := e.exporterArgv(ctx, snapshot)
	if err != nil {
		return err
	}

	args := append([]string(nil), argv[1:]...)
	args = append(args, "dump")
	if snapshot != "" {
		args = append(args, "--snapshot", snapshot)
	}
	args = append(args,
		category,
		"--begin", req.Begin,
		"--end", req.End,
		"--everything",
		"--output-format", "openmetrics",
	)

	cmd := run.Command{Name: argv[0], Args: args, Stdout: sink}
	e.logger.Info("dumping category", "category", category, "cmd", cmd.String())

	if err := e.runner.Run(ctx, cmd); err != nil {
		return &ExportError{Category: category, Err: err}
	}
	return nil
}

// exporterArgv resolves the below invocation prefix.
//
// With a command override the tokens are used verbatim. Otherwise the
// latest exporter image is pulled and below runs in a throwaway
// container with a read-write bind mount exposing either the snapshot
// path or the host's below store.
func (e *Exporter) exporterArgv(ctx context.Context, snapshot string) ([]string, error) {
	if len(e.exporter.Command) > 0 {
		return e.exporter.Command, nil
	}

	if e.exporter.Pull {
		pull := run.Command{Name: e.runtime, Args: []string{"pull", e.exporter.Image}}
		if err := e.runner.Run(ctx, pull); err != nil {
			return nil, fmt.Errorf("pulling exporter image %s: %w", e.exporter.Image, err)
		}
	}

	mount := e.exporter.StoreDir
	if snapshot != "" {
		mount = snapshot
	}

	return []string{
		e.runtime,
		"run",
		"--rm",
		"-v", mount + ":" + mount,
		e.exporter.Image,
	}, nil
}
