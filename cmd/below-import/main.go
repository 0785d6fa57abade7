// below-import copies historical below telemetry into the
// compose-managed Prometheus instance so it can be explored on the
// Grafana dashboards.
//
// Usage:
//
//	below-import [--begin <time>] [--end <time>] <source>
//
// where <source> is either `host` (import from this machine's below
// store) or a path to a below snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/belowtools/below-import/internal/importer"
	"github.com/belowtools/below-import/internal/infrastructure/config"
	"github.com/belowtools/below-import/internal/infrastructure/logging"
	runner "github.com/belowtools/below-import/internal/run"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
)

// Default time bounds. Opaque strings resolved by below's own parser;
// the begin default means "effectively unbounded past".
const (
	defaultBegin = "99 years ago"
	defaultEnd   = "now"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context, args []string) error {
	req, err := parseArgs(args)
	if err != nil {
		return err
	}

	log := logging.Default()
	log.Info("starting below-import", "version", version)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)

	pipeline := importer.New(cfg, runner.NewExecRunner(), log)
	if err := pipeline.Run(ctx, req); err != nil {
		log.Error("import failed", "error", err)
		return err
	}
	return nil
}

// parseArgs parses the command line into an import request.
func parseArgs(args []string) (importer.Request, error) {
	fs := flag.NewFlagSet("below-import", flag.ContinueOnError)

	var begin, end string
	fs.StringVar(&begin, "begin", defaultBegin, "import start time")
	fs.StringVar(&begin, "b", defaultBegin, "import start time (shorthand)")
	fs.StringVar(&end, "end", defaultEnd, "import end time")
	fs.StringVar(&end, "e", defaultEnd, "import end time (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: below-import [flags] <source>\n\n")
		fmt.Fprintf(fs.Output(), "source is a path to a below snapshot, or `host` for the local host.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return importer.Request{}, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return importer.Request{}, fmt.Errorf("expected exactly one source argument, got %d", fs.NArg())
	}

	return importer.Request{
		Source: fs.Arg(0),
		Begin:  begin,
		End:    end,
	}, nil
}
