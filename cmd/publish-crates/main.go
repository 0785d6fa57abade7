// publish-crates uploads the below workspace crates to crates.io in
// dependency order.
//
// Usage:
//
//	publish-crates [--dry-run] [--repo-root <path>]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/belowtools/below-import/internal/infrastructure/config"
	"github.com/belowtools/below-import/internal/infrastructure/logging"
	"github.com/belowtools/below-import/internal/publish"
	runner "github.com/belowtools/below-import/internal/run"
)

var (
	version = "dev"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("publish-crates", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "verify each crate without uploading")
	repoRoot := fs.String("repo-root", ".", "path to the below repository root")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	log := logging.New(config.LoggingConfig{Level: "info", Format: "text", Output: "stderr"}, version)

	if !*dryRun {
		// An upload failure leaves earlier crates published; the rerun
		// must trim them from the list by hand.
		log.Warn("publishing is not idempotent; a mid-run failure requires manual cleanup before retrying")
	}

	p := publish.New(*repoRoot, runner.NewExecRunner())
	p.SetLogger(log)
	return p.Run(ctx, *dryRun)
}
