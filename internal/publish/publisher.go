package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/belowtools/below-import/internal/run"
)

// Crates is the fixed list of below crates in publish order: least
// dependencies first, most last. crates.io rejects a crate whose
// dependencies are not yet visible, so the order matters.
var Crates = []string{
	"below/ethtool",
	"below/cgroupfs",
	"below/procfs",
	"below/common",
	"below/btrfs",
	"below/gpu_stats",
	"below/config",
	"below/below_derive",
	"below/resctrlfs",
	"below/model",
	"below/render",
	"below/store",
	"below/view",
	"below/dump",
	"below",
}

// settleDelay is how long to wait after each upload for crates.io to
// make it visible to dependency resolution of the next crate.
const settleDelay = 30 * time.Second

// ErrNotLoggedIn is returned when no cargo credentials are present and
// the run is not a dry run.
var ErrNotLoggedIn = errors.New("publish: not logged in to crates.io (run `cargo login` first)")

// Logger defines the logging interface for the publisher.
type Logger interface {
	Info(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}

// Publisher uploads the below crates to crates.io in dependency order.
//
// The loop is linear and fail-fast: the first failing upload aborts the
// run, and crates already uploaded stay uploaded. The process is not
// idempotent — on failure the operator trims the already-published
// crates from the list and reruns.
type Publisher struct {
	repoRoot string
	cargoBin string
	runner   run.Runner
	logger   Logger

	// settle waits for crates.io to stabilise between uploads.
	// Replaced in tests.
	settle func(ctx context.Context) error

	// credentialsPath is checked before a non-dry run.
	credentialsPath string
}

// New creates a Publisher for the repository at repoRoot.
func New(repoRoot string, runner run.Runner) *Publisher {
	return &Publisher{
		repoRoot:        repoRoot,
		cargoBin:        "cargo",
		runner:          runner,
		logger:          noopLogger{},
		settle:          waitSettle,
		credentialsPath: defaultCredentialsPath(),
	}
}

// SetLogger sets the logger for the publisher.
func (p *Publisher) SetLogger(logger Logger) {
	p.logger = logger
}

// Run publishes every crate in order. With dryRun set, cargo verifies
// each crate without uploading and no credentials are required.
func (p *Publisher) Run(ctx context.Context, dryRun bool) error {
	if !dryRun && !p.loggedIn() {
		return ErrNotLoggedIn
	}

	for _, crate := range Crates {
		manifest := filepath.Join(p.repoRoot, crate, "Cargo.toml")

		args := []string{"publish"}
		if dryRun {
			args = append(args, "--dry-run")
		}
		args = append(args, "--manifest-path", manifest)

		cmd := run.Command{Name: p.cargoBin, Args: args}
		p.logger.Info("publishing crate", "crate", crate, "cmd", cmd.String())

		if err := p.runner.Run(ctx, cmd); err != nil {
			return fmt.Errorf("publishing %s: %w", crate, err)
		}

		p.logger.Info("waiting for crates.io to stabilize", "crate", crate)
		if err := p.settle(ctx); err != nil {
			return err
		}
	}

	return nil
}

// loggedIn reports whether cargo credentials exist.
func (p *Publisher) loggedIn() bool {
	_, err := os.Stat(p.credentialsPath)
	return err == nil
}

// defaultCredentialsPath is where `cargo login` stores its token.
func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cargo", "credentials")
}

// waitSettle blocks for settleDelay or until the context is cancelled.
func waitSettle(ctx context.Context) error {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
