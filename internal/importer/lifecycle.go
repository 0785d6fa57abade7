package importer

import (
	"context"
	"fmt"

	"github.com/belowtools/below-import/internal/run"
)

// Lifecycle restarts the Prometheus service so newly written storage
// blocks are indexed and become queryable.
type Lifecycle struct {
	runtime string
	service string
	runner  run.Runner
	logger  Logger
}

// NewLifecycle creates a Lifecycle controller.
func NewLifecycle(runtime, service string, runner run.Runner, logger Logger) *Lifecycle {
	return &Lifecycle{
		runtime: runtime,
		service: service,
		runner:  runner,
		logger:  logger,
	}
}

// Restart bounces the Prometheus service. Runs exactly once per import,
// after every category has been loaded.
func (l *Lifecycle) Restart(ctx context.Context) error {
	cmd := run.Command{
		Name: l.runtime,
		Args: []string{"compose", "restart", l.service},
	}
	l.logger.Info("restarting prometheus", "cmd", cmd.String())
	if err := l.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrRestart, err)
	}
	return nil
}
