package importer

import (
	"context"
	"fmt"

	"github.com/belowtools/below-import/internal/infrastructure/config"
	"github.com/belowtools/below-import/internal/run"
)

// Loader copies a staged export into the Prometheus container and
// materialises it as a TSDB block with promtool.
type Loader struct {
	runtime string
	prom    config.PrometheusConfig
	runner  run.Runner
	logger  Logger
}

// NewLoader creates a Loader.
func NewLoader(cfg *config.Config, runner run.Runner, logger Logger) *Loader {
	return &Loader{
		runtime: cfg.Runtime.Binary,
		prom:    cfg.Prometheus,
		runner:  runner,
		logger:  logger,
	}
}

// Load ingests one staged export file.
//
// Both steps are external commands; a non-zero exit from either is
// fatal for the whole pipeline. There is no rollback of categories
// already loaded — block creation is roughly idempotent at the storage
// level and the operator re-runs the import from scratch on failure.
func (l *Loader) Load(ctx context.Context, localPath string) error {
	cp := run.Command{
		Name: l.runtime,
		Args: []string{"compose", "cp", localPath, l.prom.Service + ":" + l.prom.ImportPath},
	}
	l.logger.Debug("copying export into container", "cmd", cp.String())
	if err := l.runner.Run(ctx, cp); err != nil {
		return fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	create := run.Command{
		Name: l.runtime,
		Args: []string{
			"compose", "exec", l.prom.Service,
			"promtool", "tsdb", "create-blocks-from", "openmetrics",
			l.prom.ImportPath, l.prom.DataDir,
		},
	}
	l.logger.Debug("creating blocks", "cmd", create.String())
	if err := l.runner.Run(ctx, create); err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	return nil
}
