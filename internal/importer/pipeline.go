package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/belowtools/below-import/internal/infrastructure/config"
	"github.com/belowtools/below-import/internal/run"
)

// Pipeline sequences the import of all categories and the final
// Prometheus restart.
//
// Execution is single-threaded: one category is fully exported, staged,
// and loaded before the next begins, so no two staged exports ever
// overlap. All external invocations are synchronous and unbounded; a
// hung process blocks the import until the context is cancelled.
type Pipeline struct {
	exporter  *Exporter
	loader    *Loader
	lifecycle *Lifecycle
	logger    Logger
}

// New creates a Pipeline from an explicit configuration value. All
// environment influence has already been folded into cfg by config.Load.
func New(cfg *config.Config, runner run.Runner, logger Logger) *Pipeline {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Pipeline{
		exporter:  NewExporter(cfg, runner, logger),
		loader:    NewLoader(cfg, runner, logger),
		lifecycle: NewLifecycle(cfg.Runtime.Binary, cfg.Prometheus.Service, runner, logger),
		logger:    logger,
	}
}

// Run imports every category of req's time range, then restarts
// Prometheus.
//
// The first failing step aborts the run: unprocessed categories are
// never attempted, already-loaded categories remain loaded, and the
// restart is skipped. On success the total wall-clock duration is
// logged.
func (p *Pipeline) Run(ctx context.Context, req Request) error {
	start := time.Now()
	p.logger.Info("importing below data",
		"source", req.Source,
		"begin", req.Begin,
		"end", req.End,
	)

	for _, category := range Categories {
		if err := p.importCategory(ctx, req, category); err != nil {
			return err
		}
	}

	if err := p.lifecycle.Restart(ctx); err != nil {
		return err
	}

	p.logger.Info("import complete", "elapsed", time.Since(start).String())
	return nil
}

// importCategory runs export → stage → load for one category. The
// staged file is removed on every exit path.
func (p *Pipeline) importCategory(ctx context.Context, req Request, category string) error {
	staged, err := NewStagedExport(category)
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := staged.Remove(); removeErr != nil {
			p.logger.Warn("failed to remove staged export",
				"path", staged.Path(),
				"error", removeErr,
			)
		}
	}()

	if err := p.exporter.Dump(ctx, req, category, staged.Writer()); err != nil {
		return err
	}

	if err := staged.Seal(); err != nil {
		return fmt.Errorf("sealing %s export: %w", category, err)
	}

	return p.loader.Load(ctx, staged.Path())
}
