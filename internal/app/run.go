package app

import (
	"context"
	"fmt"

	"github.com/vk/inception/internal/batch"
	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/ctxlog"
)

// Run loads the pipeline files, turns every declared merge into a task and
// runs them concurrently. Loading problems abort the run before any task
// starts. Task failures do not stop other tasks; they are returned together
// as one error once every task has finished.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	model, err := a.loader.Load(ctx, a.config.PipelinePath)
	if err != nil {
		return fmt.Errorf("failed to load pipeline files: %w", err)
	}
	a.logger.Debug("Pipeline files loaded into unified model.", "merges", len(model.Merges))

	tasks, err := a.buildTasks(model)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		a.logger.Warn("No merges declared, nothing to do.", "path", a.config.PipelinePath)
		return nil
	}

	a.logger.Info("Starting merges.", "count", len(tasks), "workers", a.config.WorkerCount, "dry_run", a.config.DryRun)
	results := batch.New(a.config.WorkerCount, a.config.DryRun).Run(ctx, tasks)
	if err := results.Err(); err != nil {
		return err
	}
	a.logger.Info("All merges finished.", "count", len(results))

	a.logger.Debug("App.Run method finished.")
	return nil
}

// buildTasks resolves every merge's processor names into a stage. An unknown
// processor is a startup error naming the merge that declared it.
func (a *App) buildTasks(model *config.Model) ([]*batch.Task, error) {
	tasks := make([]*batch.Task, 0, len(model.Merges))
	for _, m := range model.Merges {
		stage, err := a.processors.Build(m.PipeThrough...)
		if err != nil {
			return nil, fmt.Errorf("merge '%s' in %s: %w", m.Name, m.File, err)
		}
		opts := m.Options
		opts.PipeThrough = stage
		tasks = append(tasks, &batch.Task{
			Name:    m.Name,
			Target:  m.Target,
			Output:  m.OutputPath(),
			Options: opts,
		})
	}
	return tasks, nil
}
