// Package batch runs many merge tasks concurrently. Every task gets its own
// pipeline instance, and a failing task never stops its siblings.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vk/inception/internal/ctxlog"
	"github.com/vk/inception/internal/inception"
)

// DefaultWorkers is used when a Runner is created with a non-positive worker
// count.
const DefaultWorkers = 4

// Task is one merge job: a target document, the options of its pipeline and
// the path the merged document is written to.
type Task struct {
	Name    string
	Target  string
	Output  string
	Options inception.Options
}

func (t *Task) outputPath() string {
	if t.Output != "" {
		return t.Output
	}
	return t.Target
}

// Result is the outcome of one task.
type Result struct {
	Task *Task
	// Output is the merged document. It is nil when the task failed.
	Output *inception.File
	// Written reports whether Output was written to disk.
	Written bool
	Err     error
}

// Results holds one Result per task, in task order.
type Results []Result

// Failed returns the results that carry an error.
func (rs Results) Failed() Results {
	var failed Results
	for _, r := range rs {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err aggregates every task failure into one error, or returns nil when all
// tasks succeeded.
func (rs Results) Err() error {
	failed := rs.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, r := range failed {
		errs = append(errs, fmt.Errorf("merge '%s': %w", r.Task.Name, r.Err))
	}
	return fmt.Errorf("%d of %d merges failed: %w", len(failed), len(rs), errors.Join(errs...))
}

// Runner processes tasks on a bounded pool of workers.
type Runner struct {
	workers int
	dryRun  bool
	options []inception.Option
}

// New creates a Runner. With dryRun set, tasks are merged but nothing is
// written. The pipeline options are passed to every task's pipeline.
func New(workers int, dryRun bool, options ...inception.Option) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{
		workers: workers,
		dryRun:  dryRun,
		options: options,
	}
}

type job struct {
	index int
	task  *Task
}

// Run processes every task and returns their results in task order. Run
// itself never fails; inspect Results.Err for the aggregate outcome. Tasks
// that have not started when ctx is canceled fail with the context's error.
func (r *Runner) Run(ctx context.Context, tasks []*Task) Results {
	logger := ctxlog.FromContext(ctx)
	results := make(Results, len(tasks))
	if len(tasks) == 0 {
		logger.Debug("No tasks to run.")
		return results
	}

	workers := min(r.workers, len(tasks))
	logger.Debug("Starting batch run.", "tasks", len(tasks), "workers", workers, "dry_run", r.dryRun)

	readyChan := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.worker(ctx, readyChan, results, workerID)
		}(i)
	}

	for i, t := range tasks {
		readyChan <- job{index: i, task: t}
	}
	close(readyChan)
	wg.Wait()

	logger.Debug("Batch run finished.", "tasks", len(tasks), "failed", len(results.Failed()))
	return results
}

// worker is the processing loop for a single concurrent worker. Each worker
// writes only the result slots of the jobs it receives.
func (r *Runner) worker(ctx context.Context, readyChan <-chan job, results Results, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for j := range readyChan {
		taskLogger := logger.With("workerID", workerID, "merge", j.task.Name)

		if err := ctx.Err(); err != nil {
			taskLogger.Debug("Skipping task, batch canceled.")
			results[j.index] = Result{Task: j.task, Err: err}
			continue
		}

		taskLogger.Debug("Worker picked up task.")
		res := r.runTask(ctxlog.WithLogger(ctx, taskLogger), j.task)
		if res.Err != nil {
			taskLogger.Error("Merge failed.", "error", res.Err)
		} else {
			taskLogger.Info("Merge finished.", "output", j.task.outputPath(), "bytes", len(res.Output.Contents), "written", res.Written)
		}
		results[j.index] = res
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

func (r *Runner) runTask(ctx context.Context, t *Task) Result {
	res := Result{Task: t}

	contents, err := os.ReadFile(t.Target)
	if err != nil {
		res.Err = inception.Report(fmt.Errorf("failed to read target: %w", err))
		return res
	}

	pipeline := inception.New(t.Options, r.options...)
	out, err := pipeline.Process(ctx, &inception.File{Path: t.Target, Contents: contents})
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out

	if r.dryRun {
		return res
	}
	if err := writeAtomic(t.outputPath(), out.Contents); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	return res
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on output %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place at %s: %w", path, err)
	}
	return nil
}
