package inception

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/inception/internal/ctxlog"
)

// Pipeline merges partials into one target document per Process call. It
// holds only immutable configuration, so a single Pipeline may be shared by
// concurrent callers.
type Pipeline struct {
	cfg    Config
	err    error
	source Source
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithSource replaces the file source. The default is GlobSource.
func WithSource(s Source) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.source = s
		}
	}
}

// New returns a Pipeline for opts. Configuration problems are not returned
// here; every Process call reports them before touching the file system.
func New(opts Options, options ...Option) *Pipeline {
	cfg := Merge(opts)
	p := &Pipeline{
		cfg:    cfg,
		err:    cfg.Validate(),
		source: GlobSource{},
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Config returns the merged configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Process merges the configured partials into target and returns the result
// as a new File. target itself is left untouched. On failure the returned
// error is always a *PipelineError and no file is returned.
func (p *Pipeline) Process(ctx context.Context, target *File) (out *File, err error) {
	r := &run{
		cfg:    p.cfg,
		source: p.source,
		logger: ctxlog.FromContext(ctx).With("plugin", PluginName),
	}
	if target != nil {
		r.logger = r.logger.With("target", target.Path)
	}

	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, r.fail(fmt.Errorf("recovered from panic: %v", rec))
		}
	}()

	if p.err != nil {
		return nil, r.fail(p.err)
	}
	return r.execute(ctx, target)
}

// run holds the state of one Process call.
type run struct {
	cfg    Config
	source Source
	logger *slog.Logger
	state  State
}

func (r *run) enter(s State) {
	r.state = s
	r.logger.Debug("Pipeline state changed.", "state", s.String())
}

func (r *run) fail(cause error) error {
	reported := *Report(cause)
	if reported.Kind != KindConfiguration {
		reported.State = r.state
	}
	r.logger.Debug("Pipeline failed.", "state", r.state.String(), "kind", reported.Kind.String(), "error", reported.Message)
	r.state = StateFailed
	return &reported
}

func (r *run) execute(ctx context.Context, target *File) (*File, error) {
	r.enter(StateValidating)
	if target == nil {
		return nil, r.fail(errors.New("no target document to merge into"))
	}

	r.enter(StateLocatingIndicator)
	content := string(target.Contents)
	if !strings.Contains(content, r.cfg.Indicator) {
		return nil, r.fail(&PipelineError{
			Kind:    KindIndicatorNotFound,
			Field:   "indicator",
			Message: "src target does not contain a string (`indicator`) where contents should be injected.",
		})
	}

	r.enter(StateCollectingFiles)
	stream, err := r.source.Open(ctx, r.cfg.Files, target.Path)
	if err != nil {
		return nil, r.fail(err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			r.logger.Debug("Closing file stream failed.", "error", cerr)
		}
	}()

	files, err := r.collect(ctx, stream)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(StateTransforming)
	joined, err := Transform(files, r.cfg)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(StateSubstituting)
	merged := strings.Replace(content, r.cfg.Indicator, joined, 1)

	r.enter(StateEmitting)
	r.logger.Debug("Partials merged into target.", "partials", len(files), "bytes", len(merged))
	return &File{Path: target.Path, Contents: []byte(merged)}, nil
}

// collect drains stream through the pre-processing stage and buffers every
// resulting file.
func (r *run) collect(ctx context.Context, stream Stream) ([]*File, error) {
	r.enter(StatePreProcessing)
	var files []*File
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		processed, err := r.cfg.PipeThrough.Process(ctx, f)
		if err != nil {
			return nil, err
		}
		if processed == nil {
			r.logger.Debug("Partial dropped by pre-processing stage.", "path", f.Path)
			continue
		}
		files = append(files, processed)
	}

	r.enter(StateConcatenating)
	r.logger.Debug("Partials collected.", "count", len(files))
	return files, nil
}
