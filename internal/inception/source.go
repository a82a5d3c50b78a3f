package inception

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/inception/internal/fsutil"
)

// Source opens a stream of the files matching patterns, never yielding the
// path given as exclude.
type Source interface {
	Open(ctx context.Context, patterns []string, exclude string) (Stream, error)
}

// Stream yields files one at a time. Next returns io.EOF once the stream is
// exhausted. Close releases any resource held by the stream and may be
// called more than once.
type Stream interface {
	Next() (*File, error)
	Close() error
}

// GlobSource reads files from the local file system.
type GlobSource struct{}

// Open expands patterns up front and reads each file lazily on Next.
func (GlobSource) Open(ctx context.Context, patterns []string, exclude string) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := fsutil.Glob(patterns, exclude)
	if err != nil {
		return nil, err
	}
	return &globStream{ctx: ctx, paths: paths}, nil
}

var errStreamClosed = errors.New("read from closed stream")

type globStream struct {
	ctx    context.Context
	paths  []string
	next   int
	closed bool
}

func (s *globStream) Next() (*File, error) {
	if s.closed {
		return nil, errStreamClosed
	}
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	path := s.paths[s.next]
	s.next++

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &File{Path: path, Contents: contents}, nil
}

func (s *globStream) Close() error {
	s.closed = true
	return nil
}

// SliceSource serves a fixed list of files; patterns are ignored and only
// exclude is honored. It is useful for tests and for callers that already
// hold the partials in memory.
type SliceSource []*File

// Open returns a stream over the files of s.
func (s SliceSource) Open(ctx context.Context, _ []string, exclude string) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files := make([]*File, 0, len(s))
	for _, f := range s {
		if f.Path != exclude {
			files = append(files, f)
		}
	}
	return &sliceStream{files: files}, nil
}

type sliceStream struct {
	files []*File
}

func (s *sliceStream) Next() (*File, error) {
	if len(s.files) == 0 {
		return nil, io.EOF
	}
	f := s.files[0]
	s.files = s.files[1:]
	return f.Clone(), nil
}

func (s *sliceStream) Close() error {
	s.files = nil
	return nil
}
