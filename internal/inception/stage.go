package inception

import "context"

// File is a path plus its contents. It is used for the target document,
// for every gathered partial and for the emitted result.
type File struct {
	Path     string
	Contents []byte
}

// Clone returns a copy of f that shares no memory with it.
func (f *File) Clone() *File {
	return &File{Path: f.Path, Contents: append([]byte(nil), f.Contents...)}
}

// Stage is a pass-through transform over files. A Stage receives one file
// and returns the transformed file, or an error. Returning a nil file with a
// nil error drops the file from the stream.
type Stage interface {
	Process(ctx context.Context, f *File) (*File, error)
}

// StageFunc adapts an ordinary function to the Stage interface.
type StageFunc func(ctx context.Context, f *File) (*File, error)

// Process calls fn(ctx, f).
func (fn StageFunc) Process(ctx context.Context, f *File) (*File, error) {
	return fn(ctx, f)
}

// Noop is the identity stage.
var Noop Stage = StageFunc(func(_ context.Context, f *File) (*File, error) {
	return f, nil
})

// Chain composes stages left to right. A file dropped by one stage is not
// passed to the following ones. Nil stages are skipped.
func Chain(stages ...Stage) Stage {
	var kept []Stage
	for _, s := range stages {
		if s != nil {
			kept = append(kept, s)
		}
	}
	switch len(kept) {
	case 0:
		return Noop
	case 1:
		return kept[0]
	}
	return StageFunc(func(ctx context.Context, f *File) (*File, error) {
		var err error
		for _, s := range kept {
			f, err = s.Process(ctx, f)
			if err != nil || f == nil {
				return nil, err
			}
		}
		return f, nil
	})
}
