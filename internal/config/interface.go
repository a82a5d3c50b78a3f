package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/inception/internal/ctxlog"
	"github.com/vk/inception/internal/fsutil"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the pipeline files at paths and translates them into the
	// format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// ByExtension dispatches every pipeline file to the loader registered for
// its extension. Directories are searched recursively for files with any
// registered extension.
type ByExtension map[string]Loader

// Extensions returns the registered extensions in sorted order.
func (b ByExtension) Extensions() []string {
	exts := make([]string, 0, len(b))
	for ext := range b {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load implements Loader. Merge names must be unique across all files.
func (b ByExtension) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	if len(b) == 0 {
		return nil, errors.New("no pipeline file loaders registered")
	}

	files, err := b.expand(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered pipeline files.", "count", len(files))

	model := &Model{}
	seen := make(map[string]string)
	for _, file := range files {
		loader, ok := b[strings.ToLower(filepath.Ext(file))]
		if !ok {
			return nil, fmt.Errorf("no loader for pipeline file %s (supported: %s)", file, strings.Join(b.Extensions(), ", "))
		}
		m, err := loader.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		for _, merge := range m.Merges {
			if prev, dup := seen[merge.Name]; dup {
				return nil, fmt.Errorf("merge %q declared in %s is already declared in %s", merge.Name, merge.File, prev)
			}
			seen[merge.Name] = merge.File
			model.Merges = append(model.Merges, merge)
		}
	}

	logger.Debug("Pipeline files loaded.", "merges", len(model.Merges))
	return model, nil
}

func (b ByExtension) expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, b.Extensions()...)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}
