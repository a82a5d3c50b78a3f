package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the top-level schema of a pipeline file.
type fileRoot struct {
	Merges []*MergeBlock `hcl:"merge,block"`
}

// Load parses every given HCL file and translates its merge blocks into the
// format-agnostic model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range paths {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Merges {
			merge, err := l.translateMerge(ctx, file, block)
			if err != nil {
				return nil, fmt.Errorf("in %s, merge '%s': %w", file, block.Name, err)
			}
			model.Merges = append(model.Merges, merge)
		}
	}

	logger.Debug("HCL loading complete.", "merges", len(model.Merges))
	return model, nil
}
