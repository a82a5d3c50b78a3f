// Package yaml_adapter loads pipeline files written in YAML. Attribute values
// are HCL template strings, so `${path.base}` and the functions available in
// HCL pipeline files work the same way here.
package yaml_adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"gopkg.in/yaml.v3"

	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/ctxlog"
	"github.com/vk/inception/internal/hcl_adapter"
	"github.com/vk/inception/internal/inception"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Merges []mergeDoc `yaml:"merges"`
}

type mergeDoc struct {
	Name        string    `yaml:"name"`
	Target      string    `yaml:"target"`
	Output      string    `yaml:"output"`
	Files       []string  `yaml:"files"`
	WrapTag     yaml.Node `yaml:"wrap_tag"`
	Indicator   yaml.Node `yaml:"indicator"`
	PipeThrough []string  `yaml:"pipe_through"`
	Attributes  yaml.Node `yaml:"attributes"`
}

// Load decodes every given YAML file into the format-agnostic model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	model := &config.Model{}
	for _, file := range paths {
		root, err := decodeFile(file)
		if err != nil {
			return nil, err
		}
		for i, doc := range root.Merges {
			merge, err := translateMerge(file, doc)
			if err != nil {
				return nil, fmt.Errorf("in %s, merge #%d '%s': %w", file, i+1, doc.Name, err)
			}
			model.Merges = append(model.Merges, merge)
		}
	}

	logger.Debug("YAML loading complete.", "merges", len(model.Merges))
	return model, nil
}

func decodeFile(file string) (*fileRoot, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open YAML file %s: %w", file, err)
	}
	defer f.Close()

	var root fileRoot
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
	}
	return &root, nil
}

func translateMerge(file string, doc mergeDoc) (*config.Merge, error) {
	if doc.Name == "" {
		return nil, errors.New("name is required")
	}
	if doc.Target == "" {
		return nil, errors.New("target is required")
	}

	baseDir := filepath.Dir(file)
	merge := &config.Merge{
		Name:        doc.Name,
		File:        file,
		Target:      hcl_adapter.ResolvePath(baseDir, doc.Target),
		Output:      hcl_adapter.ResolvePath(baseDir, doc.Output),
		PipeThrough: doc.PipeThrough,
	}
	for _, p := range doc.Files {
		merge.Options.Files = append(merge.Options.Files, hcl_adapter.ResolvePattern(baseDir, p))
	}

	var err error
	if merge.Options.WrapTag, err = optionalString(&doc.WrapTag, "wrap_tag"); err != nil {
		return nil, err
	}
	if merge.Options.Indicator, err = optionalString(&doc.Indicator, "indicator"); err != nil {
		return nil, err
	}
	if merge.Options.Attributes, err = translateAttributes(file, &doc.Attributes); err != nil {
		return nil, err
	}
	return merge, nil
}

const (
	nullTag = "!!null"
	strTag  = "!!str"
)

// optionalString mirrors the HCL loader: an omitted key yields nil, an
// explicit null yields a pointer to the empty string.
func optionalString(node *yaml.Node, name string) (*string, error) {
	switch {
	case node.Kind == 0:
		return nil, nil
	case node.Kind == yaml.ScalarNode && node.ShortTag() == nullTag:
		return inception.String(""), nil
	case node.Kind == yaml.ScalarNode && node.ShortTag() == strTag:
		return inception.String(node.Value), nil
	case node.Kind == yaml.ScalarNode:
		return nil, fmt.Errorf("%s: line %d: value must be a string, got %s", name, node.Line, node.ShortTag())
	}
	return nil, fmt.Errorf("%s: line %d: value must be a string", name, node.Line)
}

// translateAttributes reads the attributes mapping in document order. Each
// value is parsed as an HCL template.
func translateAttributes(file string, node *yaml.Node) (inception.Attributes, error) {
	if node.Kind == 0 || node.ShortTag() == nullTag {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("attributes: line %d: must be a mapping", node.Line)
	}

	out := make(inception.Attributes, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("attribute '%s': line %d: value must be a string", key.Value, value.Line)
		}
		// A null value renders as an empty attribute, as it does in HCL files.
		if value.ShortTag() == nullTag {
			out = append(out, inception.Attribute{Name: key.Value, Value: inception.Literal("")})
			continue
		}

		expr, diags := hclsyntax.ParseTemplate([]byte(value.Value), file, hcl.Pos{Line: value.Line, Column: value.Column, Byte: 0})
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute '%s': %w", key.Value, diags)
		}
		v, err := hcl_adapter.AttributeValue(expr)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", key.Value, err)
		}
		out = append(out, inception.Attribute{Name: key.Value, Value: v})
	}
	return out, nil
}
