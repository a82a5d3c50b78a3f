// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/ctxlog"
	"github.com/vk/inception/internal/inception"
)

// translateMerge converts the HCL-specific merge schema into the agnostic model.
func (l *Loader) translateMerge(ctx context.Context, file string, b *MergeBlock) (*config.Merge, error) {
	logger := ctxlog.FromContext(ctx).With("merge", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL merge block to internal config model.")

	baseDir := filepath.Dir(file)
	merge := &config.Merge{
		Name:        b.Name,
		File:        file,
		Target:      ResolvePath(baseDir, b.Target),
		PipeThrough: b.PipeThrough,
	}
	if b.Output != nil {
		merge.Output = ResolvePath(baseDir, *b.Output)
	}

	if isExprDefined(ctx, b.Files, "files") {
		patterns, err := stringList(b.Files)
		if err != nil {
			return nil, fmt.Errorf("files: %w", err)
		}
		for _, p := range patterns {
			merge.Options.Files = append(merge.Options.Files, ResolvePattern(baseDir, p))
		}
	}

	var err error
	if merge.Options.WrapTag, err = optionalString(ctx, b.WrapTag, "wrap_tag"); err != nil {
		return nil, err
	}
	if merge.Options.Indicator, err = optionalString(ctx, b.Indicator, "indicator"); err != nil {
		return nil, err
	}

	if b.Attributes != nil {
		attrs, err := translateAttributes(b.Attributes.Body)
		if err != nil {
			return nil, err
		}
		merge.Options.Attributes = attrs
		logger.Debug("Attributes translated.", "count", len(attrs))
	}

	return merge, nil
}

// optionalString evaluates an optional string attribute. An omitted attribute
// yields nil so the pipeline default applies; an explicit null yields a
// pointer to the empty string, which the pipeline rejects at run time.
func optionalString(ctx context.Context, expr hcl.Expression, name string) (*string, error) {
	if !isExprDefined(ctx, expr, name) {
		return nil, nil
	}
	val, diags := expr.Value(evalContext(nil))
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w", name, diags)
	}
	if val.IsNull() {
		return inception.String(""), nil
	}
	// Numbers and bools would convert silently; only real strings are accepted.
	if !val.Type().Equals(cty.String) {
		return nil, fmt.Errorf("%s: value must be a string, got %s", name, val.Type().FriendlyName())
	}
	if !val.IsKnown() {
		return nil, fmt.Errorf("%s: value is not known", name)
	}
	return inception.String(val.AsString()), nil
}

func translateAttributes(body hcl.Body) (inception.Attributes, error) {
	attrs, diags := orderedAttributes(body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("attributes: %w", diags)
	}
	out := make(inception.Attributes, 0, len(attrs))
	for _, attr := range attrs {
		value, err := AttributeValue(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", attr.Name, err)
		}
		out = append(out, inception.Attribute{Name: attr.Name, Value: value})
	}
	return out, nil
}
