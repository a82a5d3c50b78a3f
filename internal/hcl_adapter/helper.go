package hcl_adapter

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/inception/internal/ctxlog"
	"github.com/vk/inception/internal/fsutil"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with zero-width
// placeholder expressions, so a nil check alone is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}

// orderedAttributes returns the attributes of body in source order.
func orderedAttributes(body hcl.Body) ([]*hcl.Attribute, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Byte < out[j].Range.Start.Byte
	})
	return out, nil
}

// ResolvePath anchors a relative path at baseDir, the directory of the
// pipeline file that declared it.
func ResolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResolvePattern anchors a glob pattern at baseDir, keeping a leading
// negation marker in front.
func ResolvePattern(baseDir, pattern string) string {
	if rest, ok := strings.CutPrefix(pattern, fsutil.NegationPrefix); ok {
		return fsutil.NegationPrefix + ResolvePath(baseDir, rest)
	}
	return ResolvePath(baseDir, pattern)
}
