package processors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/tidwall/jsonc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vk/inception/internal/inception"
)

const (
	StripNewlines = "strip_newlines"
	TrimSpace     = "trim_space"
	Markdown      = "markdown"
	JSONC         = "jsonc"
)

func registerBuiltins(r *Registry) {
	r.Register(StripNewlines, func() inception.Stage { return contentStage(stripNewlines) })
	r.Register(TrimSpace, func() inception.Stage { return contentStage(trimSpace) })
	r.Register(Markdown, newMarkdown)
	r.Register(JSONC, func() inception.Stage { return contentStage(compactJSONC) })
}

// contentStage lifts a contents-only transform into a Stage that keeps the
// file path.
func contentStage(fn func([]byte) ([]byte, error)) inception.Stage {
	return inception.StageFunc(func(_ context.Context, f *inception.File) (*inception.File, error) {
		out, err := fn(f.Contents)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path, err)
		}
		return &inception.File{Path: f.Path, Contents: out}, nil
	})
}

var lineBreaks = regexp.MustCompile(`\r?\n|\r`)

func stripNewlines(in []byte) ([]byte, error) {
	return lineBreaks.ReplaceAll(in, nil), nil
}

func trimSpace(in []byte) ([]byte, error) {
	return bytes.Clone(bytes.TrimSpace(in)), nil
}

// compactJSONC strips comments and trailing commas, then removes
// insignificant whitespace.
func compactJSONC(in []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := json.Compact(&out, jsonc.ToJSON(in)); err != nil {
		return nil, fmt.Errorf("compacting json: %w", err)
	}
	return out.Bytes(), nil
}

// newMarkdown renders markdown partials to HTML. Each stage owns its
// goldmark instance; a goldmark.Markdown is safe for concurrent Convert calls.
func newMarkdown() inception.Stage {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.DefinitionList,
		),
	)
	return contentStage(func(in []byte) ([]byte, error) {
		var out bytes.Buffer
		if err := md.Convert(in, &out); err != nil {
			return nil, fmt.Errorf("rendering markdown: %w", err)
		}
		return bytes.TrimRight(out.Bytes(), "\n"), nil
	})
}
