package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/inception"
)

// load writes src to a pipeline file in a temp dir and loads it.
func load(t *testing.T, src string) (*config.Model, string, error) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "inception.hcl")
	require.NoError(t, os.WriteFile(file, []byte(src), 0600))
	model, err := NewLoader().Load(context.Background(), file)
	return model, dir, err
}

func resolve(t *testing.T, attrs inception.Attributes, path string) string {
	t.Helper()
	resolved, err := inception.Resolve(attrs, inception.ParsePath(filepath.FromSlash(path)))
	require.NoError(t, err)
	return resolved.String()
}

func TestLoad_FullMergeBlock(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
merge "templates" {
  target       = "web/index.html"
  output       = "dist/index.html"
  files        = ["web/partials/**/*.html", "!web/partials/draft-*.html"]
  wrap_tag     = "template"
  indicator    = "<!-- HERE -->"
  pipe_through = ["strip_newlines", "trim_space"]

  attributes {
    type  = "text/x-template"
    id    = "tpl-${path.name}"
    class = upper("partial")
  }
}
`
	// --- Act ---
	model, dir, err := load(t, src)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Merges, 1)
	m := model.Merges[0]

	assert.Equal(t, "templates", m.Name)
	assert.Equal(t, filepath.Join(dir, "inception.hcl"), m.File)
	assert.Equal(t, filepath.Join(dir, "web", "index.html"), m.Target)
	assert.Equal(t, filepath.Join(dir, "dist", "index.html"), m.OutputPath())
	assert.Equal(t, []string{
		filepath.Join(dir, "web", "partials", "**", "*.html"),
		"!" + filepath.Join(dir, "web", "partials", "draft-*.html"),
	}, m.Options.Files)
	require.NotNil(t, m.Options.WrapTag)
	assert.Equal(t, "template", *m.Options.WrapTag)
	require.NotNil(t, m.Options.Indicator)
	assert.Equal(t, "<!-- HERE -->", *m.Options.Indicator)
	assert.Equal(t, []string{"strip_newlines", "trim_space"}, m.PipeThrough)

	require.Len(t, m.Options.Attributes, 3)
	assert.Equal(t, "type", m.Options.Attributes[0].Name)
	assert.Equal(t, "id", m.Options.Attributes[1].Name)
	assert.Equal(t, "class", m.Options.Attributes[2].Name)
	assert.IsType(t, inception.Literal(""), m.Options.Attributes[0].Value)
	assert.IsType(t, inception.Derived(nil), m.Options.Attributes[1].Value)
	assert.Equal(t, inception.Literal("PARTIAL"), m.Options.Attributes[2].Value)

	assert.Equal(t, `type="text/x-template" id="tpl-dogs" class="PARTIAL"`, resolve(t, m.Options.Attributes, "web/partials/dogs.html"))
}

func TestLoad_DefaultsAndNulls(t *testing.T) {
	t.Parallel()

	model, _, err := load(t, `
merge "defaults" {
  target = "index.html"
  files  = ["*.html"]
}

merge "nulls" {
  target    = "index.html"
  wrap_tag  = null
  indicator = null
}
`)

	require.NoError(t, err)
	require.Len(t, model.Merges, 2)

	defaults := model.Merges[0]
	assert.Nil(t, defaults.Options.WrapTag)
	assert.Nil(t, defaults.Options.Indicator)
	assert.Nil(t, defaults.Options.Attributes)
	assert.Empty(t, defaults.PipeThrough)
	assert.Equal(t, defaults.Target, defaults.OutputPath())

	// Explicit nulls survive loading and are rejected by the pipeline.
	nulls := model.Merges[1]
	assert.Nil(t, nulls.Options.Files)
	require.NotNil(t, nulls.Options.WrapTag)
	assert.Equal(t, "", *nulls.Options.WrapTag)
	err = inception.Merge(nulls.Options).Validate()
	assert.ErrorIs(t, err, inception.ErrConfiguration)
}

func TestLoad_PathFunctions(t *testing.T) {
	t.Parallel()

	model, _, err := load(t, `
merge "fn" {
  target = "index.html"
  files  = ["*.html"]
  attributes {
    id   = replace(path.dir, "/", "-")
    ext  = trimprefix(path.ext, ".")
    full = join("/", [path.dir, path.base])
  }
}
`)
	require.NoError(t, err)

	got := resolve(t, model.Merges[0].Options.Attributes, "a/b/c.html")
	assert.Equal(t, `id="a-b" ext="html" full="a/b/c.html"`, got)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `merge "x" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing target",
			src:     `merge "x" { files = ["*"] }`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "files not a list",
			src:     "merge \"x\" {\n target = \"t\"\n files = { a = 1 }\n}",
			wantErr: "files: must be a list of strings",
		},
		{
			name:    "wrap tag not a string",
			src:     "merge \"x\" {\n target = \"t\"\n wrap_tag = [\"a\"]\n}",
			wantErr: "wrap_tag: value must be a string",
		},
		{
			name:    "wrap tag is a number",
			src:     "merge \"x\" {\n target = \"t\"\n wrap_tag = 5\n}",
			wantErr: "wrap_tag: value must be a string, got number",
		},
		{
			name:    "indicator is a bool",
			src:     "merge \"x\" {\n target = \"t\"\n indicator = true\n}",
			wantErr: "indicator: value must be a string, got bool",
		},
		{
			name:    "unknown variable in attribute",
			src:     "merge \"x\" {\n target = \"t\"\n attributes {\n id = file.name\n }\n}",
			wantErr: `unknown variable "file"`,
		},
		{
			name:    "unknown top-level block",
			src:     `task "x" {}`,
			wantErr: "failed to decode HCL file",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := load(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestAttributeValue_DerivedEvaluationError(t *testing.T) {
	t.Parallel()

	expr, diags := hclsyntax.ParseExpression([]byte(`path.base + 1`), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors())

	value, err := AttributeValue(expr)
	require.NoError(t, err)

	_, err = inception.Resolve(inception.Attributes{{Name: "n", Value: value}}, inception.ParsePath("x.html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, inception.ErrAttributeResolution)
}

func TestResolvePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("base", "a", "*.html"), ResolvePattern("base", "a/*.html"))
	assert.Equal(t, "!"+filepath.Join("base", "skip.html"), ResolvePattern("base", "!skip.html"))
	assert.Equal(t, "/abs/*.html", ResolvePattern("base", "/abs/*.html"))
}
