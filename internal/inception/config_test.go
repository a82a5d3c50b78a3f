package inception

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_Defaults(t *testing.T) {
	t.Parallel()

	cfg := Merge(Options{Files: []string{"*.html"}})

	assert.Equal(t, DefaultWrapTag, cfg.WrapTag)
	assert.Equal(t, DefaultIndicator, cfg.Indicator)
	assert.NotNil(t, cfg.PipeThrough)
	require.Len(t, cfg.Attributes, 2)
	assert.Equal(t, "type", cfg.Attributes[0].Name)
	assert.Equal(t, "id", cfg.Attributes[1].Name)
	assert.NoError(t, cfg.Validate())
}

func TestMerge_CallerValuesWin(t *testing.T) {
	t.Parallel()

	files := []string{"a/*.html"}
	cfg := Merge(Options{
		Files:      files,
		WrapTag:    String("template"),
		Indicator:  String("@@HERE@@"),
		Attributes: Attributes{{Name: "type", Value: Literal("text/x-handlebars")}},
	})

	assert.Equal(t, "template", cfg.WrapTag)
	assert.Equal(t, "@@HERE@@", cfg.Indicator)
	assert.Equal(t, Literal("text/x-handlebars"), cfg.Attributes[0].Value)

	files[0] = "mutated"
	assert.Equal(t, "a/*.html", cfg.Files[0], "Merge must copy the pattern list")
}

func TestValidate_FirstViolationWins(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		opts      Options
		wantField string
		wantMsg   string
	}{
		{
			name:      "files missing",
			opts:      Options{WrapTag: String("")},
			wantField: "files",
			wantMsg:   "`files` parameter required",
		},
		{
			name:      "files empty",
			opts:      Options{Files: []string{}},
			wantField: "files",
			wantMsg:   "`files` parameter required",
		},
		{
			name:      "wrapTag empty",
			opts:      Options{Files: []string{"*.html"}, WrapTag: String(""), Indicator: String("")},
			wantField: "wrapTag",
			wantMsg:   "`wrapTag` parameter",
		},
		{
			name:      "wrapTag with whitespace",
			opts:      Options{Files: []string{"*.html"}, WrapTag: String("script type")},
			wantField: "wrapTag",
			wantMsg:   "`wrapTag` parameter",
		},
		{
			name:      "indicator empty",
			opts:      Options{Files: []string{"*.html"}, Indicator: String("")},
			wantField: "indicator",
			wantMsg:   "`indicator` parameter",
		},
		{
			name:      "bad glob",
			opts:      Options{Files: []string{"*.html", "[oops"}},
			wantField: "files",
			wantMsg:   "invalid glob pattern",
		},
		{
			name:      "bad attribute name",
			opts:      Options{Files: []string{"*.html"}, Attributes: Attributes{{Name: "data id", Value: Literal("x")}}},
			wantField: "attributes",
			wantMsg:   "invalid attribute name",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Merge(tc.opts).Validate()

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			var pe *PipelineError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.wantField, pe.Field)
			assert.Equal(t, StateValidating, pe.State)
			assert.Contains(t, pe.Error(), tc.wantMsg)
		})
	}
}
