package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := Parse([]string{"inception.hcl"}, out)

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, "inception.hcl", cfg.PipelinePath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, out.String())
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	cfg, shouldExit, err := Parse([]string{
		"-f", "pipelines/",
		"--log-format", "JSON",
		"--log-level", "debug",
		"--workers", "8",
		"--dry-run",
	}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, "pipelines/", cfg.PipelinePath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.True(t, cfg.DryRun)
}

func TestParse_HelpAndMissingPath(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"-h"}, {"--help"}, {}} {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse(args, out)

		require.NoError(t, err, "args: %v", args)
		assert.True(t, shouldExit, "args: %v", args)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
		assert.Contains(t, out.String(), "--dry-run")
	}
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"--bogus", "x.hcl"}, wantMsg: "unknown flag: --bogus"},
		{name: "bad log format", args: []string{"--log-format", "xml", "x.hcl"}, wantMsg: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "trace", "x.hcl"}, wantMsg: "invalid log-level"},
		{name: "zero workers", args: []string{"--workers", "0", "x.hcl"}, wantMsg: "invalid workers"},
		{name: "two paths", args: []string{"a.hcl", "b.hcl"}, wantMsg: "only one pipeline path"},
		{name: "flag and argument", args: []string{"-f", "a.hcl", "b.hcl"}, wantMsg: "only one pipeline path"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			require.Error(t, err)
			assert.False(t, shouldExit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, ExitUsage, exitErr.ExitCode())
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
