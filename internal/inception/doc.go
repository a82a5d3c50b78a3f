// Package inception merges a set of partial files into a target document.
//
// A Pipeline is a single-document Stage: it checks the target for an
// indicator string, collects every file matched by the configured glob
// patterns (never the target itself), optionally runs each through a
// pre-processing Stage, wraps each file's contents in a tag carrying
// per-file attributes and substitutes the newline-joined fragments for the
// first occurrence of the indicator.
//
// Every failure is reported as a *PipelineError so callers running many
// pipelines side by side can fail one document without stopping the others.
package inception
