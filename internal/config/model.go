package config

import "github.com/vk/inception/internal/inception"

// Model is the unified, format-agnostic representation of one or more
// pipeline files.
type Model struct {
	Merges []*Merge
}

// Merge is the format-agnostic representation of one merge job: one target
// document and the partials merged into it.
type Merge struct {
	Name string
	// File is the pipeline file that declared the merge.
	File string

	Target string
	// Output is where the merged document is written. It defaults to Target.
	Output string
	// PipeThrough lists processor names applied to every partial, in order.
	PipeThrough []string

	// Options carries everything except the pre-processing stage, which is
	// built from PipeThrough by the caller.
	Options inception.Options
}

// OutputPath returns Output, or Target when no output was declared.
func (m *Merge) OutputPath() string {
	if m.Output != "" {
		return m.Output
	}
	return m.Target
}
