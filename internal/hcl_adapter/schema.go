package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// MergeBlock is the HCL schema of a `merge "<name>" { ... }` block.
//
// files, wrap_tag and indicator are kept as raw expressions so the loader
// can tell an omitted attribute from an explicit null.
type MergeBlock struct {
	Name        string           `hcl:"name,label"`
	Target      string           `hcl:"target"`
	Output      *string          `hcl:"output,optional"`
	Files       hcl.Expression   `hcl:"files,optional"`
	WrapTag     hcl.Expression   `hcl:"wrap_tag,optional"`
	Indicator   hcl.Expression   `hcl:"indicator,optional"`
	PipeThrough []string         `hcl:"pipe_through,optional"`
	Attributes  *AttributesBlock `hcl:"attributes,block"`
}

// AttributesBlock holds the free-form attribute declarations of a merge.
type AttributesBlock struct {
	Body hcl.Body `hcl:",remain"`
}
