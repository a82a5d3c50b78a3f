package inception

import (
	"path/filepath"
	"strings"

	"github.com/vk/inception/internal/fsutil"
)

const (
	DefaultWrapTag   = "script"
	DefaultIndicator = "<!-- PARTIALS -->"
)

// DefaultAttributes returns the attributes applied when the caller declares
// none: a text/template type and an id equal to the file's path.
func DefaultAttributes() Attributes {
	return Attributes{
		{Name: "type", Value: Literal("text/template")},
		{Name: "id", Value: Derived(func(p PathInfo) (string, error) {
			return filepath.ToSlash(filepath.Join(p.Dir, p.Base)), nil
		})},
	}
}

// Options is the caller input of a Pipeline. Zero values select defaults,
// except that a non-nil empty WrapTag or Indicator is rejected.
type Options struct {
	// Files lists the glob patterns of the partials to merge. A pattern
	// starting with "!" excludes its matches.
	Files []string
	// WrapTag is the tag wrapped around each partial. nil selects
	// DefaultWrapTag. A non-nil empty string stands for a missing or null
	// value and is rejected, so unlike an untyped caller "" is never a
	// usable tag.
	WrapTag *string
	// Indicator is the literal string replaced in the target. nil selects
	// DefaultIndicator; a non-nil empty string is rejected like WrapTag.
	Indicator *string
	// Attributes are merged over DefaultAttributes.
	Attributes Attributes
	// PipeThrough, if set, processes each partial before it is wrapped.
	PipeThrough Stage
}

// String returns a pointer to s, for the optional fields of Options.
func String(s string) *string {
	return &s
}

// Config is the fully populated configuration a Pipeline runs with.
type Config struct {
	Files       []string
	WrapTag     string
	Indicator   string
	Attributes  Attributes
	PipeThrough Stage
}

// Merge applies defaults to opts. The returned Config shares no slices with
// opts.
func Merge(opts Options) Config {
	cfg := Config{
		Files:       append([]string(nil), opts.Files...),
		WrapTag:     DefaultWrapTag,
		Indicator:   DefaultIndicator,
		Attributes:  DefaultAttributes().Merge(opts.Attributes),
		PipeThrough: opts.PipeThrough,
	}
	if opts.WrapTag != nil {
		cfg.WrapTag = *opts.WrapTag
	}
	if opts.Indicator != nil {
		cfg.Indicator = *opts.Indicator
	}
	if cfg.PipeThrough == nil {
		cfg.PipeThrough = Noop
	}
	return cfg
}

// Validate returns the first problem found in cfg as a KindConfiguration
// *PipelineError, or nil.
func (cfg Config) Validate() error {
	if len(cfg.Files) == 0 {
		return configError("files", "`files` parameter required in options (array).")
	}
	if cfg.WrapTag == "" {
		return configError("wrapTag", "`wrapTag` parameter must be a non-empty string.")
	}
	if strings.ContainsAny(cfg.WrapTag, invalidNameChars) {
		return configError("wrapTag", "`wrapTag` parameter %q is not a valid tag name.", cfg.WrapTag)
	}
	if cfg.Indicator == "" {
		return configError("indicator", "`indicator` parameter must be a non-empty string.")
	}
	for _, pattern := range cfg.Files {
		if !fsutil.ValidPattern(pattern) {
			return configError("files", "`files` contains an invalid glob pattern %q.", pattern)
		}
	}
	for _, attr := range cfg.Attributes {
		if attr.Name == "" || strings.ContainsAny(attr.Name, invalidNameChars) {
			return configError("attributes", "`attributes` contains an invalid attribute name %q.", attr.Name)
		}
	}
	return nil
}

const invalidNameChars = " \t\r\n\"'=<>/"
