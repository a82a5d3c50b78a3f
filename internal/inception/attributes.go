package inception

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathInfo is the decomposition of a file path handed to derived attributes.
// Dir is empty when the path has no directory component.
type PathInfo struct {
	Root string
	Dir  string
	Base string
	Ext  string
	Name string
}

// ParsePath splits path into its PathInfo components.
func ParsePath(path string) PathInfo {
	var info PathInfo

	info.Root = filepath.VolumeName(path)
	if strings.HasPrefix(path[len(info.Root):], string(filepath.Separator)) {
		info.Root += string(filepath.Separator)
	}

	trimmed := strings.TrimRight(path, string(filepath.Separator))
	if trimmed == "" || len(trimmed) < len(info.Root) {
		return info
	}

	idx := strings.LastIndex(trimmed, string(filepath.Separator))
	switch {
	case idx < 0:
		info.Base = trimmed
	case idx == 0:
		info.Dir = trimmed[:1]
		info.Base = trimmed[1:]
	default:
		info.Dir = trimmed[:idx]
		info.Base = trimmed[idx+1:]
	}

	info.Ext = filepath.Ext(info.Base)
	if info.Ext == info.Base {
		// Dotfiles like ".profile" have no extension.
		info.Ext = ""
	}
	info.Name = strings.TrimSuffix(info.Base, info.Ext)
	return info
}

// AttributeValue is either a Literal or a Derived value.
type AttributeValue interface {
	isAttributeValue()
}

// Literal is an attribute value used verbatim for every file.
type Literal string

// Derived computes an attribute value from the path of each file.
type Derived func(PathInfo) (string, error)

func (Literal) isAttributeValue() {}
func (Derived) isAttributeValue() {}

// Attribute is one named entry of an attribute declaration.
type Attribute struct {
	Name  string
	Value AttributeValue
}

// Attributes is an ordered attribute declaration. Rendering follows the
// declaration order.
type Attributes []Attribute

// Merge returns a's attributes overlaid by over's. An attribute of over that
// shares a name with one in a replaces its value in place; the rest are
// appended in their declaration order. Neither input is modified.
func (a Attributes) Merge(over Attributes) Attributes {
	out := make(Attributes, len(a), len(a)+len(over))
	copy(out, a)

	index := make(map[string]int, len(out))
	for i, attr := range out {
		index[attr.Name] = i
	}
	for _, attr := range over {
		if i, ok := index[attr.Name]; ok {
			out[i].Value = attr.Value
			continue
		}
		index[attr.Name] = len(out)
		out = append(out, attr)
	}
	return out
}

// ResolvedAttribute is an attribute with its final string value.
type ResolvedAttribute struct {
	Name  string
	Value string
}

// ResolvedAttributes are the attributes computed for one file.
type ResolvedAttributes []ResolvedAttribute

// String renders the attributes as space-separated key="value" pairs.
func (r ResolvedAttributes) String() string {
	parts := make([]string, len(r))
	for i, attr := range r {
		parts[i] = attr.Name + `="` + attr.Value + `"`
	}
	return strings.Join(parts, " ")
}

// Resolve computes the value of every attribute for the file described by
// path. The first failing Derived value aborts resolution.
func Resolve(attrs Attributes, path PathInfo) (ResolvedAttributes, error) {
	out := make(ResolvedAttributes, 0, len(attrs))
	for _, attr := range attrs {
		var value string
		switch v := attr.Value.(type) {
		case Literal:
			value = string(v)
		case Derived:
			if v == nil {
				return nil, &PipelineError{
					Kind:    KindAttributeResolution,
					Field:   attr.Name,
					Message: fmt.Sprintf("attribute %q has no value function", attr.Name),
				}
			}
			computed, err := v(path)
			if err != nil {
				return nil, &PipelineError{
					Kind:    KindAttributeResolution,
					Field:   attr.Name,
					Message: err.Error(),
					Err:     err,
				}
			}
			value = computed
		case nil:
			// A nil value renders as an empty string rather than dropping the attribute.
		default:
			panic(fmt.Sprintf("inception: unsupported attribute value %T", v))
		}
		out = append(out, ResolvedAttribute{Name: attr.Name, Value: value})
	}
	return out, nil
}
