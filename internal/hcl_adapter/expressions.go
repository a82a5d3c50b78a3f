package hcl_adapter

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/inception/internal/inception"
)

// PathVariable is the root name under which attribute expressions see the
// path of the file being wrapped.
const PathVariable = "path"

// functions are callable from every expression of a pipeline file.
var functions = map[string]function.Function{
	"upper":         stdlib.UpperFunc,
	"lower":         stdlib.LowerFunc,
	"replace":       stdlib.ReplaceFunc,
	"regex_replace": stdlib.RegexReplaceFunc,
	"trimprefix":    stdlib.TrimPrefixFunc,
	"trimsuffix":    stdlib.TrimSuffixFunc,
	"join":          stdlib.JoinFunc,
	"split":         stdlib.SplitFunc,
	"format":        stdlib.FormatFunc,
}

// evalContext builds the evaluation context for an expression. Without a
// path only functions are available.
func evalContext(path *inception.PathInfo) *hcl.EvalContext {
	ctx := &hcl.EvalContext{Functions: functions}
	if path != nil {
		ctx.Variables = map[string]cty.Value{
			PathVariable: cty.ObjectVal(map[string]cty.Value{
				"root": cty.StringVal(path.Root),
				"dir":  cty.StringVal(path.Dir),
				"base": cty.StringVal(path.Base),
				"ext":  cty.StringVal(path.Ext),
				"name": cty.StringVal(path.Name),
			}),
		}
	}
	return ctx
}

// AttributeValue turns an attribute expression into an inception attribute
// value. Expressions without variable references are evaluated once and
// become literals; expressions referencing `path` are evaluated per file.
func AttributeValue(expr hcl.Expression) (inception.AttributeValue, error) {
	traversals := expr.Variables()
	if len(traversals) == 0 {
		val, diags := expr.Value(evalContext(nil))
		if diags.HasErrors() {
			return nil, diags
		}
		s, err := valueToString(val)
		if err != nil {
			return nil, err
		}
		return inception.Literal(s), nil
	}

	for _, t := range traversals {
		if t.RootName() != PathVariable {
			return nil, fmt.Errorf("%s: unknown variable %q, only %q is available", t.SourceRange(), t.RootName(), PathVariable)
		}
	}

	return inception.Derived(func(p inception.PathInfo) (string, error) {
		val, diags := expr.Value(evalContext(&p))
		if diags.HasErrors() {
			return "", diags
		}
		return valueToString(val)
	}), nil
}

// valueToString converts a primitive cty value to a string. Null becomes
// the empty string.
func valueToString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if !val.IsWhollyKnown() {
		return "", errors.New("value is not known")
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("value must be a string, got %s", val.Type().FriendlyName())
	}
	return converted.AsString(), nil
}

// stringList evaluates expr as a list of strings. A null value yields nil.
func stringList(expr hcl.Expression) ([]string, error) {
	val, diags := expr.Value(evalContext(nil))
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("must be a list of strings, got %s", val.Type().FriendlyName())
	}
	out := make([]string, 0, converted.LengthInt())
	for it := converted.ElementIterator(); it.Next(); {
		_, v := it.Element()
		if v.IsNull() {
			return nil, errors.New("must not contain null elements")
		}
		out = append(out, v.AsString())
	}
	return out, nil
}
