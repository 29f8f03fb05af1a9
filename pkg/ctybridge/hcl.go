package ctybridge

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"able/valuecore/pkg/runtime"
)

// DecodeAttributes parses an HCL body made only of attributes and evaluates
// each one, returning an owned GenericDict in source order. vars are
// borrowed and exposed to the expressions as variables.
func DecodeAttributes(src []byte, filename string, vars map[string]runtime.Value) (runtime.Value, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return runtime.Value{}, fmt.Errorf("ctybridge: parse %s: %w", filename, diags)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return runtime.Value{}, fmt.Errorf("ctybridge: %s: %w", filename, diags)
	}
	evalCtx, err := evalContext(vars)
	if err != nil {
		return runtime.Value{}, err
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	slices.SortFunc(ordered, func(a, b *hcl.Attribute) int {
		return a.Range.Start.Byte - b.Range.Start.Byte
	})

	dict := runtime.NewDict()
	for _, attr := range ordered {
		cv, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			dict.Release()
			return runtime.Value{}, fmt.Errorf("ctybridge: attribute %q: %w", attr.Name, diags)
		}
		v, err := FromCty(cv)
		if err != nil {
			dict.Release()
			return runtime.Value{}, fmt.Errorf("ctybridge: attribute %q: %w", attr.Name, err)
		}
		dict.InsertOrAssign(runtime.Str(attr.Name), v)
	}
	return runtime.FromDict(dict), nil
}

// EvalExpression evaluates a single HCL expression against vars.
func EvalExpression(expr string, vars map[string]runtime.Value) (runtime.Value, error) {
	parsed, diags := hclsyntax.ParseExpression([]byte(expr), "expression", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return runtime.Value{}, fmt.Errorf("ctybridge: parse expression: %w", diags)
	}
	evalCtx, err := evalContext(vars)
	if err != nil {
		return runtime.Value{}, err
	}
	cv, diags := parsed.Value(evalCtx)
	if diags.HasErrors() {
		return runtime.Value{}, fmt.Errorf("ctybridge: evaluate expression: %w", diags)
	}
	return FromCty(cv)
}

func evalContext(vars map[string]runtime.Value) (*hcl.EvalContext, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	variables := make(map[string]cty.Value, len(vars))
	for name, v := range vars {
		cv, err := ToCty(v)
		if err != nil {
			return nil, fmt.Errorf("ctybridge: variable %q: %w", name, err)
		}
		variables[name] = cv
	}
	return &hcl.EvalContext{Variables: variables}, nil
}
