package hclgraph

import (
	"errors"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// itemRoot is the root name of a reference to another item block.
const itemRoot = "item"

var errNullName = errors.New("value must not be null")

// decodeDependsOn turns a depends_on expression into item names. A missing
// attribute arrives as a static null expression and yields no names.
func decodeDependsOn(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}

	if len(expr.Variables()) == 0 {
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if val.IsNull() {
			return nil, nil
		}
		return stringList(val, expr.Range())
	}

	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, diags
	}
	names := make([]string, 0, len(exprs))
	for _, e := range exprs {
		name, nameDiags := decodeReference(e)
		diags = append(diags, nameDiags...)
		if !nameDiags.HasErrors() {
			names = append(names, name)
		}
	}
	return names, diags
}

// decodeReference reads one depends_on element: either a string or an
// `item.<name>` traversal.
func decodeReference(expr hcl.Expression) (string, hcl.Diagnostics) {
	if len(expr.Variables()) == 0 {
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return "", diags
		}
		return stringValue(val, expr.Range())
	}

	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return "", diags
	}
	rng := expr.Range()
	if len(traversal) != 2 || traversal.RootName() != itemRoot {
		return "", hcl.Diagnostics{invalidReference(&rng)}
	}
	attr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", hcl.Diagnostics{invalidReference(&rng)}
	}
	return attr.Name, nil
}

func stringValue(val cty.Value, rng hcl.Range) (string, hcl.Diagnostics) {
	converted, err := convert.Convert(val, cty.String)
	if err == nil && (converted.IsNull() || !converted.IsKnown()) {
		err = errNullName
	}
	var name string
	if err == nil {
		err = gocty.FromCtyValue(converted, &name)
	}
	if err != nil {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid dependency name",
			Detail:   "A depends_on element must be a string or an item reference: " + err.Error() + ".",
			Subject:  &rng,
		}}
	}
	return name, nil
}

func stringList(val cty.Value, rng hcl.Range) ([]string, hcl.Diagnostics) {
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid depends_on value",
			Detail:   "depends_on must be a list of item names: " + err.Error() + ".",
			Subject:  &rng,
		}}
	}

	var names []string
	var diags hcl.Diagnostics
	for it := converted.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		name, elemDiags := stringValue(elem, rng)
		diags = append(diags, elemDiags...)
		if !elemDiags.HasErrors() {
			names = append(names, name)
		}
	}
	return names, diags
}

func invalidReference(rng *hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid dependency reference",
		Detail:   `A reference in depends_on must have the form item.<name>.`,
		Subject:  rng,
	}
}
