package normalizer

import (
	"strconv"
	"strings"

	"github.com/Protocol-Lattice/gqlnormalize/ast"
	"github.com/Protocol-Lattice/gqlnormalize/lexer"
)

// nestedCollectionKey is shared by every list or object nested in a list,
// so those keep their relative order after sorting.
const nestedCollectionKey = "zzzz"

// booleanKey is shared by true and false.
const booleanKey = "a"

// valueKey is the sort key of a list element. Keys are not unique per value:
// booleans collide with each other, nested lists and objects collide with
// each other, and the stable sort keeps their source order.
func valueKey(v *ast.Value) sortKey {
	return sortKey{name: strings.ToLower(valueKeyString(v))}
}

func valueKeyString(v *ast.Value) string {
	switch v.Kind {
	case ast.VariableValue, ast.EnumValue:
		return v.Literal
	case ast.StringValue:
		if v.Block {
			return lexer.BlockStringValue(v.Literal)
		}
		return v.Literal
	case ast.IntValue:
		i, err := strconv.ParseInt(v.Literal, 10, 64)
		if err != nil {
			return "0"
		}
		return strconv.FormatInt(i, 10)
	case ast.FloatValue:
		f, err := strconv.ParseFloat(v.Literal, 64)
		if err != nil {
			return v.Literal
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case ast.BooleanValue:
		return booleanKey
	case ast.NullValue:
		return ""
	case ast.ListValue, ast.ObjectValue:
		return nestedCollectionKey
	}
	return ""
}
