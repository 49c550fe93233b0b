package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_String(t *testing.T) {
	named := &Type{Name: "ID"}
	assert.Equal(t, "ID", named.String())
	assert.Equal(t, "ID!", (&Type{Name: "ID", NonNull: true}).String())
	assert.Equal(t, "[ID]", (&Type{IsList: true, Elem: named}).String())
	assert.Equal(t, "[[ID!]]!", (&Type{
		IsList:  true,
		NonNull: true,
		Elem:    &Type{IsList: true, Elem: &Type{Name: "ID", NonNull: true}},
	}).String())
	assert.Equal(t, "", (*Type)(nil).String())
}

func TestValueKind_String(t *testing.T) {
	assert.Equal(t, "Variable", VariableValue.String())
	assert.Equal(t, "Object", ObjectValue.String())
	assert.Equal(t, "Unknown", ValueKind(42).String())
}

func TestOperationType_String(t *testing.T) {
	assert.Equal(t, "query", Query.String())
	assert.Equal(t, "mutation", Mutation.String())
	assert.Equal(t, "subscription", Subscription.String())
}

func TestTokenLiteral(t *testing.T) {
	doc := &Document{}
	assert.Equal(t, "", doc.TokenLiteral())

	doc.Definitions = []Definition{&OperationDefinition{Operation: Mutation}}
	assert.Equal(t, "mutation", doc.TokenLiteral())

	nodes := []struct {
		node     Node
		expected string
	}{
		{&OperationDefinition{Operation: Query, Name: "Q"}, "Q"},
		{&FragmentDefinition{Name: "F", TypeCondition: "T"}, "F"},
		{&Field{Alias: "a", Name: "f"}, "f"},
		{&FragmentSpread{Name: "S"}, "S"},
		{&InlineFragment{TypeCondition: "T"}, "T"},
		{&Directive{Name: "skip"}, "skip"},
		{&Argument{Name: "if"}, "if"},
		{&Value{Kind: EnumValue, Literal: "RED"}, "RED"},
		{&ObjectField{Name: "k"}, "k"},
		{&VariableDefinition{Variable: "v"}, "v"},
	}
	for _, tt := range nodes {
		assert.Equal(t, tt.expected, tt.node.TokenLiteral())
	}
}
