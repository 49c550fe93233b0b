package ast

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Document represents a complete GraphQL executable document.
// It contains a list of definitions (operations and fragments).
type Document struct {
	Definitions []Definition
}

// TokenLiteral returns a string representation of the document.
func (d *Document) TokenLiteral() string {
	if len(d.Definitions) > 0 {
		return d.Definitions[0].TokenLiteral()
	}
	return ""
}

// Definition is implemented by *OperationDefinition and *FragmentDefinition.
type Definition interface {
	Node
	definitionNode()
}

// OperationType is the kind of an operation.
type OperationType int

const (
	Query OperationType = iota
	Mutation
	Subscription
)

// String returns the keyword that introduces the operation.
func (t OperationType) String() string {
	switch t {
	case Mutation:
		return "mutation"
	case Subscription:
		return "subscription"
	default:
		return "query"
	}
}

// OperationDefinition represents a GraphQL operation (query, mutation, or subscription).
type OperationDefinition struct {
	Operation           OperationType         // Query, Mutation or Subscription
	Shorthand           bool                  // Written as a bare selection set: { ... }
	Name                string                // Optional operation name
	VariableDefinitions []*VariableDefinition // Variable definitions for this operation
	Directives          []*Directive          // Directives applied to the operation
	SelectionSet        *SelectionSet         // The fields to select
}

// TokenLiteral returns the operation name or type.
func (op *OperationDefinition) TokenLiteral() string {
	if op.Name != "" {
		return op.Name
	}
	return op.Operation.String()
}

func (*OperationDefinition) definitionNode() {}

// FragmentDefinition represents a named fragment: fragment Name on Type { ... }.
type FragmentDefinition struct {
	Name          string
	TypeCondition string
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// TokenLiteral returns the fragment name.
func (f *FragmentDefinition) TokenLiteral() string {
	return f.Name
}

func (*FragmentDefinition) definitionNode() {}

// VariableDefinition represents a variable definition in an operation.
type VariableDefinition struct {
	Variable     string       // Variable name (without $)
	Type         *Type        // The type of the variable
	DefaultValue *Value       // Optional default value
	Directives   []*Directive // Directives applied to the variable
}

// TokenLiteral returns the variable name.
func (v *VariableDefinition) TokenLiteral() string {
	return v.Variable
}

// Type represents a GraphQL type reference (e.g., String, [Int!], User!).
type Type struct {
	Name    string // Base type name, empty for list types
	NonNull bool   // Whether the type is non-nullable (!)
	IsList  bool   // Whether the type is a list ([])
	Elem    *Type  // Element type if this is a list
}

// String renders the type reference as written in GraphQL.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	s := t.Name
	if t.IsList {
		s = "[" + t.Elem.String() + "]"
	}
	if t.NonNull {
		s += "!"
	}
	return s
}

// SelectionSet represents a set of selections within braces.
type SelectionSet struct {
	Selections []Selection
}

// Selection is implemented by *Field, *FragmentSpread and *InlineFragment.
type Selection interface {
	Node
	selectionNode()
}

// Field represents a single field selection in a GraphQL query.
type Field struct {
	Alias        string        // Optional alias
	Name         string        // Field name
	Arguments    []*Argument   // Field arguments
	Directives   []*Directive  // Field directives
	SelectionSet *SelectionSet // Nested selections (if any)
}

// TokenLiteral returns the field name.
func (f *Field) TokenLiteral() string {
	return f.Name
}

func (*Field) selectionNode() {}

// FragmentSpread represents ...Name.
type FragmentSpread struct {
	Name       string
	Directives []*Directive
}

// TokenLiteral returns the spread fragment name.
func (fs *FragmentSpread) TokenLiteral() string {
	return fs.Name
}

func (*FragmentSpread) selectionNode() {}

// InlineFragment represents ... on Type { ... }. TypeCondition is empty when omitted.
type InlineFragment struct {
	TypeCondition string
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// TokenLiteral returns the type condition.
func (f *InlineFragment) TokenLiteral() string {
	return f.TypeCondition
}

func (*InlineFragment) selectionNode() {}

// Directive represents @name(arguments).
type Directive struct {
	Name      string
	Arguments []*Argument
}

// TokenLiteral returns the directive name.
func (d *Directive) TokenLiteral() string {
	return d.Name
}

// Argument represents an argument passed to a field or directive.
type Argument struct {
	Name  string // Argument name
	Value *Value // Argument value
}

// TokenLiteral returns the argument name.
func (a *Argument) TokenLiteral() string {
	return a.Name
}

// ValueKind tells which variant of Value is populated.
type ValueKind int

const (
	VariableValue ValueKind = iota
	IntValue
	FloatValue
	StringValue
	BooleanValue
	NullValue
	EnumValue
	ListValue
	ObjectValue
)

var valueKindNames = [...]string{
	VariableValue: "Variable",
	IntValue:      "Int",
	FloatValue:    "Float",
	StringValue:   "String",
	BooleanValue:  "Boolean",
	NullValue:     "Null",
	EnumValue:     "Enum",
	ListValue:     "List",
	ObjectValue:   "Object",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindNames) {
		return "Unknown"
	}
	return valueKindNames[k]
}

// Value represents a value in GraphQL (string, int, variable, object, list, etc.).
type Value struct {
	Kind         ValueKind      // Which variant this value is
	Literal      string         // Scalar content: variable or enum name, number text, decoded string
	Block        bool           // String written as a """block string"""; Literal is the raw content
	List         []*Value       // For list values
	ObjectFields []*ObjectField // For object values, in source order
}

// TokenLiteral returns the literal value.
func (v *Value) TokenLiteral() string {
	return v.Literal
}

// ObjectField is one name: value entry of an object value.
type ObjectField struct {
	Name  string
	Value *Value
}

// TokenLiteral returns the field name.
func (f *ObjectField) TokenLiteral() string {
	return f.Name
}
