package parser

import (
	"fmt"
	"strconv"

	"github.com/Protocol-Lattice/gqlnormalize/ast"
	"github.com/Protocol-Lattice/gqlnormalize/lexer"
	"github.com/Protocol-Lattice/gqlnormalize/token"
)

// Error is a syntax error with the position of the offending token.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser parses GraphQL source code into an AST.
type Parser struct {
	l         *lexer.Lexer // The lexer to read tokens from
	curToken  token.Token  // Current token
	peekToken token.Token  // Next token
}

// New creates a new Parser for the given lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Initialize two tokens
	p.nextToken()
	p.nextToken()
	return p
}

// ParseDocument parses src into a document.
func ParseDocument(src string) (*ast.Document, error) {
	return New(lexer.New(src)).ParseDocument()
}

// nextToken advances the parser to the next token. Commas are insignificant and never surface.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	for p.peekToken.Type == token.COMMA {
		p.peekToken = p.l.NextToken()
	}
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Pos.Line,
		Column:  tok.Pos.Column,
	}
}

func (p *Parser) unexpected() error {
	tok := p.curToken
	switch tok.Type {
	case token.EOF:
		return p.errorf(tok, "unexpected end of input")
	case token.ILLEGAL:
		return p.errorf(tok, "unexpected %q", tok.Literal)
	case token.STRING, token.BLOCK_STRING:
		return p.errorf(tok, "unexpected string")
	case token.IDENT, token.INT, token.FLOAT:
		return p.errorf(tok, "unexpected %s %q", tok.Type, tok.Literal)
	default:
		return p.errorf(tok, "unexpected %q", string(tok.Type))
	}
}

// expect consumes the current token if it has type t.
func (p *Parser) expect(t token.TokenType) error {
	if p.curToken.Type != t {
		if p.curToken.Type == token.EOF || p.curToken.Type == token.ILLEGAL {
			return p.unexpected()
		}
		return p.errorf(p.curToken, "expected %q, got %s", string(t), describe(p.curToken))
	}
	p.nextToken()
	return nil
}

// expectName consumes the current token if it is a name and returns it.
func (p *Parser) expectName() (string, error) {
	if p.curToken.Type != token.IDENT {
		if p.curToken.Type == token.EOF || p.curToken.Type == token.ILLEGAL {
			return "", p.unexpected()
		}
		return "", p.errorf(p.curToken, "expected name, got %s", describe(p.curToken))
	}
	name := p.curToken.Literal
	p.nextToken()
	return name, nil
}

func (p *Parser) curIsKeyword(keyword string) bool {
	return p.curToken.Type == token.IDENT && p.curToken.Literal == keyword
}

// ParseDocument parses a GraphQL executable document.
func (p *Parser) ParseDocument() (*ast.Document, error) {
	doc := &ast.Document{}
	for p.curToken.Type != token.EOF {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	if len(doc.Definitions) == 0 {
		return nil, p.errorf(p.curToken, "document must contain at least one definition")
	}
	return doc, nil
}

// parseDefinition parses a single definition (operation or fragment).
func (p *Parser) parseDefinition() (ast.Definition, error) {
	// Handle shorthand queries (starting with '{')
	if p.curToken.Type == token.LBRACE {
		ss, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		return &ast.OperationDefinition{
			Operation:    ast.Query,
			Shorthand:    true,
			SelectionSet: ss,
		}, nil
	}
	if p.curToken.Type == token.IDENT {
		switch p.curToken.Literal {
		case "query", "mutation", "subscription":
			return p.parseOperationDefinition()
		case "fragment":
			return p.parseFragmentDefinition()
		case "schema", "scalar", "type", "interface", "union", "enum", "input", "directive", "extend":
			return nil, p.errorf(p.curToken, "type system definition %q is not allowed in an executable document", p.curToken.Literal)
		}
	}
	return nil, p.unexpected()
}

// parseOperationDefinition parses a query, mutation, or subscription operation.
func (p *Parser) parseOperationDefinition() (*ast.OperationDefinition, error) {
	op := &ast.OperationDefinition{}
	switch p.curToken.Literal {
	case "mutation":
		op.Operation = ast.Mutation
	case "subscription":
		op.Operation = ast.Subscription
	default:
		op.Operation = ast.Query
	}
	p.nextToken()
	if p.curToken.Type == token.IDENT {
		op.Name = p.curToken.Literal
		p.nextToken()
	}
	var err error
	if p.curToken.Type == token.LPAREN {
		if op.VariableDefinitions, err = p.parseVariableDefinitions(); err != nil {
			return nil, err
		}
	}
	if op.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	if op.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}
	return op, nil
}

// parseFragmentDefinition parses fragment Name on Type @directives { ... }.
func (p *Parser) parseFragmentDefinition() (*ast.FragmentDefinition, error) {
	p.nextToken() // Skip "fragment"
	if p.curIsKeyword("on") {
		return nil, p.errorf(p.curToken, "fragment cannot be named \"on\"")
	}
	frag := &ast.FragmentDefinition{}
	var err error
	if frag.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if !p.curIsKeyword("on") {
		return nil, p.errorf(p.curToken, "expected \"on\", got %s", describe(p.curToken))
	}
	p.nextToken()
	if frag.TypeCondition, err = p.expectName(); err != nil {
		return nil, err
	}
	if frag.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	if frag.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}
	return frag, nil
}

// parseVariableDefinitions parses variable definitions for an operation.
func (p *Parser) parseVariableDefinitions() ([]*ast.VariableDefinition, error) {
	var vars []*ast.VariableDefinition
	p.nextToken() // Skip '('
	for p.curToken.Type != token.RPAREN {
		if err := p.expect(token.DOLLAR); err != nil {
			return nil, err
		}
		varDef := &ast.VariableDefinition{}
		var err error
		if varDef.Variable, err = p.expectName(); err != nil {
			return nil, err
		}
		if err = p.expect(token.COLON); err != nil {
			return nil, err
		}
		if varDef.Type, err = p.parseType(); err != nil {
			return nil, err
		}
		if p.curToken.Type == token.ASSIGN {
			p.nextToken()
			if varDef.DefaultValue, err = p.parseValue(true); err != nil {
				return nil, err
			}
		}
		if varDef.Directives, err = p.parseDirectives(true); err != nil {
			return nil, err
		}
		vars = append(vars, varDef)
	}
	if len(vars) == 0 {
		return nil, p.errorf(p.curToken, "expected at least one variable definition")
	}
	p.nextToken() // Skip ')'
	return vars, nil
}

// parseSelectionSet parses a selection set (selections within braces).
func (p *Parser) parseSelectionSet() (*ast.SelectionSet, error) {
	if err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	ss := &ast.SelectionSet{}
	for p.curToken.Type != token.RBRACE {
		sel, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		ss.Selections = append(ss.Selections, sel)
	}
	if len(ss.Selections) == 0 {
		return nil, p.errorf(p.curToken, "expected at least one selection")
	}
	p.nextToken() // skip '}'
	return ss, nil
}

// parseSelection parses a field, fragment spread or inline fragment.
func (p *Parser) parseSelection() (ast.Selection, error) {
	if p.curToken.Type != token.SPREAD {
		return p.parseField()
	}
	p.nextToken() // skip '...'
	if p.curToken.Type == token.IDENT && p.curToken.Literal != "on" {
		spread := &ast.FragmentSpread{Name: p.curToken.Literal}
		p.nextToken()
		var err error
		if spread.Directives, err = p.parseDirectives(false); err != nil {
			return nil, err
		}
		return spread, nil
	}
	inline := &ast.InlineFragment{}
	var err error
	if p.curIsKeyword("on") {
		p.nextToken()
		if inline.TypeCondition, err = p.expectName(); err != nil {
			return nil, err
		}
	}
	if inline.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	if inline.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}
	return inline, nil
}

// parseField parses a field selection.
func (p *Parser) parseField() (*ast.Field, error) {
	field := &ast.Field{}
	var err error
	if field.Name, err = p.expectName(); err != nil {
		return nil, err
	}
	if p.curToken.Type == token.COLON {
		p.nextToken()
		field.Alias = field.Name
		if field.Name, err = p.expectName(); err != nil {
			return nil, err
		}
	}
	if p.curToken.Type == token.LPAREN {
		if field.Arguments, err = p.parseArguments(false); err != nil {
			return nil, err
		}
	}
	if field.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	if p.curToken.Type == token.LBRACE {
		if field.SelectionSet, err = p.parseSelectionSet(); err != nil {
			return nil, err
		}
	}
	return field, nil
}

// parseDirectives parses zero or more @name(args) directives.
func (p *Parser) parseDirectives(isConst bool) ([]*ast.Directive, error) {
	var directives []*ast.Directive
	for p.curToken.Type == token.AT {
		p.nextToken() // skip '@'
		d := &ast.Directive{}
		var err error
		if d.Name, err = p.expectName(); err != nil {
			return nil, err
		}
		if p.curToken.Type == token.LPAREN {
			if d.Arguments, err = p.parseArguments(isConst); err != nil {
				return nil, err
			}
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// parseArguments parses field or directive arguments.
func (p *Parser) parseArguments(isConst bool) ([]*ast.Argument, error) {
	var args []*ast.Argument
	p.nextToken() // skip '('
	for p.curToken.Type != token.RPAREN {
		arg := &ast.Argument{}
		var err error
		if arg.Name, err = p.expectName(); err != nil {
			return nil, err
		}
		if err = p.expect(token.COLON); err != nil {
			return nil, err
		}
		if arg.Value, err = p.parseValue(isConst); err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return nil, p.errorf(p.curToken, "expected at least one argument")
	}
	p.nextToken() // skip ')'
	return args, nil
}

// parseValue parses a value (variable, number, string, boolean, null, enum, list, object).
// Variables are rejected when isConst is set, as in default values.
func (p *Parser) parseValue(isConst bool) (*ast.Value, error) {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseObject(isConst)
	case token.LBRACKET:
		return p.parseList(isConst)
	}

	val := &ast.Value{Literal: p.curToken.Literal}
	switch p.curToken.Type {
	case token.INT:
		val.Kind = ast.IntValue
	case token.FLOAT:
		val.Kind = ast.FloatValue
	case token.STRING:
		val.Kind = ast.StringValue
	case token.BLOCK_STRING:
		val.Kind = ast.StringValue
		val.Block = true
	case token.IDENT:
		switch p.curToken.Literal {
		case "true", "false":
			val.Kind = ast.BooleanValue
		case "null":
			val.Kind = ast.NullValue
		default:
			val.Kind = ast.EnumValue
		}
	case token.DOLLAR:
		if isConst {
			return nil, p.errorf(p.curToken, "unexpected variable in constant value")
		}
		p.nextToken() // skip '$'
		if p.curToken.Type != token.IDENT {
			return nil, p.errorf(p.curToken, "expected variable name, got %s", describe(p.curToken))
		}
		val.Kind = ast.VariableValue
		val.Literal = p.curToken.Literal
	default:
		return nil, p.unexpected()
	}
	p.nextToken()
	return val, nil
}

// parseObject parses a GraphQL object literal, keeping field order.
func (p *Parser) parseObject(isConst bool) (*ast.Value, error) {
	obj := &ast.Value{Kind: ast.ObjectValue}
	p.nextToken() // Skip '{'
	for p.curToken.Type != token.RBRACE {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if err = p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseValue(isConst)
		if err != nil {
			return nil, err
		}
		obj.ObjectFields = append(obj.ObjectFields, &ast.ObjectField{Name: name, Value: value})
	}
	p.nextToken() // Skip '}'
	return obj, nil
}

// parseList parses a list of values.
func (p *Parser) parseList(isConst bool) (*ast.Value, error) {
	list := &ast.Value{Kind: ast.ListValue}
	p.nextToken() // skip '['
	for p.curToken.Type != token.RBRACKET {
		val, err := p.parseValue(isConst)
		if err != nil {
			return nil, err
		}
		list.List = append(list.List, val)
	}
	p.nextToken() // skip ']'
	return list, nil
}

// parseType parses a GraphQL type (e.g., String, [Int!], User!).
func (p *Parser) parseType() (*ast.Type, error) {
	var t *ast.Type
	if p.curToken.Type == token.LBRACKET {
		p.nextToken() // Skip '['
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err = p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		t = &ast.Type{IsList: true, Elem: elem}
	} else {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		t = &ast.Type{Name: name}
	}
	if p.curToken.Type == token.BANG {
		t.NonNull = true
		p.nextToken()
	}
	return t, nil
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.STRING, token.BLOCK_STRING:
		return "string " + strconv.Quote(tok.Literal)
	case token.IDENT, token.INT, token.FLOAT:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return strconv.Quote(string(tok.Type))
	}
}
