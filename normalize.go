// Package gqlnormalize turns GraphQL executable documents into a canonical
// text, so that documents differing only in the order of unordered
// constructs print byte for byte the same.
// It includes lexing, parsing, normalization and printing.
package gqlnormalize

import (
	"github.com/pkg/errors"

	"github.com/Protocol-Lattice/gqlnormalize/ast"
	"github.com/Protocol-Lattice/gqlnormalize/lexer"
	"github.com/Protocol-Lattice/gqlnormalize/normalizer"
	"github.com/Protocol-Lattice/gqlnormalize/parser"
	"github.com/Protocol-Lattice/gqlnormalize/printer"
	"github.com/Protocol-Lattice/gqlnormalize/token"
)

// ===========================
// Re-exported Types
// ===========================

// Token types
type (
	TokenType = token.TokenType
	Token     = token.Token
)

// AST types
type (
	Node                = ast.Node
	Document            = ast.Document
	Definition          = ast.Definition
	OperationDefinition = ast.OperationDefinition
	FragmentDefinition  = ast.FragmentDefinition
	VariableDefinition  = ast.VariableDefinition
	Type                = ast.Type
	SelectionSet        = ast.SelectionSet
	Selection           = ast.Selection
	Field               = ast.Field
	FragmentSpread      = ast.FragmentSpread
	InlineFragment      = ast.InlineFragment
	Directive           = ast.Directive
	Argument            = ast.Argument
	Value               = ast.Value
	ObjectField         = ast.ObjectField
)

// Normalizer types
type (
	Normalizer = normalizer.Normalizer
	Option     = normalizer.Option
)

// SyntaxError is returned for input that is not a valid executable document.
type SyntaxError = parser.Error

// Lexer type
type Lexer = lexer.Lexer

// Parser type
type Parser = parser.Parser

// WithFieldArgumentValues also canonicalizes the values of field arguments.
var WithFieldArgumentValues = normalizer.WithFieldArgumentValues

// ===========================
// Convenience Functions
// ===========================

// NewLexer creates a new lexer for the given GraphQL source.
func NewLexer(input string) *Lexer {
	return lexer.New(input)
}

// NewParser creates a new parser for the given lexer.
func NewParser(l *Lexer) *Parser {
	return parser.New(l)
}

// Parse parses src into a document.
func Parse(src string) (*Document, error) {
	return parser.ParseDocument(src)
}

// Canonicalize reorders doc in place into its canonical form.
func Canonicalize(doc *Document, opts ...Option) {
	normalizer.New(opts...).NormalizeDocument(doc)
}

// Normalize parses src, canonicalizes it and prints it in the pretty layout.
func Normalize(src string, opts ...Option) (string, error) {
	doc, err := parser.ParseDocument(src)
	if err != nil {
		return "", errors.Wrap(err, "parse query")
	}
	Canonicalize(doc, opts...)
	out, err := printer.PrintString(doc)
	if err != nil {
		return "", errors.Wrap(err, "print query")
	}
	return out, nil
}

// NormalizeMinified is Normalize followed by Minify.
func NormalizeMinified(src string, opts ...Option) (string, error) {
	out, err := Normalize(src, opts...)
	if err != nil {
		return "", err
	}
	minified, err := printer.Minify(out)
	if err != nil {
		return "", errors.Wrap(err, "minify query")
	}
	return minified, nil
}

// Minify strips insignificant whitespace, commas and comments from src.
func Minify(src string) (string, error) {
	return printer.Minify(src)
}
