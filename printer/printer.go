// Package printer renders documents back to GraphQL text.
package printer

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/Protocol-Lattice/gqlnormalize/ast"
)

const indentUnit = "  "

// Print writes doc in the pretty layout: two-space indentation, one
// selection per line, definitions separated by a blank line.
func Print(w io.Writer, doc *ast.Document) error {
	return print(w, doc, false)
}

// PrintCompact writes doc on a single line. Commas and whitespace are left
// out except where two tokens would otherwise run together, so the result
// equals Minify applied to the pretty layout.
func PrintCompact(w io.Writer, doc *ast.Document) error {
	return print(w, doc, true)
}

// PrintString returns the pretty layout of doc.
func PrintString(doc *ast.Document) (string, error) {
	var sb strings.Builder
	if err := Print(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// PrintCompactString returns the compact layout of doc.
func PrintCompactString(doc *ast.Document) (string, error) {
	var sb strings.Builder
	if err := PrintCompact(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func print(w io.Writer, doc *ast.Document, compact bool) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw, compact: compact}
	p.document(doc)
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "printer: write document")
	}
	return nil
}

// printer writes into a bufio.Writer, which keeps the first write error
// and reports it on Flush.
type printer struct {
	w       *bufio.Writer
	compact bool
	depth   int
	last    byte
}

// write emits one token. In the compact layout a single space is inserted
// when the previous token would otherwise merge with this one.
func (p *printer) write(s string) {
	if s == "" {
		return
	}
	if p.compact && needsSeparator(p.last, s[0]) {
		_ = p.w.WriteByte(' ')
	}
	_, _ = p.w.WriteString(s)
	p.last = s[len(s)-1]
}

// space writes layout whitespace, pretty layout only.
func (p *printer) space(s string) {
	if p.compact {
		return
	}
	_, _ = p.w.WriteString(s)
	p.last = ' '
}

func (p *printer) newline() {
	p.space("\n" + strings.Repeat(indentUnit, p.depth))
}

// comma separates list items in the pretty layout.
func (p *printer) comma() {
	if p.compact {
		return
	}
	p.write(",")
	p.space(" ")
}

func (p *printer) document(doc *ast.Document) {
	if doc == nil {
		return
	}
	for i, def := range doc.Definitions {
		if i > 0 {
			p.space("\n")
		}
		switch def := def.(type) {
		case *ast.OperationDefinition:
			p.operation(def)
		case *ast.FragmentDefinition:
			p.fragment(def)
		}
		p.space("\n")
	}
}

func (p *printer) operation(op *ast.OperationDefinition) {
	if op.Shorthand {
		p.selectionSet(op.SelectionSet)
		return
	}
	p.write(op.Operation.String())
	if op.Name != "" {
		p.space(" ")
		p.write(op.Name)
	}
	if len(op.VariableDefinitions) > 0 {
		p.write("(")
		for i, v := range op.VariableDefinitions {
			if i > 0 {
				p.comma()
			}
			p.variableDefinition(v)
		}
		p.write(")")
	}
	p.directives(op.Directives)
	p.space(" ")
	p.selectionSet(op.SelectionSet)
}

func (p *printer) fragment(f *ast.FragmentDefinition) {
	p.write("fragment")
	p.space(" ")
	p.write(f.Name)
	p.space(" ")
	p.write("on")
	p.space(" ")
	p.write(f.TypeCondition)
	p.directives(f.Directives)
	p.space(" ")
	p.selectionSet(f.SelectionSet)
}

func (p *printer) variableDefinition(v *ast.VariableDefinition) {
	p.write("$")
	p.write(v.Variable)
	p.write(":")
	p.space(" ")
	p.typeRef(v.Type)
	if v.DefaultValue != nil {
		p.space(" ")
		p.write("=")
		p.space(" ")
		p.value(v.DefaultValue)
	}
	p.directives(v.Directives)
}

func (p *printer) typeRef(t *ast.Type) {
	if t == nil {
		return
	}
	if t.IsList {
		p.write("[")
		p.typeRef(t.Elem)
		p.write("]")
	} else {
		p.write(t.Name)
	}
	if t.NonNull {
		p.write("!")
	}
}

func (p *printer) selectionSet(ss *ast.SelectionSet) {
	p.write("{")
	p.depth++
	if ss != nil {
		for _, sel := range ss.Selections {
			p.newline()
			switch sel := sel.(type) {
			case *ast.Field:
				p.field(sel)
			case *ast.FragmentSpread:
				p.write("...")
				p.write(sel.Name)
				p.directives(sel.Directives)
			case *ast.InlineFragment:
				p.write("...")
				if sel.TypeCondition != "" {
					p.space(" ")
					p.write("on")
					p.space(" ")
					p.write(sel.TypeCondition)
				}
				p.directives(sel.Directives)
				p.space(" ")
				p.selectionSet(sel.SelectionSet)
			}
		}
	}
	p.depth--
	p.newline()
	p.write("}")
}

func (p *printer) field(f *ast.Field) {
	if f.Alias != "" {
		p.write(f.Alias)
		p.write(":")
		p.space(" ")
	}
	p.write(f.Name)
	p.arguments(f.Arguments)
	p.directives(f.Directives)
	if f.SelectionSet != nil {
		p.space(" ")
		p.selectionSet(f.SelectionSet)
	}
}

func (p *printer) arguments(args []*ast.Argument) {
	if len(args) == 0 {
		return
	}
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.comma()
		}
		p.write(arg.Name)
		p.write(":")
		p.space(" ")
		p.value(arg.Value)
	}
	p.write(")")
}

func (p *printer) directives(directives []*ast.Directive) {
	for _, d := range directives {
		p.space(" ")
		p.write("@")
		p.write(d.Name)
		p.arguments(d.Arguments)
	}
}

func (p *printer) value(v *ast.Value) {
	if v == nil {
		p.write("null")
		return
	}
	switch v.Kind {
	case ast.VariableValue:
		p.write("$")
		p.write(v.Literal)
	case ast.StringValue:
		if v.Block {
			p.write(`"""` + v.Literal + `"""`)
			return
		}
		p.write(Quote(v.Literal))
	case ast.NullValue:
		p.write("null")
	case ast.ListValue:
		p.write("[")
		for i, elem := range v.List {
			if i > 0 {
				p.comma()
			}
			p.value(elem)
		}
		p.write("]")
	case ast.ObjectValue:
		p.write("{")
		for i, f := range v.ObjectFields {
			if i > 0 {
				p.comma()
			}
			p.write(f.Name)
			p.write(":")
			p.space(" ")
			p.value(f.Value)
		}
		p.write("}")
	default:
		p.write(v.Literal)
	}
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// needsSeparator reports whether a token starting with next, written right
// after a token ending with last, would be read back as a different token.
func needsSeparator(last, next byte) bool {
	switch {
	case last == 0:
		return false
	case isWordByte(last):
		return isWordByte(next) || next == '-' || next == '.'
	case last == '"':
		return next == '"'
	case last == '.':
		return next == '.'
	}
	return false
}
