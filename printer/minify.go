package printer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Protocol-Lattice/gqlnormalize/lexer"
	"github.com/Protocol-Lattice/gqlnormalize/token"
)

// Minify strips whitespace, commas and comments from GraphQL text, type
// system documents included. Tokens are kept as they are; a single space is
// kept only where two tokens would otherwise merge.
func Minify(src string) (string, error) {
	l := lexer.New(src)
	var sb strings.Builder
	sb.Grow(len(src))
	var last byte
	for {
		tok := l.NextToken()
		var text string
		switch tok.Type {
		case token.EOF:
			return sb.String(), nil
		case token.ILLEGAL:
			return "", errors.Errorf("minify: %s at %s", tok.Literal, tok.Pos)
		case token.COMMA:
			continue
		case token.IDENT, token.INT, token.FLOAT:
			text = tok.Literal
		case token.STRING:
			text = Quote(tok.Literal)
		case token.BLOCK_STRING:
			text = `"""` + tok.Literal + `"""`
		default:
			if !tok.Type.IsPunctuator() {
				return "", errors.Errorf("minify: unexpected token %s at %s", tok.Type, tok.Pos)
			}
			text = string(tok.Type)
		}
		if needsSeparator(last, text[0]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
		last = text[len(text)-1]
	}
}

// Quote renders s as a GraphQL string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
