package lexer

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/Protocol-Lattice/gqlnormalize/token"
)

// Lexer tokenizes GraphQL source code.
type Lexer struct {
	input        string // The input string
	position     int    // Current position in input (points to current char)
	readPosition int    // Next reading position (after current char)
	ch           byte   // Current char under examination
	line         int    // Line of the current char
	lineStart    int    // Offset of the first char of the current line
}

// New creates a new Lexer for the given input string.
func New(input string) *Lexer {
	input = strings.TrimPrefix(input, "\uFEFF")
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar advances the lexer to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPosition
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII 0 signifies end-of-input
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar(offset int) byte {
	i := l.position + offset
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.position - l.lineStart + 1}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	l.skipIgnored()

	tok := token.Token{Pos: l.pos()}
	if l.atEOF() {
		tok.Type = token.EOF
		return tok
	}

	switch l.ch {
	case '=':
		tok.Type = token.ASSIGN
	case ':':
		tok.Type = token.COLON
	case ',':
		tok.Type = token.COMMA
	case '(':
		tok.Type = token.LPAREN
	case ')':
		tok.Type = token.RPAREN
	case '{':
		tok.Type = token.LBRACE
	case '}':
		tok.Type = token.RBRACE
	case '[':
		tok.Type = token.LBRACKET
	case ']':
		tok.Type = token.RBRACKET
	case '$':
		tok.Type = token.DOLLAR
	case '!':
		tok.Type = token.BANG
	case '@':
		tok.Type = token.AT
	case '|':
		tok.Type = token.PIPE
	case '&':
		tok.Type = token.AMP
	case '.':
		if l.peekChar(1) == '.' && l.peekChar(2) == '.' {
			l.readChar()
			l.readChar()
			l.readChar()
			tok.Type = token.SPREAD
			tok.Literal = "..."
			return tok
		}
		tok.Type = token.ILLEGAL
	case '"':
		if l.peekChar(1) == '"' && l.peekChar(2) == '"' {
			return l.readBlockString(tok)
		}
		return l.readString(tok)
	default:
		if isNameStart(l.ch) {
			tok.Type = token.IDENT
			tok.Literal = l.readName()
			return tok
		}
		if isDigit(l.ch) || l.ch == '-' {
			return l.readNumber(tok)
		}
		tok.Type = token.ILLEGAL
	}
	tok.Literal = string(l.ch)
	l.readChar()
	return tok
}

// skipIgnored advances the lexer past whitespace and comments.
func (l *Lexer) skipIgnored() {
	for !l.atEOF() {
		switch l.ch {
		case ' ', '\t', '\n', '\r':
			l.readChar()
		case '#':
			for !l.atEOF() && l.ch != '\n' && l.ch != '\r' {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readName reads a name from the input.
func (l *Lexer) readName() string {
	start := l.position
	for isNameStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an int or float literal from the input.
func (l *Lexer) readNumber(tok token.Token) token.Token {
	start := l.position
	tok.Type = token.INT
	if l.ch == '-' {
		l.readChar()
	}
	if !isDigit(l.ch) {
		tok.Type = token.ILLEGAL
		tok.Literal = l.input[start:l.position]
		return tok
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar(1)) {
		tok.Type = token.FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekChar(2))) {
			tok.Type = token.FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	tok.Literal = l.input[start:l.position]
	if isNameStart(l.ch) || l.ch == '.' {
		// 123abc and 1.2.3 are not numbers
		for isNameStart(l.ch) || isDigit(l.ch) || l.ch == '.' {
			l.readChar()
		}
		tok.Type = token.ILLEGAL
		tok.Literal = l.input[start:l.position]
	}
	return tok
}

// readString reads a quoted string, decoding escape sequences.
func (l *Lexer) readString(tok token.Token) token.Token {
	// skip opening quote
	l.readChar()
	var sb strings.Builder
	for {
		switch {
		case l.atEOF() || l.ch == '\n' || l.ch == '\r':
			tok.Type = token.ILLEGAL
			tok.Literal = "unterminated string"
			return tok
		case l.ch == '"':
			// skip closing quote
			l.readChar()
			tok.Type = token.STRING
			tok.Literal = sb.String()
			return tok
		case l.ch == '\\':
			l.readChar()
			r, ok := l.readEscape()
			if !ok {
				tok.Type = token.ILLEGAL
				tok.Literal = "invalid escape sequence"
				return tok
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readEscape decodes the escape sequence following a backslash.
func (l *Lexer) readEscape() (rune, bool) {
	var r rune
	switch l.ch {
	case '"', '\\', '/':
		r = rune(l.ch)
	case 'b':
		r = '\b'
	case 'f':
		r = '\f'
	case 'n':
		r = '\n'
	case 'r':
		r = '\r'
	case 't':
		r = '\t'
	case 'u':
		hi, ok := l.readHex4()
		if !ok {
			return 0, false
		}
		// a high surrogate only pairs with a directly following low surrogate escape
		if isHighSurrogate(hi) && l.peekChar(1) == '\\' && l.peekChar(2) == 'u' {
			if lo, ok := l.hex4At(l.position + 3); ok && isLowSurrogate(lo) {
				l.readChar()
				l.readChar()
				l.readHex4()
				hi = utf16.DecodeRune(hi, lo)
			}
		}
		if !utf8.ValidRune(hi) {
			hi = utf8.RuneError
		}
		l.readChar()
		return hi, true
	default:
		return 0, false
	}
	l.readChar()
	return r, true
}

// readHex4 reads the four hex digits after \u, leaving the lexer on the last one.
func (l *Lexer) readHex4() (rune, bool) {
	v, ok := l.hex4At(l.position + 1)
	if !ok {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		l.readChar()
	}
	return v, true
}

// hex4At decodes the four hex digits starting at offset i without moving.
func (l *Lexer) hex4At(i int) (rune, bool) {
	if i+4 > len(l.input) {
		return 0, false
	}
	v, err := strconv.ParseUint(l.input[i:i+4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func isHighSurrogate(r rune) bool {
	return 0xD800 <= r && r < 0xDC00
}

func isLowSurrogate(r rune) bool {
	return 0xDC00 <= r && r < 0xE000
}

// readBlockString reads a """block string""" keeping its raw content.
func (l *Lexer) readBlockString(tok token.Token) token.Token {
	l.readChar()
	l.readChar()
	l.readChar()
	start := l.position
	for !l.atEOF() {
		if l.ch == '\\' && strings.HasPrefix(l.input[l.position:], `\"""`) {
			for i := 0; i < 4; i++ {
				l.readChar()
			}
			continue
		}
		if strings.HasPrefix(l.input[l.position:], `"""`) {
			tok.Type = token.BLOCK_STRING
			tok.Literal = l.input[start:l.position]
			l.readChar()
			l.readChar()
			l.readChar()
			return tok
		}
		l.readChar()
	}
	tok.Type = token.ILLEGAL
	tok.Literal = "unterminated block string"
	return tok
}

func isNameStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// isDigit checks if a byte is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
