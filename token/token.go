package token

import "fmt"

// TokenType represents the type of a token in the GraphQL lexer.
type TokenType string

const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL" // Unknown token
	EOF     TokenType = "EOF"     // End of file

	// Identifiers and literals
	IDENT        TokenType = "IDENT"        // Names (field names, type names, keywords, etc.)
	INT          TokenType = "INT"          // Integer literals
	FLOAT        TokenType = "FLOAT"        // Float literals
	STRING       TokenType = "STRING"       // String literals, escapes decoded
	BLOCK_STRING TokenType = "BLOCK_STRING" // Block string literals, raw content

	// Punctuators
	ASSIGN   TokenType = "="   // Default value assignment
	COLON    TokenType = ":"   // Colon separator
	COMMA    TokenType = ","   // Comma separator (insignificant)
	LPAREN   TokenType = "("   // Left parenthesis
	RPAREN   TokenType = ")"   // Right parenthesis
	LBRACE   TokenType = "{"   // Left brace
	RBRACE   TokenType = "}"   // Right brace
	LBRACKET TokenType = "["   // Left bracket
	RBRACKET TokenType = "]"   // Right bracket
	SPREAD   TokenType = "..." // Fragment spread
	PIPE     TokenType = "|"   // Union member separator
	AMP      TokenType = "&"   // Interface separator

	// GraphQL extras
	DOLLAR TokenType = "$" // Variable prefix
	BANG   TokenType = "!" // Non-null marker
	AT     TokenType = "@" // Directive prefix
)

// Position is a 1-based location in the source.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a single token in the GraphQL source.
type Token struct {
	Type    TokenType // The type of the token
	Literal string    // The literal value of the token
	Pos     Position  // Where the token starts
}

// IsPunctuator reports whether tokens of this type are single punctuation marks.
func (t TokenType) IsPunctuator() bool {
	switch t {
	case ASSIGN, COLON, COMMA, LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
		SPREAD, PIPE, AMP, DOLLAR, BANG, AT:
		return true
	}
	return false
}
