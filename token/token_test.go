package token

import "testing"

func TestTokenType_IsPunctuator(t *testing.T) {
	for _, typ := range []TokenType{ASSIGN, COLON, COMMA, LPAREN, RPAREN, LBRACE, RBRACE,
		LBRACKET, RBRACKET, SPREAD, PIPE, AMP, DOLLAR, BANG, AT} {
		if !typ.IsPunctuator() {
			t.Errorf("expected %s to be a punctuator", typ)
		}
	}
	for _, typ := range []TokenType{ILLEGAL, EOF, IDENT, INT, FLOAT, STRING, BLOCK_STRING} {
		if typ.IsPunctuator() {
			t.Errorf("expected %s not to be a punctuator", typ)
		}
	}
}

func TestPosition_String(t *testing.T) {
	if got := (Position{Line: 3, Column: 14}).String(); got != "3:14" {
		t.Errorf("expected 3:14, got %s", got)
	}
}
