// Package formula implements the sandboxed formula evaluator: a restricted
// single-variable arithmetic expression language plus a fixed whitelist of
// duration formatting functions and timezone-aware date rendering.
//
// The language admits numeric literals, the variable "value", the operators
// + - * /, parentheses, and a small set of math functions. Anything else is
// rejected before evaluation, so a user-editable formula can never reach host
// code, the filesystem, or the network. There is no generic eval and no
// reflection; the evaluator is a hand-written lexer, parser, and tree walker.
package formula

import "fmt"

// tokenType identifies a lexical token in the formula grammar.
type tokenType int

const (
	tokenIllegal tokenType = iota
	tokenEOF

	tokenNumber // numeric literal: 1, 3.6, .5
	tokenIdent  // "value" or a whitelisted function name

	tokenPlus     // +
	tokenMinus    // -
	tokenAsterisk // *
	tokenSlash    // /

	tokenComma  // ,
	tokenLParen // (
	tokenRParen // )
)

// token is one lexical token with its source position for error reporting.
type token struct {
	typ     tokenType
	literal string
	pos     int
}

func (t token) String() string {
	return fmt.Sprintf("%q@%d", t.literal, t.pos)
}

// lexer walks a formula string byte by byte. Formulas are ASCII by
// construction; any non-ASCII byte lexes as an illegal token.
type lexer struct {
	input        string
	position     int // current position (points to current char)
	readPosition int // reading position (after current char)
	ch           byte
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// nextToken returns the next token in the input.
func (l *lexer) nextToken() token {
	l.skipWhitespace()

	tok := token{pos: l.position}

	switch {
	case l.ch == 0:
		tok.typ = tokenEOF
	case l.ch == '+':
		tok.typ, tok.literal = tokenPlus, "+"
		l.readChar()
	case l.ch == '-':
		tok.typ, tok.literal = tokenMinus, "-"
		l.readChar()
	case l.ch == '*':
		tok.typ, tok.literal = tokenAsterisk, "*"
		l.readChar()
	case l.ch == '/':
		tok.typ, tok.literal = tokenSlash, "/"
		l.readChar()
	case l.ch == ',':
		tok.typ, tok.literal = tokenComma, ","
		l.readChar()
	case l.ch == '(':
		tok.typ, tok.literal = tokenLParen, "("
		l.readChar()
	case l.ch == ')':
		tok.typ, tok.literal = tokenRParen, ")"
		l.readChar()
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		tok.typ = tokenNumber
		tok.literal = l.readNumber()
	case isLetter(l.ch):
		tok.typ = tokenIdent
		tok.literal = l.readIdentifier()
	default:
		tok.typ = tokenIllegal
		tok.literal = string(l.ch)
		l.readChar()
	}

	return tok
}

func (l *lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	// Exponent form: 1e3, 2.5e-7
	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) {
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		} else if (l.peekChar() == '+' || l.peekChar() == '-') && l.readPosition+1 < len(l.input) && isDigit(l.input[l.readPosition+1]) {
			l.readChar() // e
			l.readChar() // sign
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.position]
}

func (l *lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
