// File: lexer.go
// Title: Botlang Lexical Analyzer
// Description: Converts botlang source text into a token stream with rune
//              accurate positions. Stops at the first illegal character.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial lexer implementation

package parser

import (
	"strings"
	"unicode"

	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/diag"
)

const eofRune = rune(-1)

// Lexer tokenizes botlang source text
type Lexer struct {
	text  []rune
	pos   ast.Position // Position of ch
	ch    rune         // Current rune or eofRune
	depth int          // Open ( and [ count; newlines are dropped while > 0
}

// NewLexer creates a lexer for the named source text
func NewLexer(filename, text string) *Lexer {
	l := &Lexer{
		text: []rune(text),
		pos:  ast.NewPosition(filename, text),
	}
	l.ch = l.at(0)
	return l
}

func (l *Lexer) at(i int) rune {
	if i < len(l.text) {
		return l.text[i]
	}
	return eofRune
}

func (l *Lexer) advance() {
	if l.ch == eofRune {
		return
	}
	l.pos = l.pos.Advance(l.ch)
	l.ch = l.at(l.pos.Index)
}

func (l *Lexer) peek() rune {
	return l.at(l.pos.Index + 1)
}

// Tokenize returns all tokens up to and including EOF, or the first
// IllegalCharacter error. No partial token list is returned on error.
func (l *Lexer) Tokenize() ([]ast.Token, error) {
	var tokens []ast.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == ast.EOF {
			return tokens, nil
		}
	}
}

// NextToken scans the next token, skipping blanks, comments and newlines
// that occur inside brackets.
func (l *Lexer) NextToken() (ast.Token, error) {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.advance()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != eofRune {
				l.advance()
			}
		case (l.ch == '\n' || l.ch == ';') && l.depth > 0:
			l.advance()
		default:
			return l.scan()
		}
	}
}

func (l *Lexer) scan() (ast.Token, error) {
	start := l.pos
	ch := l.ch

	switch {
	case ch == eofRune:
		return ast.Token{Type: ast.EOF, Start: start, End: start}, nil
	case ch == '\n' || ch == ';':
		l.advance()
		return l.token(ast.NEWLINE, "", start), nil
	case isDigit(ch):
		return l.readNumber(), nil
	case isLetter(ch):
		return l.readIdentifier(), nil
	case ch == '_':
		return l.readPrefixed(ast.SENSOR, "sensor name")
	case ch == '$':
		return l.readPrefixed(ast.ACTION, "action name")
	case ch == '"' || ch == '\'':
		return l.readString()
	}

	if tt, ok := l.readOperator(); ok {
		return l.token(tt, string(l.text[start.Index:l.pos.Index]), start), nil
	}

	l.advance()
	return ast.Token{}, diag.Newf(diag.IllegalCharacter, start, l.pos, "'%c'", ch)
}

func (l *Lexer) token(tt ast.TokenType, value string, start ast.Position) ast.Token {
	return ast.Token{Type: tt, Value: value, Start: start, End: l.pos}
}

// readNumber reads 12 or 3.5; a second dot ends the literal
func (l *Lexer) readNumber() ast.Token {
	start := l.pos
	var b strings.Builder
	dot := false
	for isDigit(l.ch) || (l.ch == '.' && !dot && isDigit(l.peek())) {
		if l.ch == '.' {
			dot = true
		}
		b.WriteRune(l.ch)
		l.advance()
	}
	return l.token(ast.NUMBER, b.String(), start)
}

func (l *Lexer) readWord() string {
	var b strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		b.WriteRune(l.ch)
		l.advance()
	}
	return b.String()
}

func (l *Lexer) readIdentifier() ast.Token {
	start := l.pos
	word := l.readWord()
	if lower := strings.ToLower(word); ast.Keywords[lower] {
		return l.token(ast.KEYWORD, lower, start)
	}
	return l.token(ast.IDENTIFIER, word, start)
}

// readPrefixed reads _NAME or $NAME. The prefix alone is illegal.
func (l *Lexer) readPrefixed(tt ast.TokenType, what string) (ast.Token, error) {
	start := l.pos
	prefix := l.ch
	l.advance()
	if !isLetter(l.ch) && !isDigit(l.ch) && l.ch != '_' {
		return ast.Token{}, diag.Newf(diag.IllegalCharacter, start, l.pos,
			"'%c' must be followed by a %s", prefix, what)
	}
	return l.token(tt, string(prefix)+l.readWord(), start), nil
}

var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func (l *Lexer) readString() (ast.Token, error) {
	start := l.pos
	quote := l.ch
	l.advance()

	var b strings.Builder
	for l.ch != quote {
		switch l.ch {
		case eofRune, '\n':
			return ast.Token{}, diag.New(diag.IllegalCharacter, "unterminated string literal", start, l.pos)
		case '\\':
			l.advance()
			if r, ok := escapes[l.ch]; ok {
				b.WriteRune(r)
			} else if l.ch != eofRune {
				b.WriteRune(l.ch)
			}
			l.advance()
		default:
			b.WriteRune(l.ch)
			l.advance()
		}
	}
	l.advance()
	return l.token(ast.STRING, b.String(), start), nil
}

// readOperator consumes an operator or punctuation rune sequence
func (l *Lexer) readOperator() (ast.TokenType, bool) {
	two := func(next rune, long, short ast.TokenType) ast.TokenType {
		l.advance()
		if l.ch == next {
			l.advance()
			return long
		}
		return short
	}

	switch l.ch {
	case '+':
		l.advance()
		return ast.PLUS, true
	case '-':
		return two('>', ast.ARROW, ast.MINUS), true
	case '*':
		l.advance()
		return ast.MUL, true
	case '/':
		l.advance()
		return ast.DIV, true
	case '^':
		l.advance()
		return ast.POW, true
	case '%':
		l.advance()
		return ast.MOD, true
	case '=':
		return two('=', ast.EE, ast.EQ), true
	case '<':
		return two('=', ast.LTE, ast.LT), true
	case '>':
		return two('=', ast.GTE, ast.GT), true
	case '!':
		if l.peek() == '=' {
			l.advance()
			l.advance()
			return ast.NE, true
		}
		return 0, false
	case '(', '[':
		l.depth++
		tt := ast.LPAREN
		if l.ch == '[' {
			tt = ast.LBRACKET
		}
		l.advance()
		return tt, true
	case ')', ']':
		if l.depth > 0 {
			l.depth--
		}
		tt := ast.RPAREN
		if l.ch == ']' {
			tt = ast.RBRACKET
		}
		l.advance()
		return tt, true
	case ',':
		l.advance()
		return ast.COMMA, true
	case ':':
		l.advance()
		return ast.COLON, true
	}
	return 0, false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

// Tokenize is a convenience wrapper around NewLexer(...).Tokenize()
func Tokenize(filename, text string) ([]ast.Token, error) {
	return NewLexer(filename, text).Tokenize()
}
