// File: parser.go
// Title: Botlang Recursive Descent Parser
// Description: Builds an immutable AST from a token stream using one token
//              of lookahead. The first syntax error aborts parsing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"strconv"

	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/diag"
)

// Parser turns tokens into a program
type Parser struct {
	tokens []ast.Token
	idx    int
	cur    ast.Token
	loops  int // Enclosing loops within the current function body
}

// New creates a parser over tokens. A missing trailing EOF token is added.
func New(tokens []ast.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != ast.EOF {
		var end ast.Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].End
		}
		tokens = append(tokens[:len(tokens):len(tokens)], ast.Token{Type: ast.EOF, Start: end, End: end})
	}
	return &Parser{tokens: tokens, cur: tokens[0]}
}

// Parse parses the whole token stream into the top-level statement list
func (p *Parser) Parse() (*ast.ListNode, error) {
	program, err := p.statements()
	if err != nil {
		return nil, err
	}
	if !p.cur.Is(ast.EOF) {
		if p.atBlockEnd() {
			return nil, p.errorf("unexpected %s", describe(p.cur))
		}
		return nil, p.errorf("expected newline or end of input, got %s", describe(p.cur))
	}
	return program, nil
}

// ParseSource lexes and parses text in one step
func ParseSource(filename, text string) (*ast.ListNode, error) {
	tokens, err := Tokenize(filename, text)
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

// ============================================================================
// Token helpers
// ============================================================================

func (p *Parser) advance() {
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
	p.cur = p.tokens[p.idx]
}

func (p *Parser) skipNewlines() int {
	n := 0
	for p.cur.Is(ast.NEWLINE) {
		p.advance()
		n++
	}
	return n
}

func (p *Parser) keyword(values ...string) bool {
	for _, v := range values {
		if p.cur.IsKeyword(v) {
			return true
		}
	}
	return false
}

// atBlockEnd reports whether the current token closes a statement block
func (p *Parser) atBlockEnd() bool {
	return p.cur.Is(ast.EOF) || p.keyword("end", "elif", "else")
}

func (p *Parser) expectKeyword(value string) (ast.Token, error) {
	tok := p.cur
	if !tok.IsKeyword(value) {
		return tok, p.errorf("expected '%s', got %s", value, describe(tok))
	}
	p.advance()
	return tok, nil
}

func (p *Parser) expect(tt ast.TokenType, what string) (ast.Token, error) {
	tok := p.cur
	if !tok.Is(tt) {
		return tok, p.errorf("expected %s, got %s", what, describe(tok))
	}
	p.advance()
	return tok, nil
}

// expectThen consumes "then" or ":"
func (p *Parser) expectThen() error {
	if p.keyword("then") || p.cur.Is(ast.COLON) {
		p.advance()
		return nil
	}
	return p.errorf("expected 'then' or ':', got %s", describe(p.cur))
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return diag.Newf(diag.InvalidSyntax, p.cur.Start, p.cur.End, format, args...)
}

func describe(tok ast.Token) string {
	switch tok.Type {
	case ast.EOF:
		return "end of input"
	case ast.NEWLINE:
		return "newline"
	case ast.STRING:
		return strconv.Quote(tok.Value)
	default:
		return fmt.Sprintf("'%s'", tok.Value)
	}
}

// ============================================================================
// Statements
// ============================================================================

// statements parses NEWLINE separated statements until a block end
func (p *Parser) statements() (*ast.ListNode, error) {
	start := p.cur.Start
	p.skipNewlines()

	var stmts []ast.Node
	for !p.atBlockEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.skipNewlines() == 0 {
			break
		}
	}

	end := p.cur.Start
	if len(stmts) > 0 {
		start = stmts[0].Start()
		end = stmts[len(stmts)-1].End()
	}
	return ast.NewListNode(stmts, start, end), nil
}

func (p *Parser) statement() (ast.Node, error) {
	tok := p.cur

	switch {
	case tok.IsKeyword("return"):
		p.advance()
		if p.cur.Is(ast.NEWLINE) || p.atBlockEnd() {
			return ast.NewReturnNode(nil, tok.Start, tok.End), nil
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		return ast.NewReturnNode(value, tok.Start, value.End()), nil
	case tok.IsKeyword("continue"):
		if p.loops == 0 {
			return nil, p.errorf("'continue' outside loop")
		}
		p.advance()
		return ast.NewContinueNode(tok.Start, tok.End), nil
	case tok.IsKeyword("break"):
		if p.loops == 0 {
			return nil, p.errorf("'break' outside loop")
		}
		p.advance()
		return ast.NewBreakNode(tok.Start, tok.End), nil
	}
	return p.expr()
}

// ============================================================================
// Expressions
// ============================================================================

func (p *Parser) expr() (ast.Node, error) {
	if !p.keyword("var") {
		return p.binOp(p.andExpr, func(t ast.Token) bool { return t.IsKeyword("or") })
	}

	p.advance()
	name := p.cur
	switch name.Type {
	case ast.IDENTIFIER:
	case ast.SENSOR:
		return nil, p.errorf("cannot assign to sensor %s", name.Value)
	case ast.ACTION:
		return nil, p.errorf("cannot assign to action constant %s", name.Value)
	default:
		return nil, p.errorf("expected identifier, got %s", describe(name))
	}
	p.advance()
	if _, err := p.expect(ast.EQ, "'='"); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return ast.NewVarAssignNode(name, value), nil
}

// binOp parses operand (op operand)* left associatively
func (p *Parser) binOp(operand func() (ast.Node, error), isOp func(ast.Token) bool) (ast.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for isOp(p.cur) {
		op := p.cur
		p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOpNode(left, op, right)
	}
	return left, nil
}

func (p *Parser) andExpr() (ast.Node, error) {
	return p.binOp(p.notExpr, func(t ast.Token) bool { return t.IsKeyword("and") })
}

func (p *Parser) notExpr() (ast.Node, error) {
	if !p.keyword("not") {
		return p.compExpr()
	}
	op := p.cur
	p.advance()
	operand, err := p.notExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryOpNode(op, operand), nil
}

func (p *Parser) compExpr() (ast.Node, error) {
	return p.binOp(p.arithExpr, func(t ast.Token) bool {
		switch t.Type {
		case ast.EE, ast.NE, ast.LT, ast.GT, ast.LTE, ast.GTE:
			return true
		}
		return false
	})
}

func (p *Parser) arithExpr() (ast.Node, error) {
	return p.binOp(p.term, func(t ast.Token) bool {
		return t.Is(ast.PLUS) || t.Is(ast.MINUS)
	})
}

func (p *Parser) term() (ast.Node, error) {
	return p.binOp(p.factor, func(t ast.Token) bool {
		return t.Is(ast.MUL) || t.Is(ast.DIV) || t.Is(ast.MOD)
	})
}

func (p *Parser) factor() (ast.Node, error) {
	if !p.cur.Is(ast.PLUS) && !p.cur.Is(ast.MINUS) {
		return p.power()
	}
	op := p.cur
	p.advance()
	operand, err := p.factor()
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryOpNode(op, operand), nil
}

func (p *Parser) power() (ast.Node, error) {
	left, err := p.call()
	if err != nil {
		return nil, err
	}
	for p.cur.Is(ast.POW) {
		op := p.cur
		p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinOpNode(left, op, right)
	}
	return left, nil
}

func (p *Parser) call() (ast.Node, error) {
	node, err := p.atom()
	if err != nil {
		return nil, err
	}
	for p.cur.Is(ast.LPAREN) {
		p.advance()
		args, rparen, err := p.exprList(ast.RPAREN, "')'")
		if err != nil {
			return nil, err
		}
		node = ast.NewCallNode(node, args, rparen)
	}
	return node, nil
}

// exprList parses (expr ("," expr)*)? followed by the closing token
func (p *Parser) exprList(closing ast.TokenType, what string) ([]ast.Node, ast.Token, error) {
	var items []ast.Node
	if !p.cur.Is(closing) {
		for {
			item, err := p.expr()
			if err != nil {
				return nil, p.cur, err
			}
			items = append(items, item)
			if !p.cur.Is(ast.COMMA) {
				break
			}
			p.advance()
		}
	}
	closeTok, err := p.expect(closing, "',' or "+what)
	if err != nil {
		return nil, closeTok, err
	}
	return items, closeTok, nil
}

func (p *Parser) atom() (ast.Node, error) {
	tok := p.cur

	switch tok.Type {
	case ast.NUMBER:
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf("invalid number %s", tok.Value)
		}
		p.advance()
		return ast.NewNumberNode(tok, value), nil
	case ast.STRING:
		p.advance()
		return ast.NewStringNode(tok), nil
	case ast.IDENTIFIER, ast.SENSOR, ast.ACTION:
		p.advance()
		return ast.NewVarAccessNode(tok), nil
	case ast.LPAREN:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ast.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case ast.LBRACKET:
		p.advance()
		elements, rbracket, err := p.exprList(ast.RBRACKET, "']'")
		if err != nil {
			return nil, err
		}
		return ast.NewListNode(elements, tok.Start, rbracket.End), nil
	case ast.KEYWORD:
		switch tok.Value {
		case "true", "false", "null":
			p.advance()
			return ast.NewVarAccessNode(tok), nil
		case "if":
			return p.ifExpr()
		case "for":
			return p.forExpr()
		case "while":
			return p.whileExpr()
		case "def":
			return p.funcDef()
		}
	}
	return nil, p.errorf("expected number, string, identifier, '(', '[', 'if', 'for', 'while' or 'def', got %s", describe(tok))
}

// ============================================================================
// Compound expressions
// ============================================================================

// branch parses an inline statement or, after a NEWLINE, a statement block
func (p *Parser) branch() (body ast.Node, block bool, err error) {
	if !p.cur.Is(ast.NEWLINE) {
		body, err = p.statement()
		return body, false, err
	}
	body, err = p.statements()
	return body, true, err
}

// ifExpr parses an if/elif/else chain. A chain whose last branch is a block
// must be closed by "end"; after an inline last branch "end" is optional.
func (p *Parser) ifExpr() (ast.Node, error) {
	var cases []ast.IfCase

	for {
		p.advance() // if / elif
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectThen(); err != nil {
			return nil, err
		}
		body, block, err := p.branch()
		if err != nil {
			return nil, err
		}
		cases = append(cases, ast.IfCase{Condition: cond, Body: body, ShouldReturnNull: block})

		switch {
		case p.keyword("elif"):
			continue
		case p.keyword("else"):
			p.advance()
			if p.cur.Is(ast.COLON) {
				p.advance()
			}
			body, block, err := p.branch()
			if err != nil {
				return nil, err
			}
			if err := p.closeBranch(block); err != nil {
				return nil, err
			}
			return ast.NewIfNode(cases, &ast.ElseCase{Body: body, ShouldReturnNull: block}), nil
		default:
			if err := p.closeBranch(block); err != nil {
				return nil, err
			}
			return ast.NewIfNode(cases, nil), nil
		}
	}
}

// closeBranch consumes the "end" that is required after a block and
// optional after an inline statement
func (p *Parser) closeBranch(block bool) error {
	if block {
		_, err := p.expectKeyword("end")
		return err
	}
	if p.keyword("end") {
		p.advance()
	}
	return nil
}

// loopBody parses a loop branch with continue and break enabled
func (p *Parser) loopBody() (ast.Node, bool, error) {
	p.loops++
	defer func() { p.loops-- }()

	body, block, err := p.branch()
	if err != nil {
		return nil, false, err
	}
	if err := p.closeBranch(block); err != nil {
		return nil, false, err
	}
	return body, block, nil
}

func (p *Parser) whileExpr() (ast.Node, error) {
	p.advance()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectThen(); err != nil {
		return nil, err
	}
	body, block, err := p.loopBody()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileNode(cond, body, block), nil
}

func (p *Parser) forExpr() (ast.Node, error) {
	p.advance()
	variable := p.cur
	switch variable.Type {
	case ast.IDENTIFIER:
	case ast.SENSOR:
		return nil, p.errorf("cannot assign to sensor %s", variable.Value)
	default:
		return nil, p.errorf("expected identifier, got %s", describe(variable))
	}
	p.advance()
	if _, err := p.expect(ast.EQ, "'='"); err != nil {
		return nil, err
	}
	from, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("to"); err != nil {
		return nil, err
	}
	to, err := p.expr()
	if err != nil {
		return nil, err
	}

	var step ast.Node
	if p.keyword("step") {
		p.advance()
		if step, err = p.expr(); err != nil {
			return nil, err
		}
	}
	if err := p.expectThen(); err != nil {
		return nil, err
	}

	body, block, err := p.loopBody()
	if err != nil {
		return nil, err
	}
	return ast.NewForNode(variable, from, to, step, body, block), nil
}

func (p *Parser) funcDef() (ast.Node, error) {
	p.advance()

	outer := p.loops
	p.loops = 0
	defer func() { p.loops = outer }()

	var name *ast.Token
	if p.cur.Is(ast.IDENTIFIER) {
		tok := p.cur
		name = &tok
		p.advance()
	}
	if _, err := p.expect(ast.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var params []ast.Token
	for !p.cur.Is(ast.RPAREN) {
		if len(params) > 0 {
			if _, err := p.expect(ast.COMMA, "',' or ')'"); err != nil {
				return nil, err
			}
		}
		param := p.cur
		switch param.Type {
		case ast.IDENTIFIER:
		case ast.SENSOR, ast.ACTION:
			return nil, p.errorf("cannot use %s as a parameter name", param.Value)
		default:
			return nil, p.errorf("expected parameter name, got %s", describe(param))
		}
		params = append(params, param)
		p.advance()
	}
	p.advance() // )

	if p.cur.Is(ast.ARROW) {
		p.advance()
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		return ast.NewFuncDefNode(name, params, body, true), nil
	}

	if p.cur.Is(ast.COLON) {
		p.advance()
	}
	if !p.cur.Is(ast.NEWLINE) {
		return nil, p.errorf("expected '->' or newline, got %s", describe(p.cur))
	}
	body, err := p.statements()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return ast.NewFuncDefNode(name, params, body, false), nil
}
