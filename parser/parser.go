// Package parser implements the syntactic analyzer for the aslc source
// language.
//
// The parser takes a stream of tokens from the lexer and constructs an
// Abstract Syntax Tree that represents a sequence of function declarations.
// It is a recursive-descent parser with Pratt parsing (precedence climbing)
// for expressions, the same technique the teacher's Monkey parser uses.
//
// The main entry point is [New], which creates a new [Parser], and
// [Parser.ParseProgram], which parses a complete program and returns its
// AST. Check [Parser.Errors] afterward for any syntax errors.
package parser

import (
	"fmt"
	"strconv"

	"github.com/dr8co/aslc/ast"
	"github.com/dr8co/aslc/lexer"
	"github.com/dr8co/aslc/token"
)

const (
	_ int = iota

	Lowest
	Or          // or
	And         // and
	Equals      // == != <= < > >=
	Sum         // + -
	Product     // * / %
	Prefix      // -x, not x
	Call        // f(x)
	Index       // a[i]
)

var precedences = map[token.Type]int{
	token.OR:       Or,
	token.AND:      And,
	token.SEQ:      Equals,
	token.SNEQ:     Equals,
	token.SLE:      Equals,
	token.SLT:      Equals,
	token.SGT:      Equals,
	token.SGE:      Equals,
	token.PLUS:     Sum,
	token.MINUS:    Sum,
	token.SLASH:    Product,
	token.ASTERISK: Product,
	token.PERCENT:  Product,
	token.LPAREN:   Call,
	token.LBRACKET: Index,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser parses aslc source text into an *ast.Program.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	currentToken token.Token
	peekToken    token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a new Parser over the given Lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifierOrCall)
	p.registerPrefix(token.INTVAL, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOATVAL, p.parseFloatLiteral)
	p.registerPrefix(token.CHARVAL, p.parseCharLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.NOT, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	p.registerInfix(token.PLUS, p.parseArithmetic)
	p.registerInfix(token.MINUS, p.parseArithmetic)
	p.registerInfix(token.ASTERISK, p.parseArithmetic)
	p.registerInfix(token.SLASH, p.parseArithmetic)
	p.registerInfix(token.PERCENT, p.parseArithmetic)
	p.registerInfix(token.SEQ, p.parseRelational)
	p.registerInfix(token.SNEQ, p.parseRelational)
	p.registerInfix(token.SLE, p.parseRelational)
	p.registerInfix(token.SLT, p.parseRelational)
	p.registerInfix(token.SGT, p.parseRelational)
	p.registerInfix(token.SGE, p.parseRelational)
	p.registerInfix(token.AND, p.parseLogical)
	p.registerInfix(token.OR, p.parseLogical)
	p.registerInfix(token.LBRACKET, p.parseIndexer)

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

// Errors returns the list of errors encountered during parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) peekError(t token.Type) {
	msg := fmt.Sprintf("line %d: expected next token to be %s, got %s instead",
		p.peekToken.Line, t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: ", p.currentToken.Line)+fmt.Sprintf(format, args...))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.currentToken.Type]; ok {
		return pr
	}
	return Lowest
}

func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) currentTokenIs(t token.Type) bool { return p.currentToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool    { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// ParseProgram parses a sequence of function declarations into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.currentTokenIs(token.EOF) {
		if p.currentTokenIs(token.FUNC) {
			if fn := p.parseFunction(); fn != nil {
				program.Functions = append(program.Functions, fn)
			}
		} else {
			p.errorf("expected 'func', got %s", p.currentToken.Type)
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseFunction() *ast.Function {
	fn := &ast.Function{Token: p.currentToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = p.currentToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParamList()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeName()
	}

	if p.peekTokenIs(token.VARS) {
		p.nextToken()
		for p.peekTokenIs(token.IDENT) {
			p.nextToken()
			fn.Decls = append(fn.Decls, p.parseVarDecl())
		}
	}

	if !p.expectPeek(token.BEGIN) {
		return nil
	}
	p.nextToken()
	fn.Body = p.parseStatementsUntil(token.END)

	if !p.currentTokenIs(token.END) {
		p.errorf("expected 'end', got %s", p.currentToken.Type)
		return nil
	}
	if !p.expectPeek(token.ENDFUNC) {
		return nil
	}
	return fn
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseParam())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseParam())
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseParam() *ast.Param {
	name := p.currentToken.Literal
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	return &ast.Param{Name: name, Type: p.parseTypeName()}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	d := &ast.VarDecl{Token: p.currentToken, Name: p.currentToken.Literal}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	d.Type = p.parseTypeName()
	return d
}

func (p *Parser) parseTypeName() *ast.TypeName {
	tn := &ast.TypeName{Token: p.currentToken}
	if p.currentTokenIs(token.ARRAY) {
		tn.IsArray = true
		if !p.expectPeek(token.LBRACKET) {
			return nil
		}
		if !p.expectPeek(token.INTVAL) {
			return nil
		}
		n, err := strconv.Atoi(p.currentToken.Literal)
		if err != nil {
			p.errorf("invalid array size %q", p.currentToken.Literal)
			return nil
		}
		tn.ArraySize = n
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		if !p.expectPeek(token.OF) {
			return nil
		}
		p.nextToken()
		tn.ElemName = p.currentToken.Literal
		return tn
	}
	tn.Name = p.currentToken.Literal
	return tn
}

func (p *Parser) parseStatementsUntil(end token.Type) []ast.Statement {
	var stmts []ast.Statement
	for !p.currentTokenIs(end) && !p.currentTokenIs(token.ELSE) && !p.currentTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.currentToken.Type {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.READ:
		return p.parseRead()
	case token.WRITE:
		return p.parseWrite()
	case token.RETURN:
		return p.parseReturn()
	case token.IDENT:
		return p.parseIdentStatement()
	default:
		p.errorf("unexpected token %s in statement position", p.currentToken.Type)
		return nil
	}
}

func (p *Parser) parseIf() *ast.If {
	n := &ast.If{Token: p.currentToken}
	p.nextToken()
	n.Cond = p.parseExpression(Lowest)
	if !p.expectPeek(token.THEN) {
		return nil
	}
	p.nextToken()
	n.Then = p.parseStatementsUntil(token.ENDIF)
	if p.currentTokenIs(token.ELSE) {
		p.nextToken()
		n.Else = p.parseStatementsUntil(token.ENDIF)
	}
	if !p.currentTokenIs(token.ENDIF) {
		p.errorf("expected 'endif', got %s", p.currentToken.Type)
		return nil
	}
	return n
}

func (p *Parser) parseWhile() *ast.While {
	n := &ast.While{Token: p.currentToken}
	p.nextToken()
	n.Cond = p.parseExpression(Lowest)
	if !p.expectPeek(token.DO) {
		return nil
	}
	p.nextToken()
	n.Body = p.parseStatementsUntil(token.ENDWHILE)
	if !p.currentTokenIs(token.ENDWHILE) {
		p.errorf("expected 'endwhile', got %s", p.currentToken.Type)
		return nil
	}
	return n
}

func (p *Parser) parseRead() *ast.Read {
	n := &ast.Read{Token: p.currentToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n.Left = p.parseLeftExpr()
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return n
}

func (p *Parser) parseWrite() ast.Statement {
	tok := p.currentToken
	if p.peekTokenIs(token.STRING) {
		p.nextToken()
		n := &ast.WriteString{Token: tok, Raw: p.currentToken.Literal}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		return n
	}
	p.nextToken()
	n := &ast.WriteExpr{Token: tok, Value: p.parseExpression(Lowest)}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return n
}

func (p *Parser) parseReturn() *ast.Return {
	n := &ast.Return{Token: p.currentToken}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return n
	}
	p.nextToken()
	n.Value = p.parseExpression(Lowest)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return n
}

// parseIdentStatement disambiguates `ident = expr;`, `ident[i] = expr;` and
// `ident(args);` at statement level.
func (p *Parser) parseIdentStatement() ast.Statement {
	tok := p.currentToken
	name := p.currentToken.Literal

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseExpressionList(token.RPAREN)
		n := &ast.ProcCall{Token: tok, Name: name, Args: args}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		return n
	}

	left := p.parseLeftExpr()
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	assignTok := p.currentToken
	p.nextToken()
	value := p.parseExpression(Lowest)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Assignment{Token: assignTok, Left: left, Value: value}
}

// parseLeftExpr parses `ident` or `ident[index]` with currentToken on the
// identifier.
func (p *Parser) parseLeftExpr() *ast.LeftExpr {
	n := &ast.LeftExpr{Token: p.currentToken, Name: p.currentToken.Literal}
	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		p.nextToken()
		n.Index = p.parseExpression(Lowest)
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
	}
	return n
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.currentToken.Type]
	if prefix == nil {
		p.errorf("no prefix parse function for %s found", p.currentToken.Type)
		return nil
	}
	left := prefix()
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// parseIdentifierOrCall disambiguates a bare identifier and a functional
// call in expression position. An indexed read `a[i]` is built afterwards
// by the LBRACKET infix function, parseIndexer.
func (p *Parser) parseIdentifierOrCall() ast.Expression {
	tok := p.currentToken
	name := p.currentToken.Literal

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args := p.parseExpressionList(token.RPAREN)
		return &ast.FunctionalCall{Token: tok, Name: name, Args: args}
	}
	return &ast.Ident{Token: tok, Name: name}
}

func (p *Parser) parseIndexer(left ast.Expression) ast.Expression {
	tok := p.currentToken
	p.nextToken()
	idx := p.parseExpression(Lowest)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.Indexer{Token: tok, Base: left, Index: idx}
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(Lowest))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(Lowest))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.currentToken}
	v, err := strconv.ParseInt(p.currentToken.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.currentToken.Literal)
		return nil
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.currentToken}
	v, err := strconv.ParseFloat(p.currentToken.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as float", p.currentToken.Literal)
		return nil
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseCharLiteral() ast.Expression {
	return &ast.CharLiteral{Token: p.currentToken, Value: p.currentToken.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Token: p.currentToken, Value: p.currentTokenIs(token.TRUE)}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	n := &ast.Unary{Token: p.currentToken, Operator: p.currentToken.Literal}
	p.nextToken()
	n.Right = p.parseExpression(Prefix)
	return n
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseArithmetic(left ast.Expression) ast.Expression {
	n := &ast.Arithmetic{Token: p.currentToken, Operator: p.currentToken.Literal, Left: left}
	prec := p.curPrecedence()
	p.nextToken()
	n.Right = p.parseExpression(prec)
	return n
}

func (p *Parser) parseRelational(left ast.Expression) ast.Expression {
	n := &ast.Relational{Token: p.currentToken, Operator: p.currentToken.Literal, Left: left}
	prec := p.curPrecedence()
	p.nextToken()
	n.Right = p.parseExpression(prec)
	return n
}

func (p *Parser) parseLogical(left ast.Expression) ast.Expression {
	n := &ast.Logical{Token: p.currentToken, Operator: p.currentToken.Literal, Left: left}
	prec := p.curPrecedence()
	p.nextToken()
	n.Right = p.parseExpression(prec)
	return n
}
