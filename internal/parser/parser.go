package parser

import (
	"errors"
	"strconv"

	"aliasc/internal/ast"
	"aliasc/internal/token"
	"aliasc/internal/trace"
)

// Parser — состояние парсера на один поток токенов
type Parser struct {
	tokens  []token.Token
	pos     int
	builder *ast.Builder
	module  *ast.Module
	opts    Options
	span    *trace.Span
}

// ParseModule — входная точка: разбирает все токены в модуль name.
// При первой ошибке разбор прекращается, частичный модуль не возвращается.
func ParseModule(name string, tokens []token.Token, builder *ast.Builder, opts Options) (*ast.Module, error) {
	opts.Tracer = trace.OrNop(opts.Tracer)
	if builder == nil {
		builder = ast.NewBuilder(ast.Hints{Exprs: uint(len(tokens))})
	}

	p := Parser{
		tokens:  tokens,
		builder: builder,
		module:  builder.NewModule(name),
		opts:    opts,
	}
	p.span = trace.Begin(opts.Tracer, trace.ScopePass, "parse", opts.TraceParent).
		WithExtra("module", name)

	if err := p.parseDecls(); err != nil {
		p.span.WithExtra("error", err.Error()).End("failed")
		return nil, err
	}

	p.span.WithExtra("decls", strconv.Itoa(len(p.module.Decls))).End("")
	return p.module, nil
}

// parseDecls — цикл верхнего уровня: пока есть токены — parseDecl.
func (p *Parser) parseDecls() error {
	for p.hasMore() {
		decl, err := p.parseDecl()
		if err != nil {
			return err
		}
		p.builder.PushDecl(p.module, decl)
		if p.opts.Tracer.Enabled() {
			trace.Point(p.opts.Tracer, trace.ScopeNode, "decl", declDetail(decl), p.span.ID())
		}
	}
	return nil
}

// parseDecl: Ident "=" expr | expr
func (p *Parser) parseDecl() (ast.Decl, error) {
	tok, err := p.peekToken()
	if err != nil {
		return ast.Decl{}, err
	}
	if tok.IsIdent() {
		return p.parseAlias()
	}

	value, err := p.parseExpr()
	if err != nil {
		return ast.Decl{}, err
	}
	return ast.Decl{Value: value, Range: p.builder.Exprs.Get(value).Range}, nil
}

func (p *Parser) parseAlias() (ast.Decl, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return ast.Decl{}, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return ast.Decl{}, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return ast.Decl{}, err
	}

	return ast.Decl{
		Name:      name.Value,
		NameRange: name.Range,
		Value:     value,
		Range:     name.Range.Cover(p.builder.Exprs.Get(value).Range),
	}, nil
}

// parseExpr — пока единственная форма выражения: целочисленный литерал (i32).
func (p *Parser) parseExpr() (ast.ExprID, error) {
	tok, err := p.expect(token.Int)
	if err != nil {
		return ast.NoExprID, err
	}
	v, err := strconv.ParseInt(tok.Value, 10, 32)
	if err != nil {
		return ast.NoExprID, invalidInt(tok, err)
	}
	return p.builder.Exprs.NewIntLit(tok.Range, int32(v), tok.Value), nil
}

func invalidInt(tok token.Token, err error) *ParseError {
	msg := err.Error()
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		msg = numErr.Err.Error()
	}
	return &ParseError{
		Message: msg,
		Range:   tok.Range,
		Kind:    ErrInvalidInt,
		Err:     err,
	}
}

func declDetail(d ast.Decl) string {
	if d.IsAlias() {
		return d.Name + " @" + d.Range.Start.String()
	}
	return "expr @" + d.Range.Start.String()
}
