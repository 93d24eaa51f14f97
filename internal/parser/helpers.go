package parser

import (
	"aliasc/internal/source"
	"aliasc/internal/token"
)

func (p *Parser) hasMore() bool {
	return p.pos < len(p.tokens)
}

// peekToken — следующий токен без потребления; конец потока — ошибка.
func (p *Parser) peekToken() (token.Token, error) {
	if !p.hasMore() {
		return token.Token{}, p.eofError()
	}
	return p.tokens[p.pos], nil
}

// nextToken — съедает следующий токен.
func (p *Parser) nextToken() (token.Token, error) {
	tok, err := p.peekToken()
	if err != nil {
		return tok, err
	}
	p.pos++
	return tok, nil
}

// expect съедает токен вида k; чужой токен не потребляется.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok, err := p.peekToken()
	if err != nil {
		return tok, err
	}
	if tok.Kind != k {
		return tok, p.unexpected(tok)
	}
	return p.nextToken()
}

// eofRange — точка сразу после последнего токена, либо начало файла.
func (p *Parser) eofRange() source.Range {
	if len(p.tokens) == 0 {
		return source.EmptyRange()
	}
	return source.At(p.tokens[len(p.tokens)-1].Range.End)
}

func (p *Parser) eofError() *ParseError {
	return &ParseError{
		Message: MsgUnexpectedEOF,
		Range:   p.eofRange(),
		Kind:    ErrUnexpectedEOF,
	}
}

func (p *Parser) unexpected(tok token.Token) *ParseError {
	return &ParseError{
		Message: MsgUnexpectedToken,
		Range:   tok.Range,
		Kind:    ErrUnexpectedToken,
	}
}
