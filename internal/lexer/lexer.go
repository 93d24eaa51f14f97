package lexer

import (
	"strconv"

	"aliasc/internal/source"
	"aliasc/internal/token"
	"aliasc/internal/trace"
)

type Lexer struct {
	stream *source.Stream
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	err    error        // первая ошибка; после неё лексер больше не продвигается
}

func New(src string, opts Options) *Lexer {
	opts.Tracer = trace.OrNop(opts.Tracer)
	return &Lexer{
		stream: source.NewStream(src, opts.Columns),
		opts:   opts,
	}
}

// Lex scans the whole text. On failure no tokens are returned.
func Lex(src string, opts Options) ([]token.Token, error) {
	lx := New(src, opts)
	span := trace.Begin(lx.opts.Tracer, trace.ScopePass, "lex", opts.TraceParent)

	tokens := make([]token.Token, 0, len(src)/2+1)
	for {
		tok, ok, err := lx.Next()
		if err != nil {
			span.WithExtra("error", err.Error()).End("failed")
			return nil, err
		}
		if !ok {
			break
		}
		if lx.opts.Tracer.Enabled() {
			trace.Point(lx.opts.Tracer, trace.ScopeToken, "token", tok.String(), span.ID())
		}
		tokens = append(tokens, tok)
	}

	span.WithExtra("tokens", strconv.Itoa(len(tokens))).End("")
	return tokens, nil
}

// Next возвращает следующий токен.
// ok == false означает конец ввода; после ошибки всегда возвращается та же ошибка.
func (lx *Lexer) Next() (token.Token, bool, error) {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok, true, nil
	}
	if lx.err != nil {
		return token.Token{}, false, lx.err
	}

	if lx.opts.Grammar == GrammarAlias {
		lx.skipSpace()
	}

	ch, ok := lx.stream.Peek()
	if !ok {
		return token.Token{}, false, nil
	}

	switch {
	case isDec(ch):
		return lx.scanNumber(), true, nil
	case lx.opts.Grammar == GrammarAlias && isIdentStart(ch):
		return lx.scanIdent(), true, nil
	case lx.opts.Grammar == GrammarAlias && ch == '=':
		return lx.scanAssign(), true, nil
	default:
		lx.err = newLexError(lx.stream.Position(), ch)
		return token.Token{}, false, lx.err
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() (token.Token, bool, error) {
	tok, ok, err := lx.Next()
	if ok {
		lx.look = &tok
	}
	return tok, ok, err
}

// Position returns the stream cursor (after any peeked token).
func (lx *Lexer) Position() source.Offset {
	return lx.stream.Position()
}
