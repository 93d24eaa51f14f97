package testkit

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"aliasc/internal/ast"
	"aliasc/internal/source"
	"aliasc/internal/token"
)

// CheckTokenInvariants runs a minimal set of invariants on a token stream of src:
// 1) every range is non-empty and its width in characters equals len(Value)
// 2) tokens are strictly ordered and do not overlap
// 3) no range ends beyond the source text
// 4) Int values are non-empty and digit-only
func CheckTokenInvariants(tokens []token.Token, src string) error {
	limit, err := safecast.Conv[uint32](utf8.RuneCountInString(src))
	if err != nil {
		return fmt.Errorf("source length overflow: %w", err)
	}

	var prevEnd uint32
	for i, tok := range tokens {
		rng := tok.Range
		if !rng.Valid() || rng.Empty() {
			return fmt.Errorf("token %d (%s): empty or inverted range %v", i, tok.Kind, rng)
		}
		width, err := safecast.Conv[uint32](utf8.RuneCountInString(tok.Value))
		if err != nil {
			return fmt.Errorf("token %d: value length overflow: %w", i, err)
		}
		if rng.Len() != width {
			return fmt.Errorf("token %d (%s): range %v does not match value %q", i, tok.Kind, rng, tok.Value)
		}
		if i > 0 && rng.Start.Offset < prevEnd {
			return fmt.Errorf("token %d (%s): starts at %d before previous end %d", i, tok.Kind, rng.Start.Offset, prevEnd)
		}
		if rng.End.Offset > limit {
			return fmt.Errorf("token %d (%s): ends at %d beyond source length %d", i, tok.Kind, rng.End.Offset, limit)
		}
		if tok.Kind == token.Int && !isDigits(tok.Value) {
			return fmt.Errorf("token %d: Int value %q is not digit-only", i, tok.Value)
		}
		prevEnd = rng.End.Offset
	}
	return nil
}

// CheckModuleInvariants checks declaration ranges of a parsed module:
// 1) each declaration covers its name and value
// 2) declarations follow source order
// 3) module range covers every declaration
func CheckModuleInvariants(b *ast.Builder, m *ast.Module) error {
	if b == nil || m == nil {
		return fmt.Errorf("nil builder or module")
	}
	var prev source.Range
	for i, d := range m.Decls {
		value := b.Exprs.Get(d.Value)
		if value == nil {
			return fmt.Errorf("decl %d: dangling expression id %d", i, d.Value)
		}
		if !d.Range.Contains(value.Range) {
			return fmt.Errorf("decl %d: range %v does not cover value %v", i, d.Range, value.Range)
		}
		if d.IsAlias() && !d.Range.Contains(d.NameRange) {
			return fmt.Errorf("decl %d: range %v does not cover name %v", i, d.Range, d.NameRange)
		}
		if i > 0 && d.Range.Start.Before(prev.End) {
			return fmt.Errorf("decl %d: range %v overlaps previous %v", i, d.Range, prev)
		}
		if !m.Range.Contains(d.Range) {
			return fmt.Errorf("module range %v does not cover decl %d %v", m.Range, i, d.Range)
		}
		prev = d.Range
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
