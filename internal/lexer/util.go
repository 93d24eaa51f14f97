package lexer

// ===== Классификаторы =====

func isDec(r rune) bool { return r >= '0' && r <= '9' }

// ASCII-only идентификаторы: [A-Za-z_][A-Za-z0-9_]*
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || isDec(r)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
