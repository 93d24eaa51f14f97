package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
//
// Each level above LevelError lets through every scope up to its limit:
//
//	phase   directory runs, files, lex/parse/codegen
//	detail  + declarations and emitted globals
//	debug   + every token
//
// A failed span end passes any level except LevelOff.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// String returns the string representation of Level.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a string to a Level; case is ignored.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(s)
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// maxScope — самый мелкий scope, который пропускает уровень; 0 — ни одного.
func (l Level) maxScope() Scope {
	switch l {
	case LevelPhase:
		return ScopePass
	case LevelDetail:
		return ScopeNode
	case LevelDebug:
		return ScopeToken
	}
	return 0
}

// ShouldEmit reports whether begin and point events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return scope != 0 && scope <= l.maxScope()
}

// Allows decides for a concrete event; failed span ends always pass.
func (l Level) Allows(ev *Event) bool {
	if l == LevelOff || ev == nil {
		return false
	}
	return ev.Failed() || l.ShouldEmit(ev.Scope)
}
