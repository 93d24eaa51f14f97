package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1 // span start
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd // span end
	// KindPoint represents an instant event.
	KindPoint // instant event
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope — уровень вложенности события: каталог, файл, фаза, узел, токен.
// Меньшее значение означает более крупное событие.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // directory run
	ScopeModule                  // one source file
	ScopePass                    // lex, parse or codegen of a file
	ScopeNode                    // declaration or emitted global
	ScopeToken                   // single token
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeModule:
		return "module"
	case ScopePass:
		return "pass"
	case ScopeNode:
		return "node"
	case ScopeToken:
		return "token"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID (for concurrent spans)
	Name     string            // e.g., "lex", "parse", "file"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}

// Failed reports whether ev closes a span that ended with an error:
// detail "failed" or an "error" extra.
func (ev *Event) Failed() bool {
	if ev == nil || ev.Kind != KindSpanEnd {
		return false
	}
	return ev.Detail == "failed" || ev.Extra["error"] != ""
}
