package trace

import (
	"bytes"
	"context"
	"maps"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seq   atomic.Uint64
	spans atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seq.Add(1) }

// NextSpanID returns a fresh span ID.
func NextSpanID() uint64 { return spans.Add(1) }

// goid читает номер горутины из заголовка стека "goroutine N [running]:".
func goid() uint64 {
	var buf [64]byte
	fields := bytes.Fields(buf[:runtime.Stack(buf[:], false)])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is an open trace interval. A nil or disabled Span is safe to use.
//
// When the level hides the span's scope but is LevelError, the span is
// still tracked without a begin event so that a failed End gets reported.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

// Begin starts a span of scope under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, parent, nil)
}

// Start begins a span under the tracer and span carried by ctx and returns
// ctx with the new span as parent. File attributes set with WithFile go on
// both of the span's events.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sc := CurrentSpan(ctx)
	s := begin(FromContext(ctx), scope, name, sc.SpanID, sc.attrs())
	if s.id == 0 {
		return ctx, s
	}
	sc.SpanID, sc.GID = s.id, s.gid
	return WithSpanContext(ctx, sc), s
}

func begin(t Tracer, scope Scope, name string, parent uint64, attrs map[string]string) *Span {
	if t == nil || !t.Enabled() {
		return &Span{tracer: Nop}
	}
	level := t.Level()
	visible := level.ShouldEmit(scope)
	if !visible && level != LevelError {
		return &Span{tracer: Nop}
	}

	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		gid:      goid(),
		scope:    scope,
		name:     name,
		started:  time.Now(),
		extra:    attrs,
	}
	if visible {
		t.Emit(s.event(KindSpanBegin, s.started, ""))
	}
	return s
}

// event снимает копию extra: конец спана ещё может её дополнить.
func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Extra:    maps.Clone(s.extra),
	}
}

// End emits the end event and returns the span duration.
// Detail "failed" marks the span as failed.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	if s.tracer.Level().Allows(ev) {
		s.tracer.Emit(ev)
	}
	return now.Sub(s.started)
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goid(),
		Name:     name,
		Detail:   detail,
	})
}
