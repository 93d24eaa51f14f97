package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"phase", LevelPhase, false},
		{"DEBUG", LevelDebug, false},
		{"loud", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeModule, true},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeNode, false},
		{LevelDetail, ScopeNode, true},
		{LevelDetail, ScopeToken, false},
		{LevelDebug, ScopeToken, true},
		{LevelDebug, Scope(0), false},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestAllowsFailedSpanAtAnyLevel(t *testing.T) {
	failed := &Event{Kind: KindSpanEnd, Scope: ScopeToken, Detail: "failed"}
	withError := &Event{Kind: KindSpanEnd, Scope: ScopeNode, Extra: map[string]string{"error": "boom"}}
	ok := &Event{Kind: KindSpanEnd, Scope: ScopeNode}
	for _, l := range []Level{LevelError, LevelPhase, LevelDetail} {
		if !l.Allows(failed) || !l.Allows(withError) {
			t.Errorf("%v must allow failed span ends", l)
		}
	}
	if LevelOff.Allows(failed) {
		t.Error("off level must not allow anything")
	}
	if LevelPhase.Allows(ok) {
		t.Error("phase level must not allow a successful node span")
	}
}

func TestLevelErrorKeepsOnlyFailures(t *testing.T) {
	ring := NewRingTracer(16, LevelError)

	file := Begin(ring, ScopeModule, "file", 0)
	Begin(ring, ScopePass, "lex", file.ID()).End("")
	Begin(ring, ScopePass, "codegen", file.ID()).WithExtra("error", "duplicate global @a").End("failed")
	Point(ring, ScopeNode, "global", "a", file.ID())
	file.End("failed")

	snap := ring.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 failed ends, got %+v", snap)
	}
	if snap[0].Name != "codegen" || snap[0].ParentID != file.ID() {
		t.Errorf("first event = %+v", snap[0])
	}
	if snap[1].Name != "file" || snap[1].Kind != KindSpanEnd {
		t.Errorf("second event = %+v", snap[1])
	}
}

func TestStartCarriesFileAttributes(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), ring)

	ctx, dir := Start(ctx, ScopeDriver, "dir")
	fileCtx, file := Start(WithFile(ctx, "src/a.al", "a"), ScopeModule, "file")
	if sc := CurrentSpan(fileCtx); sc.SpanID != file.ID() || sc.File != "src/a.al" {
		t.Fatalf("span context = %+v", sc)
	}
	file.WithExtra("diagnostics", "0").End("")
	dir.End("")

	snap := ring.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	begin, end := snap[1], snap[2]
	if begin.ParentID != dir.ID() {
		t.Errorf("file parent = %d, want %d", begin.ParentID, dir.ID())
	}
	for _, ev := range []Event{begin, end} {
		if ev.Extra["file"] != "src/a.al" || ev.Extra["module"] != "a" {
			t.Errorf("%s event extra = %v", ev.Kind, ev.Extra)
		}
	}
	if _, leaked := begin.Extra["diagnostics"]; leaked {
		t.Error("end-only extra leaked into the begin event")
	}
	if snap[0].Extra != nil {
		t.Errorf("dir span must carry no file attributes, got %v", snap[0].Extra)
	}
}

func TestStartWithoutTracer(t *testing.T) {
	ctx := context.Background()
	got, span := Start(ctx, ScopeDriver, "dir")
	if got != ctx || span.ID() != 0 {
		t.Fatal("disabled Start must keep the context and return an idle span")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)

	span := Begin(tr, ScopePass, "lex", 0)
	Point(tr, ScopeToken, "token", "Int 256", span.ID())
	span.WithExtra("tokens", "1").End("ok")

	out := buf.String()
	for _, want := range []string{"→ lex", "• token (Int 256)", "← lex (ok) {tokens=1}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)

	Begin(tr, ScopePass, "parse", 0).End("")
	Point(tr, ScopeNode, "filtered", "", 0) // ниже уровня phase

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d: %q", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "end" || ev["name"] != "parse" || ev["scope"] != "pass" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(tr, ScopeNode, name, "", 0)
	}
	snap := tr.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "• c") {
		t.Fatalf("dump missing last event: %q", buf.String())
	}
}

func TestSlogTracerFansOut(t *testing.T) {
	var text, js bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	tr := NewSlogTracer(LevelDebug,
		slog.NewTextHandler(&text, opts),
		slog.NewJSONHandler(&js, opts),
	)

	Begin(tr, ScopePass, "lex", 0).WithExtra("file", "main.al").End("done")

	for name, buf := range map[string]*bytes.Buffer{"text": &text, "json": &js} {
		out := buf.String()
		if !strings.Contains(out, "lex") || !strings.Contains(out, "main.al") {
			t.Errorf("%s handler output missing fields: %q", name, out)
		}
	}
}

func TestSlogTracerFailuresReachWarnSink(t *testing.T) {
	var all, warn bytes.Buffer
	tr := NewSlogTracer(LevelPhase,
		slog.NewJSONHandler(&all, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	Begin(tr, ScopePass, "lex", 0).End("")
	Begin(tr, ScopePass, "codegen", 0).WithExtra("error", "duplicate global @a").End("failed")

	if got := strings.Count(all.String(), "\n"); got != 4 {
		t.Errorf("JSON sink got %d records, want 4:\n%s", got, all.String())
	}
	out := warn.String()
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "level=WARN") || !strings.Contains(out, "msg=codegen") {
		t.Errorf("warn sink must hold only the failed span:\n%s", out)
	}
}

type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestNewLogModeClosesOutput(t *testing.T) {
	out := &closeRecorder{}
	var extra bytes.Buffer
	tr, err := New(Config{
		Level:    LevelPhase,
		Mode:     ModeLog,
		Format:   FormatNDJSON,
		Output:   out,
		Handlers: []slog.Handler{slog.NewTextHandler(&extra, nil)},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeModule, "file", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if out.closed != 1 {
		t.Errorf("output closed %d times, want 1", out.closed)
	}
	if !strings.Contains(out.String(), `"msg":"file"`) || !strings.Contains(extra.String(), "msg=file") {
		t.Errorf("records missing: primary %q, extra %q", out.String(), extra.String())
	}
}

type failingTracer struct {
	nopTracer
	err error
}

func (f failingTracer) Close() error { return f.err }

func TestMultiTracerJoinsCloseErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	ring := NewRingTracer(4, LevelPhase)
	m := NewMultiTracer(LevelPhase, failingTracer{err: errA}, ring, failingTracer{err: errB})
	err := m.Close()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("Close() = %v, want both errors", err)
	}
}

func TestFindRing(t *testing.T) {
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ring := FindRing(tr)
	if ring == nil {
		t.Fatal("both mode must expose its ring")
	}
	Begin(tr, ScopeDriver, "dir", 0).End("")
	if len(ring.Snapshot()) != 2 {
		t.Errorf("ring holds %d events, want 2", len(ring.Snapshot()))
	}

	stream := NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText)
	if FindRing(stream) != nil || FindRing(Nop) != nil {
		t.Error("tracers without a ring must yield nil")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatal("off tracer must be disabled")
	}
	span := Begin(tr, ScopeDriver, "x", 0)
	if d := span.End(""); d != 0 {
		t.Fatalf("nop span must report zero duration, got %v", d)
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []StorageMode{ModeStream, ModeRing, ModeBoth, ModeLog} {
		var buf bytes.Buffer
		tr, err := New(Config{Level: LevelPhase, Mode: mode, Output: &buf})
		if err != nil {
			t.Fatalf("New(%v): %v", mode, err)
		}
		if !tr.Enabled() {
			t.Fatalf("tracer for mode %v must be enabled", mode)
		}
	}
	if _, err := New(Config{Level: LevelPhase, Mode: StorageMode(42)}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context must yield Nop")
	}
	tr := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer not propagated through context")
	}
}
