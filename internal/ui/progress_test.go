package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"aliasc/internal/driver"
)

func TestApplyEventUpdatesItems(t *testing.T) {
	m := newProgressModel("build", []string{"a.al", "b.al"}, nil)

	m.applyEvent(Event{Path: "a.al", Status: driver.ProgressWorking, Phase: "parse"})
	if got := m.items[0].label(); got != "parsing" {
		t.Fatalf("label = %q, want parsing", got)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.applyEvent(Event{Path: "a.al", Status: driver.ProgressDone})
	m.applyEvent(Event{Path: "b.al", Status: driver.ProgressCached})
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v, want 1", got)
	}
	if m.finished() != 2 {
		t.Fatalf("finished = %d", m.finished())
	}

	// поздняя фаза не откатывает финальный статус
	m.applyEvent(Event{Path: "a.al", Status: driver.ProgressWorking, Phase: "codegen"})
	if m.items[0].status != driver.ProgressDone {
		t.Fatalf("status = %v, want done", m.items[0].status)
	}
}

func TestApplyEventIgnoresUnknownFile(t *testing.T) {
	m := newProgressModel("build", []string{"a.al"}, nil)
	if cmd := m.applyEvent(Event{Path: "zzz.al", Status: driver.ProgressDone}); cmd != nil {
		t.Fatal("unknown file must not produce a command")
	}
	if m.items[0].status != driver.ProgressQueued {
		t.Fatal("unknown file changed state")
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newProgressModel("build", []string{"a.al", "b.al"}, nil)
	m.applyEvent(Event{Path: "b.al", Status: driver.ProgressFailed})
	view := m.View()
	for _, want := range []string{"build (1/2)", "a.al", "b.al", "queued", "failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDoneMsgQuits(t *testing.T) {
	m := newProgressModel("build", []string{"a.al"}, nil)
	_, cmd := m.Update(doneMsg{})
	if !m.done {
		t.Fatal("model not marked done")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !strings.HasPrefix(stripANSI(m.View()), "done: build") {
		t.Fatalf("unexpected header: %q", m.View())
	}
}

func TestListenForEventClosedChannel(t *testing.T) {
	events := make(chan Event)
	close(events)
	m := newProgressModel("build", []string{"a.al"}, events)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("closed channel must yield doneMsg")
	}
}

func TestObserversForward(t *testing.T) {
	events := make(chan Event, 4)
	onPhase, onProgress := Observers(events)
	onPhase(driver.PhaseEvent{Path: "a.al", Name: "lex", Status: driver.PhaseStart})
	onPhase(driver.PhaseEvent{Path: "a.al", Name: "lex", Status: driver.PhaseEnd})
	onProgress(driver.ProgressEvent{Path: "a.al", Status: driver.ProgressDone})
	close(events)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %+v", got)
	}
	if got[0].Phase != "lex" || got[0].Status != driver.ProgressWorking {
		t.Fatalf("phase event: %+v", got[0])
	}
	if got[1].Status != driver.ProgressDone {
		t.Fatalf("progress event: %+v", got[1])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.al", 20, "short.al"},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}

	got := truncate("very/long/path/file.al", 10)
	if !strings.HasSuffix(got, "...") || !strings.HasPrefix(got, "very") || len(got) > 10 {
		t.Fatalf("long path truncated to %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
