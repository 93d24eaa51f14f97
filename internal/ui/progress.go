package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"aliasc/internal/driver"
)

// Event — объединённое событие прогресса: смена статуса файла или начало фазы.
type Event struct {
	Path   string
	Status driver.ProgressStatus
	// Phase is set for phase-start events; Status is ProgressWorking then.
	Phase string
}

// Observers returns driver callbacks forwarding into events.
// The caller closes events after the directory run returns.
func Observers(events chan<- Event) (driver.PhaseObserver, driver.ProgressObserver) {
	onPhase := func(ev driver.PhaseEvent) {
		if ev.Status != driver.PhaseStart {
			return
		}
		events <- Event{Path: ev.Path, Status: driver.ProgressWorking, Phase: ev.Name}
	}
	onProgress := func(ev driver.ProgressEvent) {
		events <- Event{Path: ev.Path, Status: ev.Status}
	}
	return onPhase, onProgress
}

type progressModel struct {
	title   string
	events  <-chan Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status driver.ProgressStatus
	phase  string
}

type eventMsg Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file build progress.
func NewProgressModel(title string, files []string, events <-chan Event) tea.Model {
	return newProgressModel(title, files, events)
}

func newProgressModel(title string, files []string, events <-chan Event) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: driver.ProgressQueued})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished(), len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)

	for _, item := range m.items {
		label := item.label()
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", label))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(item.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	// финальный статус не откатывается поздними событиями фаз
	if item.status.Final() {
		return nil
	}
	item.status = ev.Status
	if ev.Phase != "" {
		item.phase = ev.Phase
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		if item.status.Final() {
			total += 1.0
			continue
		}
		total += progressFromPhase(item.phase)
	}
	return total / float64(len(m.items))
}

func (m *progressModel) finished() int {
	n := 0
	for _, item := range m.items {
		if item.status.Final() {
			n++
		}
	}
	return n
}

func (it fileItem) label() string {
	if it.status == driver.ProgressWorking {
		if l := phaseLabel(it.phase); l != "" {
			return l
		}
	}
	return it.status.String()
}

func progressFromPhase(phase string) float64 {
	switch phase {
	case "lex":
		return 0.2
	case "parse":
		return 0.5
	case "codegen":
		return 0.8
	default:
		return 0.0
	}
}

func phaseLabel(phase string) string {
	switch phase {
	case "lex":
		return "lexing"
	case "parse":
		return "parsing"
	case "codegen":
		return "generating"
	default:
		return ""
	}
}

func styleStatus(status driver.ProgressStatus) lipgloss.Style {
	switch status {
	case driver.ProgressDone, driver.ProgressCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.ProgressFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.ProgressWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
