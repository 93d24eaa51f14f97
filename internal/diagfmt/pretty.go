package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"aliasc/internal/diag"
	"aliasc/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Range, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
		return
	}

	line := d.Primary.Start.Line
	col := f.DisplayColumn(d.Primary.Start)
	fmt.Fprintf(w, "%s: %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), line+1, col+1),
		pal.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID()),
		d.Message,
	)

	writeSnippet(w, f, d.Primary, opts, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
		}
	}
}

// writeSnippet печатает строку источника (с контекстом) и подчёркивание.
func writeSnippet(w io.Writer, f *source.File, rng source.Range, opts PrettyOpts, pal palette) {
	line := rng.Start.Line
	first := line
	if ctx := uint32(max(opts.Context, 0)); ctx > 0 {
		if first >= ctx {
			first -= ctx
		} else {
			first = 0
		}
	}

	gutterWidth := len(strconv.FormatUint(uint64(line+1), 10))
	for n := first; n <= line; n++ {
		text := f.GetLine(n)
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n+1), text)
	}

	text := f.GetLine(line)
	startCol := f.DisplayColumn(rng.Start)
	endCol := startCol
	if rng.End.Line == line {
		endCol = f.DisplayColumn(rng.End)
	} else {
		endCol = uint32(utf8.RuneCountInString(text))
	}
	pad, width := caretLayout(text, startCol, endCol)
	underline := "^" + strings.Repeat("~", max(width-1, 0))
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), pad, pal.caret.Sprint(underline))
}

// caretLayout считает отступ и ширину подчёркивания в колонках терминала.
// Табы сохраняются в отступе, чтобы выравнивание совпало со строкой.
func caretLayout(text string, startCol, endCol uint32) (string, int) {
	var pad strings.Builder
	width := 0
	var i uint32
	for _, r := range text {
		switch {
		case i < startCol:
			if r == '\t' {
				pad.WriteByte('\t')
			} else {
				pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
			}
		case i < endCol:
			width += max(runewidth.RuneWidth(r), 1)
		}
		i++
	}
	if startCol > i {
		pad.WriteString(strings.Repeat(" ", int(startCol-i)))
	}
	return pad.String(), max(width, 1)
}
