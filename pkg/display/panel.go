package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	DefaultColumns = 48
	DefaultRows    = 10

	ansiClear     = "\x1b[2J"
	ansiHome      = "\x1b[H"
	ansiClearLine = "\x1b[2K"
)

// Panel renders frames as text onto an io.Writer, typically a terminal.
// It is not safe for concurrent use.
//
// A full refresh repaints every row; a partial refresh rewrites only rows
// whose content changed since the previous frame.
type Panel struct {
	out  io.Writer
	ansi bool
	cols int
	rows int

	frame [][]rune
	shown []string
	stats Stats
}

// Stats counts finalized refreshes.
type Stats struct {
	Full    int
	Partial int
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithSize sets the panel dimensions in character cells.
func WithSize(cols, rows int) PanelOption {
	return func(p *Panel) {
		if cols > 0 {
			p.cols = cols
		}
		if rows > 0 {
			p.rows = rows
		}
	}
}

// WithANSI toggles terminal escape sequences. Without them every refresh is
// written as plain lines, which suits logs and tests.
func WithANSI(enabled bool) PanelOption {
	return func(p *Panel) {
		p.ansi = enabled
	}
}

// NewPanel constructs a Panel writing to out.
func NewPanel(out io.Writer, opts ...PanelOption) *Panel {
	p := &Panel{
		out:  out,
		ansi: true,
		cols: DefaultColumns,
		rows: DefaultRows,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.frame = make([][]rune, p.rows)
	for i := range p.frame {
		p.frame[i] = blankRow(p.cols)
	}
	p.shown = make([]string, p.rows)
	return p
}

// DrawFrame implements Display.
func (p *Panel) DrawFrame(render func(Surface), full bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("display: render panic: %v", r)
		}
		if ferr := p.finalize(full); ferr != nil && err == nil {
			err = ferr
		}
	}()

	render(surface{p})
	return nil
}

// Stats returns refresh counters.
func (p *Panel) Stats() Stats {
	return p.stats
}

// Lines returns the last flushed frame, right-trimmed.
func (p *Panel) Lines() []string {
	out := make([]string, len(p.shown))
	for i, line := range p.shown {
		out[i] = strings.TrimRight(line, " ")
	}
	return out
}

func (p *Panel) finalize(full bool) error {
	w := bufio.NewWriter(p.out)
	if full && p.ansi {
		w.WriteString(ansiClear + ansiHome)
	}
	for i, row := range p.frame {
		line := string(row)
		if !full && line == p.shown[i] {
			continue
		}
		if p.ansi {
			fmt.Fprintf(w, "\x1b[%d;1H%s", i+1, ansiClearLine)
			w.WriteString(strings.TrimRight(line, " "))
		} else {
			w.WriteString(strings.TrimRight(line, " "))
			w.WriteByte('\n')
		}
		p.shown[i] = line
	}
	if full {
		p.stats.Full++
	} else {
		p.stats.Partial++
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("display: flush: %w", err)
	}
	return nil
}

func blankRow(n int) []rune {
	row := make([]rune, n)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// surface is the Surface handed to render callbacks.
type surface struct{ p *Panel }

func (s surface) Width() int  { return s.p.cols }
func (s surface) Height() int { return s.p.rows }

func (s surface) Clear() {
	for i := range s.p.frame {
		s.p.frame[i] = blankRow(s.p.cols)
	}
}

func (s surface) Text(col, row int, text string) {
	if row < 0 || row >= s.p.rows {
		return
	}
	line := s.p.frame[row]
	for _, r := range text {
		if col >= s.p.cols {
			return
		}
		if col >= 0 {
			if r < ' ' || r == utf8.RuneError {
				r = '?'
			}
			line[col] = r
		}
		col++
	}
}

func (s surface) HLine(row int) {
	if row < 0 || row >= s.p.rows {
		return
	}
	for i := range s.p.frame[row] {
		s.p.frame[row][i] = '-'
	}
}
