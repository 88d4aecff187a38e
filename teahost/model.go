// Package teahost runs a canvasform.Form inside a bubbletea program.
package teahost

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kungfusheep/canvasform"
)

// Model adapts a form drawn on a BufferSurface to the bubbletea
// Model interface. The form occupies the rows between a title line and a
// status line.
type Model struct {
	form    *canvasform.Form
	surface *canvasform.BufferSurface
	origin  canvasform.Point

	title  string
	status string

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
}

// headerRows is the number of rows drawn above the form.
const headerRows = 1

// New creates a model for form, which must draw on surface.
func New(form *canvasform.Form, surface *canvasform.BufferSurface, origin canvasform.Point) *Model {
	return &Model{
		form:        form,
		surface:     surface,
		origin:      origin,
		title:       "canvasform",
		titleStyle:  lipgloss.NewStyle().Bold(true),
		statusStyle: lipgloss.NewStyle().Faint(true),
	}
}

// Title sets the line shown above the form.
func (m *Model) Title(t string) *Model {
	m.title = t
	return m
}

// SetStatus sets the line shown below the form.
func (m *Model) SetStatus(s string) {
	m.status = s
}

// Status returns the line shown below the form.
func (m *Model) Status() string {
	return m.status
}

func (m *Model) Init() tea.Cmd {
	m.form.LayoutAndRender(m.origin.X, m.origin.Y)
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.surface.Buffer().Resize(msg.Width, max(msg.Height-headerRows-1, 0))
		m.form.LayoutAndRender(m.origin.X, m.origin.Y)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.form.HandlePointer(msg.X, msg.Y-headerRows)
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
		if msg.Type == tea.KeyRunes && msg.Paste {
			for _, r := range msg.Runes {
				if k, shifted, ok := canvasform.KeyForRune(r); ok {
					m.form.HandleKeyboard(k, shifted)
				}
			}
			return m, nil
		}
		if k, shifted, ok := KeyFromMsg(msg); ok {
			m.form.HandleKeyboard(k, shifted)
		}
	}
	return m, nil
}

func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleStyle.Render(m.title),
		renderBuffer(m.surface.Buffer()),
		m.statusStyle.Render(m.status),
	)
}

// KeyFromMsg maps a bubbletea key message to the physical key and shift
// state a form expects.
func KeyFromMsg(msg tea.KeyMsg) (canvasform.Key, bool, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || msg.Alt {
			return canvasform.KeyNone, false, false
		}
		return canvasform.KeyForRune(msg.Runes[0])
	case tea.KeySpace:
		return canvasform.KeySpace, false, true
	case tea.KeyTab:
		return canvasform.KeyTab, false, true
	case tea.KeyShiftTab:
		return canvasform.KeyTab, true, true
	case tea.KeyBackspace:
		return canvasform.KeyBackspace, false, true
	case tea.KeyDelete:
		return canvasform.KeyDelete, false, true
	case tea.KeyEnter:
		return canvasform.KeyEnter, false, true
	case tea.KeyLeft:
		return canvasform.KeyLeft, false, true
	case tea.KeyRight:
		return canvasform.KeyRight, false, true
	case tea.KeyShiftLeft:
		return canvasform.KeyLeft, true, true
	case tea.KeyShiftRight:
		return canvasform.KeyRight, true, true
	case tea.KeyUp:
		return canvasform.KeyUp, false, true
	case tea.KeyDown:
		return canvasform.KeyDown, false, true
	case tea.KeyHome:
		return canvasform.KeyHome, false, true
	case tea.KeyEnd:
		return canvasform.KeyEnd, false, true
	}
	return canvasform.KeyNone, false, false
}

// renderBuffer turns the cell buffer into lines, styling runs of cells
// that share a non-default style.
func renderBuffer(buf *canvasform.Buffer) string {
	w, h := buf.Size()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var line, run strings.Builder
		runStyle := canvasform.DefaultStyle()
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle == canvasform.DefaultStyle() {
				line.WriteString(run.String())
			} else {
				line.WriteString(cellStyle(runStyle).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < w; x++ {
			c := buf.Get(x, y)
			if c.Rune == 0 {
				continue
			}
			if c.Style != runStyle {
				flush()
				runStyle = c.Style
			}
			run.WriteRune(c.Rune)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func cellStyle(s canvasform.Style) lipgloss.Style {
	st := lipgloss.NewStyle().
		Bold(s.Attr.Has(canvasform.AttrBold)).
		Faint(s.Attr.Has(canvasform.AttrDim)).
		Underline(s.Attr.Has(canvasform.AttrUnderline)).
		Reverse(s.Attr.Has(canvasform.AttrInverse))
	if s.FG.Mode == canvasform.Color16 {
		st = st.Foreground(lipgloss.Color(strconv.Itoa(int(s.FG.Index))))
	}
	if s.BG.Mode == canvasform.Color16 {
		st = st.Background(lipgloss.Color(strconv.Itoa(int(s.BG.Index))))
	}
	return st
}
