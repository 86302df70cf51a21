package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/render"
)

const cellWidth = 5

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	numberStyle = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ac443a")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	cellStyle   = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
)

// View draws the board as a grid of strings by frets.
func (m Model) View() string {
	s := m.session()
	cfg := s.Config()
	b := s.Board()

	var out strings.Builder
	out.WriteString(titleStyle.Render(cfg.Title))
	out.WriteByte('\n')

	out.WriteString(m.fretNumbers(cfg))
	out.WriteByte('\n')
	for str := range b.Intervals {
		out.WriteString(m.stringRow(str))
		out.WriteByte('\n')
	}
	out.WriteByte('\n')

	switch {
	case m.editing:
		out.WriteString(m.textInput.View())
	case m.currentError != nil:
		out.WriteString(errorStyle.Render(errorText(m.currentError)))
	default:
		out.WriteString(statusStyle.Render(m.status))
	}
	out.WriteString("\n\n")
	out.WriteString(m.help.View(keys))
	return out.String()
}

func (m Model) fretNumbers(cfg *instrument.Config) string {
	b := m.session().Board()
	cells := make([]string, 0, b.EndFret-b.StartFret+1)
	if b.ShowOpen {
		cells = append(cells, cellStyle.Render(""), " ")
	}
	for f := b.StartFret; f < b.EndFret; f++ {
		label := ""
		if n := f + 1; cfg.IsMarker(n) || f == b.StartFret {
			label = strconv.Itoa(n + cfg.MarkerOffset)
		}
		cells = append(cells, numberStyle.Inherit(cellStyle).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) stringRow(str int) string {
	b := m.session().Board()
	cells := make([]string, 0, b.EndFret-b.StartFret+2)
	if b.ShowOpen {
		cells = append(cells, m.cell(annotation.Open(str)), "‖")
	}
	for f := b.StartFret; f < b.EndFret; f++ {
		cells = append(cells, m.cell(annotation.Position{Fret: f, String: str}))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) cell(pos annotation.Position) string {
	s := m.session()
	a := s.Store().Resolve(pos, s.State().Visibility)

	var text string
	style := cellStyle
	switch a.Visibility {
	case annotation.Hidden:
		text = "──"
		style = style.Faint(true)
	case annotation.Transparent:
		text = s.Label(pos)
		style = style.Faint(true)
	default:
		text = shapeMark(a.Shape, s.Label(pos))
		style = style.
			Background(lipgloss.Color(a.Color)).
			Foreground(lipgloss.Color(render.ContrastColor(a.Color)))
		if a.Visibility == annotation.Highlight || a.Visibility == annotation.Selected {
			style = style.Bold(true).Underline(true)
		}
	}
	if pos == m.cursor {
		style = style.Inherit(cursorStyle)
	}
	return style.Render(truncate(text, cellWidth))
}

func shapeMark(shape annotation.Shape, label string) string {
	switch shape {
	case annotation.Diamond:
		return "◇" + label
	case annotation.Triangle:
		return "△" + label
	case annotation.Square:
		return "□" + label
	}
	return label
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
