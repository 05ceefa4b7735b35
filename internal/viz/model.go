package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynseq/internal/seq"
)

const (
	defaultWidth   = 64
	cellWidth      = 6
	historyLimit   = 120
	graphHeight    = 6
	reserveGlyph   = "  ·  "
	cursorEndGlyph = "  ▏  "
)

// Model is the bubbletea model for the buffer viewer.
type Model struct {
	vec     *seq.Vector[int]
	cursor  int
	next    int
	width   int
	theme   int
	status  string
	lastErr error
	history []float64
}

// NewModel wraps v. Values added from the viewer count up from Len()+1.
func NewModel(v *seq.Vector[int], width int) Model {
	if width <= 0 {
		width = defaultWidth
	}
	return Model{
		vec:     v,
		next:    v.Len() + 1,
		width:   width,
		status:  "ready",
		history: []float64{float64(v.Cap())},
	}
}

// Run starts the viewer and blocks until the user quits.
func Run(v *seq.Vector[int], width int) error {
	p := tea.NewProgram(NewModel(v, width))
	_, err := p.Run()
	return err
}

func (m Model) Vector() *seq.Vector[int] { return m.vec }
func (m Model) Cursor() int              { return m.cursor }
func (m Model) Err() error               { return m.lastErr }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var err error
	op := ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "right", "l":
		if m.cursor < m.vec.Len() {
			m.cursor++
		}
		return m, nil
	case "t":
		m.theme = (m.theme + 1) % len(AllThemes)
		m.status = "theme " + AllThemes[m.theme].Name
		return m, nil
	case "a":
		op = fmt.Sprintf("append %d", m.next)
		if err = m.vec.Append(m.next); err == nil {
			m.next++
		}
	case "i":
		op = fmt.Sprintf("insert %d at %d", m.next, m.cursor)
		if err = m.vec.InsertAt(m.cursor, m.next); err == nil {
			m.next++
		}
	case "x", "delete":
		op = fmt.Sprintf("remove at %d", m.cursor)
		err = m.vec.RemoveAt(m.cursor)
	case "p":
		var x int
		op = "pop"
		if x, err = m.vec.Pop(); err == nil {
			op = fmt.Sprintf("pop %d", x)
		}
	case "r":
		n := max(2*m.vec.Cap(), 1)
		op = fmt.Sprintf("reserve %d", n)
		err = m.vec.Reserve(n)
	case "s":
		op = "shrink"
		err = m.vec.ShrinkToFit()
	case "c":
		op = "clear"
		m.vec.Clear()
	default:
		return m, nil
	}

	m.lastErr = err
	if err != nil {
		m.status = op + ": " + err.Error()
	} else {
		m.status = op
	}
	m.cursor = min(m.cursor, m.vec.Len())
	m.history = append(m.history, float64(m.vec.Cap()))
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
	return m, nil
}

func (m Model) View() string {
	st := AllThemes[m.theme].styles()
	var b strings.Builder

	b.WriteString(st.title.Render("dynseq · buffer viewer"))
	b.WriteString("\n")

	stats := m.vec.Stats()
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s   %s %s\n\n",
		st.label.Render("size"), st.value.Render(fmt.Sprint(m.vec.Len())),
		st.label.Render("capacity"), st.value.Render(fmt.Sprint(m.vec.Cap())),
		st.label.Render("reallocs"), st.value.Render(fmt.Sprint(stats.Reallocations)),
		st.label.Render("moved"), st.value.Render(fmt.Sprint(stats.Transferred)),
	)

	b.WriteString(m.renderSlots(st))
	b.WriteString("\n\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(max(m.width-12, 10)),
			asciigraph.Caption("capacity"),
		)
		b.WriteString(st.label.Render(graph))
		b.WriteString("\n\n")
	}

	if m.lastErr != nil {
		b.WriteString(st.err.Render(m.status))
	} else {
		b.WriteString(st.value.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(st.help.Render("a append · i insert · x remove · p pop · r reserve · s shrink · c clear · ←/→ cursor · t theme · q quit"))
	return b.String()
}

// renderSlots draws one cell per buffer slot, wrapping at the view width.
func (m Model) renderSlots(st styles) string {
	perLine := max(m.width/cellWidth, 1)
	n := m.vec.Cap()
	if n == 0 {
		return st.cursor.Render(cursorEndGlyph) + st.label.Render(" (no buffer)")
	}
	if m.cursor == n {
		// cursor parked past a full buffer
		n++
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 && i%perLine == 0 {
			b.WriteString("\n")
		}
		var cell string
		switch {
		case i == m.cursor && i >= m.vec.Len():
			cell = st.cursor.Render(cursorEndGlyph)
		case i < m.vec.Len():
			x, _ := m.vec.At(i)
			text := fmt.Sprintf("[%3d]", x)
			if i == m.cursor {
				cell = st.cursor.Render(text)
			} else {
				cell = st.live.Render(text)
			}
		default:
			cell = st.reserve.Render(reserveGlyph)
		}
		b.WriteString(cell)
		b.WriteString(" ")
	}
	return b.String()
}
