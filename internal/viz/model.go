package viz

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/rykrr/pyfire/internal/flame"
	"github.com/rykrr/pyfire/internal/metrics"
	"github.com/rykrr/pyfire/internal/pipeline"
)

const (
	statusRows      = 1
	graphRows       = 4
	historyCapacity = 120
	defaultWidth    = 80
	defaultHeight   = 24
)

// Window is the area left for the fire.
type Window struct {
	mu            sync.Mutex
	width, height int
	sig           pipeline.Signaler
}

func NewWindow(sig pipeline.Signaler) *Window {
	return &Window{width: defaultWidth, height: defaultHeight - statusRows, sig: sig}
}

func (w *Window) Size() (int, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height, nil
}

// set records the fire area and signals when it changed.
func (w *Window) set(width, height int) {
	if height < 1 {
		height = 1
	}
	w.mu.Lock()
	changed := width != w.width || height != w.height
	w.width, w.height = width, height
	w.mu.Unlock()
	if changed {
		w.sig.Signal()
	}
}

type FrameMsg struct{ Frame flame.Frame }

type Model struct {
	win       *Window
	stats     func() pipeline.Stats
	frame     flame.Frame
	frames    uint64
	lit       *metrics.Series
	cells     cellStyles
	theme     Theme
	st        styles
	showGraph bool
	width     int
	height    int
}

// NewModel shows frames in win. stats may be nil.
func NewModel(win *Window, stats func() pipeline.Stats, theme string) Model {
	t := GetTheme(theme)
	return Model{
		win:   win,
		stats: stats,
		lit:   metrics.NewSeries("lit", nil, historyCapacity),
		cells: cellStyles{},
		theme: t,
		st:    newStyles(t),
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "t":
			m.theme = NextTheme(m.theme)
			m.st = newStyles(m.theme)
		case "g":
			m.showGraph = !m.showGraph
			m.resize()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case FrameMsg:
		m.frame = msg.Frame
		m.frames++
		m.lit.Push(metrics.Lit(msg.Frame))
	}
	return m, nil
}

func (m Model) chrome() int {
	if m.showGraph {
		return statusRows + graphRows
	}
	return statusRows
}

func (m Model) resize() {
	if m.width == 0 {
		return
	}
	m.win.set(m.width, m.height-m.chrome())
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(renderFrame(m.frame, m.cells))
	b.WriteByte('\n')
	if m.showGraph {
		b.WriteString(m.graph())
		b.WriteByte('\n')
	}
	b.WriteString(m.status())
	return b.String()
}

// graph is exactly graphRows lines tall.
func (m Model) graph() string {
	lines := make([]string, 0, graphRows)
	if m.lit.Len() > 1 {
		plot := asciigraph.Plot(m.lit.Values(),
			asciigraph.Height(graphRows-1),
			asciigraph.Width(max(m.width-10, 10)),
			asciigraph.Precision(2))
		lines = strings.Split(plot, "\n")
	}
	if len(lines) > graphRows {
		lines = lines[len(lines)-graphRows:]
	}
	for len(lines) < graphRows {
		lines = append(lines, "")
	}
	return m.st.graph.Render(strings.Join(lines, "\n"))
}

func (m Model) status() string {
	var s pipeline.Stats
	if m.stats != nil {
		s = m.stats()
	}

	state := m.st.running.Render(s.State.String())
	switch s.State {
	case pipeline.Replaying:
		state = m.st.replay.Render(fmt.Sprintf("%s %d", s.State, s.CycleLen))
	case pipeline.Draining:
		state = m.st.drain.Render(s.State.String())
	}

	fields := []string{
		state,
		m.st.label.Render("size ") + m.st.value.Render(fmt.Sprintf("%dx%d", s.Width, s.Height)),
		m.st.label.Render("steps ") + m.st.value.Render(fmt.Sprint(s.Steps)),
		m.st.label.Render("shown ") + m.st.value.Render(fmt.Sprint(m.frames)),
		m.st.label.Render("lit ") + m.st.value.Render(fmt.Sprintf("%.0f%%", 100*m.lit.Value())),
		m.st.hint.Render("q quit  t theme  g graph"),
	}
	return strings.Join(fields, "  ")
}
