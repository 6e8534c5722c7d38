// Package replay is a terminal viewer for match archives.
package replay

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/store"
)

const DefaultInterval = 300 * time.Millisecond

type Model struct {
	rows     []store.TurnRow
	idx      int
	playing  bool
	interval time.Duration

	// gen invalidates ticks scheduled before the last pause.
	gen int
}

func New(rows []store.TurnRow) Model {
	return Model{rows: rows, interval: DefaultInterval}
}

// WithInterval sets the autoplay delay.
func (m Model) WithInterval(d time.Duration) Model {
	if d > 0 {
		m.interval = d
	}
	return m
}

// Index returns the position of the displayed turn.
func (m Model) Index() int    { return m.idx }
func (m Model) Playing() bool { return m.playing }

type playMsg struct{ gen int }

func (m Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return playMsg{gen: gen} })
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.step(1)
		case "left", "h":
			m.step(-1)
		case "home", "g":
			m.idx = 0
		case "end", "G":
			m.idx = max(len(m.rows)-1, 0)
		case " ":
			m.playing = !m.playing
			m.gen++
			if m.playing {
				return m, m.tick()
			}
		}
	case playMsg:
		if !m.playing || msg.gen != m.gen {
			return m, nil
		}
		if m.idx >= len(m.rows)-1 {
			m.playing = false
			return m, nil
		}
		m.step(1)
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step(d int) {
	m.idx = min(max(m.idx+d, 0), max(len(m.rows)-1, 0))
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "archive is empty\n\nPress q to quit.\n"
	}
	state := "paused"
	if m.playing {
		state = "playing"
	}
	s := Render(m.rows[m.idx])
	s += fmt.Sprintf("\nturn %d/%d  %s\n", m.idx+1, len(m.rows), state)
	s += "←/→ step  space play  g/G first/last  q quit\n"
	return s
}
