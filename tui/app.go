package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultLogRatio = 0.25

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// App is the root bubbletea model that orchestrates panels and layout:
// a log panel on top, the message feed in the middle, the composer at
// the bottom.
type App struct {
	logPanel   Panel
	feedPanel  Panel
	inputPanel Panel

	width, height int
	logRatio      float64

	// InputCh receives submitted composer text.
	InputCh chan string
}

// NewApp creates the root TUI model with default panels.
func NewApp() *App {
	return &App{
		logPanel:   NewLogPanel(),
		feedPanel:  NewFeedPanel(),
		inputPanel: NewInputPanel("chatfeed> "),
		logRatio:   defaultLogRatio,
		InputCh:    make(chan string, 16),
	}
}

func (m *App) Init() tea.Cmd {
	return nil
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
		// All other keys go to the composer.
		p, cmd := m.inputPanel.Update(msg)
		m.inputPanel = p
		cmds = append(cmds, cmd)

	case InputSubmitMsg:
		// Hand the text to the feed owner (non-blocking); the line shows
		// up once the store echoes an InsertOp back.
		select {
		case m.InputCh <- msg.Text:
		default:
		}

	case FeedOpMsg, FeedClosedMsg:
		p, cmd := m.feedPanel.Update(msg)
		m.feedPanel = p
		cmds = append(cmds, cmd)

	case LogLineMsg:
		p, cmd := m.logPanel.Update(msg)
		m.logPanel = p
		cmds = append(cmds, cmd)

	default:
		// Broadcast unknown messages to the composer (e.g. blink cursor).
		p, cmd := m.inputPanel.Update(msg)
		m.inputPanel = p
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.logPanel.View(),
		sep,
		m.feedPanel.View(),
		sep,
		m.inputPanel.View(),
	)
}

func (m *App) recalcLayout() {
	const inputH = 1
	const sepLines = 2 // two separator lines

	usable := max(m.height-inputH-sepLines, 2)
	logH := max(int(float64(usable)*m.logRatio), 1)
	feedH := max(usable-logH, 1)

	m.logPanel.SetSize(m.width, logH)
	m.feedPanel.SetSize(m.width, feedH)
	m.inputPanel.SetSize(m.width, inputH)
}
