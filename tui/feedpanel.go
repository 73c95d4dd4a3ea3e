package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/chatfeed/grouping"
	"github.com/linanwx/chatfeed/message"
	"github.com/linanwx/chatfeed/store"
)

var (
	dateSepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	systemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	// authorPalette colors author headers; an author's color is stable
	// across the session.
	authorPalette = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
)

// FeedPanel renders the chat feed. It keeps its own newest-first mirror
// of the store's sequence, updated exclusively through ops, and derives
// cluster styling per line from the grouping projector.
type FeedPanel struct {
	viewport viewport.Model
	msgs     []message.Message
	closed   bool
}

// NewFeedPanel creates an empty feed panel.
func NewFeedPanel() *FeedPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &FeedPanel{viewport: vp}
}

func (p *FeedPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case FeedOpMsg:
		p.msgs = applyOp(p.msgs, msg.Op)
		p.refresh()
		return p, nil
	case FeedClosedMsg:
		p.closed = true
		p.refresh()
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *FeedPanel) View() string {
	return p.viewport.View()
}

func (p *FeedPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	p.refresh()
}

func (p *FeedPanel) refresh() {
	p.viewport.SetContent(strings.Join(renderFeed(p.msgs, p.closed), "\n"))
	p.viewport.GotoBottom()
}

// applyOp advances a newest-first mirror by one store op. This is the
// consumer half of the store's change protocol: the Index fields are
// positions in the mirror at the moment the op was emitted.
func applyOp(msgs []message.Message, op store.Op) []message.Message {
	switch op := op.(type) {
	case store.InsertOp:
		msgs = append(msgs, nil)
		copy(msgs[op.Index+1:], msgs[op.Index:])
		msgs[op.Index] = op.Message
	case store.RemoveOp:
		msgs = append(msgs[:op.Index], msgs[op.Index+1:]...)
	case store.UpdateOp:
		msgs[op.Index] = op.New
	case store.SetOp:
		msgs = append([]message.Message(nil), op.Messages...)
	}
	return msgs
}

// renderFeed lays the newest-first mirror out oldest-to-newest, with a
// date separator above each day boundary and an author header above the
// chronological start of each cluster.
func renderFeed(msgs []message.Message, closed bool) []string {
	var lines []string
	seq := grouping.Slice(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		proj := grouping.Project(seq, i)

		if proj.ShowDateSeparator {
			lines = append(lines, dateSepStyle.Render("── "+m.CreatedAt().Format("Mon, 02 Jan 2006")+" ──"))
		}
		// Last is the cluster's oldest entry, i.e. the one rendered at
		// the top of its cluster here.
		if _, ok := m.(message.SystemMessage); !ok {
			if proj.Position == grouping.Last || proj.Position == grouping.Single {
				lines = append(lines, authorStyle(m.AuthorID()).Render(m.AuthorID()))
			}
		}
		lines = append(lines, renderLine(m))
	}
	if closed {
		lines = append(lines, dateSepStyle.Render("── feed closed ──"))
	}
	return lines
}

func renderLine(m message.Message) string {
	stamp := timeStyle.Render(m.CreatedAt().Format("15:04"))

	var body string
	switch v := m.(type) {
	case message.TextMessage:
		body = v.Text
	case message.ImageMessage:
		body = fmt.Sprintf("[image] %s", v.Name)
	case message.FileMessage:
		body = fmt.Sprintf("[file] %s (%d bytes)", v.Name, v.Size)
	case message.SystemMessage:
		return "  " + systemStyle.Render(v.Text)
	case message.CustomMessage:
		body = fmt.Sprintf("[custom] %d fields", len(v.Payload))
	}

	line := "  " + body + " " + stamp
	switch m.Status() {
	case message.StatusSending:
		line += " " + pendingStyle.Render("…")
	case message.StatusError:
		line += " " + failedStyle.Render("failed")
	}
	return line
}

func authorStyle(authorID string) lipgloss.Style {
	var h uint32
	for _, r := range authorID {
		h = h*31 + uint32(r)
	}
	return authorPalette[int(h)%len(authorPalette)]
}
