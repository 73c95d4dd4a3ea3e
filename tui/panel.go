// Package tui is the reference presentation collaborator for the
// message store: it mirrors the store by applying ops from a
// subscription and styles every feed line with the grouping projector.
// The core packages know nothing about it.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/chatfeed/store"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// FeedOpMsg carries one store op into the feed panel's mirror.
type FeedOpMsg struct{ Op store.Op }

// FeedClosedMsg signals that the store's op stream has ended.
type FeedClosedMsg struct{}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// InputSubmitMsg is emitted when the user presses Enter in the input panel.
type InputSubmitMsg struct{ Text string }
