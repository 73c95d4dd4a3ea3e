package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/linanwx/chatfeed/config"
	"github.com/linanwx/chatfeed/logger"
	"github.com/linanwx/chatfeed/message"
	"github.com/linanwx/chatfeed/store"
	"github.com/linanwx/chatfeed/tui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive chat feed in the terminal",
	Long: `Run a live chat feed. Simulated peers post messages on a timer and
your own lines go through the same store, so every rendered change —
cluster positions, date separators, status ticks — is driven purely by
the store's operation stream.

Examples:
  chatfeed demo
  chatfeed demo --config-dir ./dev`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st := store.New(seedHistory(cfg.Feed)...)
	defer st.Dispose()

	app := tui.NewApp()
	program := tea.NewProgram(app, tea.WithAltScreen())

	// Redirect logger output to the TUI log panel.
	logger.Intercept(&logWriter{program: program})
	defer logger.Restore()

	// Prime the feed with the current snapshot, then mirror the op
	// stream. The feed panel never reads the store again.
	sub := st.Subscribe()
	go func() {
		program.Send(tui.FeedOpMsg{Op: store.SetOp{Messages: st.Current().Slice()}})
		for op := range sub.C() {
			program.Send(tui.FeedOpMsg{Op: op})
		}
		program.Send(tui.FeedClosedMsg{})
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go simulatePeers(ctx, st, cfg.Feed)
	go relayInput(ctx, st, app.InputCh, cfg.Feed.SelfID)

	logger.Info("demo feed started", "peers", len(cfg.Feed.Peers), "history", cfg.Feed.HistoryCount)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// relayInput turns composer lines into store inserts, with a delayed
// status transition so the pending tick is visible.
func relayInput(ctx context.Context, st *store.Store, input <-chan string, selfID string) {
	for {
		select {
		case <-ctx.Done():
			return
		case text, ok := <-input:
			if !ok {
				return
			}
			m := message.NewText(selfID, text)
			st.Insert(m)
			go func() {
				time.Sleep(400 * time.Millisecond)
				st.Update(m, message.WithStatus(m, message.StatusSent))
			}()
		}
	}
}

var peerLines = []string{
	"did you see the latest build?",
	"on my way",
	"let me check",
	"works on my machine",
	"pushing a fix now",
	"lunch?",
	"that diff looks fine to me",
	"can you re-run the pipeline?",
	"nice catch",
	"same here",
}

// simulatePeers posts peer messages on a jittered interval. Each one
// arrives already sent and is later marked seen through a store update.
func simulatePeers(ctx context.Context, st *store.Store, feed config.FeedConfig) {
	if len(feed.Peers) == 0 {
		return
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	base := time.Duration(feed.IntervalSecs) * time.Second

	for {
		jitter := time.Duration(rng.Int63n(int64(base))) - base/2
		select {
		case <-ctx.Done():
			return
		case <-time.After(base + jitter):
		}

		peer := feed.Peers[rng.Intn(len(feed.Peers))]
		m := message.NewText(peer, peerLines[rng.Intn(len(peerLines))])
		st.Insert(message.WithStatus(m, message.StatusSent))

		go func() {
			time.Sleep(2 * time.Second)
			st.Update(m, message.WithStatus(m, message.StatusSeen))
		}()
	}
}

// seedHistory builds an unsorted backlog spanning yesterday and today
// so the first paint already shows clusters and a date boundary. The
// store sorts it on construction.
func seedHistory(feed config.FeedConfig) []message.Message {
	authors := append([]string{feed.SelfID}, feed.Peers...)
	rng := rand.New(rand.NewSource(42))

	var msgs []message.Message
	at := time.Now().Add(-26 * time.Hour)
	for i := 0; i < feed.HistoryCount; i++ {
		author := authors[rng.Intn(len(authors))]
		m := message.NewText(author, peerLines[rng.Intn(len(peerLines))])
		m.Created = at
		m.State = message.StatusSeen
		msgs = append(msgs, m)

		// Mostly within-cluster gaps, occasionally a long break.
		if rng.Intn(4) == 0 {
			at = at.Add(time.Duration(1+rng.Intn(5)) * time.Hour)
		} else {
			at = at.Add(time.Duration(10+rng.Intn(80)) * time.Second)
		}
	}

	joined := message.NewSystem("feed history loaded")
	joined.Created = time.Now().Add(-time.Minute)
	return append(msgs, joined)
}

// logWriter implements io.Writer and sends each write as a LogLineMsg to the TUI.
type logWriter struct {
	program *tea.Program
}

func (w *logWriter) Write(p []byte) (int, error) {
	// Split on newlines in case a single write contains multiple lines.
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.program.Send(tui.LogLineMsg{Line: string(line)})
	}
	return len(p), nil
}
