package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linanwx/chatfeed/grouping"
	"github.com/linanwx/chatfeed/logger"
	"github.com/linanwx/chatfeed/message"
	"github.com/linanwx/chatfeed/store"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Load serialized messages and print the grouped feed",
	Long: `Read JSON Lines of serialized messages, load them through the store
in one batch, and print the resulting feed annotated with each line's
cluster position and date separators.

The batch load emits a single set operation regardless of input size;
run with logging at debug level to see it.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(_ *cobra.Command, args []string) error {
	msgs, err := readMessages(args[0])
	if err != nil {
		return err
	}

	st := store.New()
	defer st.Dispose()

	sub := st.Subscribe()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for op := range sub.C() {
			logger.Info("store op", "kind", op.Kind())
		}
	}()

	st.InsertMany(msgs)
	printFeed(st.Current())

	st.Dispose()
	<-drained
	return nil
}

func readMessages(path string) ([]message.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var msgs []message.Message
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		m, err := message.Decode([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		msgs = append(msgs, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return msgs, nil
}

// printFeed writes the sequence oldest-first with grouping annotations.
func printFeed(snap store.Snapshot) {
	for i := snap.Len() - 1; i >= 0; i-- {
		m := snap.At(i)
		proj := grouping.Project(snap, i)

		if proj.ShowDateSeparator {
			fmt.Printf("---- %s ----\n", m.CreatedAt().Format("2006-01-02"))
		}
		fmt.Printf("%-6s  %s  %-8s  %s\n",
			proj.Position, m.CreatedAt().Format("15:04:05"), authorLabel(m), describe(m))
	}
}

func authorLabel(m message.Message) string {
	if m.AuthorID() == message.SystemAuthorID {
		return "(system)"
	}
	return m.AuthorID()
}

func describe(m message.Message) string {
	switch v := m.(type) {
	case message.TextMessage:
		return v.Text
	case message.ImageMessage:
		return fmt.Sprintf("[image] %s", v.Name)
	case message.FileMessage:
		return fmt.Sprintf("[file] %s (%d bytes)", v.Name, v.Size)
	case message.SystemMessage:
		return v.Text
	case message.CustomMessage:
		return fmt.Sprintf("[custom] %d fields", len(v.Payload))
	}
	return fmt.Sprintf("[%T]", m)
}
