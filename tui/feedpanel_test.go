package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/linanwx/chatfeed/message"
	"github.com/linanwx/chatfeed/store"
)

var t0 = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func textAt(id, author string, at time.Time) message.TextMessage {
	return message.TextMessage{
		Base: message.Base{MsgID: id, Author: author, Created: at, State: message.StatusSeen},
		Text: "msg " + id,
	}
}

func mirrorIDs(msgs []message.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID()
	}
	return out
}

func TestApplyOpMirrorsStoreSequence(t *testing.T) {
	// Drive a store and a mirror from the same ops; they must agree
	// after every step.
	s := store.New()
	sub := s.Subscribe()

	var mirror []message.Message
	old := textAt("b", "ada", t0.Add(time.Minute))

	s.Insert(textAt("a", "ada", t0))
	s.Insert(old)
	s.InsertMany([]message.Message{
		textAt("c", "lin", t0.Add(2*time.Minute)),
		textAt("d", "lin", t0.Add(3*time.Minute)),
	})
	s.Update(old, textAt("b", "ada", t0.Add(time.Minute)))
	s.Remove(textAt("a", "ada", t0))
	s.Dispose()

	for op := range sub.C() {
		mirror = applyOp(mirror, op)
	}

	want := s.Current()
	got := mirrorIDs(mirror)
	if len(got) != want.Len() {
		t.Fatalf("mirror has %d messages, store has %d", len(got), want.Len())
	}
	for i := range got {
		if got[i] != want.At(i).ID() {
			t.Fatalf("mirror[%d] = %s, store has %s", i, got[i], want.At(i).ID())
		}
	}
}

func TestRenderFeedLayout(t *testing.T) {
	// Two clustered messages on one day, then one on the next day.
	msgs := []message.Message{
		textAt("c", "ada", t0.Add(25*time.Hour)),
		textAt("b", "ada", t0.Add(time.Minute)),
		textAt("a", "ada", t0),
	}

	lines := renderFeed(msgs, false)

	// date sep, header, a, b, date sep, header, c
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[0], "14 Mar 2026") {
		t.Fatalf("lines[0] = %q, want the first date separator", lines[0])
	}
	if !strings.Contains(lines[4], "15 Mar 2026") {
		t.Fatalf("lines[4] = %q, want the second date separator", lines[4])
	}
	if !strings.Contains(lines[2], "msg a") || !strings.Contains(lines[3], "msg b") {
		t.Fatalf("cluster lines out of order:\n%s", strings.Join(lines, "\n"))
	}
}

func TestRenderFeedSystemMessageHasNoHeader(t *testing.T) {
	sys := message.NewSystem("history loaded")
	sys.Created = t0
	lines := renderFeed([]message.Message{sys}, false)

	// date sep + body, no author header.
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[1], "history loaded") {
		t.Fatalf("lines[1] = %q, want the system text", lines[1])
	}
}
