// Package grouping derives visual clustering tags from an ordered chat
// sequence: whether a message opens, continues, or closes a same-author
// cluster, and whether a date separator belongs above it. The
// projection is pure — it depends only on the sequence contents around
// the target index, never on a store instance.
package grouping

import (
	"time"

	"github.com/linanwx/chatfeed/message"
)

// Threshold is the largest gap between two same-author messages that
// still renders them as one cluster.
const Threshold = 2 * time.Minute

// Position places a message within its visual cluster, oriented like
// the newest-first sequence: First is grouped only with its older
// neighbor (the cluster's newest entry), Last only with its newer one
// (the cluster's oldest entry).
type Position int

const (
	Single Position = iota
	First
	Middle
	Last
)

func (p Position) String() string {
	switch p {
	case Single:
		return "single"
	case First:
		return "first"
	case Middle:
		return "middle"
	case Last:
		return "last"
	}
	return "unknown"
}

// Projection is the per-message rendering tag pair.
type Projection struct {
	Position          Position
	ShowDateSeparator bool
}

// Sequence is a newest-first indexed view of messages. store.Snapshot
// satisfies it; tests and ad hoc callers can use Slice.
type Sequence interface {
	Len() int
	At(i int) message.Message
}

// Slice adapts a plain newest-first slice to Sequence.
type Slice []message.Message

func (s Slice) Len() int                 { return len(s) }
func (s Slice) At(i int) message.Message { return s[i] }

// Project derives the cluster position and date-separator visibility
// for the element at index in a newest-first sequence.
//
// A message groups with a neighbor when the author matches and the
// creation times are less than Threshold apart. The date separator
// shows above the chronologically oldest message and wherever the
// calendar date changes against the next-older neighbor.
func Project(seq Sequence, index int) Projection {
	cur := seq.At(index)

	var newer, older message.Message
	if index > 0 {
		newer = seq.At(index - 1)
	}
	if index+1 < seq.Len() {
		older = seq.At(index + 1)
	}

	withNewer := grouped(cur, newer)
	withOlder := grouped(cur, older)

	var pos Position
	switch {
	case withOlder && withNewer:
		pos = Middle
	case withOlder:
		pos = First
	case withNewer:
		pos = Last
	default:
		pos = Single
	}

	return Projection{
		Position:          pos,
		ShowDateSeparator: older == nil || !sameDay(cur.CreatedAt(), older.CreatedAt()),
	}
}

func grouped(cur, neighbor message.Message) bool {
	if neighbor == nil {
		return false
	}
	if neighbor.AuthorID() != cur.AuthorID() {
		return false
	}
	return absGap(cur.CreatedAt(), neighbor.CreatedAt()) < Threshold
}

func absGap(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
