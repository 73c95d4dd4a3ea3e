package store

import "github.com/linanwx/chatfeed/message"

// Snapshot is a read-only point-in-time view of the store's sequence,
// newest first. It exposes no mutation path; At panics on an index out
// of range rather than corrupting anything silently.
type Snapshot struct {
	msgs []message.Message
}

// Len returns the number of messages in the view.
func (s Snapshot) Len() int { return len(s.msgs) }

// At returns the message at index i, 0 being the newest.
func (s Snapshot) At(i int) message.Message { return s.msgs[i] }

// IndexOf returns the index of the message with the given id, or -1.
func (s Snapshot) IndexOf(id string) int { return indexByID(s.msgs, id) }

// Slice returns a fresh copy of the view as a plain slice, for callers
// that need to hand the sequence to code outside the store's contract.
func (s Snapshot) Slice() []message.Message {
	cp := make([]message.Message, len(s.msgs))
	copy(cp, s.msgs)
	return cp
}
