package store

import "github.com/linanwx/chatfeed/message"

// Op describes one structural change to the store's sequence. Ops are
// lifecycle events: each mutation emits exactly one, and none is stored
// or replayed for late subscribers.
type Op interface {
	// Kind returns the op's wire-style tag, used in logs and by
	// consumers that key dispatch off a string.
	Kind() string

	op()
}

// InsertOp reports one message spliced in at Index. Index is the
// position the message holds in the sequence immediately after the
// mutation.
type InsertOp struct {
	Message message.Message
	Index   int
}

// RemoveOp reports one message spliced out. Index is the position the
// message held immediately before the mutation.
type RemoveOp struct {
	Message message.Message
	Index   int
}

// UpdateOp reports an in-place content replacement at Index.
type UpdateOp struct {
	Old   message.Message
	New   message.Message
	Index int
}

// SetOp reports a full replacement of the sequence, newest first.
type SetOp struct {
	Messages []message.Message
}

func (InsertOp) Kind() string { return "insert" }
func (RemoveOp) Kind() string { return "remove" }
func (UpdateOp) Kind() string { return "update" }
func (SetOp) Kind() string    { return "set" }

func (InsertOp) op() {}
func (RemoveOp) op() {}
func (UpdateOp) op() {}
func (SetOp) op()    {}
