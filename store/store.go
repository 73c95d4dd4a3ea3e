// Package store owns the canonical chat message sequence. The sequence
// is always ordered newest first by creation time; every mutation emits
// one Op to all subscribers so presentation layers can mirror the store
// incrementally instead of re-reading it.
package store

import (
	"sync"

	"github.com/linanwx/chatfeed/logger"
	"github.com/linanwx/chatfeed/message"
)

// Store is an ordered message store with broadcast change notification.
//
// Mutations are expected from a single logical owner; Current may be
// called from any goroutine. After Dispose all mutating calls are
// silent no-ops.
type Store struct {
	mu    sync.Mutex
	msgs  []message.Message
	snap  Snapshot
	dirty bool

	subs     map[int]*Subscription
	nextSub  int
	disposed bool
}

// New builds a store from an optional initial collection. The input
// need not be sorted: each element is placed with the same scan used by
// Insert, in input order, so construction is equivalent to inserting
// one message at a time.
func New(initial ...message.Message) *Store {
	s := &Store{
		subs:  make(map[int]*Subscription),
		dirty: true,
	}
	for _, m := range initial {
		s.msgs = spliceIn(s.msgs, m, insertionIndex(s.msgs, m))
	}
	return s
}

// Current returns a read-only point-in-time snapshot. The snapshot is
// cached and only rebuilt after a mutation, so repeated calls on an
// unchanged store are O(1).
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		view := make([]message.Message, len(s.msgs))
		copy(view, s.msgs)
		s.snap = Snapshot{msgs: view}
		s.dirty = false
	}
	return s.snap
}

// Insert places m at the first index whose element it is strictly
// after, or at the end when there is none, and emits an InsertOp.
//
// The scan gives equal-creation-time messages a fixed fate: the new one
// lands after every existing message with the same timestamp.
func (s *Store) Insert(m message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}

	i := insertionIndex(s.msgs, m)
	s.msgs = spliceIn(s.msgs, m, i)
	s.dirty = true
	s.emit(InsertOp{Message: m, Index: i})
}

// InsertMany places each message with Insert's scan, in input order
// (each placement sees the previous ones), then emits a single SetOp
// carrying the full sequence. Bulk history loads notify consumers once
// instead of once per message. An empty input is a no-op with no
// emission.
func (s *Store) InsertMany(msgs []message.Message) {
	if len(msgs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}

	for _, m := range msgs {
		s.msgs = spliceIn(s.msgs, m, insertionIndex(s.msgs, m))
	}
	s.dirty = true
	s.emit(SetOp{Messages: s.copyLocked()})
}

// Update replaces the content of the message matching old's ID, in
// place. The slot keeps its index and the sequence is not re-sorted,
// even when the replacement carries a different creation time; order is
// only reestablished by later inserts and removes. An ID absent from
// the store is a silent no-op so stale references are tolerated.
func (s *Store) Update(old, updated message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}

	i := indexByID(s.msgs, old.ID())
	if i < 0 {
		return
	}
	s.msgs[i] = updated
	s.dirty = true
	s.emit(UpdateOp{Old: old, New: updated, Index: i})
}

// Remove splices out the message matching m's ID and emits a RemoveOp
// with the index it held just before removal. An absent ID is a silent
// no-op.
func (s *Store) Remove(m message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}

	i := indexByID(s.msgs, m.ID())
	if i < 0 {
		return
	}
	removed := s.msgs[i]
	s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
	s.dirty = true
	s.emit(RemoveOp{Message: removed, Index: i})
}

// ReplaceAll discards the sequence and installs msgs verbatim, in the
// order given. Unlike InsertMany this path does not re-sort; callers
// wanting the newest-first invariant on this path must pre-sort. Emits
// a SetOp.
func (s *Store) ReplaceAll(msgs []message.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}

	s.msgs = make([]message.Message, len(msgs))
	copy(s.msgs, msgs)
	s.dirty = true
	s.emit(SetOp{Messages: s.copyLocked()})
}

// emit fans op out to every live subscriber. Callers hold s.mu, so ops
// reach each subscriber's queue in emission order.
func (s *Store) emit(op Op) {
	logger.Debug("store op emitted", "kind", op.Kind(), "subscribers", len(s.subs))
	for _, sub := range s.subs {
		sub.push(op)
	}
}

// copyLocked returns a fresh slice of the sequence. Callers hold s.mu.
func (s *Store) copyLocked() []message.Message {
	cp := make([]message.Message, len(s.msgs))
	copy(cp, s.msgs)
	return cp
}

// insertionIndex returns the first index whose element m is strictly
// after, or len(msgs) when none is. Equal timestamps therefore land
// after existing equal-timestamp entries; consumers depend on this
// exact tie-break, so do not replace the scan with a binary search that
// settles ties differently.
func insertionIndex(msgs []message.Message, m message.Message) int {
	for i, cur := range msgs {
		if m.CreatedAt().After(cur.CreatedAt()) {
			return i
		}
	}
	return len(msgs)
}

func spliceIn(msgs []message.Message, m message.Message, i int) []message.Message {
	msgs = append(msgs, nil)
	copy(msgs[i+1:], msgs[i:])
	msgs[i] = m
	return msgs
}

func indexByID(msgs []message.Message, id string) int {
	for i, m := range msgs {
		if m.ID() == id {
			return i
		}
	}
	return -1
}
