package store

import (
	"sync"

	"github.com/linanwx/chatfeed/logger"
)

// deliveryBuffer sizes each subscription's delivery channel. Consumers
// that keep up never park the pump; slower ones overflow into the
// subscription's unbounded queue instead of blocking the writer.
const deliveryBuffer = 64

// Subscription is one consumer's handle on the store's op stream.
//
// The writer never blocks on a subscriber: ops land in a per-
// subscription queue that a pump goroutine drains into the delivery
// channel, preserving emission order and delivering each op exactly
// once.
type Subscription struct {
	store *Store
	id    int

	mu    sync.Mutex
	queue []Op
	ended bool // no further pushes; pump flushes then closes out

	wake    chan struct{}
	abandon chan struct{}
	once    sync.Once
	out     chan Op
}

// Subscribe registers a new consumer. Every op emitted from now on is
// delivered on the returned subscription's channel; there is no replay
// of earlier ops. Subscribing to a disposed store yields an already
// closed stream.
func (s *Store) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	sub := &Subscription{
		store:   s,
		id:      s.nextSub,
		wake:    make(chan struct{}, 1),
		abandon: make(chan struct{}),
		out:     make(chan Op, deliveryBuffer),
	}
	go sub.pump()

	if s.disposed {
		sub.end()
		return sub
	}

	s.subs[sub.id] = sub
	logger.Debug("subscription added", "id", sub.id)
	return sub
}

// Dispose tears the store down. Each subscriber's pending ops drain and
// its channel then closes, exactly once, as the terminal non-error
// signal; mutating calls after this point are silent no-ops. Dispose is
// idempotent.
func (s *Store) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subs = make(map[int]*Subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.end()
	}
	logger.Debug("store disposed", "subscribers", len(subs))
}

func (s *Store) dropSub(id int) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

// C returns the delivery channel. It yields every op emitted after the
// subscription was taken, in emission order, and closes when the store
// is disposed or the subscription cancelled.
func (u *Subscription) C() <-chan Op { return u.out }

// Unsubscribe cancels delivery. Safe to call at any time and more than
// once; ops still queued are discarded and the channel closes promptly.
func (u *Subscription) Unsubscribe() {
	u.store.dropSub(u.id)
	u.once.Do(func() { close(u.abandon) })
}

// push appends an op for delivery. Called with the store's mutex held,
// which fixes the order ops enter the queue. Never blocks.
func (u *Subscription) push(op Op) {
	u.mu.Lock()
	if u.ended {
		u.mu.Unlock()
		return
	}
	u.queue = append(u.queue, op)
	u.mu.Unlock()
	u.signal()
}

// end stops intake and lets the pump flush whatever is queued before
// closing the delivery channel.
func (u *Subscription) end() {
	u.mu.Lock()
	u.ended = true
	u.mu.Unlock()
	u.signal()
}

func (u *Subscription) signal() {
	select {
	case u.wake <- struct{}{}:
	default:
	}
}

// pump moves ops from the queue to the delivery channel. It is the only
// goroutine that sends on or closes out.
func (u *Subscription) pump() {
	defer close(u.out)
	for {
		select {
		case <-u.abandon:
			return
		case <-u.wake:
		}
		for {
			u.mu.Lock()
			if len(u.queue) == 0 {
				ended := u.ended
				u.mu.Unlock()
				if ended {
					return
				}
				break
			}
			op := u.queue[0]
			u.queue = u.queue[1:]
			u.mu.Unlock()

			select {
			case u.out <- op:
			case <-u.abandon:
				return
			}
		}
	}
}
