// Package messagequeue implements the per-recipient FIFO message store.
package messagequeue

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skill-docket/skd/internal/model"
)

// Option configures a Store at construction time.
type Option func(*Store)

// WithClock overrides the store's time source, used in tests to make
// delivery timestamps deterministic.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// Store is an append-only log with FIFO delivery per recipient.
type Store struct {
	mu       sync.Mutex
	messages []*model.Message
	clock    func() time.Time
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue appends a new undelivered message (DeliveredAtMs nil), stamped
// with a fresh ID and the current queue time, and returns it.
func (s *Store) Enqueue(sender, recipient, text string) *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := &model.Message{
		ID:         uuid.NewString(),
		Sender:     sender,
		Recipient:  recipient,
		Text:       text,
		QueuedAtMs: s.clock().UnixMilli(),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// PendingFor returns undelivered messages for the given agent in
// insertion order.
func (s *Store) PendingFor(agent string) []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Message
	for _, m := range s.messages {
		if m.Recipient == agent && !m.Delivered() {
			out = append(out, m)
		}
	}
	return out
}

// Deliver marks the oldest undelivered message for the given recipient
// and returns a clone of it. Returns nil if none exists.
func (s *Store) Deliver(agent string) *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.Recipient == agent && !m.Delivered() {
			ts := s.clock().UnixMilli()
			m.DeliveredAtMs = &ts
			clone := *m
			return &clone
		}
	}
	return nil
}

// AllPending returns every undelivered message across all recipients.
func (s *Store) AllPending() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Message
	for _, m := range s.messages {
		if !m.Delivered() {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the total number of messages, delivered and pending.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// IsEmpty reports whether the store holds no messages.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}
