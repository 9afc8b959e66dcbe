// Package itemlog stores every user's published items as an append-only log.
package itemlog

import (
	"fmt"
	"sync"

	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/sequence"
)

var _ murmur.ItemLog = (*Store)(nil)

// Store holds one log per publisher. Sequences come from the injected clock.
type Store struct {
	clock *sequence.Clock

	mu   sync.RWMutex
	logs map[murmur.UserID]*userLog
}

// userLog is kept sorted by sequence; items are only ever appended.
type userLog struct {
	mu    sync.RWMutex
	items []murmur.Item
}

// New creates an empty store that stamps items with clock.
func New(clock *sequence.Clock) *Store {
	return &Store{
		clock: clock,
		logs:  make(map[murmur.UserID]*userLog),
	}
}

// Clock returns the clock items are stamped with.
func (s *Store) Clock() *sequence.Clock {
	return s.clock
}

// Append stamps a new item with the next sequence and appends it to the user's
// log.
func (s *Store) Append(user murmur.UserID, id murmur.ItemID) murmur.Item {
	l := s.log(user, true)

	// The sequence is taken under the log lock, otherwise two publishes by the
	// same user could land out of order.
	l.mu.Lock()
	defer l.mu.Unlock()

	item := murmur.Item{ID: id, Sequence: s.clock.Next()}
	l.push(user, item)

	return item
}

// Restore appends an item that already has a sequence, e.g. one read back from
// a journal, and moves the clock past it. Items for one user must be restored in
// sequence order.
func (s *Store) Restore(user murmur.UserID, item murmur.Item) {
	l := s.log(user, true)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.push(user, item)
	s.clock.AdvanceTo(item.Sequence)
}

// Recent returns up to limit of the user's most recent items, oldest first. Only
// the tail of the log is copied.
func (s *Store) Recent(user murmur.UserID, limit int) []murmur.Item {
	l := s.log(user, false)
	if l == nil || limit <= 0 {
		return []murmur.Item{}
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	start := max(len(l.items)-limit, 0)
	out := make([]murmur.Item, len(l.items)-start)
	copy(out, l.items[start:])

	return out
}

// Len returns how many items the user has published.
func (s *Store) Len(user murmur.UserID) int {
	l := s.log(user, false)
	if l == nil {
		return 0
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// push must be called with l.mu held.
func (l *userLog) push(user murmur.UserID, item murmur.Item) {
	if n := len(l.items); n > 0 && item.Sequence <= l.items[n-1].Sequence {
		// A reused or regressing sequence would silently corrupt feed order.
		panic(fmt.Sprintf("itemlog: sequence %d for user %q is not after %d", item.Sequence, user, l.items[n-1].Sequence))
	}
	l.items = append(l.items, item)
}

func (s *Store) log(user murmur.UserID, create bool) *userLog {
	s.mu.RLock()
	l, ok := s.logs[user]
	s.mu.RUnlock()
	if ok || !create {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.logs[user]; ok {
		return l
	}
	l = &userLog{}
	s.logs[user] = l

	return l
}
