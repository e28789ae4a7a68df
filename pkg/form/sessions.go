package form

import (
	"sync"
	"time"
)

// Sessions keeps one Form per browser session.
type Sessions struct {
	newForm func() *Form
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

type session struct {
	form *Form
	seen time.Time
}

// NewSessions evicts sessions idle for longer than ttl on Sweep. A ttl <= 0 keeps them forever.
func NewSessions(newForm func() *Form, ttl time.Duration) *Sessions {
	return &Sessions{newForm: newForm, ttl: ttl, now: time.Now, items: map[string]*session{}}
}

// Get returns the form for id, creating it on first use.
func (s *Sessions) Get(id string) *Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		it = &session{form: s.newForm()}
		s.items[id] = it
	}
	it.seen = s.now()
	return it.form
}

// Sweep drops idle sessions and reports how many were removed.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, it := range s.items {
		if it.seen.Before(cutoff) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
