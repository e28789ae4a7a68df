package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSessions_GetAndSweep(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(func() *Form { return New(answer(nil, nil), zap.NewNop()) }, 10*time.Minute)
	s.now = func() time.Time { return now }

	a := s.Get("a")
	assert.Same(t, a, s.Get("a"))
	assert.NotSame(t, a, s.Get("b"))
	assert.Equal(t, 2, s.Len())

	now = now.Add(6 * time.Minute)
	s.Get("b")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	assert.NotSame(t, a, s.Get("a"), "evicted session starts fresh")
}

func TestSessions_ZeroTTLKeepsAll(t *testing.T) {
	s := NewSessions(func() *Form { return New(answer(nil, nil), nil) }, 0)
	s.Get("a")
	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 1, s.Len())
}
