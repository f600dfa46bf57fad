package filtering

import (
	"log/slog"
	"sync"

	"github.com/stacklok/sobject-gateway/internal/config"
)

// Store holds the active policy. It is safe for concurrent use; the last
// writer wins.
type Store struct {
	mu     sync.RWMutex
	policy Policy
}

// NewStore creates a Store whose policy hides nothing
func NewStore() *Store {
	return &Store{policy: NewBlacklist(nil)}
}

// Policy returns the active policy
func (s *Store) Policy() Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy replaces the active policy. A nil policy hides nothing.
func (s *Store) SetPolicy(p Policy) {
	if p == nil {
		p = NewBlacklist(nil)
	}

	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()

	slog.Info("Filter policy updated", "kind", p.Kind())
}

// SetConfiguration builds a policy from section and makes it active
func (s *Store) SetConfiguration(section *config.FilterSection) {
	s.SetPolicy(NewPolicy(section))
}
