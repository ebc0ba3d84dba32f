package memory

import (
	"fmt"
	"sync"

	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/repo"
)

var (
	_ repo.Keyed[string, domain.PingICMP]   = (*Store[string, domain.PingICMP])(nil)
	_ repo.Keyed[string, domain.PingTCP]    = (*Store[string, domain.PingTCP])(nil)
	_ repo.Keyed[string, domain.TraceRoute] = (*Store[string, domain.TraceRoute])(nil)
)

// Store is an in-memory repo.Keyed. Writers on different keys never contend,
// and readers always see a whole entity because values are replaced, never
// mutated in place.
type Store[K comparable, E any] struct {
	keyOf func(E) K
	data  sync.Map // K -> E
}

// New returns a store that identifies entities with keyOf.
func New[K comparable, E any](keyOf func(E) K) *Store[K, E] {
	return &Store[K, E]{keyOf: keyOf}
}

func (s *Store[K, E]) Save(e E) (E, error) {
	var zero E
	if s.keyOf == nil {
		return zero, &repo.IdentityError{Entity: fmt.Sprintf("%T", e), Reason: "no identity declared"}
	}
	id := s.keyOf(e)
	var none K
	if id == none {
		return zero, &repo.IdentityError{Entity: fmt.Sprintf("%T", e), Reason: "identity is empty"}
	}
	s.data.Store(id, e)
	return e, nil
}

func (s *Store[K, E]) FindByID(id K) (E, bool) {
	v, ok := s.data.Load(id)
	if !ok {
		var zero E
		return zero, false
	}
	return v.(E), true
}

// Len counts stored entities.
func (s *Store[K, E]) Len() int {
	n := 0
	s.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
