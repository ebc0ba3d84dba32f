package repo

import (
	"fmt"

	"github.com/pkg/errors"
)

// Keyed keeps the latest entity per identity. Saving an entity whose identity
// already exists replaces it; there is no history.
type Keyed[K comparable, E any] interface {
	Save(e E) (E, error)
	FindByID(id K) (E, bool)
}

// ErrIdentity matches every IdentityError.
var ErrIdentity = errors.New("entity identity")

// IdentityError reports an entity that cannot be stored because its identity
// is undeclared or empty. It points at a construction bug, not bad input.
type IdentityError struct {
	Entity string
	Reason string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("cannot save %s: %s", e.Entity, e.Reason)
}

func (e *IdentityError) Is(target error) bool { return target == ErrIdentity }
