package enrichment

import (
	"fmt"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// DeletePolicy decides how DeleteByID treats its key.
type DeletePolicy int

const (
	// DeleteDirect delegates to the store; deleting an absent key is a no-op.
	DeleteDirect DeletePolicy = iota
	// DeleteLookupFirst loads the entity before deleting it; an absent key is
	// EntityNotFound.
	DeleteLookupFirst
)

// WritePolicy decides what Save and Update return.
type WritePolicy int

const (
	// WriteEcho returns the stored entity with the caller's sub-objects echoed.
	WriteEcho WritePolicy = iota
	// WriteReenrich resolves the references of the stored entity again.
	WriteReenrich
)

// Descriptor configures the engine for one entity type.
//
// K is the primary identity, E the stored entity and D the composite view.
type Descriptor[K shared.EntityKey, E, D any] struct {
	// Entity names the type in errors, logs and spans, e.g. "favourite".
	Entity string
	// Key extracts the primary identity.
	Key func(*E) K
	// ToDTO copies local fields into a new view. Reference slots should hold
	// stubs carrying only the stored identifier.
	ToDTO func(*E) *D
	// FromDTO strips sub-objects down to identifiers. It must reject views
	// whose sub-object identifiers contradict the scalar ones.
	FromDTO func(*D) (*E, error)
	// Merge overlays incoming on existing and must keep the identity of existing.
	Merge func(existing, incoming *E) *E
	// References are resolved for every view returned by a read.
	References []Reference[E, D]

	Delete DeletePolicy
	Write  WritePolicy
}

func (d Descriptor[K, E, D]) validate() error {
	switch {
	case d.Entity == "":
		return fmt.Errorf("enrichment: descriptor has no entity name")
	case d.Key == nil, d.ToDTO == nil, d.FromDTO == nil, d.Merge == nil:
		return fmt.Errorf("enrichment: descriptor %s is missing a function", d.Entity)
	}
	seen := make(map[string]struct{}, len(d.References))
	for _, ref := range d.References {
		if _, dup := seen[ref.Field()]; dup {
			return fmt.Errorf("enrichment: descriptor %s declares field %s twice", d.Entity, ref.Field())
		}
		seen[ref.Field()] = struct{}{}
	}
	return nil
}

// ReconcileRef picks the identifier of a reference given both the scalar
// field and the id of the embedded sub-object. Zero means absent. If both are
// present they must agree.
func ReconcileRef(field string, scalar, nested int) (int, error) {
	switch {
	case scalar != 0 && nested != 0 && scalar != nested:
		return 0, shared.NewValidationError(field, fmt.Sprintf("id %d contradicts embedded id %d", scalar, nested))
	case scalar != 0:
		return scalar, nil
	default:
		return nested, nil
	}
}
