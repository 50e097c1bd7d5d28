// Package enrichment turns locally stored entities into composite views by
// resolving their references to records owned by other services.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// RemoteTarget names the read-by-id endpoint of another service. Service is a
// logical name resolved by the service locator on every call.
type RemoteTarget struct {
	Service  string
	Resource string
}

func (t RemoteTarget) String() string {
	return t.Service + "/" + t.Resource
}

// Resolver performs one remote lookup and decodes the record into out.
// Failures are *shared.RemoteError values of kind ErrRemoteUnavailable,
// ErrRemoteRecordMissing or ErrRemoteContractViolation.
type Resolver interface {
	Resolve(ctx context.Context, target RemoteTarget, id string, out any) error
}

// Record is implemented by remote records that carry their own identifier.
type Record interface {
	RecordID() int
}

// Policy decides what a failed lookup does to the composite view.
type Policy int

const (
	// FailOnError fails the whole composite on any lookup failure.
	FailOnError Policy = iota
	// NullOnMissing leaves the slot nil when the remote record no longer exists.
	NullOnMissing
	// NullOnError leaves the slot nil when the record is missing or the
	// service is unavailable.
	NullOnError
)

func (p Policy) String() string {
	switch p {
	case NullOnMissing:
		return "null_on_missing"
	case NullOnError:
		return "null_on_error"
	default:
		return "fail"
	}
}

// tolerates reports whether err is absorbed by the policy. Contract
// violations are never absorbed.
func (p Policy) tolerates(err error) bool {
	if errors.Is(err, shared.ErrRemoteContractViolation) {
		return false
	}
	switch p {
	case NullOnMissing:
		return errors.Is(err, shared.ErrRemoteRecordMissing)
	case NullOnError:
		return errors.Is(err, shared.ErrRemoteRecordMissing) || errors.Is(err, shared.ErrRemoteUnavailable)
	}
	return false
}

// Reference is one remote-reference field of entity type E, rendered into a
// slot of the composite view D.
type Reference[E, D any] interface {
	Field() string
	Target() RemoteTarget
	Policy() Policy
	// StoredID returns the identifier kept on the entity; zero means unset.
	StoredID(e *E) int
	resolve(ctx context.Context, r Resolver, e *E, d *D) (degraded bool, err error)
	echo(e *E, src, dst *D)
}

type reference[E, D, R any] struct {
	field  string
	target RemoteTarget
	policy Policy
	id     func(*E) int
	slot   func(*D) **R
}

// RefOption configures a Reference
type RefOption func(*refConfig)

type refConfig struct {
	policy Policy
}

// WithPolicy overrides the default FailOnError policy
func WithPolicy(p Policy) RefOption {
	return func(c *refConfig) {
		c.policy = p
	}
}

// Ref declares a remote reference. id reads the stored identifier from the
// entity; slot addresses the sub-object in the view that receives the record.
func Ref[E, D, R any](field string, target RemoteTarget, id func(*E) int, slot func(*D) **R, opts ...RefOption) Reference[E, D] {
	cfg := refConfig{policy: FailOnError}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &reference[E, D, R]{
		field:  field,
		target: target,
		policy: cfg.policy,
		id:     id,
		slot:   slot,
	}
}

func (r *reference[E, D, R]) Field() string        { return r.field }
func (r *reference[E, D, R]) Target() RemoteTarget { return r.target }
func (r *reference[E, D, R]) Policy() Policy       { return r.policy }
func (r *reference[E, D, R]) StoredID(e *E) int    { return r.id(e) }

func (r *reference[E, D, R]) resolve(ctx context.Context, resolver Resolver, e *E, d *D) (bool, error) {
	id := r.id(e)
	if id <= 0 {
		*r.slot(d) = nil
		return false, nil
	}
	key := strconv.Itoa(id)

	rec := new(R)
	if err := resolver.Resolve(ctx, r.target, key, rec); err != nil {
		if r.policy.tolerates(err) {
			*r.slot(d) = nil
			return true, nil
		}
		return false, fmt.Errorf("%s: %w", r.field, err)
	}
	if withID, ok := any(rec).(Record); ok && withID.RecordID() != id {
		cause := fmt.Errorf("record carries id %d", withID.RecordID())
		return false, fmt.Errorf("%s: %w", r.field, shared.NewRemoteError(shared.ErrRemoteContractViolation, r.target.Service, key, cause))
	}
	*r.slot(d) = rec
	return false, nil
}

// echo copies the caller supplied sub-object into dst when it refers to the
// stored identifier. Otherwise dst keeps what ToDTO put there.
func (r *reference[E, D, R]) echo(e *E, src, dst *D) {
	if src == nil {
		return
	}
	in := *r.slot(src)
	if in == nil {
		return
	}
	if withID, ok := any(in).(Record); ok && withID.RecordID() != r.id(e) {
		return
	}
	*r.slot(dst) = in
}
