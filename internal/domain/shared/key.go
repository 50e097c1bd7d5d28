package shared

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// EntityKey is the primary identity of a local entity. Implementations must
// be comparable with == so that two keys are equal iff every component is.
type EntityKey interface {
	comparable
	String() string
	Parts() []KeyPart
}

// KeyPart is one named component of an identity.
type KeyPart struct {
	Name  string
	Value string
}

// IntKey is a single scalar integer identity.
type IntKey int

func (k IntKey) String() string {
	return strconv.Itoa(int(k))
}

// Parts returns the single unnamed component
func (k IntKey) Parts() []KeyPart {
	return []KeyPart{{Name: "id", Value: k.String()}}
}

// Int returns the underlying integer
func (k IntKey) Int() int {
	return int(k)
}

// IsZero reports whether no identity has been assigned yet
func (k IntKey) IsZero() bool {
	return k == 0
}

// ParseIntKey parses a path segment into an IntKey
func ParseIntKey(raw string) (IntKey, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, NewValidationError("id", "must be a positive integer")
	}
	return IntKey(id), nil
}

// CompositeKey is an ordered tuple of named components. Field order is part of
// the identity: (a=1,b=2) and (b=2,a=1) are different keys.
type CompositeKey struct {
	parts []KeyPart
}

// NewCompositeKey builds a key from parts in declared order
func NewCompositeKey(parts ...KeyPart) CompositeKey {
	cp := make([]KeyPart, len(parts))
	copy(cp, parts)
	return CompositeKey{parts: cp}
}

// CompositeOf builds a CompositeKey from any EntityKey
func CompositeOf[K EntityKey](k K) CompositeKey {
	return NewCompositeKey(k.Parts()...)
}

// Parts returns a copy of the components
func (k CompositeKey) Parts() []KeyPart {
	cp := make([]KeyPart, len(k.parts))
	copy(cp, k.parts)
	return cp
}

// Len returns the number of components
func (k CompositeKey) Len() int {
	return len(k.parts)
}

// Equal compares component-wise, names and values, in order.
func (k CompositeKey) Equal(other CompositeKey) bool {
	if len(k.parts) != len(other.parts) {
		return false
	}
	for i := range k.parts {
		if k.parts[i] != other.parts[i] {
			return false
		}
	}
	return true
}

// String renders the canonical form, e.g. "userId=5,productId=7".
func (k CompositeKey) String() string {
	var b strings.Builder
	for i, p := range k.parts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// Hash returns a stable 64-bit hash of the canonical form. Equal keys hash
// equally.
func (k CompositeKey) Hash() uint64 {
	d := xxhash.New()
	for _, p := range k.parts {
		_, _ = d.WriteString(p.Name)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(p.Value)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// FormatParts renders parts the same way CompositeKey.String does
func FormatParts(parts []KeyPart) string {
	return NewCompositeKey(parts...).String()
}
