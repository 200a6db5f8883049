// Package item implements the basic data model: an item is an identity
// string plus an ordered collection of named string metadata. Metadata names
// are matched case-insensitively on lookup but keep their first-seen spelling
// and insertion position for enumeration.
package item

import (
	"strings"
)

// IdentityName is the reserved pseudo-metadata name that resolves to the
// item's identity string. It is never stored in the custom metadata layer and
// never shows up when enumerating metadata names.
const IdentityName = "Identity"

// CanonicalName returns the form of a metadata name used for lookups.
func CanonicalName(name string) string {
	return strings.ToLower(name)
}

// IsReservedName reports whether a metadata name is reserved and therefore
// cannot be stored as custom metadata.
func IsReservedName(name string) bool {
	return CanonicalName(name) == CanonicalName(IdentityName)
}

// Item is a named record. The zero value is an item with an empty identity
// and no metadata, ready for use.
type Item struct {
	identity string
	names    []string          // first-seen spellings, insertion order
	values   map[string]string // canonical name -> value
}

// New creates an item with the given identity and no metadata.
func New(identity string) *Item {
	return &Item{identity: identity}
}

// Identity returns the item's identity string.
func (it *Item) Identity() string {
	return it.identity
}

// SetIdentity overwrites the item's identity string.
func (it *Item) SetIdentity(identity string) {
	it.identity = identity
}

// WithMetadata sets a metadata value and returns the item for chaining.
func (it *Item) WithMetadata(name, value string) *Item {
	it.SetMetadata(name, value)
	return it
}

// SetMetadata sets the value of a custom metadata entry. A name matching an
// existing entry case-insensitively replaces that entry's value in place,
// keeping the original spelling and position. Setting the reserved Identity
// name updates the identity string instead of the custom layer.
func (it *Item) SetMetadata(name, value string) {
	if IsReservedName(name) {
		it.identity = value
		return
	}
	canonical := CanonicalName(name)
	if it.values == nil {
		it.values = map[string]string{}
	}
	if _, ok := it.values[canonical]; !ok {
		it.names = append(it.names, name)
	}
	it.values[canonical] = value
}

// Metadata looks a metadata value up by name, case-insensitively. The
// reserved Identity name resolves to the identity string.
func (it *Item) Metadata(name string) (string, bool) {
	if IsReservedName(name) {
		return it.identity, true
	}
	v, ok := it.values[CanonicalName(name)]
	return v, ok
}

// HasMetadata reports whether the item carries metadata under the given
// name. The reserved Identity name is always present.
func (it *Item) HasMetadata(name string) bool {
	_, ok := it.Metadata(name)
	return ok
}

// DeleteMetadata removes a custom metadata entry if present. Reserved names
// cannot be deleted.
func (it *Item) DeleteMetadata(name string) {
	if IsReservedName(name) {
		return
	}
	canonical := CanonicalName(name)
	if _, ok := it.values[canonical]; !ok {
		return
	}
	delete(it.values, canonical)
	for i, n := range it.names {
		if CanonicalName(n) == canonical {
			it.names = append(it.names[:i], it.names[i+1:]...)
			break
		}
	}
}

// Names returns the custom metadata names in insertion order, with their
// first-seen spelling. Reserved names are not included.
func (it *Item) Names() []string {
	names := make([]string, len(it.names))
	copy(names, it.names)
	return names
}

// Len returns the number of custom metadata entries.
func (it *Item) Len() int {
	return len(it.names)
}

// DeepCopy returns an independent copy of the item.
func (it *Item) DeepCopy() *Item {
	if it == nil {
		return nil
	}
	out := New(it.identity)
	for _, name := range it.names {
		v := it.values[CanonicalName(name)]
		out.SetMetadata(name, v)
	}
	return out
}
