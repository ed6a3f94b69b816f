// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Registry maps Go types and names to codecs. It is how callers that
// only know a type (or a schema name) find its codec; construction of
// codecs for unregistered types fails before any value is processed.
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byType  map[reflect.Type]*Entry
	byName  map[string]*Entry
	ordered []*Entry
}

// Entry is one registration.
type Entry struct {
	Name string
	// Type is nil for name-only registrations.
	Type  reflect.Type
	Codec Codec[any]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*Entry),
		byName: make(map[string]*Entry),
	}
}

// Register binds T and name to codec. Registering a type or name twice
// fails with [ErrDuplicateRegistration].
func Register[T any](r *Registry, name string, codec Codec[T]) error {
	t := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byType[t]; ok {
		return fmt.Errorf("%w: type %s is registered as %s", ErrDuplicateRegistration, t, existing.Name)
	}
	return r.addLocked(&Entry{Name: name, Type: t, Codec: Erase(codec)})
}

// RegisterName binds name to an untyped codec, for codecs whose Go type
// is only known at run time.
func (r *Registry) RegisterName(name string, codec Codec[any]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(&Entry{Name: name, Codec: codec})
}

func (r *Registry) addLocked(entry *Entry) error {
	if entry.Name == "" {
		return errors.New("fixlen: registration without a name")
	}
	if _, ok := r.byName[entry.Name]; ok {
		return fmt.Errorf("%w: name %s", ErrDuplicateRegistration, entry.Name)
	}
	r.byName[entry.Name] = entry
	if entry.Type != nil {
		r.byType[entry.Type] = entry
	}
	r.ordered = append(r.ordered, entry)
	return nil
}

// Lookup returns the codec registered for T.
func Lookup[T any](r *Registry) (Codec[T], error) {
	t := reflect.TypeFor[T]()
	r.mu.RLock()
	entry, ok := r.byType[t]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no codec registered for %s", ErrUnsupportedType, t)
	}
	return Assert[T](entry.Codec), nil
}

// Entry returns the registration with the given name.
func (r *Registry) Entry(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: no codec registered as %q", ErrUnsupportedType, name)
	}
	return *entry, nil
}

// Entries returns all registrations in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, len(r.ordered))
	for index, entry := range r.ordered {
		entries[index] = *entry
	}
	return entries
}
