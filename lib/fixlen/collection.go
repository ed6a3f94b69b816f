// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// CollectionConfig configures a list, set, or map codec.
type CollectionConfig struct {
	// Capacity is the maximum number of elements (for exact lists, the
	// required number). Every encoding reserves Capacity slots.
	Capacity int
}

// listCodec writes a cardinality field (unless exact), the elements,
// and inner.Default() into each unused slot.
type listCodec[T any] struct {
	inner      Codec[T]
	capacity   int
	exact      bool
	descriptor *descriptor.Descriptor
}

// List returns a codec for slices of at most config.Capacity elements.
// Decoding returns only the elements that were present at encode time.
func List[T any](inner Codec[T], config CollectionConfig) Codec[[]T] {
	checkCapacity(config.Capacity)
	return &listCodec[T]{
		inner:      inner,
		capacity:   config.Capacity,
		descriptor: descriptor.List(fmt.Sprintf("List<%s>", inner.Descriptor().Name), inner.Descriptor(), config.Capacity),
	}
}

// ExactList returns a codec for slices of exactly config.Capacity
// elements. No cardinality field is written.
func ExactList[T any](inner Codec[T], config CollectionConfig) Codec[[]T] {
	checkCapacity(config.Capacity)
	return &listCodec[T]{
		inner:      inner,
		capacity:   config.Capacity,
		exact:      true,
		descriptor: descriptor.ExactList(fmt.Sprintf("Array<%s>", inner.Descriptor().Name), inner.Descriptor(), config.Capacity),
	}
}

func (c *listCodec[T]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *listCodec[T]) Default() []T {
	if !c.exact {
		return []T{}
	}
	values := make([]T, c.capacity)
	for index := range values {
		values[index] = c.inner.Default()
	}
	return values
}

func (c *listCodec[T]) Encode(w *Writer, values []T) error {
	if err := c.checkCount(len(values)); err != nil {
		return err
	}
	if !c.exact {
		w.WriteUint32(uint32(len(values)))
	}
	for _, value := range values {
		if err := c.inner.Encode(w, value); err != nil {
			return err
		}
	}
	return c.pad(w, len(values))
}

func (c *listCodec[T]) checkCount(count int) error {
	if c.exact && count != c.capacity {
		return fmt.Errorf("%w: %s: expected size %d, actual %d",
			ErrLengthMismatch, c.descriptor.Name, c.capacity, count)
	}
	if count > c.capacity {
		return fmt.Errorf("%w: %s: expected size %d, actual %d",
			ErrCapacityExceeded, c.descriptor.Name, c.capacity, count)
	}
	return nil
}

func (c *listCodec[T]) pad(w *Writer, count int) error {
	if count == c.capacity {
		return nil
	}
	filler := c.inner.Default()
	for range c.capacity - count {
		if err := c.inner.Encode(w, filler); err != nil {
			return err
		}
	}
	return nil
}

func (c *listCodec[T]) Decode(r *Reader) ([]T, error) {
	count := c.capacity
	if !c.exact {
		var err error
		count, err = r.readCardinality(c.descriptor.Name, c.capacity)
		if err != nil {
			return nil, err
		}
	}

	values := make([]T, 0, count)
	for slot := range c.capacity {
		value, err := c.inner.Decode(r)
		if err != nil {
			return nil, err
		}
		if slot < count {
			values = append(values, value)
		}
	}
	return values, nil
}

// setCodec encodes a slice of unique elements in canonical order:
// ascending by the bytes of each element's encoding.
type setCodec[T any] struct {
	list       *listCodec[T]
	descriptor *descriptor.Descriptor
}

// ListAsSet returns a set codec over slices. Encoding sorts elements by
// their encoding and rejects duplicates. Decoding accepts only what
// Encode produces: elements whose encodings are strictly ascending, so
// duplicates and out-of-order slots are malformed.
func ListAsSet[T any](inner Codec[T], config CollectionConfig) Codec[[]T] {
	checkCapacity(config.Capacity)
	return &setCodec[T]{
		list: &listCodec[T]{inner: inner, capacity: config.Capacity,
			descriptor: descriptor.List(fmt.Sprintf("Set<%s>", inner.Descriptor().Name), inner.Descriptor(), config.Capacity)},
		descriptor: descriptor.Set(fmt.Sprintf("Set<%s>", inner.Descriptor().Name), inner.Descriptor(), config.Capacity),
	}
}

func (c *setCodec[T]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *setCodec[T]) Default() []T { return []T{} }

func (c *setCodec[T]) Encode(w *Writer, values []T) error {
	if err := c.list.checkCount(len(values)); err != nil {
		return err
	}
	sorted, err := sortByEncoding(c.list.inner, values)
	if err != nil {
		return err
	}
	for index := 1; index < len(sorted); index++ {
		if bytes.Equal(sorted[index-1].encoded, sorted[index].encoded) {
			return fmt.Errorf("%w: %s: duplicate element", ErrInvalidValue, c.descriptor.Name)
		}
	}
	w.WriteUint32(uint32(len(sorted)))
	for _, element := range sorted {
		w.WriteBytes(element.encoded)
	}
	return c.list.pad(w, len(sorted))
}

func (c *setCodec[T]) Decode(r *Reader) ([]T, error) {
	values, err := c.list.Decode(r)
	if err != nil {
		return nil, err
	}
	if err := checkCanonical(c.list.inner, values, c.descriptor.Name, "element"); err != nil {
		return nil, err
	}
	return values, nil
}

// Set returns a codec for Go sets represented as map[T]struct{}.
func Set[T comparable](inner Codec[T], config CollectionConfig) Codec[map[T]struct{}] {
	list := ListAsSet(inner, config)
	return &delegate[map[T]struct{}, []T]{
		inner:      list,
		descriptor: list.Descriptor(),
		to: func(set map[T]struct{}) ([]T, error) {
			values := make([]T, 0, len(set))
			for value := range set {
				values = append(values, value)
			}
			return values, nil
		},
		from: func(values []T) (map[T]struct{}, error) {
			set := make(map[T]struct{}, len(values))
			for _, value := range values {
				set[value] = struct{}{}
			}
			if len(set) != len(values) {
				return nil, fmt.Errorf("%w: %s contains equal elements", ErrMalformed, list.Descriptor().Name)
			}
			return set, nil
		},
	}
}

// entryListCodec encodes key/value pairs with unique keys in canonical
// order: ascending by the bytes of each key's encoding.
type entryListCodec[K, V any] struct {
	key        Codec[K]
	value      Codec[V]
	capacity   int
	descriptor *descriptor.Descriptor
}

// EntryList returns a map codec over slices of pairs, for key types
// that are not comparable in Go.
func EntryList[K, V any](key Codec[K], value Codec[V], config CollectionConfig) Codec[[]Pair[K, V]] {
	checkCapacity(config.Capacity)
	name := fmt.Sprintf("Map<%s,%s>", key.Descriptor().Name, value.Descriptor().Name)
	return &entryListCodec[K, V]{
		key:        key,
		value:      value,
		capacity:   config.Capacity,
		descriptor: descriptor.Map(name, key.Descriptor(), value.Descriptor(), config.Capacity),
	}
}

func (c *entryListCodec[K, V]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *entryListCodec[K, V]) Default() []Pair[K, V] { return []Pair[K, V]{} }

func (c *entryListCodec[K, V]) Encode(w *Writer, entries []Pair[K, V]) error {
	if len(entries) > c.capacity {
		return fmt.Errorf("%w: %s: expected size %d, actual %d",
			ErrCapacityExceeded, c.descriptor.Name, c.capacity, len(entries))
	}
	keys := make([]K, len(entries))
	for index, entry := range entries {
		keys[index] = entry.First
	}
	sorted, err := sortByEncoding(c.key, keys)
	if err != nil {
		return err
	}
	for index := 1; index < len(sorted); index++ {
		if bytes.Equal(sorted[index-1].encoded, sorted[index].encoded) {
			return fmt.Errorf("%w: %s: duplicate key", ErrInvalidValue, c.descriptor.Name)
		}
	}

	w.WriteUint32(uint32(len(sorted)))
	for _, key := range sorted {
		w.WriteBytes(key.encoded)
		if err := c.value.Encode(w, entries[key.index].Second); err != nil {
			return err
		}
	}

	defaultKey, defaultValue := c.key.Default(), c.value.Default()
	for range c.capacity - len(sorted) {
		if err := c.key.Encode(w, defaultKey); err != nil {
			return err
		}
		if err := c.value.Encode(w, defaultValue); err != nil {
			return err
		}
	}
	return nil
}

func (c *entryListCodec[K, V]) Decode(r *Reader) ([]Pair[K, V], error) {
	count, err := r.readCardinality(c.descriptor.Name, c.capacity)
	if err != nil {
		return nil, err
	}
	entries := make([]Pair[K, V], 0, count)
	keys := make([]K, 0, count)
	for slot := range c.capacity {
		key, err := c.key.Decode(r)
		if err != nil {
			return nil, err
		}
		value, err := c.value.Decode(r)
		if err != nil {
			return nil, err
		}
		if slot < count {
			entries = append(entries, Pair[K, V]{First: key, Second: value})
			keys = append(keys, key)
		}
	}
	if err := checkCanonical(c.key, keys, c.descriptor.Name, "key"); err != nil {
		return nil, err
	}
	return entries, nil
}

// Map returns a codec for Go maps of at most config.Capacity entries.
func Map[K comparable, V any](key Codec[K], value Codec[V], config CollectionConfig) Codec[map[K]V] {
	entries := EntryList(key, value, config)
	return &delegate[map[K]V, []Pair[K, V]]{
		inner:      entries,
		descriptor: entries.Descriptor(),
		to: func(m map[K]V) ([]Pair[K, V], error) {
			pairs := make([]Pair[K, V], 0, len(m))
			for k, v := range m {
				pairs = append(pairs, Pair[K, V]{First: k, Second: v})
			}
			return pairs, nil
		},
		from: func(pairs []Pair[K, V]) (map[K]V, error) {
			m := make(map[K]V, len(pairs))
			for _, pair := range pairs {
				m[pair.First] = pair.Second
			}
			if len(m) != len(pairs) {
				return nil, fmt.Errorf("%w: %s contains equal keys", ErrMalformed, entries.Descriptor().Name)
			}
			return m, nil
		},
	}
}

type encodedElement struct {
	index   int
	encoded []byte
}

func sortByEncoding[T any](codec Codec[T], values []T) ([]encodedElement, error) {
	elements := make([]encodedElement, len(values))
	for index, value := range values {
		encoded, err := Marshal(codec, value)
		if err != nil {
			return nil, err
		}
		elements[index] = encodedElement{index: index, encoded: encoded}
	}
	slices.SortFunc(elements, func(a, b encodedElement) int {
		return bytes.Compare(a.encoded, b.encoded)
	})
	return elements, nil
}

// checkCanonical re-encodes decoded elements and fails unless the
// encodings are strictly ascending, which is the order Encode writes.
// Re-encoding catches distinct slot bytes that decode to one value.
func checkCanonical[T any](codec Codec[T], values []T, name, what string) error {
	var previous []byte
	for index, value := range values {
		encoded, err := Marshal(codec, value)
		if err != nil {
			return fmt.Errorf("%w: %s %s %d does not re-encode: %v", ErrMalformed, name, what, index, err)
		}
		if index > 0 {
			switch bytes.Compare(previous, encoded) {
			case 0:
				return fmt.Errorf("%w: %s contains a duplicate %s", ErrMalformed, name, what)
			case 1:
				return fmt.Errorf("%w: %s %s %d is out of canonical order", ErrMalformed, name, what, index)
			}
		}
		previous = encoded
	}
	return nil
}
