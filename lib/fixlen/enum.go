// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

type enumCodec[T comparable] struct {
	variants   []T
	ordinals   map[T]uint32
	descriptor *descriptor.Descriptor
}

// Enum returns a codec that writes the four-byte ordinal of a value
// among variants. The descriptor lists the variant names as rendered
// by fmt.Sprint. The default is the first variant. Panics when variants
// is empty or repeats a value.
func Enum[T comparable](name string, variants ...T) Codec[T] {
	if len(variants) == 0 {
		panic(fmt.Sprintf("fixlen: enum %s has no variants", name))
	}
	names := make([]string, len(variants))
	ordinals := make(map[T]uint32, len(variants))
	for index, variant := range variants {
		if _, ok := ordinals[variant]; ok {
			panic(fmt.Sprintf("fixlen: enum %s repeats variant %v", name, variant))
		}
		ordinals[variant] = uint32(index)
		names[index] = fmt.Sprint(variant)
	}
	return &enumCodec[T]{
		variants:   variants,
		ordinals:   ordinals,
		descriptor: descriptor.Enum(name, names),
	}
}

func (c *enumCodec[T]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *enumCodec[T]) Default() T { return c.variants[0] }

func (c *enumCodec[T]) Encode(w *Writer, value T) error {
	ordinal, ok := c.ordinals[value]
	if !ok {
		return fmt.Errorf("%w: %v is not a variant of %s", ErrInvalidValue, value, c.descriptor.Name)
	}
	w.WriteUint32(ordinal)
	return nil
}

func (c *enumCodec[T]) Decode(r *Reader) (T, error) {
	ordinal, err := r.ReadUint32()
	if err != nil {
		var zero T
		return zero, err
	}
	if uint64(ordinal) >= uint64(len(c.variants)) {
		var zero T
		return zero, fmt.Errorf("%w: %s has no variant with ordinal %d", ErrMalformed, c.descriptor.Name, ordinal)
	}
	return c.variants[ordinal], nil
}
