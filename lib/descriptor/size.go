// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is returned for structurally invalid descriptors
	// (missing elements, missing capacity, unknown primitive).
	ErrInvalid = errors.New("invalid descriptor")

	// ErrUnresolved is returned when a reference cannot be resolved or
	// references form a cycle.
	ErrUnresolved = errors.New("unresolved descriptor reference")

	// ErrSizeMismatch is returned by [Verify] when a declared byte size
	// disagrees with the recomputed one.
	ErrSizeMismatch = errors.New("descriptor byte size mismatch")
)

// Resolver looks up the descriptor a reference node points at.
type Resolver interface {
	Resolve(name string) (*Descriptor, bool)
}

// ComputeByteSize derives the byte size of d from kinds, attributes,
// and children alone, ignoring every declared ByteSize except on
// references when resolver is nil.
func ComputeByteSize(d *Descriptor, resolver Resolver) (int, error) {
	return computeSize(d, resolver, nil, nil)
}

// Verify recomputes every node of d and returns an error naming the
// first node whose declared ByteSize differs.
func Verify(d *Descriptor, resolver Resolver) error {
	_, err := computeSize(d, resolver, nil, func(node *Descriptor, computed int) error {
		if node.ByteSize != computed {
			return fmt.Errorf("%w: %s (%s) declares %d bytes, layout requires %d",
				ErrSizeMismatch, node.Name, node.Kind, node.ByteSize, computed)
		}
		return nil
	})
	return err
}

func computeSize(d *Descriptor, resolver Resolver, visiting []string, check func(*Descriptor, int) error) (int, error) {
	if d == nil {
		return 0, fmt.Errorf("%w: nil descriptor", ErrInvalid)
	}

	child := func(name string) (int, error) {
		element, ok := d.Element(name)
		if !ok {
			return 0, fmt.Errorf("%w: %s (%s) has no %q element", ErrInvalid, d.Name, d.Kind, name)
		}
		return computeSize(element, resolver, visiting, check)
	}

	capacity := func() (int, error) {
		value, ok := d.IntAttribute(AttrCapacity)
		if !ok || value < 0 {
			return 0, fmt.Errorf("%w: %s (%s) has no valid %s attribute", ErrInvalid, d.Name, d.Kind, AttrCapacity)
		}
		return value, nil
	}

	var size int
	switch d.Kind {
	case KindPrimitive:
		width, ok := PrimitiveWidth(d.Name)
		if !ok {
			return 0, fmt.Errorf("%w: unknown primitive %q", ErrInvalid, d.Name)
		}
		size = width

	case KindList, KindSet:
		count, err := capacity()
		if err != nil {
			return 0, err
		}
		element, err := child("element")
		if err != nil {
			return 0, err
		}
		size = count * element
		if !d.BoolAttribute(AttrExact) {
			size += CardinalitySize
		} else if d.Kind == KindSet {
			return 0, fmt.Errorf("%w: set %s cannot be exact", ErrInvalid, d.Name)
		}

	case KindMap:
		count, err := capacity()
		if err != nil {
			return 0, err
		}
		key, err := child("key")
		if err != nil {
			return 0, err
		}
		value, err := child("value")
		if err != nil {
			return 0, err
		}
		size = CardinalitySize + count*(key+value)

	case KindPair:
		first, err := child("first")
		if err != nil {
			return 0, err
		}
		second, err := child("second")
		if err != nil {
			return 0, err
		}
		size = first + second

	case KindNullable:
		element, err := child("element")
		if err != nil {
			return 0, err
		}
		size = NullFlagSize + element

	case KindEnum:
		size = EnumOrdinalSize

	case KindStruct:
		for _, element := range d.Elements {
			elementSize, err := computeSize(element.Descriptor, resolver, visiting, check)
			if err != nil {
				return 0, err
			}
			size += elementSize
		}

	case KindReference:
		target, ok := d.StringAttribute(AttrTarget)
		if !ok {
			target = d.Name
		}
		if resolver == nil {
			size = d.ByteSize
			break
		}
		for _, name := range visiting {
			if name == target {
				return 0, fmt.Errorf("%w: reference cycle through %q", ErrUnresolved, target)
			}
		}
		resolved, ok := resolver.Resolve(target)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnresolved, target)
		}
		resolvedSize, err := computeSize(resolved, resolver, append(visiting, target), check)
		if err != nil {
			return 0, err
		}
		size = resolvedSize

	default:
		return 0, fmt.Errorf("%w: %s has unknown kind %d", ErrInvalid, d.Name, uint8(d.Kind))
	}

	if check != nil {
		if err := check(d, size); err != nil {
			return 0, err
		}
	}
	return size, nil
}
