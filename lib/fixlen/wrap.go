// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"
	"reflect"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// delegate encodes T by converting it to U and encoding with inner.
type delegate[T, U any] struct {
	inner      Codec[U]
	descriptor *descriptor.Descriptor
	to         func(T) (U, error)
	from       func(U) (T, error)
	// fallback is the default when set; otherwise the default is
	// from(inner.Default()).
	fallback *T
}

func (c *delegate[T, U]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *delegate[T, U]) Default() T {
	if c.fallback != nil {
		return *c.fallback
	}
	value, err := c.from(c.inner.Default())
	if err != nil {
		var zero T
		return zero
	}
	return value
}

func (c *delegate[T, U]) Encode(w *Writer, value T) error {
	converted, err := c.to(value)
	if err != nil {
		return err
	}
	return c.inner.Encode(w, converted)
}

func (c *delegate[T, U]) Decode(r *Reader) (T, error) {
	decoded, err := c.inner.Decode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.from(decoded)
}

// Transform returns a codec for T with the layout of inner. to converts
// values for encoding and from converts decoded values back; errors
// from either pass through unchanged. An empty name keeps the inner
// descriptor's name.
func Transform[T, U any](name string, inner Codec[U], to func(T) (U, error), from func(U) (T, error)) Codec[T] {
	d := inner.Descriptor()
	if name != "" {
		d = d.WithName(name)
	}
	return &delegate[T, U]{inner: inner, descriptor: d, to: to, from: from}
}

// Named returns inner with its descriptor renamed. Encoding is
// unchanged.
func Named[T any](name string, inner Codec[T]) Codec[T] {
	return &delegate[T, T]{
		inner:      inner,
		descriptor: inner.Descriptor().WithName(name),
		to:         func(value T) (T, error) { return value, nil },
		from:       func(value T) (T, error) { return value, nil },
	}
}

// WithAttribute returns inner with key set on a copy of its
// descriptor. Encoding is unchanged.
func WithAttribute[T any](inner Codec[T], key string, value any) Codec[T] {
	return &delegate[T, T]{
		inner:      inner,
		descriptor: inner.Descriptor().WithAttribute(key, value),
		to:         func(value T) (T, error) { return value, nil },
		from:       func(value T) (T, error) { return value, nil },
	}
}

// WithDefault returns inner with value as its default, which is what
// collections pad with and nullables write under the null flag. value
// must be encodable by inner.
func WithDefault[T any](inner Codec[T], value T) Codec[T] {
	return &delegate[T, T]{
		inner:      inner,
		descriptor: inner.Descriptor(),
		to:         func(value T) (T, error) { return value, nil },
		from:       func(value T) (T, error) { return value, nil },
		fallback:   &value,
	}
}

type erased[T any] struct {
	inner    Codec[T]
	nilable  bool
	typeName string
}

// Erase adapts inner to accept and return values of type any. Encoding
// rejects values that are not of type T with [ErrInvalidValue]; a nil
// interface is accepted only when T itself admits nil.
func Erase[T any](inner Codec[T]) Codec[any] {
	if already, ok := any(inner).(Codec[any]); ok {
		return already
	}
	t := reflect.TypeFor[T]()
	return &erased[T]{inner: inner, nilable: admitsNil(t), typeName: t.String()}
}

func admitsNil(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func (c *erased[T]) Descriptor() *descriptor.Descriptor { return c.inner.Descriptor() }

func (c *erased[T]) Default() any { return c.inner.Default() }

func (c *erased[T]) Encode(w *Writer, value any) error {
	if value == nil && c.nilable {
		var zero T
		return c.inner.Encode(w, zero)
	}
	typed, ok := value.(T)
	if !ok {
		return fmt.Errorf("%w: %s expects %s, got %T",
			ErrInvalidValue, c.inner.Descriptor().Name, c.typeName, value)
	}
	return c.inner.Encode(w, typed)
}

func (c *erased[T]) Decode(r *Reader) (any, error) {
	value, err := c.inner.Decode(r)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Assert recovers a typed codec from one returned by [Erase]. When
// codec was not erased from a Codec[T], the result converts at run
// time and fails with [ErrInvalidValue] on a type mismatch.
func Assert[T any](codec Codec[any]) Codec[T] {
	if original, ok := codec.(*erased[T]); ok {
		return original.inner
	}
	return &delegate[T, any]{
		inner:      codec,
		descriptor: codec.Descriptor(),
		to:         func(value T) (any, error) { return value, nil },
		from: func(value any) (T, error) {
			typed, ok := value.(T)
			if !ok {
				var zero T
				return zero, fmt.Errorf("%w: %s decoded %T, expected %s",
					ErrInvalidValue, codec.Descriptor().Name, value, reflect.TypeFor[T]())
			}
			return typed, nil
		},
	}
}
