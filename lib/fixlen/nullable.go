// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

const (
	flagPresent uint8 = 0
	flagNull    uint8 = 1
)

type nullableCodec[T any] struct {
	inner      Codec[T]
	descriptor *descriptor.Descriptor
}

// Nullable returns a codec for optional values. A nil pointer is
// written as the null flag followed by inner.Default(), so present and
// absent values occupy the same number of bytes.
func Nullable[T any](inner Codec[T]) Codec[*T] {
	return &nullableCodec[T]{
		inner:      inner,
		descriptor: descriptor.Nullable(inner.Descriptor().Name+"?", inner.Descriptor()),
	}
}

func (c *nullableCodec[T]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *nullableCodec[T]) Default() *T { return nil }

func (c *nullableCodec[T]) Encode(w *Writer, value *T) error {
	if value == nil {
		w.WriteUint8(flagNull)
		return c.inner.Encode(w, c.inner.Default())
	}
	w.WriteUint8(flagPresent)
	return c.inner.Encode(w, *value)
}

func (c *nullableCodec[T]) Decode(r *Reader) (*T, error) {
	flag, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	if flag != flagPresent && flag != flagNull {
		return nil, fmt.Errorf("%w: %s has null flag %d", ErrMalformed, c.descriptor.Name, flag)
	}
	value, err := c.inner.Decode(r)
	if err != nil {
		return nil, err
	}
	if flag == flagNull {
		return nil, nil
	}
	return &value, nil
}
