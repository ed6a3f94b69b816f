// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// Field is one property of a struct codec. Build fields with
// [NewField].
type Field[S any] struct {
	name         string
	descriptor   *descriptor.Descriptor
	encode       func(w *Writer, s *S) error
	decode       func(r *Reader, s *S) error
	applyDefault func(s *S)
}

// Name returns the property name.
func (f Field[S]) Name() string { return f.name }

// NewField binds a property of S to the codec for its type. get and
// set read and write the property on a struct value.
func NewField[S, F any](name string, codec Codec[F], get func(*S) F, set func(*S, F)) Field[S] {
	return Field[S]{
		name:       name,
		descriptor: codec.Descriptor(),
		encode: func(w *Writer, s *S) error {
			return codec.Encode(w, get(s))
		},
		decode: func(r *Reader, s *S) error {
			value, err := codec.Decode(r)
			if err != nil {
				return err
			}
			set(s, value)
			return nil
		},
		applyDefault: func(s *S) { set(s, codec.Default()) },
	}
}

type structCodec[S any] struct {
	fields     []Field[S]
	zero       func() S
	descriptor *descriptor.Descriptor
}

// Struct returns a codec that writes fields in declaration order with
// no separators or padding. The default value has every field set to
// its codec's default. Panics on duplicate field names, which are
// programming errors.
func Struct[S any](name string, fields ...Field[S]) Codec[S] {
	return StructWith(name, func() S { var zero S; return zero }, fields...)
}

// StructWith is [Struct] for types whose zero value is not a usable
// starting point for decoding; zero supplies the value fields are set
// on.
func StructWith[S any](name string, zero func() S, fields ...Field[S]) Codec[S] {
	elements := make([]descriptor.Element, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, ok := seen[field.name]; ok {
			panic(fmt.Sprintf("fixlen: struct %s declares field %q twice", name, field.name))
		}
		seen[field.name] = struct{}{}
		elements = append(elements, descriptor.Element{Name: field.name, Descriptor: field.descriptor})
	}
	return &structCodec[S]{
		fields:     fields,
		zero:       zero,
		descriptor: descriptor.Struct(name, elements...),
	}
}

func (c *structCodec[S]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *structCodec[S]) Default() S {
	value := c.zero()
	for _, field := range c.fields {
		field.applyDefault(&value)
	}
	return value
}

func (c *structCodec[S]) Encode(w *Writer, value S) error {
	for _, field := range c.fields {
		if err := field.encode(w, &value); err != nil {
			return err
		}
	}
	return nil
}

func (c *structCodec[S]) Decode(r *Reader) (S, error) {
	value := c.zero()
	for _, field := range c.fields {
		if err := field.decode(r, &value); err != nil {
			var zero S
			return zero, err
		}
	}
	return value, nil
}
