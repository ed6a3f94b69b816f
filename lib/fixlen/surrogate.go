// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// Surrogate is an intermediate representation of T built entirely from
// fixed-length codecs. Actual converts it back.
type Surrogate[T any] interface {
	Actual() (T, error)
}

// SurrogateCodec encodes T by converting it to the surrogate S.
type SurrogateCodec[T any, S Surrogate[T]] struct {
	codec        Codec[S]
	from         func(T) (S, error)
	defaultValue T
	descriptor   *descriptor.Descriptor
}

// NewSurrogate returns a codec for T with exactly the layout of codec.
// from converts values for encoding and S.Actual converts decoded
// surrogates back; errors from either are returned unchanged. The
// default is the actual value of the surrogate codec's default, and
// fails construction when that conversion fails. An empty name keeps
// the surrogate descriptor's name.
//
// Round trips are exact only when from and Actual are inverses.
func NewSurrogate[T any, S Surrogate[T]](name string, codec Codec[S], from func(T) (S, error)) (*SurrogateCodec[T, S], error) {
	defaultValue, err := codec.Default().Actual()
	if err != nil {
		return nil, fmt.Errorf("surrogate %s: default: %w", codec.Descriptor().Name, err)
	}
	d := codec.Descriptor()
	if name != "" {
		d = d.WithName(name)
	}
	return &SurrogateCodec[T, S]{codec: codec, from: from, defaultValue: defaultValue, descriptor: d}, nil
}

// MustSurrogate is [NewSurrogate] for package-level codecs; it panics
// on error.
func MustSurrogate[T any, S Surrogate[T]](name string, codec Codec[S], from func(T) (S, error)) *SurrogateCodec[T, S] {
	c, err := NewSurrogate(name, codec, from)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *SurrogateCodec[T, S]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *SurrogateCodec[T, S]) Default() T { return c.defaultValue }

func (c *SurrogateCodec[T, S]) Encode(w *Writer, value T) error {
	surrogate, err := c.from(value)
	if err != nil {
		return err
	}
	return c.codec.Encode(w, surrogate)
}

func (c *SurrogateCodec[T, S]) Decode(r *Reader) (T, error) {
	surrogate, err := c.codec.Decode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return surrogate.Actual()
}
