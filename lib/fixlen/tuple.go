// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// Pair is an ordered two-tuple. Map codecs also use it for entries.
type Pair[A, B any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
}

// Triple is an ordered three-tuple.
type Triple[A, B, C any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
	Third  C `json:"third"`
}

type pairCodec[A, B any] struct {
	first      Codec[A]
	second     Codec[B]
	descriptor *descriptor.Descriptor
}

// PairOf returns a codec for Pair values: the first component followed
// by the second.
func PairOf[A, B any](first Codec[A], second Codec[B]) Codec[Pair[A, B]] {
	name := fmt.Sprintf("Pair<%s,%s>", first.Descriptor().Name, second.Descriptor().Name)
	return &pairCodec[A, B]{
		first:      first,
		second:     second,
		descriptor: descriptor.Pair(name, first.Descriptor(), second.Descriptor()),
	}
}

func (c *pairCodec[A, B]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *pairCodec[A, B]) Default() Pair[A, B] {
	return Pair[A, B]{First: c.first.Default(), Second: c.second.Default()}
}

func (c *pairCodec[A, B]) Encode(w *Writer, value Pair[A, B]) error {
	if err := c.first.Encode(w, value.First); err != nil {
		return err
	}
	return c.second.Encode(w, value.Second)
}

func (c *pairCodec[A, B]) Decode(r *Reader) (Pair[A, B], error) {
	first, err := c.first.Decode(r)
	if err != nil {
		return Pair[A, B]{}, err
	}
	second, err := c.second.Decode(r)
	if err != nil {
		return Pair[A, B]{}, err
	}
	return Pair[A, B]{First: first, Second: second}, nil
}

// TripleOf returns a codec for Triple values, laid out as a struct of
// three fields named first, second, and third.
func TripleOf[A, B, C any](first Codec[A], second Codec[B], third Codec[C]) Codec[Triple[A, B, C]] {
	name := fmt.Sprintf("Triple<%s,%s,%s>",
		first.Descriptor().Name, second.Descriptor().Name, third.Descriptor().Name)
	return Struct(name,
		NewField("first", first,
			func(t *Triple[A, B, C]) A { return t.First },
			func(t *Triple[A, B, C], v A) { t.First = v }),
		NewField("second", second,
			func(t *Triple[A, B, C]) B { return t.Second },
			func(t *Triple[A, B, C], v B) { t.Second = v }),
		NewField("third", third,
			func(t *Triple[A, B, C]) C { return t.Third },
			func(t *Triple[A, B, C], v C) { t.Third = v }),
	)
}
