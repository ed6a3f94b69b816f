// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fixlen implements fixed-length binary codecs: every encoding
// of a value of a given codec occupies exactly the number of bytes its
// [descriptor.Descriptor] declares, whatever the content. Variable
// cardinality is expressed by a bounded capacity and padding, never by
// a content-dependent length. This is the property zero-knowledge
// circuits need: the circuit's input record has one static shape.
//
// A [Codec] pairs Encode and Decode with a descriptor and a Default
// value. Defaults fill unused collection slots and the payload of null
// optionals. Codecs are immutable after construction and safe for
// concurrent use.
//
// # Layout
//
// All multi-byte integers are big-endian. Cardinality fields are four
// bytes, null flags one byte (1 = null). The decimal codec stores
// integer digits least-significant first and fraction digits
// most-significant first; see [BigDecimal].
//
// # Composition
//
// Primitives ([Int32], [Bool], ...) compose through [List], [ExactList],
// [Set], [Map], [Nullable], [PairOf], [Struct], [Enum], and the decimal
// codecs. Types without a natural fixed-length shape serialize through
// a surrogate ([NewSurrogate]); [Transform] and [Named] re-present one
// codec as another without re-implementing it. A [Registry] maps Go
// types and names to codecs and is constructed and passed explicitly.
//
// # Errors
//
// Encode and decode failures are reported through the sentinels in
// errors.go and are tested with errors.Is. Errors returned by
// caller-supplied conversion functions pass through unchanged.
package fixlen
