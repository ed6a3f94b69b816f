// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package descriptor models the shape of a fixed-length encoding
// independently of the code that produces it.
//
// A [Descriptor] carries a logical [Kind], the exact number of bytes
// every encoding occupies ([Descriptor.ByteSize]), the ordered named
// sub-elements of composite kinds, and a free-form attribute map
// (declared capacities, decimal precision, digest algorithm, ...).
// Codecs in lib/fixlen publish a descriptor; downstream consumers such
// as circuit source generators read it to emit a structurally matching
// record type.
//
// The byte size of every node is derivable from the node's kind,
// attributes, and children alone. [ComputeByteSize] performs that
// derivation and [Verify] checks that every declared size in a tree
// agrees with it, so a consumer never has to trust the producer's
// arithmetic:
//
//	size, err := descriptor.ComputeByteSize(codec.Descriptor(), nil)
//
// [Normalize] turns a tree into a [Document]: every named struct and
// enum below the root is replaced by a reference node and defined once.
// A Document is itself a [Resolver] for those references.
//
// Descriptors serialize to deterministic CBOR (RFC 8949 Core
// Deterministic Encoding), YAML, and JSON. [Fingerprint] hashes the
// CBOR form with BLAKE3 and identifies a schema in record file headers
// and generated code.
package descriptor
