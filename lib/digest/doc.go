// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest maps hash algorithm names to numeric identifiers,
// digest lengths, and hash functions.
//
// There is no process-wide table: callers build a [Registry] (usually
// with [Builtin]) and pass it to whatever needs to resolve algorithms.
// Fixed-length codecs for secure hashes take an [Algorithm] at
// construction time, because the digest length is part of the layout
// and never appears in the encoded bytes.
//
// The text form of a digest is "ALGORITHM:HEX", for example
// "SHA-256:9F86D0...". [Format] produces it and [Registry.Parse]
// reads it back.
package digest
