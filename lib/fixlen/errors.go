// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import "errors"

var (
	// ErrCapacityExceeded is returned when a collection holds more
	// elements than its codec's declared capacity.
	ErrCapacityExceeded = errors.New("collection capacity exceeded")

	// ErrLengthMismatch is returned when an exact-length collection is
	// given the wrong number of elements.
	ErrLengthMismatch = errors.New("exact length mismatch")

	// ErrMalformed is returned when input bytes cannot be a valid
	// encoding: wrong total length, a cardinality beyond capacity, an
	// invalid flag, tag, or digit.
	ErrMalformed = errors.New("malformed fixed-length input")

	// ErrInvalidValue is returned when a value has no representation
	// under the codec (NaN decimals, non-ASCII text in an ASCII string,
	// an enum value that is not a variant, duplicate set elements).
	ErrInvalidValue = errors.New("value not representable")

	// ErrUnsupportedType is returned when no codec is registered for a
	// requested type or name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDuplicateRegistration is returned when a type or name is
	// registered twice.
	ErrDuplicateRegistration = errors.New("duplicate codec registration")
)
