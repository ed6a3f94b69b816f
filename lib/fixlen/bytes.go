// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"
	"unicode/utf8"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// fixedBytes encodes a byte slice of exactly size bytes with no
// header. The layout matches ExactList(Uint8()).
type fixedBytes struct {
	size       int
	descriptor *descriptor.Descriptor
}

// FixedBytes returns a codec for byte slices of exactly size bytes.
func FixedBytes(size int) Codec[[]byte] {
	checkCapacity(size)
	return &fixedBytes{
		size:       size,
		descriptor: descriptor.ExactList(fmt.Sprintf("Bytes[%d]", size), uint8Codec.Descriptor(), size),
	}
}

func (c *fixedBytes) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *fixedBytes) Default() []byte { return make([]byte, c.size) }

func (c *fixedBytes) Encode(w *Writer, value []byte) error {
	if len(value) != c.size {
		return fmt.Errorf("%w: %s: expected size %d, actual %d",
			ErrLengthMismatch, c.descriptor.Name, c.size, len(value))
	}
	w.WriteBytes(value)
	return nil
}

func (c *fixedBytes) Decode(r *Reader) ([]byte, error) {
	return r.ReadBytes(c.size)
}

// sizedBytes encodes up to capacity bytes as a four-byte length
// followed by capacity bytes, zero padded. The layout matches
// List(Uint8(), capacity).
type sizedBytes struct {
	capacity   int
	descriptor *descriptor.Descriptor
}

// SizedBytes returns a codec for byte slices of at most capacity bytes.
func SizedBytes(capacity int) Codec[[]byte] {
	checkCapacity(capacity)
	return &sizedBytes{
		capacity:   capacity,
		descriptor: descriptor.List(fmt.Sprintf("Bytes<%d>", capacity), uint8Codec.Descriptor(), capacity),
	}
}

func (c *sizedBytes) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *sizedBytes) Default() []byte { return []byte{} }

func (c *sizedBytes) Encode(w *Writer, value []byte) error {
	if len(value) > c.capacity {
		return fmt.Errorf("%w: %s: expected size %d, actual %d",
			ErrCapacityExceeded, c.descriptor.Name, c.capacity, len(value))
	}
	w.WriteUint32(uint32(len(value)))
	w.WriteBytes(value)
	w.WriteZeros(c.capacity - len(value))
	return nil
}

func (c *sizedBytes) Decode(r *Reader) ([]byte, error) {
	count, err := r.readCardinality(c.descriptor.Name, c.capacity)
	if err != nil {
		return nil, err
	}
	value, err := r.ReadBytes(count)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(c.capacity - count); err != nil {
		return nil, err
	}
	return value, nil
}

// stringCodec delegates to a byte codec and checks the text encoding
// in both directions.
type stringCodec struct {
	bytes      Codec[[]byte]
	descriptor *descriptor.Descriptor
	check      func(string) error
}

// UTF8String returns a codec for strings whose UTF-8 encoding is at
// most maxBytes bytes. Decoding rejects invalid UTF-8.
func UTF8String(maxBytes int) Codec[string] {
	bytes := SizedBytes(maxBytes)
	return &stringCodec{
		bytes: bytes,
		descriptor: bytes.Descriptor().
			WithName(fmt.Sprintf("Utf8String<%d>", maxBytes)).
			WithAttribute(descriptor.AttrEncoding, "utf-8"),
		check: func(value string) error {
			if !utf8.ValidString(value) {
				return fmt.Errorf("%q is not valid UTF-8", value)
			}
			return nil
		},
	}
}

// ASCIIString returns a codec for 7-bit strings of at most maxChars
// characters.
func ASCIIString(maxChars int) Codec[string] {
	bytes := SizedBytes(maxChars)
	return &stringCodec{
		bytes: bytes,
		descriptor: bytes.Descriptor().
			WithName(fmt.Sprintf("AsciiString<%d>", maxChars)).
			WithAttribute(descriptor.AttrEncoding, "ascii"),
		check: checkASCII,
	}
}

func checkASCII(value string) error {
	for index := 0; index < len(value); index++ {
		if value[index] >= utf8.RuneSelf {
			return fmt.Errorf("%q has a non-ASCII byte at offset %d", value, index)
		}
	}
	return nil
}

func (c *stringCodec) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *stringCodec) Default() string { return "" }

func (c *stringCodec) Encode(w *Writer, value string) error {
	if err := c.check(value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, c.descriptor.Name, err)
	}
	return c.bytes.Encode(w, []byte(value))
}

func (c *stringCodec) Decode(r *Reader) (string, error) {
	data, err := c.bytes.Decode(r)
	if err != nil {
		return "", err
	}
	value := string(data)
	if err := c.check(value); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformed, c.descriptor.Name, err)
	}
	return value, nil
}

func checkCapacity(capacity int) {
	if capacity < 0 {
		panic(fmt.Sprintf("fixlen: negative capacity %d", capacity))
	}
}
