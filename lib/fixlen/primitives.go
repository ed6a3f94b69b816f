// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"
	"unicode/utf8"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// primitive is a fixed-width scalar codec. Decoding accepts every bit
// pattern of the right width.
type primitive[T any] struct {
	descriptor *descriptor.Descriptor
	encode     func(w *Writer, value T) error
	decode     func(r *Reader) (T, error)
}

func (p *primitive[T]) Descriptor() *descriptor.Descriptor { return p.descriptor }

func (p *primitive[T]) Default() T {
	var zero T
	return zero
}

func (p *primitive[T]) Encode(w *Writer, value T) error { return p.encode(w, value) }

func (p *primitive[T]) Decode(r *Reader) (T, error) { return p.decode(r) }

var (
	int8Codec = &primitive[int8]{
		descriptor: descriptor.Primitive("i8"),
		encode:     func(w *Writer, value int8) error { w.WriteUint8(uint8(value)); return nil },
		decode: func(r *Reader) (int8, error) {
			value, err := r.ReadUint8()
			return int8(value), err
		},
	}
	uint8Codec = &primitive[uint8]{
		descriptor: descriptor.Primitive("u8"),
		encode:     func(w *Writer, value uint8) error { w.WriteUint8(value); return nil },
		decode:     func(r *Reader) (uint8, error) { return r.ReadUint8() },
	}
	int16Codec = &primitive[int16]{
		descriptor: descriptor.Primitive("i16"),
		encode:     func(w *Writer, value int16) error { w.WriteUint16(uint16(value)); return nil },
		decode: func(r *Reader) (int16, error) {
			value, err := r.ReadUint16()
			return int16(value), err
		},
	}
	uint16Codec = &primitive[uint16]{
		descriptor: descriptor.Primitive("u16"),
		encode:     func(w *Writer, value uint16) error { w.WriteUint16(value); return nil },
		decode:     func(r *Reader) (uint16, error) { return r.ReadUint16() },
	}
	int32Codec = &primitive[int32]{
		descriptor: descriptor.Primitive("i32"),
		encode:     func(w *Writer, value int32) error { w.WriteUint32(uint32(value)); return nil },
		decode: func(r *Reader) (int32, error) {
			value, err := r.ReadUint32()
			return int32(value), err
		},
	}
	uint32Codec = &primitive[uint32]{
		descriptor: descriptor.Primitive("u32"),
		encode:     func(w *Writer, value uint32) error { w.WriteUint32(value); return nil },
		decode:     func(r *Reader) (uint32, error) { return r.ReadUint32() },
	}
	int64Codec = &primitive[int64]{
		descriptor: descriptor.Primitive("i64"),
		encode:     func(w *Writer, value int64) error { w.WriteUint64(uint64(value)); return nil },
		decode: func(r *Reader) (int64, error) {
			value, err := r.ReadUint64()
			return int64(value), err
		},
	}
	uint64Codec = &primitive[uint64]{
		descriptor: descriptor.Primitive("u64"),
		encode:     func(w *Writer, value uint64) error { w.WriteUint64(value); return nil },
		decode:     func(r *Reader) (uint64, error) { return r.ReadUint64() },
	}
	boolCodec = &primitive[bool]{
		descriptor: descriptor.Primitive("bool"),
		encode: func(w *Writer, value bool) error {
			if value {
				w.WriteUint8(1)
			} else {
				w.WriteUint8(0)
			}
			return nil
		},
		// Any non-zero byte reads as true.
		decode: func(r *Reader) (bool, error) {
			value, err := r.ReadUint8()
			return value != 0, err
		},
	}
	asciiCharCodec = &primitive[byte]{
		descriptor: descriptor.Primitive("ascii_char"),
		encode: func(w *Writer, value byte) error {
			if value > utf8.RuneSelf-1 {
				return fmt.Errorf("%w: %#x is not an ASCII character", ErrInvalidValue, value)
			}
			w.WriteUint8(value)
			return nil
		},
		decode: func(r *Reader) (byte, error) { return r.ReadUint8() },
	}
	runeCodec = &primitive[rune]{
		descriptor: descriptor.Primitive("rune"),
		encode: func(w *Writer, value rune) error {
			if !utf8.ValidRune(value) {
				return fmt.Errorf("%w: %#x is not a Unicode code point", ErrInvalidValue, value)
			}
			w.WriteUint32(uint32(value))
			return nil
		},
		decode: func(r *Reader) (rune, error) {
			value, err := r.ReadUint32()
			if err != nil {
				return 0, err
			}
			if !utf8.ValidRune(rune(value)) {
				return 0, fmt.Errorf("%w: %#x is not a Unicode code point", ErrMalformed, value)
			}
			return rune(value), nil
		},
	}
)

// Int8 returns the one-byte signed integer codec.
func Int8() Codec[int8] { return int8Codec }

// Uint8 returns the one-byte unsigned integer codec.
func Uint8() Codec[uint8] { return uint8Codec }

// Byte is an alias for [Uint8].
func Byte() Codec[byte] { return uint8Codec }

// Int16 returns the two-byte big-endian signed integer codec.
func Int16() Codec[int16] { return int16Codec }

// Uint16 returns the two-byte big-endian unsigned integer codec.
func Uint16() Codec[uint16] { return uint16Codec }

// Int32 returns the four-byte big-endian signed integer codec.
func Int32() Codec[int32] { return int32Codec }

// Uint32 returns the four-byte big-endian unsigned integer codec.
func Uint32() Codec[uint32] { return uint32Codec }

// Int64 returns the eight-byte big-endian signed integer codec.
func Int64() Codec[int64] { return int64Codec }

// Uint64 returns the eight-byte big-endian unsigned integer codec.
func Uint64() Codec[uint64] { return uint64Codec }

// Bool returns the one-byte boolean codec.
func Bool() Codec[bool] { return boolCodec }

// ASCIIChar returns the one-byte codec for 7-bit characters. Encoding
// rejects bytes above 0x7f; decoding returns the byte unchanged.
func ASCIIChar() Codec[byte] { return asciiCharCodec }

// Rune returns the four-byte big-endian code point codec. Encoding
// rejects surrogate halves and values beyond U+10FFFF.
func Rune() Codec[rune] { return runeCodec }
