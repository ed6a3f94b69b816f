// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"encoding/binary"
	"fmt"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// Codec encodes and decodes values of type T to and from a fixed
// number of bytes. Implementations hold only construction-time
// configuration and must be safe for concurrent use.
type Codec[T any] interface {
	// Descriptor describes the layout. The returned value is shared
	// and must not be modified.
	Descriptor() *descriptor.Descriptor

	// Default is the canonical filler value used to pad collections
	// and to fill the payload of null optionals.
	Default() T

	// Encode appends exactly Descriptor().ByteSize bytes to w.
	Encode(w *Writer, value T) error

	// Decode consumes exactly Descriptor().ByteSize bytes from r.
	Decode(r *Reader) (T, error)
}

// Marshal encodes value into a new buffer of exactly the codec's byte
// size.
func Marshal[T any](codec Codec[T], value T) ([]byte, error) {
	size := codec.Descriptor().ByteSize
	w := NewWriter(size)
	if err := codec.Encode(w, value); err != nil {
		return nil, err
	}
	if w.Len() != size {
		return nil, fmt.Errorf("fixlen: codec %s wrote %d bytes, descriptor declares %d",
			codec.Descriptor().Name, w.Len(), size)
	}
	return w.Bytes(), nil
}

// Unmarshal decodes data, which must be exactly the codec's byte size.
// Shorter and longer inputs are both malformed.
func Unmarshal[T any](codec Codec[T], data []byte) (T, error) {
	size := codec.Descriptor().ByteSize
	if len(data) != size {
		var zero T
		return zero, fmt.Errorf("%w: %s requires %d bytes, got %d",
			ErrMalformed, codec.Descriptor().Name, size, len(data))
	}
	r := NewReader(data)
	value, err := codec.Decode(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if r.Remaining() != 0 {
		var zero T
		return zero, fmt.Errorf("fixlen: codec %s left %d of %d bytes unread",
			codec.Descriptor().Name, r.Remaining(), size)
	}
	return value, nil
}

// Writer accumulates an encoding.
type Writer struct {
	buffer []byte
}

// NewWriter returns a Writer with room for capacity bytes.
func NewWriter(capacity int) *Writer {
	return &Writer{buffer: make([]byte, 0, capacity)}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buffer }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buffer) }

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(value uint8) {
	w.buffer = append(w.buffer, value)
}

// WriteUint16 appends value big-endian.
func (w *Writer) WriteUint16(value uint16) {
	w.buffer = binary.BigEndian.AppendUint16(w.buffer, value)
}

// WriteUint32 appends value big-endian.
func (w *Writer) WriteUint32(value uint32) {
	w.buffer = binary.BigEndian.AppendUint32(w.buffer, value)
}

// WriteUint64 appends value big-endian.
func (w *Writer) WriteUint64(value uint64) {
	w.buffer = binary.BigEndian.AppendUint64(w.buffer, value)
}

// WriteBytes appends data verbatim.
func (w *Writer) WriteBytes(data []byte) {
	w.buffer = append(w.buffer, data...)
}

// WriteZeros appends count zero bytes.
func (w *Writer) WriteZeros(count int) {
	for range count {
		w.buffer = append(w.buffer, 0)
	}
}

// Reader is a cursor over an encoding. Reads past the end fail with
// [ErrMalformed].
type Reader struct {
	data   []byte
	offset int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.offset }

func (r *Reader) take(count int) ([]byte, error) {
	if count < 0 || r.Remaining() < count {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrMalformed, count, r.offset, r.Remaining())
	}
	chunk := r.data[r.offset : r.offset+count]
	r.offset += count
	return chunk, nil
}

// ReadUint8 consumes one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	chunk, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return chunk[0], nil
}

// ReadUint16 consumes a big-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	chunk, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(chunk), nil
}

// ReadUint32 consumes a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	chunk, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(chunk), nil
}

// ReadUint64 consumes a big-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	chunk, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(chunk), nil
}

// ReadBytes consumes count bytes and returns a copy.
func (r *Reader) ReadBytes(count int) ([]byte, error) {
	chunk, err := r.take(count)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), chunk...), nil
}

// Skip consumes count bytes without returning them.
func (r *Reader) Skip(count int) error {
	_, err := r.take(count)
	return err
}

// readCardinality reads a cardinality field and rejects values beyond
// capacity. A cardinality larger than the number of slots cannot come
// from a well-formed encoding.
func (r *Reader) readCardinality(name string, capacity int) (int, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if uint64(count) > uint64(capacity) {
		return 0, fmt.Errorf("%w: %s declares %d elements, capacity is %d",
			ErrMalformed, name, count, capacity)
	}
	return int(count), nil
}
