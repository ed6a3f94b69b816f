// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package recordio reads and writes record files: a fixed header
// followed by a body of fixed-length records, all encoded by the same
// codec.
//
// Header layout (big-endian, 52 bytes):
//
//	offset  size  field
//	0       4     magic "ZKFR"
//	4       1     version (1)
//	5       1     compression tag
//	6       2     reserved, zero
//	8       4     record size in bytes
//	12      8     record count
//	20      32    descriptor fingerprint
//
// The body is the concatenation of the encoded records, optionally
// compressed as a single block. Because every record has the same
// size, record i starts at i × record size in the decompressed body.
//
// Readers check the fingerprint against the codec they were given, so
// a file written with one layout is never silently decoded with
// another.
package recordio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
)

const (
	// Magic opens every record file.
	Magic = "ZKFR"

	// Version is the only header version this package writes and
	// reads.
	Version = 1

	// HeaderSize is the encoded header length.
	HeaderSize = 52

	// MaxBodySize bounds the decompressed body so a corrupt header
	// cannot force an arbitrarily large allocation.
	MaxBodySize = 1 << 30
)

var (
	// ErrNotRecordFile is returned when the magic does not match.
	ErrNotRecordFile = errors.New("not a record file")

	// ErrUnsupportedVersion is returned for headers of another version.
	ErrUnsupportedVersion = errors.New("unsupported record file version")

	// ErrFingerprintMismatch is returned when a file was written with a
	// different descriptor than the reading codec's.
	ErrFingerprintMismatch = errors.New("record file descriptor fingerprint mismatch")

	// ErrCorrupt is returned for truncated files, bodies of the wrong
	// size, and record sizes that disagree with the codec.
	ErrCorrupt = errors.New("corrupt record file")
)

// Header is the decoded file header.
type Header struct {
	Version     uint8
	Compression Compression
	RecordSize  uint32
	Count       uint64
	Fingerprint descriptor.Fingerprint
}

// BodySize is the decompressed body length the header declares.
func (h Header) BodySize() (int, error) {
	if h.RecordSize == 0 {
		if h.Count != 0 {
			return 0, fmt.Errorf("%w: %d records of size 0", ErrCorrupt, h.Count)
		}
		return 0, nil
	}
	if h.Count > MaxBodySize/uint64(h.RecordSize) {
		return 0, fmt.Errorf("%w: %d records of %d bytes exceed the %d byte limit",
			ErrCorrupt, h.Count, h.RecordSize, MaxBodySize)
	}
	return int(h.Count) * int(h.RecordSize), nil
}

func (h Header) marshal() []byte {
	buffer := make([]byte, HeaderSize)
	copy(buffer[0:4], Magic)
	buffer[4] = h.Version
	buffer[5] = uint8(h.Compression)
	binary.BigEndian.PutUint32(buffer[8:12], h.RecordSize)
	binary.BigEndian.PutUint64(buffer[12:20], h.Count)
	copy(buffer[20:52], h.Fingerprint[:])
	return buffer
}

// ReadHeader reads and checks the fixed header. It does not compare
// the fingerprint; [Read] does that against its codec.
func ReadHeader(r io.Reader) (Header, error) {
	buffer := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buffer); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: header truncated", ErrCorrupt)
		}
		return Header{}, fmt.Errorf("reading header: %w", err)
	}
	if string(buffer[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: magic %q", ErrNotRecordFile, buffer[0:4])
	}
	header := Header{
		Version:     buffer[4],
		Compression: Compression(buffer[5]),
		RecordSize:  binary.BigEndian.Uint32(buffer[8:12]),
		Count:       binary.BigEndian.Uint64(buffer[12:20]),
	}
	copy(header.Fingerprint[:], buffer[20:52])
	if header.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}
	if buffer[6] != 0 || buffer[7] != 0 {
		return Header{}, fmt.Errorf("%w: reserved header bytes are set", ErrCorrupt)
	}
	if header.Compression > CompressionZstd {
		return Header{}, fmt.Errorf("%w: unknown compression tag %d", ErrCorrupt, buffer[5])
	}
	return header, nil
}

// Options configure Write and Read.
type Options struct {
	// Compression applies to Write only; Read takes it from the header.
	Compression Compression

	// Logger receives one debug line per file. Nil disables logging.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Write encodes records with codec and writes a complete record file
// to w. When the requested compression does not shrink the body, the
// file is written uncompressed and the header says so.
func Write[T any](w io.Writer, codec fixlen.Codec[T], records []T, options Options) (Header, error) {
	start := time.Now()
	fingerprint, err := descriptor.FingerprintOf(codec.Descriptor())
	if err != nil {
		return Header{}, fmt.Errorf("fingerprinting %s: %w", codec.Descriptor().Name, err)
	}
	header := Header{
		Version:     Version,
		Compression: options.Compression,
		RecordSize:  uint32(codec.Descriptor().ByteSize),
		Count:       uint64(len(records)),
		Fingerprint: fingerprint,
	}
	if _, err := header.BodySize(); err != nil {
		return Header{}, err
	}

	body := bytes.NewBuffer(make([]byte, 0, len(records)*codec.Descriptor().ByteSize))
	for index, record := range records {
		encoded, err := fixlen.Marshal(codec, record)
		if err != nil {
			return Header{}, fmt.Errorf("record %d: %w", index, err)
		}
		body.Write(encoded)
	}

	stored, err := compress(body.Bytes(), header.Compression)
	if errors.Is(err, errIncompressible) {
		header.Compression = CompressionNone
		stored = body.Bytes()
	} else if err != nil {
		return Header{}, err
	}

	if _, err := w.Write(header.marshal()); err != nil {
		return Header{}, fmt.Errorf("writing header: %w", err)
	}
	if _, err := w.Write(stored); err != nil {
		return Header{}, fmt.Errorf("writing body: %w", err)
	}

	options.logger().Debug("record file written",
		"type", codec.Descriptor().Name,
		"records", header.Count,
		"record_size", header.RecordSize,
		"compression", header.Compression.String(),
		"body_bytes", body.Len(),
		"stored_bytes", len(stored),
		"duration", time.Since(start),
	)
	return header, nil
}

// Read reads a complete record file from r and decodes every record
// with codec. The file's fingerprint and record size must match the
// codec's descriptor, and the body must hold exactly the declared
// number of records.
func Read[T any](r io.Reader, codec fixlen.Codec[T], options Options) ([]T, Header, error) {
	start := time.Now()
	header, err := ReadHeader(r)
	if err != nil {
		return nil, Header{}, err
	}

	fingerprint, err := descriptor.FingerprintOf(codec.Descriptor())
	if err != nil {
		return nil, header, fmt.Errorf("fingerprinting %s: %w", codec.Descriptor().Name, err)
	}
	if header.Fingerprint != fingerprint {
		return nil, header, fmt.Errorf("%w: file %s, codec %s (%s)",
			ErrFingerprintMismatch, header.Fingerprint, fingerprint, codec.Descriptor().Name)
	}
	recordSize := codec.Descriptor().ByteSize
	if int(header.RecordSize) != recordSize {
		return nil, header, fmt.Errorf("%w: record size %d, codec %s declares %d",
			ErrCorrupt, header.RecordSize, codec.Descriptor().Name, recordSize)
	}
	bodySize, err := header.BodySize()
	if err != nil {
		return nil, header, err
	}

	stored, err := io.ReadAll(io.LimitReader(r, MaxBodySize+1))
	if err != nil {
		return nil, header, fmt.Errorf("reading body: %w", err)
	}
	body, err := decompress(stored, header.Compression, bodySize)
	if err != nil {
		return nil, header, err
	}

	records := make([]T, 0, header.Count)
	for offset := 0; offset < len(body); offset += recordSize {
		record, err := fixlen.Unmarshal(codec, body[offset:offset+recordSize])
		if err != nil {
			return nil, header, fmt.Errorf("record %d: %w", offset/recordSize, err)
		}
		records = append(records, record)
	}

	options.logger().Debug("record file read",
		"type", codec.Descriptor().Name,
		"records", header.Count,
		"compression", header.Compression.String(),
		"stored_bytes", len(stored),
		"duration", time.Since(start),
	)
	return records, header, nil
}
