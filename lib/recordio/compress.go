// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recordio

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a record file body is stored. Tags are
// written into the file header; changing the values breaks existing
// files.
type Compression uint8

const (
	// CompressionNone stores records as is.
	CompressionNone Compression = 0

	// CompressionLZ4 stores the body as one LZ4 block. Fast to decode,
	// and enough to squeeze out the zero padding that dominates
	// sparsely filled fixed-length records.
	CompressionLZ4 Compression = 1

	// CompressionZstd stores the body as one zstd frame at the default
	// level. Better ratios for large files of text-heavy records.
	CompressionZstd Compression = 2
)

// String returns the name used in configuration and flags.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses the name produced by [Compression.String].
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

// errIncompressible is returned when compression would not shrink the
// body. Writers fall back to CompressionNone.
var errIncompressible = errors.New("body is incompressible")

func compress(data []byte, tag Compression) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(data)))
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for incompressible input.
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return destination[:written], nil
	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, errIncompressible
		}
		return compressed, nil
	default:
		return nil, fmt.Errorf("unsupported compression tag %d", uint8(tag))
	}
}

// decompress expands a body and checks that it has exactly size bytes.
func decompress(data []byte, tag Compression, size int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(data) != size {
			return nil, fmt.Errorf("%w: body is %d bytes, header declares %d", ErrCorrupt, len(data), size)
		}
		return data, nil
	case CompressionLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(data, destination)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4 decompress: %v", ErrCorrupt, err)
		}
		if read != size {
			return nil, fmt.Errorf("%w: lz4 body expands to %d bytes, header declares %d", ErrCorrupt, read, size)
		}
		return destination, nil
	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd decompress: %v", ErrCorrupt, err)
		}
		if len(result) != size {
			return nil, fmt.Errorf("%w: zstd body expands to %d bytes, header declares %d", ErrCorrupt, len(result), size)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression tag %d", ErrCorrupt, uint8(tag))
	}
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use through
// EncodeAll and DecodeAll, so one of each serves the whole process.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("recordio: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBodySize))
	if err != nil {
		panic("recordio: zstd decoder initialization failed: " + err.Error())
	}
}
