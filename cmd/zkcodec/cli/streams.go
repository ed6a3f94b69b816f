// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"
)

// Streams are the standard input, output, and error of a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StandardStreams returns the process's stdin, stdout, and stderr.
func StandardStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ReadInput resolves input data from either a file (the last element
// of args, if it names a regular file on disk) or In.
//
// Returns the input bytes and the args with any consumed file path
// removed. The caller is responsible for validating that the returned
// args are acceptable.
func (s Streams) ReadInput(args []string) ([]byte, []string, error) {
	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err := os.ReadFile(candidate)
			if err != nil {
				return nil, nil, Internal("read %s: %w", candidate, err)
			}
			return data, args[:length-1], nil
		}
	}

	data, err := io.ReadAll(s.In)
	if err != nil {
		return nil, nil, Internal("read stdin: %w", err)
	}
	return data, args, nil
}

// Encodings are the byte encodings accepted by [EncodeBytes] and
// [DecodeBytes].
var Encodings = []string{"hex", "base64", "raw"}

// EncodeBytes renders data in the named encoding. Text encodings end
// with a newline.
func EncodeBytes(data []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "hex":
		return []byte(hex.EncodeToString(data) + "\n"), nil
	case "base64":
		return []byte(base64.StdEncoding.EncodeToString(data) + "\n"), nil
	case "raw":
		return data, nil
	default:
		return nil, Validation("unknown encoding %q (want one of %v)", encoding, Encodings)
	}
}

// DecodeBytes reverses [EncodeBytes]. Whitespace in text encodings is
// ignored, so "a1 63 6b" and "a1636b" decode alike.
func DecodeBytes(data []byte, encoding string) ([]byte, error) {
	if encoding == "raw" {
		return data, nil
	}
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	switch encoding {
	case "hex":
		decoded := make([]byte, hex.DecodedLen(len(cleaned)))
		count, err := hex.Decode(decoded, cleaned)
		if err != nil {
			return nil, Validation("decode hex: %w", err)
		}
		return decoded[:count], nil
	case "base64":
		decoded := make([]byte, base64.StdEncoding.DecodedLen(len(cleaned)))
		count, err := base64.StdEncoding.Decode(decoded, cleaned)
		if err != nil {
			return nil, Validation("decode base64: %w", err)
		}
		return decoded[:count], nil
	default:
		return nil, Validation("unknown encoding %q (want one of %v)", encoding, Encodings)
	}
}

// Printf writes formatted text to Out.
func (s Streams) Printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}
