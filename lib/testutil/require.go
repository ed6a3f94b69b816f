// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RoundTrip verifies the codec's descriptor, encodes value, checks the
// encoding length against the descriptor, and returns the decoded value.
//
//	decoded := testutil.RoundTrip(t, fixlen.Int32(), 42)
func RoundTrip[T any](t TB, codec fixlen.Codec[T], value T) T {
	t.Helper()
	if err := descriptor.Verify(codec.Descriptor(), nil); err != nil {
		t.Fatalf("descriptor of %s does not verify: %v", codec.Descriptor().Name, err)
	}
	encoded := MustMarshal(t, codec, value)
	if len(encoded) != codec.Descriptor().ByteSize {
		t.Fatalf("%s encoded %d bytes, descriptor declares %d",
			codec.Descriptor().Name, len(encoded), codec.Descriptor().ByteSize)
	}
	decoded, err := fixlen.Unmarshal(codec, encoded)
	if err != nil {
		t.Fatalf("decoding %x with %s: %v", encoded, codec.Descriptor().Name, err)
	}
	return decoded
}

// MustMarshal encodes value with codec and fails the test on error.
func MustMarshal[T any](t TB, codec fixlen.Codec[T], value T) []byte {
	t.Helper()
	encoded, err := fixlen.Marshal(codec, value)
	if err != nil {
		t.Fatalf("encoding %v with %s: %v", value, codec.Descriptor().Name, err)
	}
	return encoded
}

// RequireRoundTrip is [RoundTrip] followed by a reflect.DeepEqual
// comparison of the decoded value with value.
func RequireRoundTrip[T any](t TB, codec fixlen.Codec[T], value T, msgAndArgs ...any) {
	t.Helper()
	decoded := RoundTrip(t, codec, value)
	if !reflect.DeepEqual(decoded, value) {
		t.Fatalf("%s round trip: got %#v, want %#v: %s",
			codec.Descriptor().Name, decoded, value, formatMessage(msgAndArgs))
	}
}

// RequireFixedLength encodes every value and fails unless all
// encodings are exactly the descriptor's byte size.
func RequireFixedLength[T any](t TB, codec fixlen.Codec[T], values ...T) {
	t.Helper()
	for _, value := range values {
		encoded, err := fixlen.Marshal(codec, value)
		if err != nil {
			t.Fatalf("encoding %v with %s: %v", value, codec.Descriptor().Name, err)
		}
		if len(encoded) != codec.Descriptor().ByteSize {
			t.Fatalf("%s encoded %v as %d bytes, want %d",
				codec.Descriptor().Name, value, len(encoded), codec.Descriptor().ByteSize)
		}
	}
}

// RequireErrorIs fails unless errors.Is(err, target).
//
//	testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded, "encoding %d elements", n)
func RequireErrorIs(t TB, err, target error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error matching %v, got nil: %s", target, formatMessage(msgAndArgs))
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error matching %v, got %v: %s", target, err, formatMessage(msgAndArgs))
	}
}

// WriteFile writes content to name inside a temporary directory that
// is removed when the test completes, and returns the file path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// formatMessage formats optional message arguments into a string.
// Accepts either a single string or a format string followed by args.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return "(no message)"
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs)
}
