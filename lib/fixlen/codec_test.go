// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/testutil"
)

func ptr[T any](value T) *T { return &value }

func TestUnmarshalRejectsWrongLength(t *testing.T) {
	t.Parallel()
	for _, length := range []int{0, 3, 5} {
		_, err := fixlen.Unmarshal(fixlen.Int32(), make([]byte, length))
		testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
	}
}

func TestPrimitiveEncodings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"i8", testutil.MustMarshal(t, fixlen.Int8(), -1), []byte{0xff}},
		{"u8", testutil.MustMarshal(t, fixlen.Uint8(), 0x7f), []byte{0x7f}},
		{"i16", testutil.MustMarshal(t, fixlen.Int16(), 0x0102), []byte{0x01, 0x02}},
		{"u16", testutil.MustMarshal(t, fixlen.Uint16(), 0xfffe), []byte{0xff, 0xfe}},
		{"i32", testutil.MustMarshal(t, fixlen.Int32(), -2), []byte{0xff, 0xff, 0xff, 0xfe}},
		{"u32", testutil.MustMarshal(t, fixlen.Uint32(), 1), []byte{0, 0, 0, 1}},
		{"i64", testutil.MustMarshal(t, fixlen.Int64(), 258), []byte{0, 0, 0, 0, 0, 0, 1, 2}},
		{"u64", testutil.MustMarshal(t, fixlen.Uint64(), 1<<63), []byte{0x80, 0, 0, 0, 0, 0, 0, 0}},
		{"bool", testutil.MustMarshal(t, fixlen.Bool(), true), []byte{1}},
		{"ascii_char", testutil.MustMarshal(t, fixlen.ASCIIChar(), 'A'), []byte{0x41}},
		{"rune", testutil.MustMarshal(t, fixlen.Rune(), 'é'), []byte{0, 0, 0, 0xe9}},
	}
	for _, test := range tests {
		if !bytes.Equal(test.got, test.want) {
			t.Errorf("%s: got %x, want %x", test.name, test.got, test.want)
		}
	}
}

func TestPrimitiveRoundTrips(t *testing.T) {
	t.Parallel()
	for _, value := range []int64{-1 << 63, -1, 0, 1, 1<<63 - 1} {
		if got := testutil.RoundTrip(t, fixlen.Int64(), value); got != value {
			t.Errorf("Int64 round trip: got %d, want %d", got, value)
		}
	}
	for _, value := range []int8{-128, 0, 127} {
		if got := testutil.RoundTrip(t, fixlen.Int8(), value); got != value {
			t.Errorf("Int8 round trip: got %d, want %d", got, value)
		}
	}
	if got := testutil.RoundTrip(t, fixlen.Rune(), '世'); got != '世' {
		t.Errorf("Rune round trip: got %q", got)
	}
}

func TestBoolDecodesNonZeroAsTrue(t *testing.T) {
	t.Parallel()
	value, err := fixlen.Unmarshal(fixlen.Bool(), []byte{2})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !value {
		t.Error("non-zero byte should decode as true")
	}
}

func TestPrimitiveValidation(t *testing.T) {
	t.Parallel()
	_, err := fixlen.Marshal(fixlen.ASCIIChar(), 0x80)
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	_, err = fixlen.Marshal(fixlen.Rune(), 0xd800)
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	_, err = fixlen.Unmarshal(fixlen.Rune(), []byte{0, 0x11, 0, 0})
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
}

func TestFixedBytes(t *testing.T) {
	t.Parallel()
	codec := fixlen.FixedBytes(4)
	if codec.Descriptor().ByteSize != 4 {
		t.Fatalf("ByteSize = %d, want 4", codec.Descriptor().ByteSize)
	}
	value := []byte{1, 2, 3, 4}
	if got := testutil.RoundTrip(t, codec, value); !bytes.Equal(got, value) {
		t.Errorf("round trip: got %x", got)
	}
	_, err := fixlen.Marshal(codec, []byte{1, 2, 3})
	testutil.RequireErrorIs(t, err, fixlen.ErrLengthMismatch)
	if got := codec.Default(); !bytes.Equal(got, make([]byte, 4)) {
		t.Errorf("Default() = %x, want four zero bytes", got)
	}
}

func TestSizedBytesLayoutMatchesByteList(t *testing.T) {
	t.Parallel()
	value := []byte{9, 8}
	sized := testutil.MustMarshal(t, fixlen.SizedBytes(5), value)
	list := testutil.MustMarshal(t, fixlen.List(fixlen.Uint8(), fixlen.CollectionConfig{Capacity: 5}), value)
	if !bytes.Equal(sized, list) {
		t.Fatalf("SizedBytes %x differs from List<u8> %x", sized, list)
	}
	want := []byte{0, 0, 0, 2, 9, 8, 0, 0, 0}
	if !bytes.Equal(sized, want) {
		t.Errorf("got %x, want %x", sized, want)
	}
	if got := testutil.RoundTrip(t, fixlen.SizedBytes(5), value); !bytes.Equal(got, value) {
		t.Errorf("round trip: got %x", got)
	}
}

func TestStrings(t *testing.T) {
	t.Parallel()
	utf8Codec := fixlen.UTF8String(8)
	if got := testutil.RoundTrip(t, utf8Codec, "héllo"); got != "héllo" {
		t.Errorf("UTF8String round trip: got %q", got)
	}
	if got := testutil.RoundTrip(t, utf8Codec, ""); got != "" {
		t.Errorf("empty string round trip: got %q", got)
	}

	_, err := fixlen.Marshal(fixlen.UTF8String(5), "héllo")
	testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded)

	_, err = fixlen.Marshal(utf8Codec, "\xff")
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	invalid := []byte{0, 0, 0, 1, 0xff, 0, 0, 0, 0, 0, 0, 0}
	_, err = fixlen.Unmarshal(utf8Codec, invalid)
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)

	asciiCodec := fixlen.ASCIIString(3)
	if got := testutil.RoundTrip(t, asciiCodec, "NLD"); got != "NLD" {
		t.Errorf("ASCIIString round trip: got %q", got)
	}
	_, err = fixlen.Marshal(asciiCodec, "é")
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	if encoding, _ := asciiCodec.Descriptor().StringAttribute(descriptor.AttrEncoding); encoding != "ascii" {
		t.Errorf("encoding attribute = %q, want ascii", encoding)
	}
}

func TestNamesDescribeComposition(t *testing.T) {
	t.Parallel()
	codec := fixlen.Nullable(fixlen.List(fixlen.Int32(), fixlen.CollectionConfig{Capacity: 2}))
	if name := codec.Descriptor().Name; !strings.Contains(name, "List<i32>") {
		t.Errorf("descriptor name %q does not mention the inner list", name)
	}
	if !reflect.DeepEqual(codec.Default(), (*[]int32)(nil)) {
		t.Errorf("nullable default should be nil")
	}
}
