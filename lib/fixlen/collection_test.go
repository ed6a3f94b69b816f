// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen_test

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"strings"
	"testing"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/testutil"
)

func TestListCapacityExceeded(t *testing.T) {
	t.Parallel()
	codec := fixlen.List(fixlen.Int32(), fixlen.CollectionConfig{Capacity: 3})
	_, err := fixlen.Marshal(codec, []int32{1, 2, 3, 4, 5})
	testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded)
	if !strings.Contains(err.Error(), "expected size 3, actual 5") {
		t.Errorf("error %q does not name both sizes", err)
	}
}

func TestListDecodesOnlyPresentElements(t *testing.T) {
	t.Parallel()
	codec := fixlen.List(fixlen.Int32(), fixlen.CollectionConfig{Capacity: 10})
	if size := codec.Descriptor().ByteSize; size != 4+10*4 {
		t.Fatalf("ByteSize = %d, want 44", size)
	}
	got := testutil.RoundTrip(t, codec, []int32{7, 8})
	if !reflect.DeepEqual(got, []int32{7, 8}) {
		t.Errorf("got %v, want [7 8]", got)
	}

	empty := testutil.RoundTrip(t, codec, nil)
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty list decoded as %#v, want empty non-nil slice", empty)
	}
}

func TestListPadsWithInnerDefault(t *testing.T) {
	t.Parallel()
	sevens := fixlen.WithDefault(fixlen.Int8(), 7)
	encoded := testutil.MustMarshal(t, fixlen.List[int8](sevens, fixlen.CollectionConfig{Capacity: 3}), []int8{1})
	want := []byte{0, 0, 0, 1, 1, 7, 7}
	if !bytes.Equal(encoded, want) {
		t.Errorf("got %x, want %x", encoded, want)
	}
}

func TestListRejectsCardinalityBeyondCapacity(t *testing.T) {
	t.Parallel()
	codec := fixlen.List(fixlen.Int8(), fixlen.CollectionConfig{Capacity: 2})
	_, err := fixlen.Unmarshal(codec, []byte{0, 0, 0, 3, 1, 2})
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
}

func TestExactList(t *testing.T) {
	t.Parallel()
	codec := fixlen.ExactList(fixlen.Int16(), fixlen.CollectionConfig{Capacity: 3})
	if size := codec.Descriptor().ByteSize; size != 6 {
		t.Fatalf("ByteSize = %d, want 6 (no cardinality field)", size)
	}
	got := testutil.RoundTrip(t, codec, []int16{1, 2, 3})
	if !reflect.DeepEqual(got, []int16{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
	_, err := fixlen.Marshal(codec, []int16{1, 2})
	testutil.RequireErrorIs(t, err, fixlen.ErrLengthMismatch)
	_, err = fixlen.Marshal(codec, []int16{1, 2, 3, 4})
	testutil.RequireErrorIs(t, err, fixlen.ErrLengthMismatch)

	if got := codec.Default(); !reflect.DeepEqual(got, []int16{0, 0, 0}) {
		t.Errorf("Default() = %v, want three zeros", got)
	}
}

func TestMapLayout(t *testing.T) {
	t.Parallel()
	codec := fixlen.Map(fixlen.Int32(), fixlen.Int16(), fixlen.CollectionConfig{Capacity: 10})
	if size := codec.Descriptor().ByteSize; size != 4+10*(4+2) {
		t.Fatalf("ByteSize = %d, want 64", size)
	}
	three := map[int32]int16{1: 12, 2: 22, 3: 32}
	four := map[int32]int16{1: 12, 2: 22, 3: 32, 4: 42}

	encoded := testutil.MustMarshal(t, codec, three)
	if len(encoded) != len(testutil.MustMarshal(t, codec, four)) {
		t.Fatal("maps of different sizes encoded to different lengths")
	}
	if count := binary.BigEndian.Uint32(encoded); count != 3 {
		t.Errorf("cardinality = %d, want 3", count)
	}
	if got := testutil.RoundTrip(t, codec, three); !reflect.DeepEqual(got, three) {
		t.Errorf("round trip: got %v", got)
	}
}

func TestMapEncodingIsCanonical(t *testing.T) {
	t.Parallel()
	codec := fixlen.Map(fixlen.Int32(), fixlen.Int16(), fixlen.CollectionConfig{Capacity: 8})
	value := map[int32]int16{5: 1, -1: 2, 300: 3, 0: 4, 17: 5}
	first := testutil.MustMarshal(t, codec, value)
	for range 20 {
		if again := testutil.MustMarshal(t, codec, value); !bytes.Equal(first, again) {
			t.Fatal("map encoding depends on iteration order")
		}
	}

	entries := fixlen.EntryList(fixlen.Int32(), fixlen.Int16(), fixlen.CollectionConfig{Capacity: 8})
	forward := testutil.MustMarshal(t, entries, []fixlen.Pair[int32, int16]{{1, 1}, {2, 2}})
	backward := testutil.MustMarshal(t, entries, []fixlen.Pair[int32, int16]{{2, 2}, {1, 1}})
	if !bytes.Equal(forward, backward) {
		t.Error("entry order affected the encoding")
	}
}

func TestMapDuplicateKeys(t *testing.T) {
	t.Parallel()
	entries := fixlen.EntryList(fixlen.Int8(), fixlen.Int8(), fixlen.CollectionConfig{Capacity: 2})
	_, err := fixlen.Marshal(entries, []fixlen.Pair[int8, int8]{{1, 1}, {1, 2}})
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	_, err = fixlen.Unmarshal(entries, []byte{0, 0, 0, 2, 1, 1, 1, 2})
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)

	_, err = fixlen.Marshal(entries, []fixlen.Pair[int8, int8]{{1, 1}, {2, 2}, {3, 3}})
	testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded)
}

func TestSet(t *testing.T) {
	t.Parallel()
	codec := fixlen.Set(fixlen.Int16(), fixlen.CollectionConfig{Capacity: 4})
	if codec.Descriptor().Kind != descriptor.KindSet {
		t.Errorf("kind = %s, want set", codec.Descriptor().Kind)
	}
	value := map[int16]struct{}{3: {}, 1: {}, 2: {}}
	if got := testutil.RoundTrip(t, codec, value); !reflect.DeepEqual(got, value) {
		t.Errorf("round trip: got %v", got)
	}

	list := fixlen.ListAsSet(fixlen.Int16(), fixlen.CollectionConfig{Capacity: 4})
	encoded := testutil.MustMarshal(t, list, []int16{3, 1, 2})
	if got, err := fixlen.Unmarshal(list, encoded); err != nil || !reflect.DeepEqual(got, []int16{1, 2, 3}) {
		t.Errorf("set elements not in canonical order: %v, %v", got, err)
	}

	_, err := fixlen.Marshal(list, []int16{1, 1})
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	_, err = fixlen.Unmarshal(list, []byte{0, 0, 0, 2, 0, 5, 0, 5, 0, 0, 0, 0})
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
}

func TestCollectionsDecodeOnlyCanonicalEncodings(t *testing.T) {
	t.Parallel()
	config := fixlen.CollectionConfig{Capacity: 2}
	tests := []struct {
		name  string
		codec fixlen.Codec[any]
		data  []byte
	}{
		// Bool decodes any non-zero byte as true, so 01 and 02 are one element.
		{"set of equal values", fixlen.Erase(fixlen.Set(fixlen.Bool(), config)), []byte{0, 0, 0, 2, 1, 2}},
		{"list set of equal values", fixlen.Erase(fixlen.ListAsSet(fixlen.Bool(), config)), []byte{0, 0, 0, 2, 1, 2}},
		{"map with equal keys", fixlen.Erase(fixlen.Map(fixlen.Bool(), fixlen.Int8(), config)), []byte{0, 0, 0, 2, 1, 5, 2, 6}},
		{"unsorted set", fixlen.Erase(fixlen.ListAsSet(fixlen.Int16(), config)), []byte{0, 0, 0, 2, 0, 2, 0, 1}},
		{"unsorted map", fixlen.Erase(fixlen.EntryList(fixlen.Int8(), fixlen.Int8(), config)), []byte{0, 0, 0, 2, 2, 1, 1, 1}},
	}
	for _, test := range tests {
		_, err := fixlen.Unmarshal(test.codec, test.data)
		testutil.RequireErrorIs(t, err, fixlen.ErrMalformed, test.name)
	}

	// The canonical forms of the same contents still decode.
	set, err := fixlen.Unmarshal(fixlen.ListAsSet(fixlen.Int16(), config), []byte{0, 0, 0, 2, 0, 1, 0, 2})
	if err != nil || !reflect.DeepEqual(set, []int16{1, 2}) {
		t.Errorf("sorted set = %v, %v", set, err)
	}
	entries, err := fixlen.Unmarshal(fixlen.Map(fixlen.Bool(), fixlen.Int8(), config), []byte{0, 0, 0, 2, 0, 5, 1, 6})
	if err != nil || !reflect.DeepEqual(entries, map[bool]int8{false: 5, true: 6}) {
		t.Errorf("sorted map = %v, %v", entries, err)
	}
}

func TestNullable(t *testing.T) {
	t.Parallel()
	codec := fixlen.Nullable(fixlen.Int32())
	if size := codec.Descriptor().ByteSize; size != 1+4 {
		t.Fatalf("ByteSize = %d, want 5", size)
	}

	null := testutil.MustMarshal(t, codec, nil)
	if !bytes.Equal(null, []byte{1, 0, 0, 0, 0}) {
		t.Errorf("null encoded as %x", null)
	}
	present := testutil.MustMarshal(t, codec, ptr(int32(0)))
	if !bytes.Equal(present, []byte{0, 0, 0, 0, 0}) {
		t.Errorf("present zero encoded as %x", present)
	}

	if got := testutil.RoundTrip(t, codec, nil); got != nil {
		t.Errorf("null decoded as %v", *got)
	}
	if got := testutil.RoundTrip(t, codec, ptr(int32(-9))); got == nil || *got != -9 {
		t.Errorf("present value decoded as %v", got)
	}

	_, err := fixlen.Unmarshal(codec, []byte{2, 0, 0, 0, 0})
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
}

func TestComposedSizes(t *testing.T) {
	t.Parallel()
	inner := fixlen.PairOf(fixlen.Int32(), fixlen.Nullable(fixlen.Int16()))
	codec := fixlen.List(inner, fixlen.CollectionConfig{Capacity: 5})
	want := 4 + 5*(4+1+2)
	if size := codec.Descriptor().ByteSize; size != want {
		t.Fatalf("ByteSize = %d, want %d", size, want)
	}
	value := []fixlen.Pair[int32, *int16]{{1, nil}, {2, ptr(int16(3))}}
	got := testutil.RoundTrip(t, codec, value)
	if len(got) != 2 || got[0].First != 1 || got[0].Second != nil || *got[1].Second != 3 {
		t.Errorf("round trip: got %+v", got)
	}

	nested := fixlen.Map(fixlen.Int8(), fixlen.List(fixlen.Nullable(fixlen.Int8()), fixlen.CollectionConfig{Capacity: 2}), fixlen.CollectionConfig{Capacity: 3})
	if size := nested.Descriptor().ByteSize; size != 4+3*(1+4+2*2) {
		t.Errorf("nested ByteSize = %d", size)
	}
}

func TestTriple(t *testing.T) {
	t.Parallel()
	codec := fixlen.TripleOf(fixlen.Int8(), fixlen.Bool(), fixlen.UTF8String(4))
	if size := codec.Descriptor().ByteSize; size != 1+1+4+4 {
		t.Fatalf("ByteSize = %d, want 10", size)
	}
	value := fixlen.Triple[int8, bool, string]{First: -3, Second: true, Third: "ok"}
	if got := testutil.RoundTrip(t, codec, value); got != value {
		t.Errorf("round trip: got %+v", got)
	}
	if got := codec.Default(); got != (fixlen.Triple[int8, bool, string]{}) {
		t.Errorf("Default() = %+v", got)
	}
}
