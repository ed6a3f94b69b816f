// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/testutil"
)

type account struct {
	ID      int32
	Owner   string
	Balance *int64
	Tags    []string
}

func accountCodec() fixlen.Codec[account] {
	return fixlen.Struct("Account",
		fixlen.NewField("id", fixlen.Int32(),
			func(a *account) int32 { return a.ID },
			func(a *account, v int32) { a.ID = v }),
		fixlen.NewField("owner", fixlen.UTF8String(16),
			func(a *account) string { return a.Owner },
			func(a *account, v string) { a.Owner = v }),
		fixlen.NewField("balance", fixlen.Nullable(fixlen.Int64()),
			func(a *account) *int64 { return a.Balance },
			func(a *account, v *int64) { a.Balance = v }),
		fixlen.NewField("tags", fixlen.List(fixlen.ASCIIString(8), fixlen.CollectionConfig{Capacity: 2}),
			func(a *account) []string { return a.Tags },
			func(a *account, v []string) { a.Tags = v }),
	)
}

func TestStructRoundTrip(t *testing.T) {
	t.Parallel()
	codec := accountCodec()
	want := 4 + (4 + 16) + (1 + 8) + (4 + 2*(4+8))
	if size := codec.Descriptor().ByteSize; size != want {
		t.Fatalf("ByteSize = %d, want %d", size, want)
	}

	value := account{ID: 7, Owner: "Zoë", Balance: ptr(int64(-500)), Tags: []string{"gold"}}
	if got := testutil.RoundTrip(t, codec, value); !reflect.DeepEqual(got, value) {
		t.Errorf("round trip: got %+v, want %+v", got, value)
	}

	var names []string
	for _, element := range codec.Descriptor().Elements {
		names = append(names, element.Name)
	}
	if !reflect.DeepEqual(names, []string{"id", "owner", "balance", "tags"}) {
		t.Errorf("element names = %v", names)
	}
}

func TestStructFieldOrderDefinesLayout(t *testing.T) {
	t.Parallel()
	codec := fixlen.Struct("Point",
		fixlen.NewField("x", fixlen.Int16(),
			func(p *fixlen.Pair[int16, int16]) int16 { return p.First },
			func(p *fixlen.Pair[int16, int16], v int16) { p.First = v }),
		fixlen.NewField("y", fixlen.Int16(),
			func(p *fixlen.Pair[int16, int16]) int16 { return p.Second },
			func(p *fixlen.Pair[int16, int16], v int16) { p.Second = v }),
	)
	encoded := testutil.MustMarshal(t, codec, fixlen.Pair[int16, int16]{First: 1, Second: 2})
	if !bytes.Equal(encoded, []byte{0, 1, 0, 2}) {
		t.Errorf("got %x", encoded)
	}
	if !bytes.Equal(encoded, testutil.MustMarshal(t, fixlen.PairOf(fixlen.Int16(), fixlen.Int16()), fixlen.Pair[int16, int16]{First: 1, Second: 2})) {
		t.Error("struct of two fields should match the pair layout")
	}
}

func TestStructDefault(t *testing.T) {
	t.Parallel()
	got := accountCodec().Default()
	want := account{Tags: []string{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Default() = %+v, want %+v", got, want)
	}

	withZero := fixlen.StructWith("Counter", func() map[string]int { return map[string]int{} },
		fixlen.NewField("n", fixlen.Int32(),
			func(m *map[string]int) int32 { return int32((*m)["n"]) },
			func(m *map[string]int, v int32) { (*m)["n"] = int(v) }))
	if got := testutil.RoundTrip(t, withZero, map[string]int{"n": 3}); got["n"] != 3 {
		t.Errorf("StructWith round trip: got %v", got)
	}
}

func TestStructRejectsDuplicateFields(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("duplicate field names should panic")
		}
	}()
	field := fixlen.NewField("id", fixlen.Int32(),
		func(a *account) int32 { return a.ID },
		func(a *account, v int32) { a.ID = v })
	fixlen.Struct("Account", field, field)
}

func TestStructPropagatesFieldErrors(t *testing.T) {
	t.Parallel()
	_, err := fixlen.Marshal(accountCodec(), account{Tags: []string{"a", "b", "c"}})
	testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded)
}

type color string

func TestEnum(t *testing.T) {
	t.Parallel()
	codec := fixlen.Enum("Color", color("red"), color("green"), color("blue"))
	if codec.Descriptor().ByteSize != descriptor.EnumOrdinalSize {
		t.Fatalf("ByteSize = %d", codec.Descriptor().ByteSize)
	}
	if encoded := testutil.MustMarshal(t, codec, "green"); !bytes.Equal(encoded, []byte{0, 0, 0, 1}) {
		t.Errorf("green encoded as %x", encoded)
	}
	if got := testutil.RoundTrip(t, codec, "blue"); got != "blue" {
		t.Errorf("round trip: got %s", got)
	}
	if codec.Default() != "red" {
		t.Errorf("Default() = %s, want red", codec.Default())
	}
	variants, _ := codec.Descriptor().StringsAttribute(descriptor.AttrVariants)
	if !reflect.DeepEqual(variants, []string{"red", "green", "blue"}) {
		t.Errorf("variants = %v", variants)
	}

	_, err := fixlen.Marshal(codec, "purple")
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)
	_, err = fixlen.Unmarshal(codec, []byte{0, 0, 0, 3})
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
}
