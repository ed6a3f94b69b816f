// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen_test

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/testutil"
)

func TestTransform(t *testing.T) {
	t.Parallel()
	codec := fixlen.Transform("Port", fixlen.Uint16(),
		func(s string) (uint16, error) {
			value, err := strconv.ParseUint(s, 10, 16)
			return uint16(value), err
		},
		func(v uint16) (string, error) { return strconv.Itoa(int(v)), nil })
	if codec.Descriptor().Name != "Port" || codec.Descriptor().ByteSize != 2 {
		t.Fatalf("descriptor = %+v", codec.Descriptor())
	}
	if got := testutil.RoundTrip(t, codec, "8080"); got != "8080" {
		t.Errorf("round trip: got %s", got)
	}
	if codec.Default() != "0" {
		t.Errorf("Default() = %q", codec.Default())
	}
	var numErr *strconv.NumError
	if _, err := fixlen.Marshal(codec, "http"); !errors.As(err, &numErr) {
		t.Errorf("conversion error %v not passed through", err)
	}
}

func TestNamed(t *testing.T) {
	t.Parallel()
	codec := fixlen.Named("Celsius", fixlen.Int16())
	if codec.Descriptor().Name != "Celsius" {
		t.Errorf("Name = %s", codec.Descriptor().Name)
	}
	if fixlen.Int16().Descriptor().Name != "i16" {
		t.Error("Named modified the shared inner descriptor")
	}
	if !bytes.Equal(testutil.MustMarshal(t, codec, -4), testutil.MustMarshal(t, fixlen.Int16(), -4)) {
		t.Error("Named changed the encoding")
	}
}

func TestEraseAndAssert(t *testing.T) {
	t.Parallel()
	erased := fixlen.Erase(fixlen.Int32())
	if got := testutil.RoundTrip(t, erased, any(int32(5))); got != int32(5) {
		t.Errorf("erased round trip: got %#v", got)
	}
	_, err := fixlen.Marshal(erased, any("five"))
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)
	_, err = fixlen.Marshal(erased, nil)
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	nullable := fixlen.Erase(fixlen.Nullable(fixlen.Int8()))
	if got := testutil.RoundTrip(t, nullable, nil); got != (*int8)(nil) {
		t.Errorf("nil pointer round trip: got %#v", got)
	}

	if fixlen.Assert[int32](erased) != fixlen.Int32() {
		t.Error("Assert should unwrap the original codec")
	}

	mismatched := fixlen.Assert[string](erased)
	_, err = fixlen.Unmarshal(mismatched, []byte{0, 0, 0, 1})
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)
}
