// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/testutil"
)

func TestParseDecimal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
		scale int32
	}{
		{"0", "0", 0},
		{"-12.50", "-12.50", 2},
		{"+7", "7", 0},
		{"1e3", "1000", 0},
		{"0.5E-2", "0.005", 3},
		{"12.5e1", "125", 0},
		{".25", "0.25", 2},
		{"007.10", "7.10", 2},
	}
	for _, test := range tests {
		value, err := fixlen.ParseDecimal(test.input)
		if err != nil {
			t.Errorf("ParseDecimal(%q): %v", test.input, err)
			continue
		}
		if value.String() != test.want || value.Scale() != test.scale {
			t.Errorf("ParseDecimal(%q) = %s (scale %d), want %s (scale %d)",
				test.input, value, value.Scale(), test.want, test.scale)
		}
	}

	for _, input := range []string{"", "-", ".", "abc", "1.2.3", "1e", "1e+", "--1", "1 "} {
		if _, err := fixlen.ParseDecimal(input); err == nil {
			t.Errorf("ParseDecimal(%q) succeeded, want error", input)
		}
	}
}

func TestDecimalArithmetic(t *testing.T) {
	t.Parallel()
	sum := fixlen.MustParseDecimal("1024.045").Add(fixlen.MustParseDecimal("590.3552"))
	if !sum.Equal(fixlen.MustParseDecimal("1614.4002")) {
		t.Errorf("sum = %s, want 1614.4002", sum)
	}

	one, oneScaled := fixlen.MustParseDecimal("1.0"), fixlen.MustParseDecimal("1.00")
	if one.Cmp(oneScaled) != 0 {
		t.Error("1.0 and 1.00 should compare equal")
	}
	if one.Equal(oneScaled) {
		t.Error("Equal should distinguish scales")
	}
	if fixlen.MustParseDecimal("-0.1").Cmp(fixlen.Decimal{}) >= 0 {
		t.Error("-0.1 should compare below zero")
	}
	if !(fixlen.Decimal{}).IsZero() || (fixlen.Decimal{}).String() != "0" {
		t.Error("zero value should be 0")
	}
}

func TestDecimalText(t *testing.T) {
	t.Parallel()
	var value fixlen.Decimal
	if err := value.UnmarshalText([]byte("-3.14")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	text, err := value.MarshalText()
	if err != nil || string(text) != "-3.14" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
}

func TestDecimalFixedLength(t *testing.T) {
	t.Parallel()
	codec := fixlen.BigDecimal(fixlen.DecimalConfig{IntegerPrecision: 10, FractionPrecision: 10})
	zero := testutil.MustMarshal(t, codec, fixlen.DecimalFromInt64(0))
	one := testutil.MustMarshal(t, codec, fixlen.DecimalFromInt64(1))
	if len(zero) != len(one) {
		t.Fatalf("zero encoded to %d bytes, one to %d", len(zero), len(one))
	}
	if want := 1 + 1 + (4 + 10) + (4 + 10); codec.Descriptor().ByteSize != want {
		t.Errorf("ByteSize = %d, want %d", codec.Descriptor().ByteSize, want)
	}
	if err := descriptor.Verify(codec.Descriptor(), nil); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if got, _ := codec.Descriptor().IntAttribute(descriptor.AttrIntegerPrecision); got != 10 {
		t.Errorf("integer precision attribute = %d", got)
	}
}

func TestDecimalLayout(t *testing.T) {
	t.Parallel()
	codec := fixlen.BigDecimal(fixlen.DecimalConfig{IntegerPrecision: 3, FractionPrecision: 2})
	encoded := testutil.MustMarshal(t, codec, fixlen.MustParseDecimal("-12.5"))
	want := []byte{
		0,                   // kind
		0xff,                // sign
		0, 0, 0, 2, 2, 1, 0, // integer digits, least significant first
		0, 0, 0, 1, 5, 0, // fraction digits, most significant first
	}
	if !bytes.Equal(encoded, want) {
		t.Errorf("got %x, want %x", encoded, want)
	}

	zero := testutil.MustMarshal(t, codec, fixlen.MustParseDecimal("0.00"))
	wantZero := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(zero, wantZero) {
		t.Errorf("zero encoded as %x", zero)
	}
}

func TestDecimalSumAfterDecode(t *testing.T) {
	t.Parallel()
	codec := fixlen.BigDecimal(fixlen.DecimalConfig{IntegerPrecision: 5, FractionPrecision: 5})
	a := testutil.RoundTrip(t, codec, fixlen.MustParseDecimal("1024.045"))
	b := testutil.RoundTrip(t, codec, fixlen.MustParseDecimal("590.3552"))
	want := testutil.RoundTrip(t, codec, fixlen.MustParseDecimal("1614.4002"))
	if sum := a.Add(b); !sum.Equal(want) {
		t.Errorf("decoded sum %s, want %s", sum, want)
	}
}

func TestDecimalRoundTripKeepsScale(t *testing.T) {
	t.Parallel()
	codec := fixlen.BigDecimal(fixlen.DecimalConfig{IntegerPrecision: 4, FractionPrecision: 4})
	for _, text := range []string{"1.50", "-0.0001", "9999.9999", "0.1", "100"} {
		value := fixlen.MustParseDecimal(text)
		if got := testutil.RoundTrip(t, codec, value); !got.Equal(value) {
			t.Errorf("%s decoded as %s", text, got)
		}
	}
	if got := testutil.RoundTrip(t, codec, fixlen.MustParseDecimal("0.000")); !got.Equal(fixlen.Decimal{}) {
		t.Errorf("zero decoded as %s (scale %d), want plain 0", got, got.Scale())
	}
}

func TestDecimalCapacity(t *testing.T) {
	t.Parallel()
	codec := fixlen.BigDecimal(fixlen.DecimalConfig{IntegerPrecision: 2, FractionPrecision: 2})
	for _, text := range []string{"123.4", "1.234", "1.230"} {
		_, err := fixlen.Marshal(codec, fixlen.MustParseDecimal(text))
		testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded)
	}
}

func TestDecimalScaleIsBounded(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"1e-999999999", "1e999999999", "-5e30000000", "0.1e-65536"} {
		_, err := fixlen.ParseDecimal(text)
		testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded)
	}

	smallest := fixlen.MustParseDecimal("1e-65536")
	if smallest.Scale() != fixlen.MaxDecimalScale {
		t.Errorf("1e-65536 has scale %d, want %d", smallest.Scale(), fixlen.MaxDecimalScale)
	}
	if largest := fixlen.MustParseDecimal("1e65536"); largest.Scale() != 0 {
		t.Errorf("1e65536 has scale %d, want 0", largest.Scale())
	}

	// Both fail on the scale and bit length alone.
	codec := fixlen.BigDecimal(fixlen.DecimalConfig{IntegerPrecision: 5, FractionPrecision: 5})
	for _, value := range []fixlen.Decimal{smallest, fixlen.MustParseDecimal("-1e65536")} {
		_, err := fixlen.Marshal(codec, value)
		testutil.RequireErrorIs(t, err, fixlen.ErrCapacityExceeded)
	}

	// Digit counts right at the precision still encode.
	for _, text := range []string{"99999.99999", "10000", "0.00001"} {
		value := fixlen.MustParseDecimal(text)
		if got := testutil.RoundTrip(t, codec, value); !got.Equal(value) {
			t.Errorf("%s decoded as %s", text, got)
		}
	}
}

func TestDecimalRejectsMalformed(t *testing.T) {
	t.Parallel()
	codec := fixlen.BigDecimal(fixlen.DecimalConfig{IntegerPrecision: 3, FractionPrecision: 2})
	valid := testutil.MustMarshal(t, codec, fixlen.MustParseDecimal("-12.5"))

	tamper := func(offset int, value byte) []byte {
		data := bytes.Clone(valid)
		data[offset] = value
		return data
	}
	cases := map[string][]byte{
		"kind tag":         tamper(0, 1),
		"sign":             tamper(1, 2),
		"digit":            tamper(6, 10),
		"zero with digits": tamper(1, 0),
		"leading zero":     tamper(7, 0),
	}
	for name, data := range cases {
		if name == "leading zero" {
			// Declare three integer digits so the zero slot becomes the
			// most significant one.
			data[5] = 3
		}
		_, err := fixlen.Unmarshal(codec, data)
		if err == nil {
			t.Errorf("%s: tampered input decoded", name)
			continue
		}
		testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
	}
}

func TestFloatCodecs(t *testing.T) {
	t.Parallel()
	for _, value := range []float32{0, 1.5, -0.1, math.MaxFloat32, math.SmallestNonzeroFloat32, -math.MaxFloat32} {
		if got := testutil.RoundTrip(t, fixlen.Float32(), value); got != value {
			t.Errorf("Float32 round trip of %v: got %v", value, got)
		}
	}
	for _, value := range []float64{0, 0.1, -123.456, math.MaxFloat64, math.SmallestNonzeroFloat64, 1e-300} {
		if got := testutil.RoundTrip(t, fixlen.Float64(), value); got != value {
			t.Errorf("Float64 round trip of %v: got %v", value, got)
		}
	}

	negativeZero := testutil.RoundTrip(t, fixlen.Float64(), math.Copysign(0, -1))
	if math.Signbit(negativeZero) {
		t.Error("negative zero should decode as zero")
	}

	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := fixlen.Marshal(fixlen.Float64(), value)
		testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)
	}

	encoded := testutil.MustMarshal(t, fixlen.Float32(), 2.5)
	if encoded[0] != fixlen.DecimalKindFloat32 {
		t.Errorf("Float32 kind tag = %d", encoded[0])
	}
	if size := fixlen.Float64().Descriptor().ByteSize; size != 2+4+309+4+325 {
		t.Errorf("Float64 ByteSize = %d", size)
	}
}
