// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
)

// Decimal kind tags, written as the first byte of every decimal
// encoding.
const (
	DecimalKindBig     uint8 = 0
	DecimalKindFloat32 uint8 = 1
	DecimalKindFloat64 uint8 = 2
)

// Digit capacities wide enough for every finite float32 and float64
// in plain notation.
const (
	Float32IntegerPrecision  = 39
	Float32FractionPrecision = 46
	Float64IntegerPrecision  = 309
	Float64FractionPrecision = 325
)

// DecimalConfig declares the digit capacities of a decimal codec.
type DecimalConfig struct {
	IntegerPrecision  int
	FractionPrecision int
}

// decimalParts is the wire shape: kind, sign, integer digits least
// significant first, fraction digits most significant first.
type decimalParts struct {
	kind     uint8
	sign     int8
	integer  []uint8
	fraction []uint8
}

type decimalCodec[T any] struct {
	kind       uint8
	config     DecimalConfig
	parts      Codec[decimalParts]
	descriptor *descriptor.Descriptor
	toDecimal  func(T) (Decimal, error)
	fromText   func(string) (T, error)
	zero       T
}

func newDecimalCodec[T any](name string, kind uint8, config DecimalConfig,
	toDecimal func(T) (Decimal, error), fromText func(string) (T, error)) *decimalCodec[T] {
	checkCapacity(config.IntegerPrecision)
	checkCapacity(config.FractionPrecision)
	if config.FractionPrecision > MaxDecimalScale {
		panic(fmt.Sprintf("fixlen: decimal %s fraction precision %d exceeds %d",
			name, config.FractionPrecision, MaxDecimalScale))
	}
	parts := Struct(name,
		NewField("kind", Uint8(),
			func(p *decimalParts) uint8 { return p.kind },
			func(p *decimalParts, v uint8) { p.kind = v }),
		NewField("sign", Int8(),
			func(p *decimalParts) int8 { return p.sign },
			func(p *decimalParts, v int8) { p.sign = v }),
		NewField("integer", List(Uint8(), CollectionConfig{Capacity: config.IntegerPrecision}),
			func(p *decimalParts) []uint8 { return p.integer },
			func(p *decimalParts, v []uint8) { p.integer = v }),
		NewField("fraction", List(Uint8(), CollectionConfig{Capacity: config.FractionPrecision}),
			func(p *decimalParts) []uint8 { return p.fraction },
			func(p *decimalParts, v []uint8) { p.fraction = v }),
	)
	zero, err := fromText("0")
	if err != nil {
		panic(fmt.Sprintf("fixlen: decimal %s cannot represent zero: %v", name, err))
	}
	return &decimalCodec[T]{
		kind:   kind,
		config: config,
		parts:  parts,
		descriptor: parts.Descriptor().
			WithAttribute(descriptor.AttrIntegerPrecision, config.IntegerPrecision).
			WithAttribute(descriptor.AttrFractionPrecision, config.FractionPrecision).
			WithAttribute(descriptor.AttrDecimalKind, int(kind)),
		toDecimal: toDecimal,
		fromText:  fromText,
		zero:      zero,
	}
}

// BigDecimal returns a codec for arbitrary-precision decimals bounded
// by config. Values with more integer or fraction digits than declared
// fail with [ErrCapacityExceeded]; trailing fraction zeros count.
func BigDecimal(config DecimalConfig) Codec[Decimal] {
	name := fmt.Sprintf("Decimal<%d,%d>", config.IntegerPrecision, config.FractionPrecision)
	return newDecimalCodec(name, DecimalKindBig, config,
		func(value Decimal) (Decimal, error) { return value, nil },
		ParseDecimal)
}

// Float32 returns a decimal codec for float32 values. NaN and the
// infinities fail with [ErrInvalidValue]; negative zero decodes as
// zero.
func Float32() Codec[float32] { return float32Codec }

// Float64 is [Float32] for float64 values.
func Float64() Codec[float64] { return float64Codec }

var (
	float32Codec = newDecimalCodec("Float32", DecimalKindFloat32,
		DecimalConfig{IntegerPrecision: Float32IntegerPrecision, FractionPrecision: Float32FractionPrecision},
		func(value float32) (Decimal, error) { return floatToDecimal(float64(value), 32) },
		func(text string) (float32, error) {
			value, err := strconv.ParseFloat(text, 32)
			return float32(value), err
		})

	float64Codec = newDecimalCodec("Float64", DecimalKindFloat64,
		DecimalConfig{IntegerPrecision: Float64IntegerPrecision, FractionPrecision: Float64FractionPrecision},
		func(value float64) (Decimal, error) { return floatToDecimal(value, 64) },
		func(text string) (float64, error) { return strconv.ParseFloat(text, 64) })
)

func floatToDecimal(value float64, bits int) (Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Decimal{}, fmt.Errorf("%w: %v has no decimal representation", ErrInvalidValue, value)
	}
	return ParseDecimal(strconv.FormatFloat(value, 'f', -1, bits))
}

func (c *decimalCodec[T]) Descriptor() *descriptor.Descriptor { return c.descriptor }

func (c *decimalCodec[T]) Default() T { return c.zero }

func (c *decimalCodec[T]) Encode(w *Writer, value T) error {
	decimal, err := c.toDecimal(value)
	if err != nil {
		return err
	}
	parts := decimalParts{kind: c.kind, sign: int8(decimal.Sign())}
	if decimal.Sign() != 0 {
		if err := c.checkMagnitude(decimal); err != nil {
			return err
		}
		integer, fraction := decimal.digits()
		if len(integer) > c.config.IntegerPrecision {
			return fmt.Errorf("%w: %s integer digits: expected size %d, actual %d",
				ErrCapacityExceeded, c.descriptor.Name, c.config.IntegerPrecision, len(integer))
		}
		if len(fraction) > c.config.FractionPrecision {
			return fmt.Errorf("%w: %s fraction digits: expected size %d, actual %d",
				ErrCapacityExceeded, c.descriptor.Name, c.config.FractionPrecision, len(fraction))
		}
		parts.integer = digitBytes(integer)
		slices.Reverse(parts.integer)
		parts.fraction = digitBytes(fraction)
	}
	return c.parts.Encode(w, parts)
}

// checkMagnitude rejects values whose digit counts exceed the configured
// precision using only the scale and bit length, so oversized values fail
// without being expanded into digits.
func (c *decimalCodec[T]) checkMagnitude(decimal Decimal) error {
	if int(decimal.scale) > c.config.FractionPrecision {
		return fmt.Errorf("%w: %s fraction digits: expected size %d, actual %d",
			ErrCapacityExceeded, c.descriptor.Name, c.config.FractionPrecision, decimal.scale)
	}
	// |unscaled| >= 2^(bitLen-1) has more digits than this; boundary cases
	// fall through to the exact count.
	minDigits := int(float64(decimal.unscaledValue().BitLen()-1) * math.Log10(2))
	if minDigits-int(decimal.scale) > c.config.IntegerPrecision {
		return fmt.Errorf("%w: %s integer digits: expected size %d, actual at least %d",
			ErrCapacityExceeded, c.descriptor.Name, c.config.IntegerPrecision, minDigits-int(decimal.scale))
	}
	return nil
}

func (c *decimalCodec[T]) Decode(r *Reader) (T, error) {
	parts, err := c.parts.Decode(r)
	if err != nil {
		return c.zero, err
	}
	if err := c.validate(parts); err != nil {
		return c.zero, err
	}
	if parts.sign == 0 {
		return c.zero, nil
	}

	var text strings.Builder
	if parts.sign < 0 {
		text.WriteByte('-')
	}
	if len(parts.integer) == 0 {
		text.WriteByte('0')
	}
	for index := len(parts.integer) - 1; index >= 0; index-- {
		text.WriteByte('0' + parts.integer[index])
	}
	if len(parts.fraction) > 0 {
		text.WriteByte('.')
		for _, digit := range parts.fraction {
			text.WriteByte('0' + digit)
		}
	}

	value, err := c.fromText(text.String())
	if err != nil {
		return c.zero, fmt.Errorf("%w: %s: %v", ErrMalformed, c.descriptor.Name, err)
	}
	return value, nil
}

// validate accepts only encodings Encode can produce.
func (c *decimalCodec[T]) validate(parts decimalParts) error {
	if parts.kind != c.kind {
		return fmt.Errorf("%w: %s has kind tag %d, expected %d", ErrMalformed, c.descriptor.Name, parts.kind, c.kind)
	}
	if parts.sign < -1 || parts.sign > 1 {
		return fmt.Errorf("%w: %s has sign %d", ErrMalformed, c.descriptor.Name, parts.sign)
	}
	nonZero := false
	for _, digits := range [][]uint8{parts.integer, parts.fraction} {
		for _, digit := range digits {
			if digit > 9 {
				return fmt.Errorf("%w: %s has digit %d", ErrMalformed, c.descriptor.Name, digit)
			}
			nonZero = nonZero || digit != 0
		}
	}
	if parts.sign == 0 && (len(parts.integer) > 0 || len(parts.fraction) > 0) {
		return fmt.Errorf("%w: %s is zero but carries digits", ErrMalformed, c.descriptor.Name)
	}
	if parts.sign != 0 && !nonZero {
		return fmt.Errorf("%w: %s has sign %d but no significant digit", ErrMalformed, c.descriptor.Name, parts.sign)
	}
	if count := len(parts.integer); count > 0 && parts.integer[count-1] == 0 {
		return fmt.Errorf("%w: %s has a leading zero integer digit", ErrMalformed, c.descriptor.Name)
	}
	return nil
}

func digitBytes(text string) []uint8 {
	digits := make([]uint8, len(text))
	for index := range len(text) {
		digits[index] = text[index] - '0'
	}
	return digits
}
