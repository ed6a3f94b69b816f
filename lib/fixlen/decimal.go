// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Decimal is an arbitrary-precision decimal number: unscaled × 10^-scale.
// The zero value is 0 with scale 0. Decimals are immutable.
type Decimal struct {
	unscaled *big.Int
	scale    int32
}

var errDecimalSyntax = errors.New("invalid decimal syntax")

// MaxDecimalScale bounds the magnitude of the scale ParseDecimal accepts,
// and with it the number of digits an exponent can add.
const MaxDecimalScale = 1 << 16

// NewDecimal returns unscaled × 10^-scale. A negative scale is folded
// into the unscaled value so that String never needs an exponent.
func NewDecimal(unscaled *big.Int, scale int32) Decimal {
	value := new(big.Int).Set(unscaled)
	if scale < 0 {
		value.Mul(value, pow10(int(-scale)))
		scale = 0
	}
	return Decimal{unscaled: value, scale: scale}
}

// DecimalFromInt64 returns value with scale 0.
func DecimalFromInt64(value int64) Decimal {
	return Decimal{unscaled: big.NewInt(value)}
}

// MustParseDecimal is [ParseDecimal] for literals; it panics on error.
func MustParseDecimal(text string) Decimal {
	value, err := ParseDecimal(text)
	if err != nil {
		panic(err)
	}
	return value
}

// ParseDecimal parses an optionally signed decimal number with an
// optional fraction and exponent ("-12.50", "1e3", "0.5E-2"). Trailing
// fraction zeros are kept in the scale. A scale beyond ±[MaxDecimalScale]
// fails with [ErrCapacityExceeded] before any digits are expanded.
func ParseDecimal(text string) (Decimal, error) {
	body := text
	negative := false
	if body != "" && (body[0] == '-' || body[0] == '+') {
		negative = body[0] == '-'
		body = body[1:]
	}

	exponent := 0
	if index := strings.IndexAny(body, "eE"); index >= 0 {
		var err error
		exponent, err = parseExponent(body[index+1:])
		if err != nil {
			return Decimal{}, fmt.Errorf("%w: %q", errDecimalSyntax, text)
		}
		body = body[:index]
	}

	integer, fraction, _ := strings.Cut(body, ".")
	digits := integer + fraction
	if digits == "" || strings.ContainsFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) {
		return Decimal{}, fmt.Errorf("%w: %q", errDecimalSyntax, text)
	}

	unscaled, _ := new(big.Int).SetString(digits, 10)
	if negative {
		unscaled.Neg(unscaled)
	}
	scale := int64(len(fraction)) - int64(exponent)
	if scale > MaxDecimalScale || scale < -MaxDecimalScale {
		return Decimal{}, fmt.Errorf("%w: %q: scale %d exceeds ±%d",
			ErrCapacityExceeded, text, scale, MaxDecimalScale)
	}
	return NewDecimal(unscaled, int32(scale)), nil
}

func parseExponent(text string) (int, error) {
	if text == "" {
		return 0, errDecimalSyntax
	}
	sign := 1
	switch text[0] {
	case '-':
		sign = -1
		text = text[1:]
	case '+':
		text = text[1:]
	}
	if text == "" || len(text) > 9 {
		return 0, errDecimalSyntax
	}
	value := 0
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, errDecimalSyntax
		}
		value = value*10 + int(r-'0')
	}
	return sign * value, nil
}

func (d Decimal) unscaledValue() *big.Int {
	if d.unscaled == nil {
		return new(big.Int)
	}
	return d.unscaled
}

// Unscaled returns a copy of the unscaled integer.
func (d Decimal) Unscaled() *big.Int { return new(big.Int).Set(d.unscaledValue()) }

// Scale returns the number of fraction digits.
func (d Decimal) Scale() int32 { return d.scale }

// Sign returns -1, 0, or +1.
func (d Decimal) Sign() int { return d.unscaledValue().Sign() }

// IsZero reports whether d is zero at any scale.
func (d Decimal) IsZero() bool { return d.Sign() == 0 }

// String returns the plain representation: no exponent, exactly
// Scale() fraction digits.
func (d Decimal) String() string {
	integer, fraction := d.digits()
	var builder strings.Builder
	if d.Sign() < 0 {
		builder.WriteByte('-')
	}
	if integer == "" {
		integer = "0"
	}
	builder.WriteString(integer)
	if fraction != "" {
		builder.WriteByte('.')
		builder.WriteString(fraction)
	}
	return builder.String()
}

// digits splits |d| into integer digits without leading zeros and
// exactly Scale() fraction digits.
func (d Decimal) digits() (integer, fraction string) {
	magnitude := new(big.Int).Abs(d.unscaledValue()).String()
	scale := int(d.scale)
	if len(magnitude) <= scale {
		magnitude = strings.Repeat("0", scale-len(magnitude)+1) + magnitude
	}
	integer = strings.TrimLeft(magnitude[:len(magnitude)-scale], "0")
	return integer, magnitude[len(magnitude)-scale:]
}

func (d Decimal) rescaled(scale int32) *big.Int {
	value := new(big.Int).Set(d.unscaledValue())
	if scale > d.scale {
		value.Mul(value, pow10(int(scale-d.scale)))
	}
	return value
}

// Add returns d + other at the larger of the two scales.
func (d Decimal) Add(other Decimal) Decimal {
	scale := max(d.scale, other.scale)
	sum := new(big.Int).Add(d.rescaled(scale), other.rescaled(scale))
	return Decimal{unscaled: sum, scale: scale}
}

// Cmp compares numeric values, ignoring scale: 1.0 and 1.00 compare
// equal.
func (d Decimal) Cmp(other Decimal) int {
	scale := max(d.scale, other.scale)
	return d.rescaled(scale).Cmp(other.rescaled(scale))
}

// Equal reports whether d and other have the same value and the same
// scale.
func (d Decimal) Equal(other Decimal) bool {
	return d.scale == other.scale && d.unscaledValue().Cmp(other.unscaledValue()) == 0
}

// MarshalText returns [Decimal.String].
func (d Decimal) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText parses text with [ParseDecimal].
func (d *Decimal) UnmarshalText(text []byte) error {
	parsed, err := ParseDecimal(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func pow10(exponent int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exponent)), nil)
}
