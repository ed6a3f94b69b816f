// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemadef

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
)

// valueJSON is the codec for values exchanged with compiled codecs.
// UseNumber keeps 64-bit integers and decimals exact.
var valueJSON = jsoniter.Config{
	EscapeHTML:  true,
	SortMapKeys: true,
	UseNumber:   true,
}.Froze()

// UnmarshalValue parses JSON into the value shapes compiled codecs
// accept.
func UnmarshalValue(data []byte) (any, error) {
	var value any
	if err := valueJSON.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// MarshalValue renders a decoded value as indented JSON.
func MarshalValue(value any) ([]byte, error) {
	return valueJSON.MarshalIndent(value, "", "  ")
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", fixlen.ErrInvalidValue, fmt.Sprintf(format, args...))
}

func signed[T ~int8 | ~int16 | ~int32 | ~int64](inner fixlen.Codec[T], low, high int64) fixlen.Codec[any] {
	return fixlen.Transform("", inner,
		func(value any) (T, error) {
			n, err := asInt64(value)
			if err != nil {
				return 0, err
			}
			if n < low || n > high {
				return 0, invalid("%d out of range for %s", n, inner.Descriptor().Name)
			}
			return T(n), nil
		},
		func(value T) (any, error) { return json.Number(strconv.FormatInt(int64(value), 10)), nil })
}

func unsigned[T ~uint8 | ~uint16 | ~uint32 | ~uint64](inner fixlen.Codec[T], high uint64) fixlen.Codec[any] {
	return fixlen.Transform("", inner,
		func(value any) (T, error) {
			n, err := asUint64(value)
			if err != nil {
				return 0, err
			}
			if n > high {
				return 0, invalid("%d out of range for %s", n, inner.Descriptor().Name)
			}
			return T(n), nil
		},
		func(value T) (any, error) { return json.Number(strconv.FormatUint(uint64(value), 10)), nil })
}

func asInt64(value any) (int64, error) {
	switch v := value.(type) {
	case json.Number:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, invalid("%s is not an integer", v)
		}
		return n, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, invalid("%v is not an integer", v)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return 0, invalid("expected a number, got %T", value)
}

func asUint64(value any) (uint64, error) {
	switch v := value.(type) {
	case json.Number:
		n, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return 0, invalid("%s is not an unsigned integer", v)
		}
		return n, nil
	case float64:
		if v != math.Trunc(v) || v < 0 || v >= math.MaxUint64 {
			return 0, invalid("%v is not an unsigned integer", v)
		}
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, invalid("%d is negative", v)
		}
		return uint64(v), nil
	case uint64:
		return v, nil
	}
	return 0, invalid("expected a number, got %T", value)
}

func asBool(value any) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, invalid("expected a boolean, got %T", value)
	}
	return v, nil
}

func asString(value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", invalid("expected a string, got %T", value)
	}
	return v, nil
}

func asASCIIChar(value any) (byte, error) {
	v, err := asString(value)
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, invalid("expected one ASCII character, got %q", v)
	}
	return v[0], nil
}

func asRune(value any) (rune, error) {
	v, err := asString(value)
	if err != nil {
		return 0, err
	}
	r, size := utf8.DecodeRuneInString(v)
	if size == 0 || size != len(v) || r == utf8.RuneError {
		return 0, invalid("expected one character, got %q", v)
	}
	return r, nil
}

func text(inner fixlen.Codec[string]) fixlen.Codec[any] {
	return fixlen.Transform("", inner, asString, func(v string) (any, error) { return v, nil })
}

func hexBytes(inner fixlen.Codec[[]byte]) fixlen.Codec[any] {
	return fixlen.Transform("", inner,
		func(value any) ([]byte, error) {
			v, err := asString(value)
			if err != nil {
				return nil, err
			}
			decoded, err := hex.DecodeString(v)
			if err != nil {
				return nil, invalid("bytes must be hex: %v", err)
			}
			return decoded, nil
		},
		func(v []byte) (any, error) { return hex.EncodeToString(v), nil })
}

// numberText accepts a JSON number or a string holding one.
func numberText(value any) (string, error) {
	switch v := value.(type) {
	case json.Number:
		return string(v), nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	}
	return "", invalid("expected a number, got %T", value)
}

func decimal(inner fixlen.Codec[fixlen.Decimal]) fixlen.Codec[any] {
	return fixlen.Transform("", inner,
		func(value any) (fixlen.Decimal, error) {
			v, err := numberText(value)
			if err != nil {
				return fixlen.Decimal{}, err
			}
			d, err := fixlen.ParseDecimal(v)
			if err != nil {
				return fixlen.Decimal{}, invalid("%q: %v", v, err)
			}
			return d, nil
		},
		func(d fixlen.Decimal) (any, error) { return json.Number(d.String()), nil })
}

func float[T float32 | float64](inner fixlen.Codec[T], bits int) fixlen.Codec[any] {
	return fixlen.Transform("", inner,
		func(value any) (T, error) {
			v, err := numberText(value)
			if err != nil {
				return 0, err
			}
			f, err := strconv.ParseFloat(v, bits)
			if err != nil {
				return 0, invalid("%q is not a %d-bit float", v, bits)
			}
			return T(f), nil
		},
		func(v T) (any, error) { return json.Number(strconv.FormatFloat(float64(v), 'g', -1, bits)), nil })
}

func asList(value any) ([]any, error) {
	v, ok := value.([]any)
	if !ok {
		return nil, invalid("expected a list, got %T", value)
	}
	return v, nil
}

func asPair(value any) (fixlen.Pair[any, any], error) {
	v, err := asList(value)
	if err != nil {
		return fixlen.Pair[any, any]{}, err
	}
	if len(v) != 2 {
		return fixlen.Pair[any, any]{}, invalid("pair needs 2 elements, got %d", len(v))
	}
	return fixlen.Pair[any, any]{First: v[0], Second: v[1]}, nil
}

func asEntries(value any) ([]fixlen.Pair[any, any], error) {
	v, err := asList(value)
	if err != nil {
		return nil, err
	}
	entries := make([]fixlen.Pair[any, any], len(v))
	for index, item := range v {
		entry, err := asPair(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", index, err)
		}
		entries[index] = entry
	}
	return entries, nil
}

func fromEntries(entries []fixlen.Pair[any, any]) (any, error) {
	out := make([]any, len(entries))
	for index, entry := range entries {
		out[index] = []any{entry.First, entry.Second}
	}
	return out, nil
}

func asOptional(value any) (*any, error) {
	if value == nil {
		return nil, nil
	}
	return &value, nil
}

func fromOptional(value *any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return *value, nil
}

// asObject checks that a value carries exactly the declared fields.
func asObject(name string, fields []fixlen.Field[map[string]any]) func(any) (map[string]any, error) {
	declared := make([]string, len(fields))
	for index, field := range fields {
		declared[index] = field.Name()
	}
	return func(value any) (map[string]any, error) {
		object, ok := value.(map[string]any)
		if !ok {
			return nil, invalid("%s: expected an object, got %T", name, value)
		}
		for key := range object {
			if !slices.Contains(declared, key) {
				return nil, invalid("%s: unknown field %q", name, key)
			}
		}
		for _, field := range declared {
			if _, ok := object[field]; !ok {
				return nil, invalid("%s: missing field %q", name, field)
			}
		}
		return object, nil
	}
}
