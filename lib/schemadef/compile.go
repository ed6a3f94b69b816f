// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemadef

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
)

// ErrInvalidSchema is returned by Compile when the file fails
// validation for reasons other than unknown kinds or references.
var ErrInvalidSchema = errors.New("invalid schema")

// Schema is a compiled schema: one codec per declared type.
type Schema struct {
	codecs   map[string]fixlen.Codec[any]
	names    []string
	builtins *fixlen.Registry
}

// Compile validates file and builds a codec for every declared type.
// builtins resolves references to names not declared in the file and
// may be nil. Unknown kinds and references fail with
// [fixlen.ErrUnsupportedType]; every other validation issue fails with
// [ErrInvalidSchema].
func Compile(file *File, builtins *fixlen.Registry) (*Schema, error) {
	if issues := Validate(file, builtins); len(issues) > 0 {
		target := ErrInvalidSchema
		for _, issue := range issues {
			if strings.Contains(issue, "unknown kind") || strings.Contains(issue, "unknown type") {
				target = fixlen.ErrUnsupportedType
				break
			}
		}
		return nil, fmt.Errorf("%w: %s", target, strings.Join(issues, "; "))
	}

	compiler := &compiler{
		file:     file,
		builtins: builtins,
		done:     make(map[string]fixlen.Codec[any], len(file.Types)),
	}
	schema := &Schema{
		codecs:   compiler.done,
		names:    sortedNames(file),
		builtins: builtins,
	}
	for _, name := range schema.names {
		if _, err := compiler.named(name); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

// Names returns the declared type names in sorted order.
func (s *Schema) Names() []string { return slices.Clone(s.names) }

// Codec returns the codec for a declared type, falling back to the
// builtin registry.
func (s *Schema) Codec(name string) (fixlen.Codec[any], error) {
	if codec, ok := s.codecs[name]; ok {
		return codec, nil
	}
	return Lookup(s.builtins, name)
}

// Lookup returns the codec registered under name in builtins, adapted
// to JSON-native values. It serves callers that have no schema file.
func Lookup(builtins *fixlen.Registry, name string) (fixlen.Codec[any], error) {
	if builtins != nil {
		if entry, err := builtins.Entry(name); err == nil {
			return bridge(entry), nil
		}
	}
	return nil, fmt.Errorf("%w: no type named %q", fixlen.ErrUnsupportedType, name)
}

// Register adds every declared type to r by name.
func (s *Schema) Register(r *fixlen.Registry) error {
	for _, name := range s.names {
		if err := r.RegisterName(name, s.codecs[name]); err != nil {
			return err
		}
	}
	return nil
}

type compiler struct {
	file     *File
	builtins *fixlen.Registry
	done     map[string]fixlen.Codec[any]
}

// named compiles a declared type under its own name. Validate has
// already rejected cycles, so the recursion terminates.
func (c *compiler) named(name string) (fixlen.Codec[any], error) {
	if codec, ok := c.done[name]; ok {
		return codec, nil
	}
	codec, err := c.node(name, c.file.Types[name])
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", name, err)
	}
	if codec.Descriptor().Name != name {
		codec = fixlen.Named(name, codec)
	}
	c.done[name] = codec
	return codec, nil
}

func (c *compiler) node(name string, node *TypeNode) (fixlen.Codec[any], error) {
	if node.Ref != "" {
		if _, ok := c.file.Types[node.Ref]; ok {
			return c.named(node.Ref)
		}
		if c.builtins == nil {
			return nil, fmt.Errorf("%w: %s", fixlen.ErrUnsupportedType, node.Ref)
		}
		entry, err := c.builtins.Entry(node.Ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", fixlen.ErrUnsupportedType, node.Ref)
		}
		return bridge(entry), nil
	}

	collection := fixlen.CollectionConfig{Capacity: node.Capacity}
	switch node.Kind {
	case "i8":
		return signed(fixlen.Int8(), math.MinInt8, math.MaxInt8), nil
	case "i16":
		return signed(fixlen.Int16(), math.MinInt16, math.MaxInt16), nil
	case "i32":
		return signed(fixlen.Int32(), math.MinInt32, math.MaxInt32), nil
	case "i64":
		return signed(fixlen.Int64(), math.MinInt64, math.MaxInt64), nil
	case "u8":
		return unsigned(fixlen.Uint8(), math.MaxUint8), nil
	case "u16":
		return unsigned(fixlen.Uint16(), math.MaxUint16), nil
	case "u32":
		return unsigned(fixlen.Uint32(), math.MaxUint32), nil
	case "u64":
		return unsigned(fixlen.Uint64(), math.MaxUint64), nil
	case "bool":
		return fixlen.Transform("", fixlen.Bool(), asBool, func(v bool) (any, error) { return v, nil }), nil
	case "ascii_char":
		return fixlen.Transform("", fixlen.ASCIIChar(), asASCIIChar, func(v byte) (any, error) { return string(rune(v)), nil }), nil
	case "rune":
		return fixlen.Transform("", fixlen.Rune(), asRune, func(v rune) (any, error) { return string(v), nil }), nil
	case "bytes":
		return hexBytes(fixlen.SizedBytes(node.Capacity)), nil
	case "fixed_bytes":
		return hexBytes(fixlen.FixedBytes(node.Capacity)), nil
	case "utf8":
		return text(fixlen.UTF8String(node.Capacity)), nil
	case "ascii":
		return text(fixlen.ASCIIString(node.Capacity)), nil
	case "decimal":
		return decimal(fixlen.BigDecimal(fixlen.DecimalConfig{
			IntegerPrecision:  node.IntegerPrecision,
			FractionPrecision: node.FractionPrecision,
		})), nil
	case "float32":
		return float(fixlen.Float32(), 32), nil
	case "float64":
		return float(fixlen.Float64(), 64), nil
	case "enum":
		return fixlen.Transform("", fixlen.Enum(name, node.Variants...), asString,
			func(v string) (any, error) { return v, nil }), nil
	}

	switch node.Kind {
	case "list", "exact_list", "set":
		element, err := c.node(name+".element", node.Element)
		if err != nil {
			return nil, err
		}
		var list fixlen.Codec[[]any]
		switch node.Kind {
		case "list":
			list = fixlen.List(element, collection)
		case "exact_list":
			list = fixlen.ExactList(element, collection)
		default:
			list = fixlen.ListAsSet(element, collection)
		}
		return fixlen.Transform("", list, asList, func(v []any) (any, error) { return v, nil }), nil

	case "map":
		key, err := c.node(name+".key", node.Key)
		if err != nil {
			return nil, err
		}
		value, err := c.node(name+".value", node.Value)
		if err != nil {
			return nil, err
		}
		return fixlen.Transform("", fixlen.EntryList(key, value, collection), asEntries, fromEntries), nil

	case "nullable":
		element, err := c.node(name+".element", node.Element)
		if err != nil {
			return nil, err
		}
		return fixlen.Transform("", fixlen.Nullable(element), asOptional, fromOptional), nil

	case "pair":
		first, err := c.node(name+".first", node.First)
		if err != nil {
			return nil, err
		}
		second, err := c.node(name+".second", node.Second)
		if err != nil {
			return nil, err
		}
		return fixlen.Transform("", fixlen.PairOf(first, second), asPair,
			func(v fixlen.Pair[any, any]) (any, error) { return []any{v.First, v.Second}, nil }), nil

	case "struct":
		fields := make([]fixlen.Field[map[string]any], 0, len(node.Fields))
		for _, field := range node.Fields {
			codec, err := c.node(name+"."+field.Name, field.Type)
			if err != nil {
				return nil, err
			}
			fields = append(fields, objectField(field.Name, codec))
		}
		object := fixlen.StructWith(name, func() map[string]any { return make(map[string]any, len(fields)) }, fields...)
		return fixlen.Transform("", object, asObject(name, fields),
			func(v map[string]any) (any, error) { return v, nil }), nil
	}
	return nil, fmt.Errorf("%w: kind %q", fixlen.ErrUnsupportedType, node.Kind)
}

func objectField(name string, codec fixlen.Codec[any]) fixlen.Field[map[string]any] {
	return fixlen.NewField(name, codec,
		func(object *map[string]any) any { return (*object)[name] },
		func(object *map[string]any, value any) { (*object)[name] = value })
}

// bridge adapts a builtin Go-typed codec to JSON-native values by
// round-tripping through the Go type's JSON form. Name-only entries
// are already untyped and are returned as is.
func bridge(entry fixlen.Entry) fixlen.Codec[any] {
	if entry.Type == nil {
		return entry.Codec
	}
	return fixlen.Transform("", entry.Codec,
		func(value any) (any, error) {
			data, err := valueJSON.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", fixlen.ErrInvalidValue, entry.Name, err)
			}
			target := reflect.New(entry.Type)
			if err := valueJSON.Unmarshal(data, target.Interface()); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", fixlen.ErrInvalidValue, entry.Name, err)
			}
			return target.Elem().Interface(), nil
		},
		func(value any) (any, error) {
			data, err := valueJSON.Marshal(value)
			if err != nil {
				return nil, err
			}
			var native any
			if err := valueJSON.Unmarshal(data, &native); err != nil {
				return nil, err
			}
			return native, nil
		})
}
