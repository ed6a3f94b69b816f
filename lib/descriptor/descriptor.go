// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"fmt"
	"maps"
	"slices"
)

// Kind is the logical shape of a descriptor node. The set is closed:
// every codec in the repository maps onto one of these kinds.
type Kind uint8

const (
	// KindPrimitive is a fixed-width scalar (integer, boolean, char).
	KindPrimitive Kind = iota + 1
	// KindList is a bounded sequence: an optional cardinality field
	// followed by capacity element slots.
	KindList
	// KindSet is laid out exactly like KindList; elements are unique.
	KindSet
	// KindMap is a cardinality field followed by capacity key/value slots.
	KindMap
	// KindPair is two consecutive elements.
	KindPair
	// KindNullable is a one-byte null flag followed by the element.
	KindNullable
	// KindEnum is a four-byte ordinal.
	KindEnum
	// KindStruct is the concatenation of its named elements.
	KindStruct
	// KindReference points at another descriptor by name.
	KindReference
)

var kindNames = map[Kind]string{
	KindPrimitive: "primitive",
	KindList:      "list",
	KindSet:       "set",
	KindMap:       "map",
	KindPair:      "pair",
	KindNullable:  "nullable",
	KindEnum:      "enum",
	KindStruct:    "struct",
	KindReference: "reference",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown descriptor kind %q", name)
}

// MarshalText encodes the kind by name so exported documents stay
// readable and independent of the numeric values.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("cannot marshal invalid descriptor kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Attribute keys understood by [ComputeByteSize] and by consumers of
// exported documents.
const (
	// AttrCapacity is the declared maximum (or, with AttrExact, the
	// exact) cardinality of a list, set, or map.
	AttrCapacity = "capacity"
	// AttrExact marks a list whose cardinality is fixed and therefore
	// carries no cardinality field.
	AttrExact = "exact"
	// AttrIntegerPrecision is the integer digit capacity of a decimal.
	AttrIntegerPrecision = "integer_precision"
	// AttrFractionPrecision is the fraction digit capacity of a decimal.
	AttrFractionPrecision = "fraction_precision"
	// AttrDecimalKind is the kind tag written by a decimal codec.
	AttrDecimalKind = "decimal_kind"
	// AttrVariants lists enum variant names in ordinal order.
	AttrVariants = "variants"
	// AttrDigestAlgorithm names the hash algorithm a digest was built for.
	AttrDigestAlgorithm = "digest_algorithm"
	// AttrSignatureScheme names the signature scheme a key belongs to.
	AttrSignatureScheme = "signature_scheme"
	// AttrEncoding names the character encoding of a string.
	AttrEncoding = "encoding"
	// AttrTarget is the name of the descriptor a reference points at.
	AttrTarget = "target"
)

// CardinalitySize is the width of the cardinality field that precedes
// variable-cardinality collections.
const CardinalitySize = 4

// NullFlagSize is the width of the null flag of a nullable value.
const NullFlagSize = 1

// EnumOrdinalSize is the width of an enum ordinal.
const EnumOrdinalSize = 4

// primitiveWidths is the fixed table of primitive names and widths.
var primitiveWidths = map[string]int{
	"i8":         1,
	"u8":         1,
	"bool":       1,
	"ascii_char": 1,
	"i16":        2,
	"u16":        2,
	"i32":        4,
	"u32":        4,
	"rune":       4,
	"i64":        8,
	"u64":        8,
}

// PrimitiveWidth returns the width of a named primitive.
func PrimitiveWidth(name string) (int, bool) {
	width, ok := primitiveWidths[name]
	return width, ok
}

// Descriptor describes the byte layout of one codec. Descriptors are
// built once when a codec is constructed and treated as immutable
// afterwards; the With* methods return modified copies.
type Descriptor struct {
	// Name identifies the described type ("i32", "List<i32>", "Party").
	// Struct and enum names are the keys of [Document.Definitions].
	Name string `json:"name" yaml:"name"`

	// Kind is the logical shape.
	Kind Kind `json:"kind" yaml:"kind"`

	// ByteSize is the exact length of every encoding.
	ByteSize int `json:"byte_size" yaml:"byte_size"`

	// Elements are the ordered sub-elements of composite kinds. Empty
	// for primitives, enums, and references.
	Elements []Element `json:"elements,omitempty" yaml:"elements,omitempty"`

	// Attributes carries metadata for downstream consumers. Values are
	// integers, strings, booleans, or string lists.
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Element is one named child of a composite descriptor.
type Element struct {
	Name       string      `json:"name" yaml:"name"`
	Descriptor *Descriptor `json:"descriptor" yaml:"descriptor"`
}

// Primitive describes a fixed-width scalar. Panics when name is not in
// the primitive table: primitive names are compile-time constants.
func Primitive(name string) *Descriptor {
	width, ok := primitiveWidths[name]
	if !ok {
		panic(fmt.Sprintf("descriptor: unknown primitive %q", name))
	}
	return &Descriptor{Name: name, Kind: KindPrimitive, ByteSize: width}
}

// List describes a bounded list with a cardinality field.
func List(name string, element *Descriptor, capacity int) *Descriptor {
	return &Descriptor{
		Name:       name,
		Kind:       KindList,
		ByteSize:   CardinalitySize + capacity*element.ByteSize,
		Elements:   []Element{{Name: "element", Descriptor: element}},
		Attributes: map[string]any{AttrCapacity: capacity},
	}
}

// ExactList describes a list whose cardinality always equals capacity.
// No cardinality field is written.
func ExactList(name string, element *Descriptor, capacity int) *Descriptor {
	return &Descriptor{
		Name:       name,
		Kind:       KindList,
		ByteSize:   capacity * element.ByteSize,
		Elements:   []Element{{Name: "element", Descriptor: element}},
		Attributes: map[string]any{AttrCapacity: capacity, AttrExact: true},
	}
}

// Set describes a bounded set. The layout is that of [List].
func Set(name string, element *Descriptor, capacity int) *Descriptor {
	d := List(name, element, capacity)
	d.Kind = KindSet
	return d
}

// Map describes a bounded map of key/value slots.
func Map(name string, key, value *Descriptor, capacity int) *Descriptor {
	return &Descriptor{
		Name:     name,
		Kind:     KindMap,
		ByteSize: CardinalitySize + capacity*(key.ByteSize+value.ByteSize),
		Elements: []Element{
			{Name: "key", Descriptor: key},
			{Name: "value", Descriptor: value},
		},
		Attributes: map[string]any{AttrCapacity: capacity},
	}
}

// Pair describes two consecutive values.
func Pair(name string, first, second *Descriptor) *Descriptor {
	return &Descriptor{
		Name:     name,
		Kind:     KindPair,
		ByteSize: first.ByteSize + second.ByteSize,
		Elements: []Element{
			{Name: "first", Descriptor: first},
			{Name: "second", Descriptor: second},
		},
	}
}

// Nullable describes a null flag followed by element.
func Nullable(name string, element *Descriptor) *Descriptor {
	return &Descriptor{
		Name:     name,
		Kind:     KindNullable,
		ByteSize: NullFlagSize + element.ByteSize,
		Elements: []Element{{Name: "element", Descriptor: element}},
	}
}

// Enum describes an ordinal over the named variants.
func Enum(name string, variants []string) *Descriptor {
	return &Descriptor{
		Name:       name,
		Kind:       KindEnum,
		ByteSize:   EnumOrdinalSize,
		Attributes: map[string]any{AttrVariants: slices.Clone(variants)},
	}
}

// Struct describes the concatenation of elements in order.
func Struct(name string, elements ...Element) *Descriptor {
	size := 0
	for _, element := range elements {
		size += element.Descriptor.ByteSize
	}
	return &Descriptor{
		Name:     name,
		Kind:     KindStruct,
		ByteSize: size,
		Elements: slices.Clone(elements),
	}
}

// Reference describes a pointer to target by name. The byte size is
// copied so consumers that do not resolve references still see the
// correct layout width.
func Reference(target *Descriptor) *Descriptor {
	return &Descriptor{
		Name:       target.Name,
		Kind:       KindReference,
		ByteSize:   target.ByteSize,
		Attributes: map[string]any{AttrTarget: target.Name},
	}
}

// WithName returns a copy of d carrying a different name.
func (d *Descriptor) WithName(name string) *Descriptor {
	clone := d.shallowClone()
	clone.Name = name
	return clone
}

// WithAttribute returns a copy of d with key set to value.
func (d *Descriptor) WithAttribute(key string, value any) *Descriptor {
	clone := d.shallowClone()
	clone.Attributes[key] = value
	return clone
}

func (d *Descriptor) shallowClone() *Descriptor {
	clone := *d
	clone.Elements = slices.Clone(d.Elements)
	clone.Attributes = maps.Clone(d.Attributes)
	if clone.Attributes == nil {
		clone.Attributes = make(map[string]any)
	}
	return &clone
}

// Element returns the child with the given name.
func (d *Descriptor) Element(name string) (*Descriptor, bool) {
	for _, element := range d.Elements {
		if element.Name == name {
			return element.Descriptor, true
		}
	}
	return nil, false
}

// IntAttribute reads an integer attribute. Values decoded from CBOR,
// JSON, or YAML arrive as various numeric types; all are accepted.
func (d *Descriptor) IntAttribute(key string) (int, bool) {
	switch value := d.Attributes[key].(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case uint64:
		return int(value), true
	case uint32:
		return int(value), true
	case float64:
		if value == float64(int(value)) {
			return int(value), true
		}
	}
	return 0, false
}

// BoolAttribute reads a boolean attribute; missing means false.
func (d *Descriptor) BoolAttribute(key string) bool {
	value, _ := d.Attributes[key].(bool)
	return value
}

// StringAttribute reads a string attribute.
func (d *Descriptor) StringAttribute(key string) (string, bool) {
	value, ok := d.Attributes[key].(string)
	return value, ok
}

// StringsAttribute reads a string-list attribute.
func (d *Descriptor) StringsAttribute(key string) ([]string, bool) {
	switch value := d.Attributes[key].(type) {
	case []string:
		return value, true
	case []any:
		result := make([]string, 0, len(value))
		for _, item := range value {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, text)
		}
		return result, true
	}
	return nil, false
}
