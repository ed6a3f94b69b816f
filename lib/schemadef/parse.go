// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schemadef reads declarative codec schemas and compiles them
// into fixed-length codecs over JSON-native values.
//
// Schemas are authored as JSONC (JSON with comments and trailing
// commas) or YAML:
//
//	{
//	  // A bounded list of transfers.
//	  "types": {
//	    "Transfer": {"kind": "struct", "fields": [
//	      {"name": "from", "type": {"ref": "Party"}},
//	      {"name": "amount", "type": {"kind": "decimal", "integer_precision": 10, "fraction_precision": 2}},
//	      {"name": "memo", "type": {"kind": "nullable", "element": {"kind": "utf8", "capacity": 140}}}
//	    ]},
//	    "Batch": {"kind": "list", "capacity": 16, "element": {"ref": "Transfer"}}
//	  }
//	}
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC/YAML bytes → File
//  2. Validate: structural checks, returning human-readable issues
//  3. Compile: File + registry of builtin codecs → Schema of codecs
//
// Compiled codecs exchange values in the shapes encoding/json
// produces with UseNumber: json.Number for numbers, string, bool, nil,
// []any, and map[string]any. Byte strings are hex, maps are lists of
// [key, value] pairs, pairs are two-element lists, and references to
// builtin types (registered Go types such as ledger.Party) use the Go
// type's own JSON form.
package schemadef

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File is a parsed schema file.
type File struct {
	Types map[string]*TypeNode `json:"types" yaml:"types"`
}

// TypeNode declares one type: either a kind with its parameters, or a
// reference to another schema type or a builtin.
type TypeNode struct {
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Ref  string `json:"ref,omitempty" yaml:"ref,omitempty"`

	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`

	Element *TypeNode `json:"element,omitempty" yaml:"element,omitempty"`
	Key     *TypeNode `json:"key,omitempty" yaml:"key,omitempty"`
	Value   *TypeNode `json:"value,omitempty" yaml:"value,omitempty"`
	First   *TypeNode `json:"first,omitempty" yaml:"first,omitempty"`
	Second  *TypeNode `json:"second,omitempty" yaml:"second,omitempty"`

	Fields   []FieldNode `json:"fields,omitempty" yaml:"fields,omitempty"`
	Variants []string    `json:"variants,omitempty" yaml:"variants,omitempty"`

	IntegerPrecision  int `json:"integer_precision,omitempty" yaml:"integer_precision,omitempty"`
	FractionPrecision int `json:"fraction_precision,omitempty" yaml:"fraction_precision,omitempty"`
}

// FieldNode is one struct field.
type FieldNode struct {
	Name string    `json:"name" yaml:"name"`
	Type *TypeNode `json:"type" yaml:"type"`
}

// schemaJSON rejects unknown fields so typos in schema files surface
// as errors rather than silently dropped parameters.
var schemaJSON = jsoniter.Config{
	EscapeHTML:            true,
	SortMapKeys:           true,
	DisallowUnknownFields: true,
}.Froze()

// ParseJSONC strips comments and trailing commas from data and parses
// the result.
func ParseJSONC(data []byte) (*File, error) {
	var file File
	if err := schemaJSON.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return &file, nil
}

// ParseYAML parses a YAML schema. Unknown fields are errors.
func ParseYAML(data []byte) (*File, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var file File
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return &file, nil
}

// ReadFile reads a schema from disk. Files ending in .yaml or .yml are
// YAML; everything else is JSONC.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var file *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file, err = ParseYAML(data)
	default:
		file, err = ParseJSONC(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}
