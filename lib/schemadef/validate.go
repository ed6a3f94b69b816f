// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemadef

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
)

// typeNamePattern matches schema type and field names.
var typeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Kinds lists every kind a TypeNode may declare.
var Kinds = []string{
	"i8", "u8", "i16", "u16", "i32", "u32", "i64", "u64", "bool", "ascii_char", "rune",
	"bytes", "fixed_bytes", "utf8", "ascii",
	"list", "exact_list", "set", "map", "nullable", "pair", "struct", "enum",
	"decimal", "float32", "float64",
}

// Validate checks a schema file for structural issues. Returns a list
// of human-readable issue descriptions; an empty list means the file
// compiles. References may point at other types in the file or at
// names registered in builtins, which may be nil.
//
// Checks include:
//   - At least one type is declared, and type names are identifiers
//   - Each node sets exactly one of kind or ref, and kinds are known
//   - Collections declare a non-negative capacity and their sub-nodes
//   - Struct field names are identifiers and unique
//   - Enum variants are present and unique
//   - Decimal precisions are non-negative and not both zero
//   - References resolve and do not form a cycle
func Validate(file *File, builtins *fixlen.Registry) []string {
	var issues []string
	if len(file.Types) == 0 {
		issues = append(issues, "schema declares no types")
	}

	for _, name := range sortedNames(file) {
		if !typeNamePattern.MatchString(name) {
			issues = append(issues, fmt.Sprintf("type %q: name is not an identifier", name))
		}
		issues = append(issues, validateNode(file, builtins, name, file.Types[name])...)
	}

	for _, name := range sortedNames(file) {
		if cycle := findCycle(file, name, nil); cycle != nil {
			issues = append(issues, fmt.Sprintf("type %q: reference cycle %v", name, cycle))
			break
		}
	}
	return issues
}

func validateNode(file *File, builtins *fixlen.Registry, path string, node *TypeNode) []string {
	if node == nil {
		return []string{path + ": missing type"}
	}
	var issues []string
	issue := func(format string, args ...any) {
		issues = append(issues, path+": "+fmt.Sprintf(format, args...))
	}
	child := func(name string, sub *TypeNode) {
		if sub == nil {
			issue("%s kind requires %q", node.Kind, name)
			return
		}
		issues = append(issues, validateNode(file, builtins, path+"."+name, sub)...)
	}

	switch {
	case node.Kind != "" && node.Ref != "":
		issue("sets both kind %q and ref %q", node.Kind, node.Ref)
		return issues
	case node.Ref != "":
		if _, ok := file.Types[node.Ref]; ok {
			return issues
		}
		if builtins != nil {
			if _, err := builtins.Entry(node.Ref); err == nil {
				return issues
			}
		}
		issue("reference to unknown type %q", node.Ref)
		return issues
	case node.Kind == "":
		issue("sets neither kind nor ref")
		return issues
	case !slices.Contains(Kinds, node.Kind):
		issue("unknown kind %q", node.Kind)
		return issues
	}

	if node.Capacity < 0 {
		issue("capacity %d is negative", node.Capacity)
	}
	switch node.Kind {
	case "list", "exact_list", "set", "nullable":
		child("element", node.Element)
	case "map":
		child("key", node.Key)
		child("value", node.Value)
	case "pair":
		child("first", node.First)
		child("second", node.Second)
	case "struct":
		seen := make(map[string]bool, len(node.Fields))
		for index, field := range node.Fields {
			if !typeNamePattern.MatchString(field.Name) {
				issue("fields[%d]: name %q is not an identifier", index, field.Name)
			} else if seen[field.Name] {
				issue("fields[%d]: duplicate field %q", index, field.Name)
			}
			seen[field.Name] = true
			if field.Type == nil {
				issue("fields[%d] %q: missing type", index, field.Name)
				continue
			}
			issues = append(issues, validateNode(file, builtins, path+"."+field.Name, field.Type)...)
		}
	case "enum":
		if len(node.Variants) == 0 {
			issue("enum has no variants")
		}
		seen := make(map[string]bool, len(node.Variants))
		for _, variant := range node.Variants {
			if seen[variant] {
				issue("duplicate variant %q", variant)
			}
			seen[variant] = true
		}
	case "decimal":
		if node.IntegerPrecision < 0 || node.FractionPrecision < 0 {
			issue("negative decimal precision")
		} else if node.IntegerPrecision == 0 && node.FractionPrecision == 0 {
			issue("decimal declares no digits")
		}
	}
	return issues
}

// findCycle returns the reference path that leads from name back to a
// type already on stack, or nil.
func findCycle(file *File, name string, stack []string) []string {
	if slices.Contains(stack, name) {
		return append(stack, name)
	}
	node, ok := file.Types[name]
	if !ok {
		return nil
	}
	stack = append(stack, name)
	for _, ref := range references(node) {
		if cycle := findCycle(file, ref, stack); cycle != nil {
			return cycle
		}
	}
	return nil
}

// references lists every ref reachable from node without crossing into
// another named type.
func references(node *TypeNode) []string {
	if node == nil {
		return nil
	}
	if node.Ref != "" {
		return []string{node.Ref}
	}
	var refs []string
	for _, sub := range []*TypeNode{node.Element, node.Key, node.Value, node.First, node.Second} {
		refs = append(refs, references(sub)...)
	}
	for _, field := range node.Fields {
		refs = append(refs, references(field.Type)...)
	}
	return refs
}

func sortedNames(file *File) []string {
	names := make([]string, 0, len(file.Types))
	for name := range file.Types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
