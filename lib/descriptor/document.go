// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"bytes"
	"fmt"
	"slices"
)

// Document is a normalized descriptor tree: named structs and enums
// appear once in Definitions and are referenced by name elsewhere.
// A circuit generator emits one record type per definition.
type Document struct {
	Root        *Descriptor            `json:"root" yaml:"root"`
	Definitions map[string]*Descriptor `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// Resolve implements [Resolver].
func (doc *Document) Resolve(name string) (*Descriptor, bool) {
	d, ok := doc.Definitions[name]
	return d, ok
}

// DefinitionNames returns the definition names in sorted order.
func (doc *Document) DefinitionNames() []string {
	names := make([]string, 0, len(doc.Definitions))
	for name := range doc.Definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Normalize builds a Document from root. The root itself stays inline;
// every struct or enum below it becomes a reference. Two different
// shapes registered under one name are rejected, since a generator
// could not emit both.
func Normalize(root *Descriptor) (*Document, error) {
	doc := &Document{Definitions: make(map[string]*Descriptor)}
	normalized, err := doc.normalize(root, true)
	if err != nil {
		return nil, err
	}
	doc.Root = normalized
	return doc, nil
}

func (doc *Document) normalize(d *Descriptor, isRoot bool) (*Descriptor, error) {
	clone := d.shallowClone()
	for index, element := range clone.Elements {
		normalized, err := doc.normalize(element.Descriptor, false)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", d.Name, element.Name, err)
		}
		clone.Elements[index] = Element{Name: element.Name, Descriptor: normalized}
	}
	if len(clone.Attributes) == 0 {
		clone.Attributes = nil
	}

	if isRoot || (clone.Kind != KindStruct && clone.Kind != KindEnum) {
		return clone, nil
	}

	if existing, ok := doc.Definitions[clone.Name]; ok {
		same, err := sameShape(existing, clone)
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, fmt.Errorf("%w: two different shapes named %q", ErrInvalid, clone.Name)
		}
	} else {
		doc.Definitions[clone.Name] = clone
	}
	return Reference(clone), nil
}

func sameShape(a, b *Descriptor) (bool, error) {
	encodedA, err := EncodeCBOR(a)
	if err != nil {
		return false, err
	}
	encodedB, err := EncodeCBOR(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(encodedA, encodedB), nil
}
