// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixlen_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/testutil"
)

func TestRegistry(t *testing.T) {
	t.Parallel()
	registry := fixlen.NewRegistry()
	if err := fixlen.Register(registry, "Int", fixlen.Int32()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := fixlen.Register(registry, "Color", fixlen.Enum("Color", color("red"), color("blue"))); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.RegisterName("Tags", fixlen.Erase(fixlen.List(fixlen.ASCIIString(4), fixlen.CollectionConfig{Capacity: 2}))); err != nil {
		t.Fatalf("RegisterName: %v", err)
	}

	codec, err := fixlen.Lookup[color](registry)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := testutil.RoundTrip(t, codec, "blue"); got != "blue" {
		t.Errorf("round trip: got %s", got)
	}

	entry, err := registry.Entry("Int")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if entry.Type != reflect.TypeFor[int32]() {
		t.Errorf("entry type = %v", entry.Type)
	}

	var names []string
	for _, entry := range registry.Entries() {
		names = append(names, entry.Name)
	}
	if !reflect.DeepEqual(names, []string{"Int", "Color", "Tags"}) {
		t.Errorf("Entries() names = %v", names)
	}
}

func TestRegistryErrors(t *testing.T) {
	t.Parallel()
	registry := fixlen.NewRegistry()
	if err := fixlen.Register(registry, "Int", fixlen.Int32()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	testutil.RequireErrorIs(t, fixlen.Register(registry, "Other", fixlen.Int32()), fixlen.ErrDuplicateRegistration)
	testutil.RequireErrorIs(t, fixlen.Register(registry, "Int", fixlen.Int64()), fixlen.ErrDuplicateRegistration)

	_, err := fixlen.Lookup[float32](registry)
	testutil.RequireErrorIs(t, err, fixlen.ErrUnsupportedType)
	_, err = registry.Entry("Missing")
	testutil.RequireErrorIs(t, err, fixlen.ErrUnsupportedType)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()
	registry := fixlen.NewRegistry()
	if err := fixlen.Register(registry, "Int", fixlen.Int32()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	var group sync.WaitGroup
	for range 8 {
		group.Add(1)
		go func() {
			defer group.Done()
			for range 100 {
				if _, err := fixlen.Lookup[int32](registry); err != nil {
					t.Errorf("Lookup: %v", err)
					return
				}
				registry.Entries()
			}
		}()
	}
	group.Wait()
}
