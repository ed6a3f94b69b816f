// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FlagsFromParams creates a [pflag.FlagSet] with flags bound to the tagged
// fields of params. params must be a pointer to a struct. Panics on
// invalid input (programming error, not runtime data).
//
//	var params encodeParams
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet {
//	        return cli.FlagsFromParams("encode", &params)
//	    },
//	    Run: func(args []string) error {
//	        // params fields are populated after flag parsing
//	    },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers pflag entries for each tagged field in params.
// params must be a pointer to a struct.
//
// # Struct tags
//
//   - flag:"name" or flag:"name,n": the long flag name and optional
//     single-character shorthand. Fields without a flag tag are skipped.
//   - desc:"help text": the flag's help description.
//   - default:"value": the default value, parsed according to the
//     field's Go type. If omitted, the type's zero value is used.
//   - choices:"a,b,c": string fields only. Parsing rejects any other
//     value; without a default the field stays "" until the flag is given.
//
// # Supported field types
//
// string, bool, int, []string.
//
// # Struct composition
//
// Embedded structs are bound recursively, so shared flags can live in
// one embedded params struct.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStructFields(value.Elem(), flagSet)
}

func bindStructFields(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()

	for i := range structType.NumField() {
		field := structType.Field(i)
		fieldValue := structValue.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStructFields(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		flagTag := field.Tag.Get("flag")
		if flagTag == "" {
			continue
		}
		if !fieldValue.CanAddr() {
			return fmt.Errorf("field %s: not addressable", field.Name)
		}

		name, shorthand, _ := strings.Cut(flagTag, ",")
		binding := flagBinding{
			name:        name,
			shorthand:   shorthand,
			description: field.Tag.Get("desc"),
			defaultText: field.Tag.Get("default"),
		}
		if choices := field.Tag.Get("choices"); choices != "" {
			binding.choices = strings.Split(choices, ",")
		}
		if err := bindField(fieldValue, flagSet, binding); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}

	return nil
}

type flagBinding struct {
	name        string
	shorthand   string
	description string
	defaultText string
	choices     []string
}

// bindField creates a pflag binding for a single struct field.
func bindField(fieldValue reflect.Value, flagSet *pflag.FlagSet, binding flagBinding) error {
	pointer := fieldValue.Addr().Interface()
	if binding.choices != nil {
		target, ok := pointer.(*string)
		if !ok {
			return fmt.Errorf("choices on non-string flag --%s", binding.name)
		}
		if binding.defaultText != "" && !slices.Contains(binding.choices, binding.defaultText) {
			return fmt.Errorf("default %q for --%s is not one of %v", binding.defaultText, binding.name, binding.choices)
		}
		*target = binding.defaultText
		description := fmt.Sprintf("%s (%s)", binding.description, strings.Join(binding.choices, "|"))
		flagSet.VarP(&choiceValue{target: target, choices: binding.choices}, binding.name, binding.shorthand, description)
		return nil
	}

	switch target := pointer.(type) {
	case *string:
		flagSet.StringVarP(target, binding.name, binding.shorthand, binding.defaultText, binding.description)

	case *bool:
		defaultValue := false
		if binding.defaultText != "" {
			parsed, err := strconv.ParseBool(binding.defaultText)
			if err != nil {
				return fmt.Errorf("default for --%s: %w", binding.name, err)
			}
			defaultValue = parsed
		}
		flagSet.BoolVarP(target, binding.name, binding.shorthand, defaultValue, binding.description)

	case *int:
		defaultValue := 0
		if binding.defaultText != "" {
			parsed, err := strconv.Atoi(binding.defaultText)
			if err != nil {
				return fmt.Errorf("default for --%s: %w", binding.name, err)
			}
			defaultValue = parsed
		}
		flagSet.IntVarP(target, binding.name, binding.shorthand, defaultValue, binding.description)

	case *[]string:
		var defaultValue []string
		if binding.defaultText != "" {
			defaultValue = strings.Split(binding.defaultText, ",")
		}
		flagSet.StringSliceVarP(target, binding.name, binding.shorthand, defaultValue, binding.description)

	default:
		return fmt.Errorf("unsupported type %s for flag --%s", fieldValue.Type(), binding.name)
	}

	return nil
}

// choiceValue is a string flag restricted to a fixed set of values.
type choiceValue struct {
	target  *string
	choices []string
}

func (v *choiceValue) String() string { return *v.target }

func (v *choiceValue) Set(value string) error {
	if !slices.Contains(v.choices, value) {
		return fmt.Errorf("must be one of %s", strings.Join(v.choices, ", "))
	}
	*v.target = value
	return nil
}

func (v *choiceValue) Type() string { return "string" }
