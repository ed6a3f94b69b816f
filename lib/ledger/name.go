// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Maximum UTF-8 byte lengths of party name attributes.
const (
	MaxCommonNameLength       = 64
	MaxOrganisationUnitLength = 64
	MaxOrganisationLength     = 128
	MaxLocalityLength         = 64
	MaxStateLength            = 64
	CountryCodeLength         = 2
)

// ErrInvalidName is returned for party names that cannot be parsed or
// violate the attribute limits.
var ErrInvalidName = errors.New("invalid party name")

// PartyName is the distinguished name of a legal identity. Organisation,
// locality, and country are required; the rest are optional.
type PartyName struct {
	CommonName       *string
	OrganisationUnit *string
	Organisation     string
	Locality         string
	State            *string
	Country          string
}

// nameAttributes lists attribute keys in formatting order.
var nameAttributes = []string{"CN", "OU", "O", "L", "ST", "C"}

// ParsePartyName parses the "O=Bank A, L=London, C=GB" form. Attribute
// order is free; keys are case-insensitive; each may appear once.
func ParsePartyName(text string) (PartyName, error) {
	var name PartyName
	seen := make(map[string]bool)
	for part := range strings.SplitSeq(text, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return PartyName{}, fmt.Errorf("%w: %q has no '=' in %q", ErrInvalidName, text, part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if seen[key] {
			return PartyName{}, fmt.Errorf("%w: %q repeats %s", ErrInvalidName, text, key)
		}
		seen[key] = true
		switch key {
		case "CN":
			name.CommonName = &value
		case "OU":
			name.OrganisationUnit = &value
		case "O":
			name.Organisation = value
		case "L":
			name.Locality = value
		case "ST":
			name.State = &value
		case "C":
			name.Country = value
		default:
			return PartyName{}, fmt.Errorf("%w: unknown attribute %q", ErrInvalidName, key)
		}
	}
	if err := name.Validate(); err != nil {
		return PartyName{}, err
	}
	return name, nil
}

// MustParsePartyName is [ParsePartyName] for literals.
func MustParsePartyName(text string) PartyName {
	name, err := ParsePartyName(text)
	if err != nil {
		panic(err)
	}
	return name
}

// Validate checks required attributes and length limits.
func (n PartyName) Validate() error {
	var problems []string
	check := func(key string, value *string, limit int, required bool) {
		if value == nil {
			if required {
				problems = append(problems, key+" is required")
			}
			return
		}
		switch {
		case required && *value == "":
			problems = append(problems, key+" is required")
		case !utf8.ValidString(*value):
			problems = append(problems, key+" is not valid UTF-8")
		case len(*value) > limit:
			problems = append(problems, fmt.Sprintf("%s is %d bytes, limit %d", key, len(*value), limit))
		case strings.ContainsAny(*value, ",="):
			problems = append(problems, key+" contains ',' or '='")
		}
	}
	check("CN", n.CommonName, MaxCommonNameLength, false)
	check("OU", n.OrganisationUnit, MaxOrganisationUnitLength, false)
	check("O", &n.Organisation, MaxOrganisationLength, true)
	check("L", &n.Locality, MaxLocalityLength, true)
	check("ST", n.State, MaxStateLength, false)
	if !isUpperASCII(n.Country, CountryCodeLength) {
		problems = append(problems, fmt.Sprintf("C %q is not a two-letter country code", n.Country))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidName, strings.Join(problems, "; "))
	}
	return nil
}

// String formats the name with attributes in CN, OU, O, L, ST, C
// order, omitting absent optional attributes.
func (n PartyName) String() string {
	values := map[string]*string{
		"CN": n.CommonName, "OU": n.OrganisationUnit, "O": &n.Organisation,
		"L": &n.Locality, "ST": n.State, "C": &n.Country,
	}
	parts := make([]string, 0, len(nameAttributes))
	for _, key := range nameAttributes {
		if value := values[key]; value != nil {
			parts = append(parts, key+"="+*value)
		}
	}
	return strings.Join(parts, ", ")
}

// MarshalText returns [PartyName.String].
func (n PartyName) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// UnmarshalText parses text with [ParsePartyName].
func (n *PartyName) UnmarshalText(text []byte) error {
	parsed, err := ParsePartyName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func isUpperASCII(value string, length int) bool {
	if len(value) != length {
		return false
	}
	for index := range len(value) {
		if value[index] < 'A' || value[index] > 'Z' {
			return false
		}
	}
	return true
}
