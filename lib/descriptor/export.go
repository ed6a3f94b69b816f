// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package descriptor

import (
	"encoding/hex"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// jsonConfig sorts map keys so attribute order is stable.
var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

// FingerprintSize is the length of a descriptor fingerprint.
const FingerprintSize = 32

// Fingerprint identifies a descriptor tree: the BLAKE3-256 digest of
// its deterministic CBOR encoding.
type Fingerprint [FingerprintSize]byte

// String returns the lower-case hex form.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// MarshalText encodes the fingerprint as hex.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFingerprint parses the hex form produced by [Fingerprint.String].
func ParseFingerprint(text string) (Fingerprint, error) {
	var fingerprint Fingerprint
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return fingerprint, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != FingerprintSize {
		return fingerprint, fmt.Errorf("fingerprint is %d bytes, want %d", len(decoded), FingerprintSize)
	}
	copy(fingerprint[:], decoded)
	return fingerprint, nil
}

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Attribute maps therefore encode identically regardless of Go map
// iteration order, which the fingerprint depends on.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Kind implements encoding.TextMarshaler and must appear by name.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("descriptor: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Attribute values decode into map[string]any rather than
		// map[any]any.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("descriptor: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeCBOR returns the deterministic CBOR encoding of v, which is a
// *Descriptor or a *Document.
func EncodeCBOR(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding descriptor CBOR: %w", err)
	}
	return data, nil
}

// DecodeCBOR parses a descriptor produced by [EncodeCBOR]. Integer
// attributes come back as uint64 or int64; use the typed attribute
// accessors rather than type assertions.
func DecodeCBOR(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := decMode.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding descriptor CBOR: %w", err)
	}
	return &d, nil
}

// DecodeDocumentCBOR parses a document produced by [EncodeCBOR].
func DecodeDocumentCBOR(data []byte) (*Document, error) {
	var doc Document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document CBOR: %w", err)
	}
	return &doc, nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// FingerprintOf computes the fingerprint of d.
func FingerprintOf(d *Descriptor) (Fingerprint, error) {
	data, err := EncodeCBOR(d)
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint(blake3.Sum256(data)), nil
}

// EncodeYAML renders v (a *Descriptor or *Document) as YAML.
func EncodeYAML(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding descriptor YAML: %w", err)
	}
	return data, nil
}

// EncodeJSON renders v (a *Descriptor or *Document) as indented JSON.
func EncodeJSON(v any) ([]byte, error) {
	data, err := jsonConfig.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding descriptor JSON: %w", err)
	}
	return data, nil
}
