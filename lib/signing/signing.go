// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signing maps signature scheme names to identifiers and
// public-key encodings.
//
// A scheme fixes the size of its public keys in PKIX DER form, which
// is what fixed-length key codecs rely on: the scheme is chosen when a
// codec is built and never written into the encoded bytes.
package signing

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrUnknownScheme is returned for names or ids with no registered
	// scheme.
	ErrUnknownScheme = errors.New("unknown signature scheme")

	// ErrDuplicateScheme is returned when a name or id is registered
	// twice.
	ErrDuplicateScheme = errors.New("duplicate signature scheme")

	// ErrKeyMismatch is returned when a key does not belong to the
	// scheme it is used with.
	ErrKeyMismatch = errors.New("public key does not match scheme")
)

// Scheme describes one signature scheme.
type Scheme struct {
	// ID is the stable numeric identifier.
	ID uint8
	// Name is the canonical upper-case name.
	Name string
	// PublicKeySize is the exact PKIX DER length of every public key.
	PublicKeySize int

	accepts  func(crypto.PublicKey) bool
	generate func(io.Reader) (crypto.Signer, error)
}

// Names of the built-in schemes.
const (
	RSASHA256            = "RSA_SHA256"
	ECDSASecp256r1SHA256 = "ECDSA_SECP256R1_SHA256"
	EdDSAEd25519SHA512   = "EDDSA_ED25519_SHA512"
)

// RSAKeyBits is the modulus size of RSA_SHA256 keys.
const RSAKeyBits = 2048

func builtinSchemes() []Scheme {
	return []Scheme{
		{
			ID: 1, Name: RSASHA256, PublicKeySize: 294,
			accepts: func(key crypto.PublicKey) bool {
				rsaKey, ok := key.(*rsa.PublicKey)
				return ok && rsaKey.N.BitLen() == RSAKeyBits
			},
			generate: func(random io.Reader) (crypto.Signer, error) {
				key, err := rsa.GenerateKey(random, RSAKeyBits)
				if err != nil {
					return nil, err
				}
				return key, nil
			},
		},
		{
			ID: 2, Name: ECDSASecp256r1SHA256, PublicKeySize: 91,
			accepts: func(key crypto.PublicKey) bool {
				ecKey, ok := key.(*ecdsa.PublicKey)
				return ok && ecKey.Curve == elliptic.P256()
			},
			generate: func(random io.Reader) (crypto.Signer, error) {
				key, err := ecdsa.GenerateKey(elliptic.P256(), random)
				if err != nil {
					return nil, err
				}
				return key, nil
			},
		},
		{
			ID: 3, Name: EdDSAEd25519SHA512, PublicKeySize: 44,
			accepts: func(key crypto.PublicKey) bool {
				_, ok := key.(ed25519.PublicKey)
				return ok
			},
			generate: func(random io.Reader) (crypto.Signer, error) {
				_, private, err := ed25519.GenerateKey(random)
				if err != nil {
					return nil, err
				}
				return private, nil
			},
		},
	}
}

// PublicKey is a public key in PKIX DER form tagged with its scheme.
type PublicKey struct {
	Scheme  string `json:"scheme"`
	Encoded []byte `json:"encoded"`
}

// Equal reports whether both keys have the same scheme and encoding.
func (k PublicKey) Equal(other PublicKey) bool {
	return k.Scheme == other.Scheme && string(k.Encoded) == string(other.Encoded)
}

// EncodePublicKey returns key in PKIX DER form. The key must belong to
// the scheme.
func (s Scheme) EncodePublicKey(key crypto.PublicKey) (PublicKey, error) {
	if !s.accepts(key) {
		return PublicKey{}, fmt.Errorf("%w: %T for %s", ErrKeyMismatch, key, s.Name)
	}
	encoded, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return PublicKey{}, fmt.Errorf("encoding %s public key: %w", s.Name, err)
	}
	if len(encoded) != s.PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: %s key encodes to %d bytes, want %d",
			ErrKeyMismatch, s.Name, len(encoded), s.PublicKeySize)
	}
	return PublicKey{Scheme: s.Name, Encoded: encoded}, nil
}

// DecodePublicKey parses a key produced by [Scheme.EncodePublicKey].
func (s Scheme) DecodePublicKey(key PublicKey) (crypto.PublicKey, error) {
	if key.Scheme != s.Name {
		return nil, fmt.Errorf("%w: key is %s, scheme is %s", ErrKeyMismatch, key.Scheme, s.Name)
	}
	parsed, err := x509.ParsePKIXPublicKey(key.Encoded)
	if err != nil {
		return nil, fmt.Errorf("parsing %s public key: %w", s.Name, err)
	}
	if !s.accepts(parsed) {
		return nil, fmt.Errorf("%w: %T for %s", ErrKeyMismatch, parsed, s.Name)
	}
	return parsed, nil
}

// GenerateKey returns a new private key for the scheme. A nil random
// source means crypto/rand.
func (s Scheme) GenerateKey(random io.Reader) (crypto.Signer, error) {
	if random == nil {
		random = rand.Reader
	}
	return s.generate(random)
}

// Registry maps names and ids to schemes. It is safe for concurrent
// use.
type Registry struct {
	mu      sync.RWMutex
	byID    map[uint8]Scheme
	byName  map[string]Scheme
	schemes []Scheme
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint8]Scheme), byName: make(map[string]Scheme)}
}

// Builtin returns a new registry holding the built-in schemes.
func Builtin() *Registry {
	registry := NewRegistry()
	for _, scheme := range builtinSchemes() {
		if err := registry.register(scheme); err != nil {
			panic(err)
		}
	}
	return registry
}

func (r *Registry) register(s Scheme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[s.ID]; ok {
		return fmt.Errorf("%w: id %d is %s", ErrDuplicateScheme, s.ID, existing.Name)
	}
	if _, ok := r.byName[s.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateScheme, s.Name)
	}
	r.byID[s.ID] = s
	r.byName[s.Name] = s
	r.schemes = append(r.schemes, s)
	return nil
}

// ByName looks a scheme up by name, ignoring case.
func (r *Registry) ByName(name string) (Scheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scheme, ok := r.byName[strings.ToUpper(name)]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return scheme, nil
}

// ByID looks a scheme up by numeric id.
func (r *Registry) ByID(id uint8) (Scheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scheme, ok := r.byID[id]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: id %d", ErrUnknownScheme, id)
	}
	return scheme, nil
}

// Schemes returns the registered schemes ordered by id.
func (r *Registry) Schemes() []Scheme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemes := slices.Clone(r.schemes)
	slices.SortFunc(schemes, func(a, b Scheme) int { return int(a.ID) - int(b.ID) })
	return schemes
}
