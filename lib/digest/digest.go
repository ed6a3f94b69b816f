// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrUnknownAlgorithm is returned for names or ids with no
	// registered algorithm.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

	// ErrDuplicateAlgorithm is returned when a name or id is registered
	// twice.
	ErrDuplicateAlgorithm = errors.New("duplicate hash algorithm")

	// ErrInvalidDigest is returned when a digest has the wrong length or
	// cannot be parsed.
	ErrInvalidDigest = errors.New("invalid digest")
)

// Algorithm describes one hash function.
type Algorithm struct {
	// ID is the stable numeric identifier.
	ID uint8
	// Name is the canonical upper-case name ("SHA-256").
	Name string
	// Size is the digest length in bytes.
	Size int

	newHash func() hash.Hash
}

// NewAlgorithm returns an algorithm backed by newHash. The digest size
// is taken from the hash itself.
func NewAlgorithm(id uint8, name string, newHash func() hash.Hash) Algorithm {
	return Algorithm{ID: id, Name: strings.ToUpper(name), Size: newHash().Size(), newHash: newHash}
}

// New returns a fresh hash.Hash.
func (a Algorithm) New() hash.Hash { return a.newHash() }

// Sum hashes data.
func (a Algorithm) Sum(data []byte) []byte {
	h := a.newHash()
	h.Write(data)
	return h.Sum(nil)
}

// SumReader hashes everything read from reader. The input is
// streamed through the hash function, so memory use does not depend
// on its size.
func (a Algorithm) SumReader(reader io.Reader) ([]byte, error) {
	h := a.newHash()
	if _, err := io.Copy(h, reader); err != nil {
		return nil, fmt.Errorf("hashing with %s: %w", a.Name, err)
	}
	return h.Sum(nil), nil
}

// Check verifies that sum has this algorithm's digest length.
func (a Algorithm) Check(sum []byte) error {
	if len(sum) != a.Size {
		return fmt.Errorf("%w: %s digest is %d bytes, got %d", ErrInvalidDigest, a.Name, a.Size, len(sum))
	}
	return nil
}

// Format returns the "ALGORITHM:HEX" text form of sum with upper-case
// hex digits.
func Format(a Algorithm, sum []byte) string {
	return a.Name + ":" + strings.ToUpper(hex.EncodeToString(sum))
}

// Registry maps names and ids to algorithms. It is safe for concurrent
// use.
type Registry struct {
	mu         sync.RWMutex
	byID       map[uint8]Algorithm
	byName     map[string]Algorithm
	algorithms []Algorithm
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint8]Algorithm), byName: make(map[string]Algorithm)}
}

// Builtin returns a new registry holding the built-in algorithms.
func Builtin() *Registry {
	registry := NewRegistry()
	for _, algorithm := range builtinAlgorithms() {
		if err := registry.Register(algorithm); err != nil {
			panic(err)
		}
	}
	return registry
}

// Names of the built-in algorithms.
const (
	SHA256     = "SHA-256"
	SHA384     = "SHA-384"
	SHA512     = "SHA-512"
	SHA3_256   = "SHA3-256"
	BLAKE2b256 = "BLAKE2B-256"
	BLAKE2s256 = "BLAKE2S-256"
	BLAKE3_256 = "BLAKE3-256"
)

func builtinAlgorithms() []Algorithm {
	return []Algorithm{
		NewAlgorithm(1, SHA256, sha256.New),
		NewAlgorithm(2, SHA384, sha512.New384),
		NewAlgorithm(3, SHA512, sha512.New),
		NewAlgorithm(4, SHA3_256, sha3.New256),
		NewAlgorithm(5, BLAKE2b256, func() hash.Hash {
			h, _ := blake2b.New256(nil)
			return h
		}),
		NewAlgorithm(6, BLAKE2s256, func() hash.Hash {
			h, _ := blake2s.New256(nil)
			return h
		}),
		NewAlgorithm(7, BLAKE3_256, func() hash.Hash { return blake3.New() }),
	}
}

// Register adds an algorithm. Names are matched case-insensitively.
func (r *Registry) Register(a Algorithm) error {
	if a.newHash == nil {
		return fmt.Errorf("algorithm %s has no hash function", a.Name)
	}
	name := strings.ToUpper(a.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[a.ID]; ok {
		return fmt.Errorf("%w: id %d is %s", ErrDuplicateAlgorithm, a.ID, existing.Name)
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAlgorithm, name)
	}
	a.Name = name
	r.byID[a.ID] = a
	r.byName[name] = a
	r.algorithms = append(r.algorithms, a)
	return nil
}

// ByName looks an algorithm up by name, ignoring case.
func (r *Registry) ByName(name string) (Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	algorithm, ok := r.byName[strings.ToUpper(name)]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return algorithm, nil
}

// ByID looks an algorithm up by numeric id.
func (r *Registry) ByID(id uint8) (Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	algorithm, ok := r.byID[id]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, id)
	}
	return algorithm, nil
}

// Algorithms returns the registered algorithms ordered by id.
func (r *Registry) Algorithms() []Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	algorithms := slices.Clone(r.algorithms)
	slices.SortFunc(algorithms, func(a, b Algorithm) int { return int(a.ID) - int(b.ID) })
	return algorithms
}

// Parse reads the "ALGORITHM:HEX" form produced by [Format]. Hex
// digits may be in either case.
func (r *Registry) Parse(text string) (Algorithm, []byte, error) {
	name, encoded, ok := strings.Cut(text, ":")
	if !ok {
		return Algorithm{}, nil, fmt.Errorf("%w: %q has no algorithm prefix", ErrInvalidDigest, text)
	}
	algorithm, err := r.ByName(name)
	if err != nil {
		return Algorithm{}, nil, err
	}
	sum, err := hex.DecodeString(encoded)
	if err != nil {
		return Algorithm{}, nil, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
	if err := algorithm.Check(sum); err != nil {
		return Algorithm{}, nil, err
	}
	return algorithm, sum, nil
}
