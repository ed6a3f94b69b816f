// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/digest"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/signing"
)

// Config selects the construction-time parameters of the codec set.
type Config struct {
	// DigestAlgorithm names the algorithm of every SecureHash.
	DigestAlgorithm string `yaml:"digest_algorithm" json:"digest_algorithm"`
	// SignatureScheme names the scheme of every PublicKey.
	SignatureScheme string `yaml:"signature_scheme" json:"signature_scheme"`
}

// DefaultConfig returns SHA-256 hashes and Ed25519 keys.
func DefaultConfig() Config {
	return Config{DigestAlgorithm: digest.SHA256, SignatureScheme: signing.EdDSAEd25519SHA512}
}

// Digit capacities of Amount.DisplayTokenSize.
const (
	DisplayTokenIntegerPrecision  = 20
	DisplayTokenFractionPrecision = 20
)

// Codecs is the set of ledger codecs for one configuration.
type Codecs struct {
	Algorithm digest.Algorithm
	Scheme    signing.Scheme

	PartyName            fixlen.Codec[PartyName]
	PublicKey            fixlen.Codec[signing.PublicKey]
	SecureHash           fixlen.Codec[SecureHash]
	Party                fixlen.Codec[Party]
	AnonymousParty       fixlen.Codec[AnonymousParty]
	StateRef             fixlen.Codec[StateRef]
	Instant              fixlen.Codec[time.Time]
	Duration             fixlen.Codec[time.Duration]
	TimeWindow           fixlen.Codec[TimeWindow]
	AttachmentConstraint fixlen.Codec[AttachmentConstraint]
	UniqueIdentifier     fixlen.Codec[UniqueIdentifier]
	Currency             fixlen.Codec[Currency]
	Amount               fixlen.Codec[Amount[Currency]]
}

// NewCodecs resolves the configured algorithm and scheme and builds
// the codec set.
func NewCodecs(config Config, digests *digest.Registry, schemes *signing.Registry) (*Codecs, error) {
	algorithm, err := digests.ByName(config.DigestAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("ledger codecs: %w", err)
	}
	scheme, err := schemes.ByName(config.SignatureScheme)
	if err != nil {
		return nil, fmt.Errorf("ledger codecs: %w", err)
	}

	c := &Codecs{Algorithm: algorithm, Scheme: scheme}
	c.PartyName = partyNameCodec()
	c.PublicKey = PublicKeyCodec(scheme)
	c.SecureHash = SecureHashCodec(algorithm)
	c.Party = fixlen.Struct("Party",
		fixlen.NewField("name", c.PartyName,
			func(p *Party) PartyName { return p.Name },
			func(p *Party, v PartyName) { p.Name = v }),
		fixlen.NewField("owning_key", c.PublicKey,
			func(p *Party) signing.PublicKey { return p.OwningKey },
			func(p *Party, v signing.PublicKey) { p.OwningKey = v }),
	)
	c.AnonymousParty = fixlen.Struct("AnonymousParty",
		fixlen.NewField("owning_key", c.PublicKey,
			func(p *AnonymousParty) signing.PublicKey { return p.OwningKey },
			func(p *AnonymousParty, v signing.PublicKey) { p.OwningKey = v }),
	)
	c.StateRef = fixlen.Struct("StateRef",
		fixlen.NewField("txhash", c.SecureHash,
			func(r *StateRef) SecureHash { return r.TxHash },
			func(r *StateRef, v SecureHash) { r.TxHash = v }),
		fixlen.NewField("index", fixlen.Int32(),
			func(r *StateRef) int32 { return r.Index },
			func(r *StateRef, v int32) { r.Index = v }),
	)
	c.Instant = instantCodec
	c.Duration = durationCodec
	c.TimeWindow = timeWindowCodec
	c.AttachmentConstraint = attachmentConstraintCodec(c.SecureHash, c.PublicKey)
	c.UniqueIdentifier = uniqueIdentifierCodec
	c.Currency = currencyCodec
	c.Amount = AmountCodec(c.Currency)
	return c, nil
}

// Register installs every codec of the set into registry under its
// type and descriptor name.
func (c *Codecs) Register(registry *fixlen.Registry) error {
	registrations := []func() error{
		func() error { return fixlen.Register(registry, "PartyName", c.PartyName) },
		func() error { return fixlen.Register(registry, "PublicKey", c.PublicKey) },
		func() error { return fixlen.Register(registry, "SecureHash", c.SecureHash) },
		func() error { return fixlen.Register(registry, "Party", c.Party) },
		func() error { return fixlen.Register(registry, "AnonymousParty", c.AnonymousParty) },
		func() error { return fixlen.Register(registry, "StateRef", c.StateRef) },
		func() error { return fixlen.Register(registry, "Instant", c.Instant) },
		func() error { return fixlen.Register(registry, "Duration", c.Duration) },
		func() error { return fixlen.Register(registry, "TimeWindow", c.TimeWindow) },
		func() error { return fixlen.Register(registry, "AttachmentConstraint", c.AttachmentConstraint) },
		func() error { return fixlen.Register(registry, "UniqueIdentifier", c.UniqueIdentifier) },
		func() error { return fixlen.Register(registry, "Currency", c.Currency) },
		func() error { return fixlen.Register(registry, "Amount", c.Amount) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return fmt.Errorf("registering ledger codecs: %w", err)
		}
	}
	return nil
}

// SecureHashCodec encodes the digest bytes of algorithm with no length
// or algorithm tag.
func SecureHashCodec(algorithm digest.Algorithm) fixlen.Codec[SecureHash] {
	codec := fixlen.Transform("SecureHash", fixlen.FixedBytes(algorithm.Size),
		func(h SecureHash) ([]byte, error) {
			if h.Algorithm != algorithm.Name {
				return nil, fmt.Errorf("%w: %s hash given to a %s codec",
					fixlen.ErrInvalidValue, h.Algorithm, algorithm.Name)
			}
			return h.Bytes, nil
		},
		func(sum []byte) (SecureHash, error) {
			return SecureHash{Algorithm: algorithm.Name, Bytes: sum}, nil
		})
	return fixlen.WithAttribute(codec, descriptor.AttrDigestAlgorithm, algorithm.Name)
}

// PublicKeyCodec encodes the PKIX DER bytes of scheme keys with no
// length or scheme tag. Decoding does not parse the key: unused
// collection slots hold all-zero keys.
func PublicKeyCodec(scheme signing.Scheme) fixlen.Codec[signing.PublicKey] {
	codec := fixlen.Transform("PublicKey", fixlen.FixedBytes(scheme.PublicKeySize),
		func(k signing.PublicKey) ([]byte, error) {
			if k.Scheme != scheme.Name {
				return nil, fmt.Errorf("%w: %s key given to a %s codec",
					fixlen.ErrInvalidValue, k.Scheme, scheme.Name)
			}
			return k.Encoded, nil
		},
		func(encoded []byte) (signing.PublicKey, error) {
			return signing.PublicKey{Scheme: scheme.Name, Encoded: encoded}, nil
		})
	return fixlen.WithAttribute(codec, descriptor.AttrSignatureScheme, scheme.Name)
}

func partyNameCodec() fixlen.Codec[PartyName] {
	optional := func(limit int) fixlen.Codec[*string] { return fixlen.Nullable(fixlen.UTF8String(limit)) }
	return fixlen.Struct("PartyName",
		fixlen.NewField("common_name", optional(MaxCommonNameLength),
			func(n *PartyName) *string { return n.CommonName },
			func(n *PartyName, v *string) { n.CommonName = v }),
		fixlen.NewField("organisation_unit", optional(MaxOrganisationUnitLength),
			func(n *PartyName) *string { return n.OrganisationUnit },
			func(n *PartyName, v *string) { n.OrganisationUnit = v }),
		fixlen.NewField("organisation", fixlen.UTF8String(MaxOrganisationLength),
			func(n *PartyName) string { return n.Organisation },
			func(n *PartyName, v string) { n.Organisation = v }),
		fixlen.NewField("locality", fixlen.UTF8String(MaxLocalityLength),
			func(n *PartyName) string { return n.Locality },
			func(n *PartyName, v string) { n.Locality = v }),
		fixlen.NewField("state", optional(MaxStateLength),
			func(n *PartyName) *string { return n.State },
			func(n *PartyName, v *string) { n.State = v }),
		fixlen.NewField("country", upperCode[string]("CountryCode", CountryCodeLength, "ZZ"),
			func(n *PartyName) string { return n.Country },
			func(n *PartyName, v string) { n.Country = v }),
	)
}

// upperCode encodes exactly length upper-case ASCII letters. fallback
// is the default used for padding.
func upperCode[T ~string](name string, length int, fallback T) fixlen.Codec[T] {
	codec := fixlen.Transform(name, fixlen.FixedBytes(length),
		func(value T) ([]byte, error) {
			if !isUpperASCII(string(value), length) {
				return nil, fmt.Errorf("%w: %s %q is not %d upper-case letters",
					fixlen.ErrInvalidValue, name, string(value), length)
			}
			return []byte(value), nil
		},
		func(data []byte) (T, error) {
			if !isUpperASCII(string(data), length) {
				return "", fmt.Errorf("%w: %s %q is not %d upper-case letters",
					fixlen.ErrMalformed, name, data, length)
			}
			return T(data), nil
		})
	return fixlen.WithDefault(fixlen.WithAttribute(codec, descriptor.AttrEncoding, "ascii"), fallback)
}

var currencyCodec = upperCode("Currency", 3, NoCurrency)

type secondsNanos struct {
	seconds int64
	nanos   int32
}

func secondsNanosCodec(name string) fixlen.Codec[secondsNanos] {
	return fixlen.Struct(name,
		fixlen.NewField("seconds", fixlen.Int64(),
			func(s *secondsNanos) int64 { return s.seconds },
			func(s *secondsNanos, v int64) { s.seconds = v }),
		fixlen.NewField("nanos", fixlen.Int32(),
			func(s *secondsNanos) int32 { return s.nanos },
			func(s *secondsNanos, v int32) { s.nanos = v }),
	)
}

func (s secondsNanos) validNanos() error {
	if s.nanos < 0 || int64(s.nanos) >= int64(time.Second) {
		return fmt.Errorf("%w: nanos %d out of range", fixlen.ErrMalformed, s.nanos)
	}
	return nil
}

type instantSurrogate secondsNanos

func (s instantSurrogate) Actual() (time.Time, error) {
	if err := secondsNanos(s).validNanos(); err != nil {
		return time.Time{}, err
	}
	return time.Unix(s.seconds, int64(s.nanos)).UTC(), nil
}

// instantCodec encodes a time as seconds since the Unix epoch and
// nanoseconds within the second. Locations are not kept: decoded times
// are in UTC.
var instantCodec = fixlen.MustSurrogate("Instant",
	fixlen.Transform("", secondsNanosCodec("InstantSurrogate"),
		func(s instantSurrogate) (secondsNanos, error) { return secondsNanos(s), nil },
		func(s secondsNanos) (instantSurrogate, error) { return instantSurrogate(s), nil }),
	func(t time.Time) (instantSurrogate, error) {
		return instantSurrogate{seconds: t.Unix(), nanos: int32(t.Nanosecond())}, nil
	})

type durationSurrogate secondsNanos

func (s durationSurrogate) Actual() (time.Duration, error) {
	if err := secondsNanos(s).validNanos(); err != nil {
		return 0, err
	}
	const second = int64(time.Second)
	switch {
	case s.seconds > math.MaxInt64/second || s.seconds < math.MinInt64/second-1:
	case s.seconds < math.MinInt64/second:
		// seconds*second alone would overflow; borrow one second.
		base, rest := (s.seconds+1)*second, second-int64(s.nanos)
		if base >= math.MinInt64+rest {
			return time.Duration(base - rest), nil
		}
	default:
		base := s.seconds * second
		if base <= math.MaxInt64-int64(s.nanos) {
			return time.Duration(base + int64(s.nanos)), nil
		}
	}
	return 0, fmt.Errorf("%w: duration of %ds and %dns overflows", fixlen.ErrMalformed, s.seconds, s.nanos)
}

// durationCodec encodes whole seconds (rounded toward negative
// infinity) and a non-negative nanosecond remainder.
var durationCodec = fixlen.MustSurrogate("Duration",
	fixlen.Transform("", secondsNanosCodec("DurationSurrogate"),
		func(s durationSurrogate) (secondsNanos, error) { return secondsNanos(s), nil },
		func(s secondsNanos) (durationSurrogate, error) { return durationSurrogate(s), nil }),
	func(d time.Duration) (durationSurrogate, error) {
		seconds, nanos := int64(d/time.Second), int32(d%time.Second)
		if nanos < 0 {
			seconds--
			nanos += int32(time.Second)
		}
		return durationSurrogate{seconds: seconds, nanos: nanos}, nil
	})

type timeWindowSurrogate struct {
	from  *time.Time
	until *time.Time
}

func (s timeWindowSurrogate) Actual() (TimeWindow, error) {
	window := TimeWindow{From: s.from, Until: s.until}
	if err := window.Validate(); err != nil {
		return TimeWindow{}, fmt.Errorf("%w: %w", fixlen.ErrMalformed, err)
	}
	return window, nil
}

var unixEpoch = time.Unix(0, 0).UTC()

// timeWindowCodec encodes a window as two nullable instants. Its
// default, used for padding, is the window starting at the Unix epoch.
var timeWindowCodec = fixlen.MustSurrogate("TimeWindow",
	fixlen.WithDefault(
		fixlen.Struct("TimeWindowSurrogate",
			fixlen.NewField("from", fixlen.Nullable[time.Time](instantCodec),
				func(s *timeWindowSurrogate) *time.Time { return s.from },
				func(s *timeWindowSurrogate, v *time.Time) { s.from = v }),
			fixlen.NewField("until", fixlen.Nullable[time.Time](instantCodec),
				func(s *timeWindowSurrogate) *time.Time { return s.until },
				func(s *timeWindowSurrogate, v *time.Time) { s.until = v }),
		),
		timeWindowSurrogate{from: &unixEpoch}),
	func(w TimeWindow) (timeWindowSurrogate, error) {
		if err := w.Validate(); err != nil {
			return timeWindowSurrogate{}, fmt.Errorf("%w: %w", fixlen.ErrInvalidValue, err)
		}
		return timeWindowSurrogate{from: w.From, until: w.Until}, nil
	})

var constraintKindCodec = fixlen.Enum("ConstraintKind",
	AlwaysAccept, HashConstraint, WhitelistedByZone, AutomaticPlaceholder, SignatureConstraint)

type constraintSurrogate AttachmentConstraint

func (s constraintSurrogate) Actual() (AttachmentConstraint, error) {
	constraint := AttachmentConstraint(s)
	if err := constraint.Validate(); err != nil {
		return AttachmentConstraint{}, fmt.Errorf("%w: %w", fixlen.ErrMalformed, err)
	}
	return constraint, nil
}

func attachmentConstraintCodec(hash fixlen.Codec[SecureHash], key fixlen.Codec[signing.PublicKey]) fixlen.Codec[AttachmentConstraint] {
	surrogate := fixlen.Struct("AttachmentConstraintSurrogate",
		fixlen.NewField("kind", constraintKindCodec,
			func(s *constraintSurrogate) ConstraintKind { return s.Kind },
			func(s *constraintSurrogate, v ConstraintKind) { s.Kind = v }),
		fixlen.NewField("hash", fixlen.Nullable(hash),
			func(s *constraintSurrogate) *SecureHash { return s.Hash },
			func(s *constraintSurrogate, v *SecureHash) { s.Hash = v }),
		fixlen.NewField("key", fixlen.Nullable(key),
			func(s *constraintSurrogate) *signing.PublicKey { return s.Key },
			func(s *constraintSurrogate, v *signing.PublicKey) { s.Key = v }),
	)
	return fixlen.MustSurrogate("AttachmentConstraint", surrogate,
		func(c AttachmentConstraint) (constraintSurrogate, error) {
			if err := c.Validate(); err != nil {
				return constraintSurrogate{}, fmt.Errorf("%w: %w", fixlen.ErrInvalidValue, err)
			}
			return constraintSurrogate(c), nil
		})
}

var uuidCodec = fixlen.Transform("UUID", fixlen.FixedBytes(16),
	func(id uuid.UUID) ([]byte, error) { return id[:], nil },
	func(data []byte) (uuid.UUID, error) { return uuid.FromBytes(data) })

var uniqueIdentifierCodec = fixlen.Struct("UniqueIdentifier",
	fixlen.NewField("external_id", fixlen.Nullable(fixlen.UTF8String(MaxExternalIDLength)),
		func(u *UniqueIdentifier) *string { return u.ExternalID },
		func(u *UniqueIdentifier, v *string) { u.ExternalID = v }),
	fixlen.NewField("id", uuidCodec,
		func(u *UniqueIdentifier) uuid.UUID { return u.ID },
		func(u *UniqueIdentifier, v uuid.UUID) { u.ID = v }),
)

// AmountCodec returns the codec for amounts of tokens encoded by token.
func AmountCodec[T any](token fixlen.Codec[T]) fixlen.Codec[Amount[T]] {
	return fixlen.Struct(fmt.Sprintf("Amount<%s>", token.Descriptor().Name),
		fixlen.NewField("quantity", fixlen.Int64(),
			func(a *Amount[T]) int64 { return a.Quantity },
			func(a *Amount[T], v int64) { a.Quantity = v }),
		fixlen.NewField("display_token_size", fixlen.BigDecimal(fixlen.DecimalConfig{
			IntegerPrecision:  DisplayTokenIntegerPrecision,
			FractionPrecision: DisplayTokenFractionPrecision,
		}),
			func(a *Amount[T]) fixlen.Decimal { return a.DisplayTokenSize },
			func(a *Amount[T], v fixlen.Decimal) { a.DisplayTokenSize = v }),
		fixlen.NewField("token", token,
			func(a *Amount[T]) T { return a.Token },
			func(a *Amount[T], v T) { a.Token = v }),
	)
}
