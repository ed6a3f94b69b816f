// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ing-bank/zkflow-sub005/lib/descriptor"
	"github.com/ing-bank/zkflow-sub005/lib/digest"
	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/signing"
	"github.com/ing-bank/zkflow-sub005/lib/testutil"
)

func newCodecs(t *testing.T, config Config) *Codecs {
	t.Helper()
	codecs, err := NewCodecs(config, digest.Builtin(), signing.Builtin())
	if err != nil {
		t.Fatalf("NewCodecs: %v", err)
	}
	return codecs
}

func testKey(t *testing.T, codecs *Codecs, seed byte) signing.PublicKey {
	t.Helper()
	private := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	key, err := codecs.Scheme.EncodePublicKey(private.Public())
	if err != nil {
		t.Fatalf("EncodePublicKey: %v", err)
	}
	return key
}

func testHash(codecs *Codecs, content string) SecureHash {
	return SecureHash{Algorithm: codecs.Algorithm.Name, Bytes: codecs.Algorithm.Sum([]byte(content))}
}

func TestNewCodecsRejectsUnknownNames(t *testing.T) {
	t.Parallel()
	_, err := NewCodecs(Config{DigestAlgorithm: "MD5", SignatureScheme: signing.RSASHA256}, digest.Builtin(), signing.Builtin())
	if !errors.Is(err, digest.ErrUnknownAlgorithm) {
		t.Errorf("unknown digest: %v", err)
	}
	_, err = NewCodecs(Config{DigestAlgorithm: digest.SHA256, SignatureScheme: "DSA"}, digest.Builtin(), signing.Builtin())
	if !errors.Is(err, signing.ErrUnknownScheme) {
		t.Errorf("unknown scheme: %v", err)
	}
}

func TestLayoutDependsOnConfiguration(t *testing.T) {
	t.Parallel()
	small := newCodecs(t, DefaultConfig())
	large := newCodecs(t, Config{DigestAlgorithm: digest.SHA512, SignatureScheme: signing.RSASHA256})

	if size := small.SecureHash.Descriptor().ByteSize; size != 32 {
		t.Errorf("SHA-256 SecureHash is %d bytes", size)
	}
	if size := large.SecureHash.Descriptor().ByteSize; size != 64 {
		t.Errorf("SHA-512 SecureHash is %d bytes", size)
	}
	if size := small.PublicKey.Descriptor().ByteSize; size != 44 {
		t.Errorf("Ed25519 PublicKey is %d bytes", size)
	}
	if size := large.PublicKey.Descriptor().ByteSize; size != 294 {
		t.Errorf("RSA PublicKey is %d bytes", size)
	}
	if size := large.StateRef.Descriptor().ByteSize; size != 64+4 {
		t.Errorf("StateRef is %d bytes", size)
	}
	algorithm, _ := small.SecureHash.Descriptor().StringAttribute(descriptor.AttrDigestAlgorithm)
	if algorithm != digest.SHA256 {
		t.Errorf("digest attribute = %q", algorithm)
	}
}

func TestPartyRoundTrip(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	nameSize := 2*(1+4+64) + (4 + 128) + (4 + 64) + (1 + 4 + 64) + 2
	if size := codecs.PartyName.Descriptor().ByteSize; size != nameSize {
		t.Fatalf("PartyName is %d bytes, want %d", size, nameSize)
	}
	if size := codecs.Party.Descriptor().ByteSize; size != nameSize+44 {
		t.Errorf("Party is %d bytes", size)
	}

	party := Party{Name: MustParsePartyName("CN=Notary, O=Notary Service, L=Zürich, ST=ZH, C=CH"), OwningKey: testKey(t, codecs, 1)}
	testutil.RequireRoundTrip(t, codecs.Party, party)
	testutil.RequireRoundTrip(t, codecs.AnonymousParty, AnonymousParty{OwningKey: testKey(t, codecs, 2)})

	foreign := signing.PublicKey{Scheme: signing.RSASHA256, Encoded: make([]byte, 294)}
	_, err := fixlen.Marshal(codecs.Party, Party{Name: party.Name, OwningKey: foreign})
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue, "key of another scheme")
}

func TestStateRef(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	ref := StateRef{TxHash: testHash(codecs, "tx"), Index: 3}
	testutil.RequireRoundTrip(t, codecs.StateRef, ref)

	wrong := StateRef{TxHash: SecureHash{Algorithm: digest.SHA512, Bytes: make([]byte, 64)}}
	_, err := fixlen.Marshal(codecs.StateRef, wrong)
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)

	short := StateRef{TxHash: SecureHash{Algorithm: digest.SHA256, Bytes: []byte{1}}}
	_, err = fixlen.Marshal(codecs.StateRef, short)
	testutil.RequireErrorIs(t, err, fixlen.ErrLengthMismatch)
}

func TestSecureHashText(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	hash := testHash(codecs, "abc")
	text, _ := hash.MarshalText()
	var parsed SecureHash
	if err := parsed.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if parsed.Algorithm != hash.Algorithm || !bytes.Equal(parsed.Bytes, hash.Bytes) {
		t.Errorf("text round trip: %s", parsed)
	}
	if hash.String() != digest.Format(codecs.Algorithm, hash.Bytes) {
		t.Errorf("String() = %s disagrees with digest.Format", hash)
	}
}

func TestInstant(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	for _, instant := range []time.Time{
		time.Unix(0, 0).UTC(),
		time.Date(2024, 2, 29, 13, 45, 1, 123456789, time.UTC),
		time.Date(1900, 1, 1, 0, 0, 0, 1, time.UTC),
	} {
		got := testutil.RoundTrip(t, codecs.Instant, instant)
		if !got.Equal(instant) {
			t.Errorf("instant round trip: got %s, want %s", got, instant)
		}
	}

	local := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	if got := testutil.RoundTrip(t, codecs.Instant, local); !got.Equal(local) || got.Location() != time.UTC {
		t.Errorf("zoned instant decoded as %s", got)
	}

	malformed := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x3b, 0x9a, 0xca, 0x00}
	_, err := fixlen.Unmarshal(codecs.Instant, malformed)
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed, "nanos of one full second")
}

func TestDuration(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	for _, duration := range []time.Duration{
		0, time.Nanosecond, -time.Nanosecond, -1500 * time.Millisecond, 36 * time.Hour,
		math.MaxInt64, math.MinInt64,
	} {
		if got := testutil.RoundTrip(t, codecs.Duration, duration); got != duration {
			t.Errorf("duration round trip: got %d, want %d", got, duration)
		}
	}

	encoded, _ := fixlen.Marshal(codecs.Duration, -1500*time.Millisecond)
	want := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe, 0x1d, 0xcd, 0x65, 0x00}
	if !bytes.Equal(encoded, want) {
		t.Errorf("-1.5s encoded as %x, want %x", encoded, want)
	}

	overflow := []byte{0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}
	_, err := fixlen.Unmarshal(codecs.Duration, overflow)
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed)
}

func TestTimeWindow(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	until := from.Add(time.Hour)

	for _, window := range []TimeWindow{Between(from, until), FromOnly(from), UntilOnly(until)} {
		got := testutil.RoundTrip(t, codecs.TimeWindow, window)
		if (got.From == nil) != (window.From == nil) || (got.Until == nil) != (window.Until == nil) {
			t.Errorf("bounds changed: got %+v, want %+v", got, window)
		}
		if got.From != nil && !got.From.Equal(*window.From) {
			t.Errorf("from = %s", got.From)
		}
		if got.Until != nil && !got.Until.Equal(*window.Until) {
			t.Errorf("until = %s", got.Until)
		}
	}

	_, err := fixlen.Marshal(codecs.TimeWindow, TimeWindow{})
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue, "unbounded window")
	testutil.RequireErrorIs(t, err, ErrInvalidTimeWindow)
	_, err = fixlen.Marshal(codecs.TimeWindow, Between(until, from))
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue, "inverted window")

	bothNull := make([]byte, codecs.TimeWindow.Descriptor().ByteSize)
	bothNull[0], bothNull[13] = 1, 1
	_, err = fixlen.Unmarshal(codecs.TimeWindow, bothNull)
	testutil.RequireErrorIs(t, err, fixlen.ErrMalformed, "window with two null bounds")

	windows := fixlen.List(codecs.TimeWindow, fixlen.CollectionConfig{Capacity: 3})
	got := testutil.RoundTrip(t, windows, []TimeWindow{FromOnly(from)})
	if len(got) != 1 {
		t.Errorf("padded window list decoded %d windows", len(got))
	}
}

func TestTimeWindowContains(t *testing.T) {
	t.Parallel()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	window := Between(from, from.Add(time.Hour))
	if !window.Contains(from) || window.Contains(from.Add(time.Hour)) || window.Contains(from.Add(-1)) {
		t.Error("Between should be inclusive of from and exclusive of until")
	}
	if !UntilOnly(from).Contains(from.Add(-24 * time.Hour)) {
		t.Error("UntilOnly should have no lower bound")
	}
}

func TestAttachmentConstraint(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	hash := testHash(codecs, "contract.jar")
	key := testKey(t, codecs, 9)

	for _, constraint := range []AttachmentConstraint{
		{Kind: AlwaysAccept},
		{Kind: HashConstraint, Hash: &hash},
		{Kind: WhitelistedByZone},
		{Kind: AutomaticPlaceholder},
		{Kind: SignatureConstraint, Key: &key},
	} {
		testutil.RequireRoundTrip(t, codecs.AttachmentConstraint, constraint, "kind %s", constraint.Kind)
	}

	for _, invalid := range []AttachmentConstraint{
		{Kind: HashConstraint},
		{Kind: AlwaysAccept, Key: &key},
		{Kind: "bogus"},
	} {
		_, err := fixlen.Marshal(codecs.AttachmentConstraint, invalid)
		testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue, "kind %s", invalid.Kind)
	}

	if codecs.AttachmentConstraint.Default().Kind != AlwaysAccept {
		t.Errorf("default kind = %s", codecs.AttachmentConstraint.Default().Kind)
	}
}

func TestUniqueIdentifier(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	external := "order-42"
	withExternal := UniqueIdentifier{ExternalID: &external, ID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")}
	testutil.RequireRoundTrip(t, codecs.UniqueIdentifier, withExternal)
	testutil.RequireRoundTrip(t, codecs.UniqueIdentifier, NewUniqueIdentifier(nil))

	if withExternal.String() != "order-42_6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("String() = %s", withExternal)
	}
	if size := codecs.UniqueIdentifier.Descriptor().ByteSize; size != 1+4+100+16 {
		t.Errorf("UniqueIdentifier is %d bytes", size)
	}
}

func TestCurrencyAndAmount(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	testutil.RequireRoundTrip(t, codecs.Currency, Currency("EUR"))
	_, err := fixlen.Marshal(codecs.Currency, "eur")
	testutil.RequireErrorIs(t, err, fixlen.ErrInvalidValue)
	if codecs.Currency.Default() != NoCurrency {
		t.Errorf("currency default = %s", codecs.Currency.Default())
	}

	currencies := fixlen.List(codecs.Currency, fixlen.CollectionConfig{Capacity: 2})
	encoded, err := fixlen.Marshal(currencies, []Currency{"USD"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(encoded, []byte("\x00\x00\x00\x01USDXXX")) {
		t.Errorf("currency list encoded as %q", encoded)
	}

	amount := Amount[Currency]{Quantity: 1050, DisplayTokenSize: fixlen.MustParseDecimal("0.01"), Token: "EUR"}
	got := testutil.RoundTrip(t, codecs.Amount, amount)
	if got.Quantity != amount.Quantity || got.Token != amount.Token || !got.DisplayTokenSize.Equal(amount.DisplayTokenSize) {
		t.Errorf("amount round trip: got %+v", got)
	}
	if display := amount.Display(); display.String() != "10.50" {
		t.Errorf("Display() = %s", display)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	registry := fixlen.NewRegistry()
	if err := codecs.Register(registry); err != nil {
		t.Fatalf("Register: %v", err)
	}

	party, err := fixlen.Lookup[Party](registry)
	if err != nil {
		t.Fatalf("Lookup[Party]: %v", err)
	}
	if party.Descriptor().ByteSize != codecs.Party.Descriptor().ByteSize {
		t.Error("registered Party codec differs")
	}
	if _, err := fixlen.Lookup[time.Duration](registry); err != nil {
		t.Errorf("Lookup[time.Duration]: %v", err)
	}
	if entry, err := registry.Entry("TimeWindow"); err != nil || entry.Codec.Descriptor().Name != "TimeWindow" {
		t.Errorf("Entry(TimeWindow) = %+v, %v", entry, err)
	}
	if len(registry.Entries()) != 13 {
		t.Errorf("registered %d codecs, want 13", len(registry.Entries()))
	}

	err = codecs.Register(registry)
	testutil.RequireErrorIs(t, err, fixlen.ErrDuplicateRegistration)
}

func TestDescriptorsVerifyAndNormalize(t *testing.T) {
	t.Parallel()
	codecs := newCodecs(t, DefaultConfig())
	for _, d := range []*descriptor.Descriptor{
		codecs.Party.Descriptor(), codecs.StateRef.Descriptor(), codecs.TimeWindow.Descriptor(),
		codecs.AttachmentConstraint.Descriptor(), codecs.Amount.Descriptor(),
	} {
		if err := descriptor.Verify(d, nil); err != nil {
			t.Errorf("Verify(%s): %v", d.Name, err)
		}
	}

	document, err := descriptor.Normalize(codecs.Party.Descriptor())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if _, ok := document.Resolve("PartyName"); !ok {
		t.Errorf("PartyName not extracted; definitions: %v", document.DefinitionNames())
	}
}
