// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ing-bank/zkflow-sub005/lib/fixlen"
	"github.com/ing-bank/zkflow-sub005/lib/signing"
)

// SecureHash is a digest tagged with the name of its algorithm.
type SecureHash struct {
	Algorithm string
	Bytes     []byte
}

// String returns the "ALGORITHM:HEX" form.
func (h SecureHash) String() string {
	return h.Algorithm + ":" + strings.ToUpper(hex.EncodeToString(h.Bytes))
}

// MarshalText returns [SecureHash.String].
func (h SecureHash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText parses the "ALGORITHM:HEX" form. The digest length is
// checked by the codec, which knows the algorithm's size.
func (h *SecureHash) UnmarshalText(text []byte) error {
	name, encoded, ok := strings.Cut(string(text), ":")
	if !ok {
		return fmt.Errorf("secure hash %q has no algorithm prefix", text)
	}
	sum, err := hex.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("secure hash %q: %w", text, err)
	}
	*h = SecureHash{Algorithm: strings.ToUpper(name), Bytes: sum}
	return nil
}

// Party is a well-known identity: a name and the key it signs with.
type Party struct {
	Name      PartyName         `json:"name"`
	OwningKey signing.PublicKey `json:"owning_key"`
}

// AnonymousParty is an identity known only by its key.
type AnonymousParty struct {
	OwningKey signing.PublicKey `json:"owning_key"`
}

// StateRef points at one output of a transaction.
type StateRef struct {
	TxHash SecureHash `json:"txhash"`
	Index  int32      `json:"index"`
}

// ErrInvalidTimeWindow is returned for windows with no bounds or with
// an end that is not after the start.
var ErrInvalidTimeWindow = errors.New("invalid time window")

// TimeWindow bounds when a transaction may be notarised. At least one
// bound is set. Until is exclusive.
type TimeWindow struct {
	From  *time.Time `json:"from,omitempty"`
	Until *time.Time `json:"until,omitempty"`
}

// Between returns the window [from, until).
func Between(from, until time.Time) TimeWindow {
	return TimeWindow{From: &from, Until: &until}
}

// FromOnly returns the window starting at from with no end.
func FromOnly(from time.Time) TimeWindow { return TimeWindow{From: &from} }

// UntilOnly returns the window ending at until with no start.
func UntilOnly(until time.Time) TimeWindow { return TimeWindow{Until: &until} }

// Validate checks that the window is bounded and not empty.
func (w TimeWindow) Validate() error {
	switch {
	case w.From == nil && w.Until == nil:
		return fmt.Errorf("%w: no bounds", ErrInvalidTimeWindow)
	case w.From != nil && w.Until != nil && !w.Until.After(*w.From):
		return fmt.Errorf("%w: until %s is not after from %s", ErrInvalidTimeWindow,
			w.Until.Format(time.RFC3339Nano), w.From.Format(time.RFC3339Nano))
	}
	return nil
}

// Contains reports whether instant falls inside the window.
func (w TimeWindow) Contains(instant time.Time) bool {
	if w.From != nil && instant.Before(*w.From) {
		return false
	}
	if w.Until != nil && !instant.Before(*w.Until) {
		return false
	}
	return true
}

// ConstraintKind selects how a contract attachment is constrained.
type ConstraintKind string

// Constraint kinds in ordinal order.
const (
	AlwaysAccept         ConstraintKind = "always_accept"
	HashConstraint       ConstraintKind = "hash"
	WhitelistedByZone    ConstraintKind = "whitelisted_by_zone"
	AutomaticPlaceholder ConstraintKind = "automatic_placeholder"
	SignatureConstraint  ConstraintKind = "signature"
)

// ErrInvalidConstraint is returned when an attachment constraint's
// fields do not match its kind.
var ErrInvalidConstraint = errors.New("invalid attachment constraint")

// AttachmentConstraint restricts which attachments may carry a
// contract. Hash constraints carry the attachment hash; signature
// constraints carry the signing key; the other kinds carry neither.
type AttachmentConstraint struct {
	Kind ConstraintKind     `json:"kind"`
	Hash *SecureHash        `json:"hash,omitempty"`
	Key  *signing.PublicKey `json:"key,omitempty"`
}

// Validate checks that exactly the fields required by Kind are set.
func (c AttachmentConstraint) Validate() error {
	wantHash := c.Kind == HashConstraint
	wantKey := c.Kind == SignatureConstraint
	switch {
	case (c.Hash != nil) != wantHash:
		return fmt.Errorf("%w: %s constraint with hash set=%t", ErrInvalidConstraint, c.Kind, c.Hash != nil)
	case (c.Key != nil) != wantKey:
		return fmt.Errorf("%w: %s constraint with key set=%t", ErrInvalidConstraint, c.Kind, c.Key != nil)
	}
	return nil
}

// MaxExternalIDLength is the UTF-8 byte limit of external ids.
const MaxExternalIDLength = 100

// UniqueIdentifier identifies a linear state: a random UUID plus an
// optional identifier assigned outside the ledger.
type UniqueIdentifier struct {
	ExternalID *string   `json:"external_id,omitempty"`
	ID         uuid.UUID `json:"id"`
}

// NewUniqueIdentifier returns an identifier with a random UUID.
func NewUniqueIdentifier(externalID *string) UniqueIdentifier {
	return UniqueIdentifier{ExternalID: externalID, ID: uuid.New()}
}

// String returns "external_uuid", or the UUID alone.
func (u UniqueIdentifier) String() string {
	if u.ExternalID == nil {
		return u.ID.String()
	}
	return *u.ExternalID + "_" + u.ID.String()
}

// Currency is an ISO 4217 code.
type Currency string

// NoCurrency is the ISO 4217 code for transactions without a currency.
const NoCurrency Currency = "XXX"

// Validate checks for three upper-case ASCII letters.
func (c Currency) Validate() error {
	if !isUpperASCII(string(c), 3) {
		return fmt.Errorf("%q is not an ISO 4217 currency code", string(c))
	}
	return nil
}

// Amount is a quantity of a token in its smallest unit.
// DisplayTokenSize is the value of one unit, so the displayed amount
// is Quantity × DisplayTokenSize.
type Amount[T any] struct {
	Quantity         int64          `json:"quantity"`
	DisplayTokenSize fixlen.Decimal `json:"display_token_size"`
	Token            T              `json:"token"`
}

// Display returns Quantity × DisplayTokenSize.
func (a Amount[T]) Display() fixlen.Decimal {
	product := a.DisplayTokenSize.Unscaled()
	product.Mul(product, big.NewInt(a.Quantity))
	return fixlen.NewDecimal(product, a.DisplayTokenSize.Scale())
}
